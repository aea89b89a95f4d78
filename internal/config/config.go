// Package config loads the optional JSON configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/metcalfc/seqh/internal/export"
)

const fileName = "config.json"

type Config struct {
	LogLevel      string `json:"log_level"`
	LogFile       string `json:"log_file"`
	DefaultFormat string `json:"default_format"`
	Split         bool   `json:"split"`
	// PreviewWidth is how many residues the record list shows before truncating.
	PreviewWidth int `json:"preview_width"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		LogLevel:      "info",
		DefaultFormat: "FASTA",
		PreviewWidth:  100,
	}
}

// DefaultPath returns XDG_CONFIG_HOME/seqh/config.json or ~/.config/seqh/config.json.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "seqh", fileName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "seqh", fileName)
}

// Load reads the config at path, or DefaultPath when path is empty.
// A missing file yields the defaults. Unknown fields are rejected.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		path = DefaultPath()
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Defaults(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := export.ParseFormat(c.DefaultFormat); err != nil {
		return fmt.Errorf("default_format: %w", err)
	}
	if c.PreviewWidth < 0 {
		return fmt.Errorf("preview_width must not be negative, got %d", c.PreviewWidth)
	}
	return nil
}

// Level parses LogLevel. "warning" is accepted for "warn".
func (c Config) Level() (log.Level, error) {
	s := strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch s {
	case "":
		return log.InfoLevel, nil
	case "warning":
		s = "warn"
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
