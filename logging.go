package main

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/metcalfc/seqh/internal/config"
)

// logOutput picks where log lines go. Interactive front ends own the terminal, so
// they only log to the configured file; batch runs also log to stderr.
func logOutput(cfg config.Config, interactive bool, stderr io.Writer) (io.Writer, func(), error) {
	var out io.Writer = io.Discard
	if !interactive {
		out = stderr
	}
	closeFn := func() {}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return out, closeFn, err
		}
		if interactive {
			out = f
		} else {
			out = io.MultiWriter(stderr, f)
		}
		closeFn = func() { _ = f.Close() }
	}
	return out, closeFn, nil
}

// newLogger builds the process logger. verbose forces debug level.
func newLogger(cfg config.Config, verbose bool, out io.Writer) *log.Logger {
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "seqh",
	})

	lvl, err := cfg.Level()
	if verbose {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
	if err != nil {
		logger.Warn("unknown log_level in config, defaulting to info", "provided", cfg.LogLevel)
	}
	return logger
}
