// Package source turns input files into raw text ready for parsing.
package source

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format defines a file format reader for extracting text.
type Format interface {
	Name() string
	Extensions() []string
	Extract(filename string) (string, error)
}

var registry []Format

// Register adds a format reader to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Lookup returns the format registered for the file's extension, if any.
func Lookup(filename string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f, true
			}
		}
	}
	return nil, false
}

// ExtractText extracts text from a file, using a registered format or plain text fallback.
// Gzip data is detected by its magic bytes whatever the file is called.
func ExtractText(filename string) (string, error) {
	if f, ok := Lookup(filename); ok {
		return f.Extract(filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	if isGzip(data) {
		return gunzip(bytes.NewReader(data))
	}
	return string(data), nil
}

// Open returns a reader over the extracted text of filename.
func Open(filename string) (io.Reader, error) {
	text, err := ExtractText(filename)
	if err != nil {
		return nil, err
	}
	return strings.NewReader(text), nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	out := []string{"FASTA/text (any other extension)"}
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}
