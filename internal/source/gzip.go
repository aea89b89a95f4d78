package source

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// GzipFormat implements Format for gzip-compressed sequence files.
type GzipFormat struct{}

func init() {
	Register(&GzipFormat{})
}

func (f *GzipFormat) Name() string         { return "Gzip" }
func (f *GzipFormat) Extensions() []string { return []string{".gz", ".gzip"} }

func (f *GzipFormat) Extract(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return gunzip(file)
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

func gunzip(r io.Reader) (string, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	var out strings.Builder
	if _, err := io.Copy(&out, gz); err != nil {
		return "", fmt.Errorf("failed to decompress: %w", err)
	}
	return out.String(), nil
}
