package export

import (
	"errors"
	"fmt"
)

// Validation failures. Nothing is written when one of these is returned.
var (
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrNoDestination     = errors.New("no destination directory chosen")
	ErrNoSelection       = errors.New("no records selected")
	ErrDestinationNotDir = errors.New("destination is not a directory")
)

// ExportError reports why an export was aborted.
type ExportError struct {
	Reason string
	// Path is the file being written when an I/O failure occurred.
	Path string
	// Written lists files completed before the failure. They are left in place.
	Written []string
	Err     error
}

func (e *ExportError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("export %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return "export: " + e.Reason
}

func (e *ExportError) Unwrap() error { return e.Err }

func validation(err error) *ExportError {
	return &ExportError{Reason: err.Error(), Err: err}
}

// IsValidation reports whether err is a validation failure rather than an I/O error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrNoDestination) ||
		errors.Is(err, ErrNoSelection) ||
		errors.Is(err, ErrDestinationNotDir)
}
