package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/metcalfc/seqh/internal/sequence"
)

// Mode chooses between one combined file and one file per record.
type Mode int

const (
	Single Mode = iota
	Multi
)

func (m Mode) String() string {
	if m == Multi {
		return "multi"
	}
	return "single"
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "":
		return Single, nil
	case "multi", "split":
		return Multi, nil
	}
	return Single, fmt.Errorf("unknown export mode %q (want single or multi)", s)
}

const (
	singleBase = "selected_sequences"
	multiBase  = "sequence_"
)

// FileName returns the name of the n-th output file (1-based) for f in mode.
func FileName(f Format, mode Mode, n int) string {
	if mode == Single {
		return singleBase + f.Extension()
	}
	return fmt.Sprintf("%s%d%s", multiBase, n, f.Extension())
}

// Exporter writes records to a destination directory.
type Exporter struct {
	log      *log.Logger
	permFile os.FileMode
	bufSize  int
}

// New creates an Exporter. A nil logger discards output.
func New(logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Exporter{log: logger, permFile: 0o644, bufSize: 64 * 1024}
}

// Export writes recs to dir in format f and returns the paths written, in order.
// Records are written in the order given. Each file is replaced atomically; in multi
// mode a failure leaves earlier files in place and lists them in the ExportError.
func (e *Exporter) Export(recs []sequence.Record, f Format, mode Mode, dir string) ([]string, error) {
	if f == nil {
		return nil, validation(ErrUnsupportedFormat)
	}
	if strings.TrimSpace(dir) == "" {
		return nil, validation(ErrNoDestination)
	}
	if len(recs) == 0 {
		return nil, validation(ErrNoSelection)
	}
	if fi, err := os.Stat(dir); err != nil {
		return nil, &ExportError{Reason: "cannot use destination", Path: dir, Err: err}
	} else if !fi.IsDir() {
		return nil, validation(fmt.Errorf("%w: %s", ErrDestinationNotDir, dir))
	}

	start := time.Now()
	var written []string

	if mode == Single {
		path := filepath.Join(dir, FileName(f, Single, 1))
		if err := e.writeAtomic(path, func(w io.Writer) error { return f.WriteAll(w, recs) }); err != nil {
			return nil, &ExportError{Reason: "write failed", Path: path, Err: err}
		}
		written = append(written, path)
	} else {
		for i, r := range recs {
			path := filepath.Join(dir, FileName(f, Multi, i+1))
			if err := e.writeAtomic(path, func(w io.Writer) error { return f.WriteOne(w, r) }); err != nil {
				e.log.Error("export aborted", "path", path, "written", len(written), "err", err)
				return written, &ExportError{Reason: "write failed", Path: path, Written: written, Err: err}
			}
			written = append(written, path)
		}
	}

	e.log.Info("exported records", "format", f.Name(), "mode", mode, "records", len(recs),
		"files", len(written), "dir", dir, "duration", time.Since(start))
	return written, nil
}

// writeAtomic writes through a temporary file in the destination directory and
// renames it over path once the content is flushed and synced.
func (e *Exporter) writeAtomic(path string, fill func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".seqh-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, e.permFile)

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	bw := bufio.NewWriterSize(tmp, e.bufSize)
	if err := fill(bw); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	e.log.Debug("wrote file", "path", path)
	return nil
}
