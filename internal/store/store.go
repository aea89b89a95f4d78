// Package store holds the loaded dataset together with the current view and the
// export marks, and serializes every operation on them.
package store

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/metcalfc/seqh/internal/export"
	"github.com/metcalfc/seqh/internal/sequence"
	"github.com/metcalfc/seqh/internal/source"
)

// InputError reports an input file that could not be read or parsed.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }
func (e *InputError) Unwrap() error { return e.Err }

// SequenceStore owns the dataset, the selection view and the selection marks.
type SequenceStore struct {
	mu       sync.Mutex
	log      *log.Logger
	exporter *export.Exporter

	files   []string
	dataset sequence.Dataset
	view    sequence.Result
	query   string
	marks   map[int]bool
}

// New creates an empty store. A nil logger discards output.
func New(logger *log.Logger) *SequenceStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SequenceStore{
		log:      logger,
		exporter: export.New(logger),
		view:     sequence.AllOf(0),
		marks:    make(map[int]bool),
	}
}

// Load replaces the dataset with the records of paths, concatenated in order.
// Every path is read before anything changes: if one fails, Load returns an
// *InputError and the store keeps its previous contents.
func (s *SequenceStore) Load(paths []string) error {
	var ds sequence.Dataset
	for _, p := range paths {
		r, err := source.Open(p)
		if err != nil {
			s.log.Error("failed to read input", "path", p, "err", err)
			return &InputError{Path: p, Err: err}
		}
		recs, err := sequence.ParseReader(r)
		if err != nil {
			s.log.Error("failed to parse input", "path", p, "err", err)
			return &InputError{Path: p, Err: err}
		}
		s.log.Debug("parsed input", "path", p, "records", len(recs))
		ds = append(ds, recs...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append([]string(nil), paths...)
	s.dataset = ds
	s.view = sequence.AllOf(len(ds))
	s.query = ""
	s.marks = make(map[int]bool)
	s.log.Info("loaded sequences", "files", len(paths), "records", len(ds))
	return nil
}

// Files returns the paths of the last successful load.
func (s *SequenceStore) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.files...)
}

// Len returns the number of records in the dataset.
func (s *SequenceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dataset)
}

// Records returns a copy of the dataset.
func (s *SequenceStore) Records() sequence.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(sequence.Dataset(nil), s.dataset...)
}

// Record returns the record at dataset index i.
func (s *SequenceStore) Record(i int) (sequence.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.dataset) {
		return sequence.Record{}, false
	}
	return s.dataset[i], true
}

// View returns the current selection view.
func (s *SequenceStore) View() sequence.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyResult(s.view)
}

// Query returns the query that produced the current view.
func (s *SequenceStore) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Search filters the dataset and makes the result the current view.
// When a non-empty query matches nothing the view reverts to all records and
// fellBack is true; the returned result is still the empty filtered one.
func (s *SequenceStore) Search(query string) (res sequence.Result, fellBack bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res = sequence.Search(s.dataset, query)
	if res.Empty() {
		s.view = sequence.AllOf(len(s.dataset))
		s.query = ""
		s.log.Info("search matched nothing, showing all", "query", query)
		return res, true
	}
	s.view = copyResult(res)
	s.query = query
	s.log.Debug("search", "query", query, "mode", res.Mode, "matches", len(res.Indices))
	return res, false
}

// SetMark marks or unmarks dataset index i for export.
func (s *SequenceStore) SetMark(i int, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.dataset) {
		return
	}
	s.marks[i] = on
}

// ToggleMark flips the mark of dataset index i and returns the new state.
func (s *SequenceStore) ToggleMark(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.dataset) {
		return false
	}
	s.marks[i] = !s.marks[i]
	return s.marks[i]
}

// Marked reports whether dataset index i is marked.
func (s *SequenceStore) Marked(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marks[i]
}

// MarkView sets the mark of every index in the current view.
func (s *SequenceStore) MarkView(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, i := range s.view.Indices {
		s.marks[i] = on
	}
}

// Selected returns the marked records of the current view in dataset order.
func (s *SequenceStore) Selected() []sequence.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLocked()
}

func (s *SequenceStore) selectedLocked() []sequence.Record {
	idx := make([]int, 0, len(s.view.Indices))
	for _, i := range s.view.Indices {
		if s.marks[i] {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)

	out := make([]sequence.Record, len(idx))
	for k, i := range idx {
		out[k] = s.dataset[i]
	}
	return out
}

// TransformGaps replaces the dataset with its gap-transformed copy.
// The view is reset to all records and marks outside the new dataset are dropped.
func (s *SequenceStore) TransformGaps(mode sequence.GapMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dataset = sequence.TransformGaps(s.dataset, mode)
	s.view = sequence.AllOf(len(s.dataset))
	s.query = ""
	for i := range s.marks {
		if i >= len(s.dataset) {
			delete(s.marks, i)
		}
	}
	s.log.Info("processed gaps", "mode", mode, "records", len(s.dataset))
}

// Overview summarises the dataset.
func (s *SequenceStore) Overview() sequence.Overview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sequence.Summarize(s.dataset)
}

// Export writes the selected records to dir.
func (s *SequenceStore) Export(f export.Format, mode export.Mode, dir string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exporter.Export(s.selectedLocked(), f, mode, dir)
}

func copyResult(r sequence.Result) sequence.Result {
	return sequence.Result{Mode: r.Mode, Indices: append([]int{}, r.Indices...)}
}
