package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const stateFileName = "session.json"

// Session stores the choices of the previous run.
type Session struct {
	Files     []string `json:"files,omitempty"`
	ExportDir string   `json:"export_dir,omitempty"`
	Format    string   `json:"format,omitempty"`
	Split     bool     `json:"split,omitempty"`
	GapMode   string   `json:"gap_mode,omitempty"`
}

// StateStore manages persistent session state
type StateStore struct {
	path string
	data Session
	mu   sync.RWMutex
}

// NewStateStore creates or loads state from XDG_STATE_HOME/seqh/
func NewStateStore() (*StateStore, error) {
	dir := getStateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &StateStore{
		path: filepath.Join(dir, stateFileName),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty state
		store.data = Session{}
	}
	return store, nil
}

// getStateDir returns XDG_STATE_HOME/seqh or ~/.local/state/seqh
func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "seqh")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "seqh")
}

// Path returns the file the session is saved to.
func (s *StateStore) Path() string {
	return s.path
}

// Session returns a copy of the saved session.
func (s *StateStore) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.data
	out.Files = append([]string(nil), s.data.Files...)
	return out
}

// SetFiles records the files of the last successful load.
// Paths are stored absolute so they resolve from any working directory.
func (s *StateStore) SetFiles(paths []string) error {
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		if a, err := filepath.Abs(p); err == nil {
			p = a
		}
		abs = append(abs, p)
	}
	return s.update(func(d *Session) { d.Files = abs })
}

// SetExport records the destination and options of the last export.
func (s *StateStore) SetExport(dir, format string, split bool) error {
	return s.update(func(d *Session) {
		d.ExportDir = dir
		d.Format = format
		d.Split = split
	})
}

// SetGapMode records the last gap mode applied.
func (s *StateStore) SetGapMode(mode string) error {
	return s.update(func(d *Session) { d.GapMode = mode })
}

// Clear removes the saved session.
func (s *StateStore) Clear() error {
	return s.update(func(d *Session) { *d = Session{} })
}

func (s *StateStore) update(fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
	return s.save()
}

func (s *StateStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *StateStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
