package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/toml"
)

// Store persists Settings. Implementations must be safe for concurrent use.
//
// Load reports ok=false when the store is empty. Save writes all three fields at once;
// readers never observe a partially applied update.
type Store interface {
	Load() (s Settings, ok bool, err error)
	Save(Settings) error
}

// MemoryStore keeps settings in process memory.
//
// The zero value is an empty store.
type MemoryStore struct {
	p atomic.Pointer[Settings]
}

// NewMemoryStore creates a store holding s.
func NewMemoryStore(s Settings) *MemoryStore {
	m := &MemoryStore{}
	m.p.Store(&s)
	return m
}

func (m *MemoryStore) Load() (Settings, bool, error) {
	p := m.p.Load()
	if p == nil {
		return Settings{}, false, nil
	}
	return *p, true, nil
}

func (m *MemoryStore) Save(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.p.Store(&s)
	return nil
}

// Clear empties the store.
func (m *MemoryStore) Clear() { m.p.Store(nil) }

// FileStore keeps settings in a TOML file.
//
// A missing file is an empty store. Save writes a temporary file in the same directory
// and renames it over the target.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path. The file need not exist.
func NewFileStore(path string) *FileStore {
	if path == "" {
		panic("settings: NewFileStore called with empty path")
	}
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load() (Settings, bool, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Settings{}, false, nil
	}
	if err != nil {
		return Settings{}, false, fmt.Errorf("settings: read %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return Settings{}, false, nil
	}
	s := Default()
	if _, err := toml.Decode(string(b), &s); err != nil {
		return Settings{}, false, fmt.Errorf("settings: decode %s: %w", f.path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, false, fmt.Errorf("settings: %s: %w", f.path, err)
	}
	return s, true, nil
}

func (f *FileStore) Save(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("settings: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("settings: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("settings: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("settings: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("settings: rename: %w", err)
	}
	return nil
}

// Clear removes the backing file, leaving the store empty.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("settings: clear: %w", err)
	}
	return nil
}
