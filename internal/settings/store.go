package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store persists raw key/value settings. Implementations must be safe for
// concurrent use.
type Store interface {
	Load() (map[string]any, error)
	Save(values map[string]any) error
}

// MemoryStore keeps settings in process memory
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]any
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]any)}
}

// Load returns a copy of the stored values
func (s *MemoryStore) Load() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.values), nil
}

// Save replaces the stored values
func (s *MemoryStore) Save(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = maps.Clone(values)
	return nil
}

// FileStore keeps settings in a YAML file. The file is re-read on every
// Load so edits made by another process are picked up.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the YAML file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the file; a missing file is an empty store
func (s *FileStore) Load() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return values, nil
}

// Save writes the file atomically
func (s *FileStore) Save(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}
