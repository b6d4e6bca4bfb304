package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// MemoryStore keeps values in a map.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Load(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Save(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes++
	return nil
}

// Writes counts Save calls.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// FileStore persists values as a flat YAML map on disk. It is what the
// terminal preview uses in place of browser local storage.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore stores preferences at path. The parent directory is created
// on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath returns preferences.yml under the user config directory.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "portfolio", "preferences.yml"), nil
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return values, nil
}

func (s *FileStore) Load(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *FileStore) Save(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		// A corrupt file is overwritten rather than blocking every toggle.
		values = map[string]string{}
	}
	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preferences dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}
