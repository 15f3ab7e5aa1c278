package settings

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	apperrors "github.com/sdlaunch/tunnelhub/internal/errors"
)

// Store is the read/write interface over the settings collaborator.
// Read reports whether a non-empty value exists for the key; Write persists
// the value for later runs.
type Store interface {
	Read(key string) (string, bool)
	Write(key, value string) error
}

// FileStore is a Store backed by a JSON settings file, the same file the
// surrounding notebook layer maintains. Tokens can change between
// orchestration calls, so values are read from the loaded state on demand
// rather than cached in the consumer.
type FileStore struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// Open loads the settings file at path. A missing file is not an error:
// the store starts empty and the file is created on first Write.
func Open(path string) (*FileStore, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, apperrors.WrapError(err, "read settings file %s", path)
			}
		}
	}

	return &FileStore{v: v, path: path}, nil
}

// Read returns the value for key and whether it is present and non-empty.
func (s *FileStore) Read(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val := s.v.GetString(key)
	return val, val != ""
}

// Write sets key to value and persists the whole settings file. Concurrent
// invocations are last-writer-wins, which is acceptable for the idempotent
// values stored here.
func (s *FileStore) Write(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(key, value)
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "create settings directory %s", dir)
		}
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return apperrors.WrapError(err, "write settings file %s", s.path)
	}
	return nil
}

// MemStore is an in-memory Store for tests and for callers that do not
// persist settings.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemStore creates a MemStore seeded with the given values.
func NewMemStore(values map[string]string) *MemStore {
	m := &MemStore{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Read returns the value for key and whether it is present and non-empty.
func (m *MemStore) Read(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val := m.values[key]
	return val, val != ""
}

// Write sets key to value.
func (m *MemStore) Write(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
