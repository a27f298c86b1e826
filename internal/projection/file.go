package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore is a durable Store backed by a single JSON file. Suitable for
// the session cache of one local process; not safe across processes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileEntry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// NewFileStore creates a file-backed store at path, creating parent
// directories as needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	e, ok := data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if e.ExpiresAt != nil && time.Now().After(*e.ExpiresAt) {
		delete(data, key)
		_ = s.save(data)
		return nil, fmt.Errorf("%w: %s (expired)", ErrKeyNotFound, key)
	}
	return e.Value, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return err
	}
	e := fileEntry{Value: value}
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		e.ExpiresAt = &exp
	}
	data[key] = e
	return s.save(data)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return err
	}
	delete(data, key)
	return s.save(data)
}

func (s *FileStore) load() (map[string]fileEntry, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]fileEntry), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	data := make(map[string]fileEntry)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			// A corrupt cache file is discarded, not fatal.
			return make(map[string]fileEntry), nil
		}
	}
	return data, nil
}

func (s *FileStore) save(data map[string]fileEntry) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal cache file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return os.Rename(tmp, s.path)
}
