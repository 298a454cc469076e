package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/clearview/vista/backend/pkg/logger"
)

// FileStore keeps each document in its own JSON file under a data
// directory. Writes go through a temp file and rename so a crash never
// leaves a half-written document behind.
type FileStore struct {
	dir string
	log *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileStore{
		dir:   dir,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (s *FileStore) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, key string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// Put implements Store.
func (s *FileStore) Put(ctx context.Context, key string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}

	s.log.WithFields(map[string]interface{}{
		"key":   key,
		"bytes": len(data),
	}).Debug("Document persisted")

	return nil
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// List implements Store.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data dir: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}
