package database

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"bookmarksync/internal/fsutil"
)

// FileStore implements KVStore using one JSON file per key on the local filesystem.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

func NewFileStore(basePath string) (*FileStore, error) {
	dir := filepath.Join(basePath, "rules")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create rules directory: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

// Keys are path-escaped so arbitrary ids cannot leave the rules directory.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

func (s *FileStore) GetAll(ctx context.Context) (Records, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	records := make(Records, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		key, err := url.PathUnescape(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue // Not written by this store
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read record %s: %w", key, err)
		}
		records[key] = data
	}

	return records, nil
}

func (s *FileStore) Get(ctx context.Context, key string) (Records, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return Records{}, nil
		}
		return nil, err
	}

	return Records{key: data}, nil
}

func (s *FileStore) Set(ctx context.Context, records Records) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, data := range records {
		if err := fsutil.WriteFileAtomic(s.path(key), data, 0o644); err != nil {
			return fmt.Errorf("failed to write record %s: %w", key, err)
		}
	}
	return nil
}

func (s *FileStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil {
		if os.IsNotExist(err) {
			return nil // Already gone
		}
		return err
	}
	return nil
}
