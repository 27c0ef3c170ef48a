package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	cacheFileExtension = ".json"
	cacheDirPerm       = 0o750
	cacheFilePerm      = 0o600
)

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// Store is a TTL cache of JSON values.
type Store interface {
	// Get returns the entry for key, ErrCacheNotFound, or ErrCacheExpired.
	Get(ctx context.Context, key string) (*Entry, error)
	// Set stores data under key with the store's TTL.
	Set(ctx context.Context, key string, data json.RawMessage) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Clear drops every entry.
	Clear(ctx context.Context) error
	// Enabled reports whether the store caches anything.
	Enabled() bool
}

// IsMiss reports whether err only means the value is not cached.
func IsMiss(err error) bool {
	return errors.Is(err, ErrCacheNotFound) ||
		errors.Is(err, ErrCacheExpired) ||
		errors.Is(err, ErrCacheDisabled)
}

// FileStore keeps one JSON file per entry in a directory.
// It is safe for concurrent use within one process.
type FileStore struct {
	directory  string
	enabled    bool
	ttlSeconds int

	mu sync.RWMutex
}

// NewFileStore creates the directory if needed. A disabled store accepts
// every call and caches nothing.
func NewFileStore(directory string, enabled bool, ttlSeconds int) (*FileStore, error) {
	if !enabled {
		return &FileStore{enabled: false}, nil
	}
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(directory, cacheDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{
		directory:  directory,
		enabled:    true,
		ttlSeconds: ttlSeconds,
	}, nil
}

// Enabled implements Store.
func (s *FileStore) Enabled() bool { return s.enabled }

// Get implements Store. Expired files are removed.
func (s *FileStore) Get(_ context.Context, key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrCacheDisabled
	}
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	filePath := s.keyToFilePath(key)

	s.mu.RLock()
	data, err := os.ReadFile(filePath)
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", unmarshalErr)
	}

	if entry.IsExpired() {
		s.mu.Lock()
		_ = os.Remove(filePath)
		s.mu.Unlock()
		return nil, ErrCacheExpired
	}
	return &entry, nil
}

// Set implements Store. Files are written to a temporary name and renamed.
func (s *FileStore) Set(_ context.Context, key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	entryData, err := json.Marshal(NewEntry(key, data, s.ttlSeconds))
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.keyToFilePath(key)
	tempPath := filePath + ".tmp"
	if writeErr := os.WriteFile(tempPath, entryData, cacheFilePerm); writeErr != nil {
		return fmt.Errorf("failed to write cache file: %w", writeErr)
	}
	if renameErr := os.Rename(tempPath, filePath); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache file: %w", renameErr)
	}
	return nil
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, key string) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.keyToFilePath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Clear implements Store. Only cache files are removed.
func (s *FileStore) Clear(_ context.Context) error {
	if !s.enabled {
		return ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.walk(func(path string, _ []byte) error {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove cache file %s: %w", filepath.Base(path), err)
		}
		return nil
	})
}

// CleanupExpired removes expired entries and returns how many were removed.
func (s *FileStore) CleanupExpired() (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	err := s.walk(func(path string, data []byte) error {
		var entry Entry
		if json.Unmarshal(data, &entry) != nil || !entry.IsExpired() {
			return nil
		}
		if os.Remove(path) == nil {
			removed++
		}
		return nil
	})
	return removed, err
}

// Stats returns the number of entries and their total size in bytes,
// expired ones included.
func (s *FileStore) Stats() (int, int64, error) {
	if !s.enabled {
		return 0, 0, ErrCacheDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	var size int64
	err := s.walk(func(_ string, data []byte) error {
		count++
		size += int64(len(data))
		return nil
	})
	return count, size, err
}

// Directory returns the cache directory.
func (s *FileStore) Directory() string { return s.directory }

// TTL returns the entry TTL in seconds.
func (s *FileStore) TTL() int { return s.ttlSeconds }

// walk calls fn for every cache file. Unreadable files are skipped.
func (s *FileStore) walk(fn func(path string, data []byte) error) error {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != cacheFileExtension {
			continue
		}
		path := filepath.Join(s.directory, de.Name())
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		if fnErr := fn(path, data); fnErr != nil {
			return fnErr
		}
	}
	return nil
}

// keyToFilePath maps a key to a filesystem-safe file name.
func (s *FileStore) keyToFilePath(key string) string {
	safeKey := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.directory, safeKey+cacheFileExtension)
}
