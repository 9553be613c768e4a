package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
)

// FileSystemStore is a filesystem-based implementation of the KVStore
// interface. Each key is one file under the root directory:
//
//	<root>/
//	  keys/
//	    <key>     (value bytes)
//
// Writes go through a temp file plus rename, so a crashed write never
// leaves a half-written value behind.
type FileSystemStore struct {
	name    string
	root    string
	keysDir string
}

// NewFileSystemStore creates a new filesystem store rooted at the given path.
func NewFileSystemStore(name, root string) (*FileSystemStore, error) {
	keysDir := filepath.Join(root, "keys")
	if err := os.MkdirAll(keysDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create keys directory: %w", err)
	}

	return &FileSystemStore{
		name:    name,
		root:    root,
		keysDir: keysDir,
	}, nil
}

// keyPath validates the key and returns its file path. Keys map directly
// to file names, so path separators and relative elements are rejected.
func (s *FileSystemStore) keyPath(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
		default:
			return "", fmt.Errorf("invalid key %q: character %q not allowed", key, r)
		}
	}
	if key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.keysDir, key), nil
}

// Get returns the value stored under key.
func (s *FileSystemStore) Get(key string) ([]byte, bool, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return data, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *FileSystemStore) Put(key string, value []byte) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.keysDir, "."+key+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for key %q: %w", key, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file for key %q: %w", key, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *FileSystemStore) Delete(key string) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// ValidateSetup verifies the keys directory exists and is writable.
func (s *FileSystemStore) ValidateSetup() error {
	info, err := os.Stat(s.keysDir)
	if err != nil {
		return fmt.Errorf("keys directory inaccessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("keys path is not a directory: %s", s.keysDir)
	}

	probe, err := os.CreateTemp(s.keysDir, ".probe-*")
	if err != nil {
		return fmt.Errorf("keys directory not writable: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// Close is a no-op for the filesystem store.
func (s *FileSystemStore) Close() error {
	return nil
}

// Compile-time check that FileSystemStore implements shop.KVStore
var _ shop.KVStore = (*FileSystemStore)(nil)
