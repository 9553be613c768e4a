package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func newTestFSStore(t *testing.T) *FileSystemStore {
	t.Helper()
	s, err := NewFileSystemStore("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	return s
}

func TestFileSystemStore_PutAndGet(t *testing.T) {
	s := newTestFSStore(t)

	value := []byte(`{"data":[{"id":"1"}],"_timestamp":1000}`)
	if err := s.Put("admin_products", value); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := s.Get("admin_products")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if !bytes.Equal(got, value) {
		t.Errorf("Get() = %q, want %q", got, value)
	}
}

func TestFileSystemStore_GetAbsent(t *testing.T) {
	s := newTestFSStore(t)

	_, ok, err := s.Get("nonexistent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true for absent key, want false")
	}
}

func TestFileSystemStore_KeyValidation(t *testing.T) {
	s := newTestFSStore(t)

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "plain key", key: "global_timestamp", wantErr: false},
		{name: "dotted key", key: "backup.v1", wantErr: false},
		{name: "empty key", key: "", wantErr: true},
		{name: "path separator", key: "a/b", wantErr: true},
		{name: "parent traversal", key: "..", wantErr: true},
		{name: "space", key: "a b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Put(tt.key, []byte("v"))
			if (err != nil) != tt.wantErr {
				t.Errorf("Put(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestFileSystemStore_DeleteIdempotent(t *testing.T) {
	s := newTestFSStore(t)

	if err := s.Put("k", []byte("v")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.Delete("k"); err != nil {
			t.Fatalf("Delete() iteration %d error = %v", i+1, err)
		}
	}
}

func TestFileSystemStore_PutLeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileSystemStore("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	if err := s.Put("k", []byte("v")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(root, "keys"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("keys dir has %d entries, want 1: %v", len(entries), names)
	}
}

func TestFileSystemStore_ValidateSetup(t *testing.T) {
	s := newTestFSStore(t)
	if err := s.ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}
}
