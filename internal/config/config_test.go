package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		InstanceID: "test-instance-abc",
		BaseDir:    "/home/user/.local/share/mefrac",
		LogDir:     "/home/user/.local/share/mefrac/log",
		Store: StoreConfig{
			Type:      "filesystem",
			Name:      "local",
			FSRoot:    "/srv/mefrac/store",
			Encrypted: true,
		},
		Encryption: EncryptionConfig{
			Type:    "age",
			KeyPath: "/home/user/.local/share/mefrac/keys/mefrac.key",
		},
		Server: ServerConfig{Addr: ":9000", ShutdownTimeoutSeconds: 10},
		Sync:   SyncConfig{CheckIntervalSeconds: 5, ReloadDelayMillis: 100, IDStrategy: "uuid"},
		Admin:  AdminConfig{PasswordSHA256: "deadbeef", SessionTTLMinutes: 60},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.InstanceID != original.InstanceID {
		t.Errorf("InstanceID = %q, want %q", got.InstanceID, original.InstanceID)
	}
	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.Store.Type != "filesystem" {
		t.Errorf("Store.Type = %q, want %q", got.Store.Type, "filesystem")
	}
	if got.Store.FSRoot != "/srv/mefrac/store" {
		t.Errorf("Store.FSRoot = %q, want %q", got.Store.FSRoot, "/srv/mefrac/store")
	}
	if !got.Store.Encrypted {
		t.Error("Store.Encrypted = false, want true")
	}
	if got.Encryption.KeyPath != original.Encryption.KeyPath {
		t.Errorf("Encryption.KeyPath = %q, want %q", got.Encryption.KeyPath, original.Encryption.KeyPath)
	}
	if got.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want %q", got.Server.Addr, ":9000")
	}
	if got.Sync.CheckIntervalSeconds != 5 {
		t.Errorf("Sync.CheckIntervalSeconds = %d, want 5", got.Sync.CheckIntervalSeconds)
	}
	if got.Sync.IDStrategy != "uuid" {
		t.Errorf("Sync.IDStrategy = %q, want %q", got.Sync.IDStrategy, "uuid")
	}
	if got.Admin.PasswordSHA256 != "deadbeef" {
		t.Errorf("Admin.PasswordSHA256 = %q, want %q", got.Admin.PasswordSHA256, "deadbeef")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("instance-1", "/data/mefrac")

	if cfg.InstanceID != "instance-1" {
		t.Errorf("InstanceID = %q, want %q", cfg.InstanceID, "instance-1")
	}
	if cfg.BaseDir != "/data/mefrac" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/mefrac")
	}
	if cfg.LogDir != "/data/mefrac/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/mefrac/log")
	}
	if cfg.Store.Type != "sqlite" {
		t.Errorf("Store.Type = %q, want %q", cfg.Store.Type, "sqlite")
	}
	if cfg.Store.DataDir != "/data/mefrac/data" {
		t.Errorf("Store.DataDir = %q, want %q", cfg.Store.DataDir, "/data/mefrac/data")
	}
	if cfg.Encryption.KeyPath != "/data/mefrac/keys/mefrac.key" {
		t.Errorf("Encryption.KeyPath = %q, want %q", cfg.Encryption.KeyPath, "/data/mefrac/keys/mefrac.key")
	}
	if cfg.Sync.CheckIntervalSeconds != 30 {
		t.Errorf("Sync.CheckIntervalSeconds = %d, want 30", cfg.Sync.CheckIntervalSeconds)
	}
	if cfg.Sync.ReloadDelayMillis != 500 {
		t.Errorf("Sync.ReloadDelayMillis = %d, want 500", cfg.Sync.ReloadDelayMillis)
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mefrac.toml")
		cfg := NewConfig("i1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mefrac.toml")
		cfg := NewConfig("i1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mefrac.toml")
		cfg := NewConfig("read-test", dir)
		cfg.Store = StoreConfig{Type: "memory", Name: "mem"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.InstanceID != "read-test" {
			t.Errorf("InstanceID = %q, want %q", got.InstanceID, "read-test")
		}
		if got.Store.Type != "memory" {
			t.Errorf("Store.Type = %q, want %q", got.Store.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/mefrac.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
