package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/config"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
)

// NewStoreFromConfig creates a KVStore implementation based on the store
// config type. encryptor is only required when cfg.Encrypted is set.
func NewStoreFromConfig(cfg config.StoreConfig, encryptor shop.Encryptor) (shop.KVStore, error) {
	var base shop.KVStore

	switch cfg.Type {
	case "memory":
		base = NewMemoryStore(cfg.Name)
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem store requires fs_root to be set")
		}
		fs, err := NewFileSystemStore(cfg.Name, cfg.FSRoot)
		if err != nil {
			return nil, err
		}
		base = fs
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("sqlite store requires data_dir to be set")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		name := cfg.Name
		if name == "" {
			name = "main"
		}
		db, err := NewSQLiteStore(filepath.Join(cfg.DataDir, name+".db"))
		if err != nil {
			return nil, err
		}
		base = db
	case "s3":
		s3s, err := NewS3Store(S3Options{
			Name:            cfg.Name,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		base = s3s
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}

	if cfg.Encrypted {
		if encryptor == nil {
			return nil, fmt.Errorf("encrypted store requires an encryptor")
		}
		base = NewEncryptedStore(base, encryptor)
	}

	return base, nil
}
