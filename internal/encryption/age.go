package encryption

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"filippo.io/age"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/config"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
)

// AgeEncryptor implements shop.Encryptor using filippo.io/age with an
// X25519 identity. The service encrypts and decrypts continuously, so a
// single identity file (mode 0600) holds the key; there is no
// interactive passphrase step.
type AgeEncryptor struct {
	keyPath string

	mu       sync.Mutex
	identity *age.X25519Identity
}

var _ shop.Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates a new AgeEncryptor from configuration.
func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{keyPath: cfg.KeyPath}
}

// Setup generates a new X25519 identity and writes it to the key path.
// Called during `mefrac config init`. Fails if a key already exists, so
// an accidental re-init cannot orphan existing ciphertext.
func (e *AgeEncryptor) Setup() error {
	if _, err := os.Stat(e.keyPath); err == nil {
		return fmt.Errorf("key file already exists at %s", e.keyPath)
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating identity: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(e.keyPath), 0700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}

	if err := os.WriteFile(e.keyPath, []byte(identity.String()+"\n"), 0600); err != nil {
		return fmt.Errorf("writing key file: %w", err)
	}
	return nil
}

// Encrypt reads plaintext from r and writes age-encrypted ciphertext to w.
func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	identity, err := e.loadIdentity()
	if err != nil {
		return err
	}

	encWriter, err := age.Encrypt(w, identity.Recipient())
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}

	if _, err := io.Copy(encWriter, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}

	if err := encWriter.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return nil
}

// Decrypt reads age-encrypted ciphertext from r and writes plaintext to w.
func (e *AgeEncryptor) Decrypt(r io.Reader, w io.Writer) error {
	identity, err := e.loadIdentity()
	if err != nil {
		return err
	}

	decReader, err := age.Decrypt(r, identity)
	if err != nil {
		return fmt.Errorf("creating decrypted reader: %w", err)
	}

	if _, err := io.Copy(w, decReader); err != nil {
		return fmt.Errorf("decrypting data: %w", err)
	}
	return nil
}

// IsConfigured returns true if the key file exists.
func (e *AgeEncryptor) IsConfigured() bool {
	_, err := os.Stat(e.keyPath)
	return err == nil
}

// loadIdentity reads and caches the identity from the key file.
func (e *AgeEncryptor) loadIdentity() (*age.X25519Identity, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.identity != nil {
		return e.identity, nil
	}

	data, err := os.ReadFile(e.keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	identity, err := age.ParseX25519Identity(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing key file: %w", err)
	}

	e.identity = identity
	return identity, nil
}
