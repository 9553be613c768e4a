package store

import (
	"bytes"
	"fmt"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
)

// EncryptedStore wraps another KVStore and encrypts values at rest.
// Keys stay in plaintext so operators can still see what exists; only
// the payloads are ciphertext. Useful when the filesystem or S3 backend
// lives on shared infrastructure.
type EncryptedStore struct {
	inner     shop.KVStore
	encryptor shop.Encryptor
}

// NewEncryptedStore wraps inner with value encryption.
func NewEncryptedStore(inner shop.KVStore, encryptor shop.Encryptor) *EncryptedStore {
	return &EncryptedStore{inner: inner, encryptor: encryptor}
}

// Get returns the decrypted value stored under key.
func (s *EncryptedStore) Get(key string) ([]byte, bool, error) {
	ciphertext, ok, err := s.inner.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}

	var plaintext bytes.Buffer
	if err := s.encryptor.Decrypt(bytes.NewReader(ciphertext), &plaintext); err != nil {
		return nil, false, fmt.Errorf("decrypting key %q: %w", key, err)
	}
	return plaintext.Bytes(), true, nil
}

// Put encrypts value and stores the ciphertext under key.
func (s *EncryptedStore) Put(key string, value []byte) error {
	var ciphertext bytes.Buffer
	if err := s.encryptor.Encrypt(bytes.NewReader(value), &ciphertext); err != nil {
		return fmt.Errorf("encrypting key %q: %w", key, err)
	}
	return s.inner.Put(key, ciphertext.Bytes())
}

// Delete removes key from the inner store.
func (s *EncryptedStore) Delete(key string) error {
	return s.inner.Delete(key)
}

// ValidateSetup checks both the inner store and the key material.
func (s *EncryptedStore) ValidateSetup() error {
	if !s.encryptor.IsConfigured() {
		return fmt.Errorf("encryption key not configured")
	}
	return s.inner.ValidateSetup()
}

// Close closes the inner store.
func (s *EncryptedStore) Close() error {
	return s.inner.Close()
}

// Compile-time check that EncryptedStore implements shop.KVStore
var _ shop.KVStore = (*EncryptedStore)(nil)
