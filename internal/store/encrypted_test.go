package store

import (
	"bytes"
	"testing"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/encryption"
)

func TestEncryptedStore_RoundTrip(t *testing.T) {
	inner := NewMemoryStore("inner")
	s := NewEncryptedStore(inner, encryption.NewTestEncryptor())

	value := []byte(`{"data":{"siteName":"M&E Fracionados"}}`)
	if err := s.Put("admin_settings", value); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := s.Get("admin_settings")
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

func TestEncryptedStore_ValueIsCiphertextAtRest(t *testing.T) {
	inner := NewMemoryStore("inner")
	s := NewEncryptedStore(inner, encryption.NewTestEncryptor())

	value := []byte("plaintext payload")
	if err := s.Put("k", value); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	raw, ok, err := inner.Get("k")
	if err != nil || !ok {
		t.Fatalf("inner Get() = %v, %v", ok, err)
	}
	if bytes.Equal(raw, value) {
		t.Error("inner store holds plaintext, want ciphertext")
	}
}

func TestEncryptedStore_GetAbsent(t *testing.T) {
	s := NewEncryptedStore(NewMemoryStore("inner"), encryption.NewTestEncryptor())

	_, ok, err := s.Get("nonexistent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true for absent key, want false")
	}
}

func TestEncryptedStore_GetCorruptCiphertext(t *testing.T) {
	inner := NewMemoryStore("inner")
	s := NewEncryptedStore(inner, encryption.NewTestEncryptor())

	if err := inner.Put("k", []byte("not encrypted at all")); err != nil {
		t.Fatalf("inner Put() error = %v", err)
	}

	_, _, err := s.Get("k")
	if err == nil {
		t.Error("Get() of corrupt ciphertext should return error")
	}
}
