package server

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/testutil"
)

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func TestGateLogin(t *testing.T) {
	tests := []struct {
		name     string
		hash     string
		password string
		wantOK   bool
	}{
		{name: "correct password", hash: hashPassword("segredo"), password: "segredo", wantOK: true},
		{name: "wrong password", hash: hashPassword("segredo"), password: "errado", wantOK: false},
		{name: "unconfigured gate", hash: "", password: "qualquer", wantOK: false},
		{name: "unrelated hash", hash: hashPassword("outra-senha"), password: "segredo", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewStubStore()
			gate := NewGate(tt.hash, time.Hour, store, testutil.FixedClock(), shop.NewNopLogger())

			token, ok := gate.Login(tt.password)
			if ok != tt.wantOK {
				t.Fatalf("Login() ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantOK && token == "" {
				t.Error("Expected a token on success")
			}
			if !tt.wantOK && token != "" {
				t.Error("Expected no token on failure")
			}

			_, sentinel := store.Raw(shop.KeyAdminAuthenticated)
			if sentinel != tt.wantOK {
				t.Errorf("Expected sentinel=%v, got %v", tt.wantOK, sentinel)
			}
		})
	}
}

func TestGateTokenExpiry(t *testing.T) {
	store := testutil.NewStubStore()
	wall := testutil.FixedClock()
	gate := NewGate(hashPassword("segredo"), time.Minute, store, wall, shop.NewNopLogger())

	token, ok := gate.Login("segredo")
	if !ok {
		t.Fatal("Expected login to succeed")
	}
	if !gate.Valid(token) {
		t.Fatal("Expected a fresh token to be valid")
	}

	wall.Advance(2 * time.Minute)
	if gate.Valid(token) {
		t.Fatal("Expected the token to expire")
	}
}

func TestGateLogoutClearsSentinelWhenLastSession(t *testing.T) {
	store := testutil.NewStubStore()
	gate := NewGate(hashPassword("segredo"), time.Hour, store, testutil.FixedClock(), shop.NewNopLogger())

	first, _ := gate.Login("segredo")
	second, _ := gate.Login("segredo")

	gate.Logout(first)
	if _, ok := store.Raw(shop.KeyAdminAuthenticated); !ok {
		t.Fatal("Expected sentinel to survive while a session remains")
	}

	gate.Logout(second)
	if _, ok := store.Raw(shop.KeyAdminAuthenticated); ok {
		t.Fatal("Expected sentinel cleared after the last logout")
	}
}
