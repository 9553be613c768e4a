package server

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
)

// Gate is the admin authentication gate. Passwords are checked against
// a configured SHA-256 hash in constant time; successful logins get a
// bearer token and write the authenticated sentinel through the store,
// matching what the admin frontend expects to find.
type Gate struct {
	passwordHash string
	ttl          time.Duration
	store        shop.KVStore
	wall         shop.Clock
	logger       shop.Logger

	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewGate(passwordHash string, ttl time.Duration, store shop.KVStore, wall shop.Clock, logger shop.Logger) *Gate {
	return &Gate{
		passwordHash: strings.ToLower(passwordHash),
		ttl:          ttl,
		store:        store,
		wall:         wall,
		logger:       logger,
		tokens:       make(map[string]time.Time),
	}
}

// Configured reports whether a password hash is set. An unconfigured
// gate rejects every login.
func (g *Gate) Configured() bool {
	return g.passwordHash != ""
}

// Login checks the password and on success returns a session token.
func (g *Gate) Login(password string) (string, bool) {
	if !g.Configured() {
		return "", false
	}

	sum := sha256.Sum256([]byte(password))
	hashed := hex.EncodeToString(sum[:])
	if subtle.ConstantTimeCompare([]byte(hashed), []byte(g.passwordHash)) != 1 {
		return "", false
	}

	token := generateToken()
	g.mu.Lock()
	g.tokens[token] = g.wall.Now().Add(g.ttl)
	g.mu.Unlock()

	if err := g.store.Put(shop.KeyAdminAuthenticated, []byte("true")); err != nil {
		g.logger.Warn("writing authenticated sentinel failed", "error", err)
	}
	return token, true
}

// Logout invalidates the token. When no sessions remain, the
// authenticated sentinel is cleared.
func (g *Gate) Logout(token string) {
	g.mu.Lock()
	delete(g.tokens, token)
	remaining := len(g.tokens)
	g.mu.Unlock()

	if remaining == 0 {
		if err := g.store.Delete(shop.KeyAdminAuthenticated); err != nil {
			g.logger.Warn("clearing authenticated sentinel failed", "error", err)
		}
	}
}

// Valid reports whether the token belongs to a live session. Expired
// tokens are pruned as they are seen.
func (g *Gate) Valid(token string) bool {
	if token == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	expiry, ok := g.tokens[token]
	if !ok {
		return false
	}
	if g.wall.Now().After(expiry) {
		delete(g.tokens, token)
		return false
	}
	return true
}

// RequireAdmin rejects requests without a valid bearer token.
func RequireAdmin(gate *Gate, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !gate.Valid(token) {
			WriteJSONError(w, http.StatusUnauthorized, "unauthorized", "")
			return
		}
		next(w, r)
	}
}

func generateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
