package shop

// KVStore provides an interface for key-value persistence backends.
// Values are opaque byte payloads (JSON blobs or decimal timestamp
// strings); the store never interprets them.
//
// Absence of a key is not an error: Get reports it through the bool
// return. Backends must be safe for concurrent use, since independent
// sessions (pollers, repositories, the HTTP server) share one store.
type KVStore interface {
	// Get returns the value stored under key. The bool is false when the
	// key has never been written or has been deleted.
	Get(key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// ValidateSetup verifies that the store is accessible and properly
	// configured.
	ValidateSetup() error

	// Close releases backend resources. Safe to call once.
	Close() error
}
