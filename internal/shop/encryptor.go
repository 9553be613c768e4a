package shop

import "io"

// Encryptor handles encryption of stored values for the encrypted store
// wrapper. Unlike interactive tools, the service encrypts and decrypts
// continuously, so the key material is loaded once at startup.
type Encryptor interface {
	// Setup performs one-time key generation. Called during `mefrac config init`.
	Setup() error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Decrypt decrypts data read from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error

	// IsConfigured returns true if the key file exists at the configured path.
	IsConfigured() bool
}
