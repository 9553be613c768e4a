package encryption

import (
	"fmt"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/config"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (shop.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
