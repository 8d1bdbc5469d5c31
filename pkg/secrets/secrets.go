package secrets

import (
	"context"
	"errors"
	"sync"

	"kamgar-sahayak/backend/pkg/logger"
)

// Manager resolves secrets from some backing source
type Manager interface {
	// GetSecret retrieves a secret by key
	GetSecret(ctx context.Context, key string) (string, error)

	// GetSecretWithDefault retrieves a secret, returning the default when
	// the key cannot be resolved
	GetSecretWithDefault(ctx context.Context, key, defaultValue string) string
}

// ErrManagerNotInitialized is returned when secrets are read before Init
var ErrManagerNotInitialized = errors.New("secrets manager not initialized")

var (
	defaultManager Manager
	managerOnce    sync.Once
)

// Init sets up the default Vault-backed manager once
func Init(log *logger.Logger) error {
	var err error
	managerOnce.Do(func() {
		manager, initErr := NewVaultManager(log)
		if initErr != nil {
			err = initErr
			return
		}
		defaultManager = manager
	})
	return err
}

// GetSecret retrieves a secret from the default manager
func GetSecret(ctx context.Context, key string) (string, error) {
	if defaultManager == nil {
		return "", ErrManagerNotInitialized
	}
	return defaultManager.GetSecret(ctx, key)
}

// GetSecretWithDefault retrieves a secret from the default manager, with
// the default value when no manager is initialized or the key is missing
func GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	if defaultManager == nil {
		return defaultValue
	}
	return defaultManager.GetSecretWithDefault(ctx, key, defaultValue)
}

// SetManager swaps the default manager, primarily for tests
func SetManager(manager Manager) {
	defaultManager = manager
}
