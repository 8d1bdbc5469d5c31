package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"kamgar-sahayak/backend/pkg/logger"

	vault "github.com/hashicorp/vault/api"
)

var (
	ErrSecretNotFound = errors.New("secret not found")
	ErrNoVaultToken   = errors.New("no vault token provided")
	ErrNoVaultAddress = errors.New("no vault address provided")
)

const (
	defaultSecretsPath  = "secret/data/kamgar-sahayak"
	defaultCacheTTL     = 5 * time.Minute
	defaultVaultTimeout = 10 * time.Second
)

// cachedSecret is a secret value with its fetch time, so staleness is
// judged per entry instead of wiping the whole cache on a timer
type cachedSecret struct {
	value     string
	fetchedAt time.Time
}

// VaultManager resolves secrets from HashiCorp Vault with an environment
// variable fallback. With VAULT_ENABLED=false it degrades to env-only
// lookup, which is how local development runs.
type VaultManager struct {
	client      *vault.Client
	secretsPath string
	enabled     bool

	mu       sync.RWMutex
	cache    map[string]cachedSecret
	cacheTTL time.Duration

	log *logger.Logger
}

// NewVaultManager builds a manager from VAULT_* environment variables
func NewVaultManager(log *logger.Logger) (*VaultManager, error) {
	m := &VaultManager{
		secretsPath: os.Getenv("VAULT_SECRETS_PATH"),
		enabled:     vaultEnabled(),
		cache:       make(map[string]cachedSecret),
		cacheTTL:    defaultCacheTTL,
		log:         log,
	}
	if m.secretsPath == "" {
		m.secretsPath = defaultSecretsPath
	}

	if !m.enabled {
		return m, nil
	}

	addr := os.Getenv("VAULT_ADDR")
	if addr == "" {
		return nil, ErrNoVaultAddress
	}
	token := os.Getenv("VAULT_TOKEN")
	if token == "" {
		return nil, ErrNoVaultToken
	}

	cfg := vault.DefaultConfig()
	cfg.Address = addr
	cfg.Timeout = defaultVaultTimeout
	cfg.MaxRetries = 3

	client, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(token)
	if ns := os.Getenv("VAULT_NAMESPACE"); ns != "" {
		client.SetNamespace(ns)
	}

	m.client = client
	return m, nil
}

func vaultEnabled() bool {
	switch os.Getenv("VAULT_ENABLED") {
	case "false", "0", "no":
		return false
	default:
		return true
	}
}

// GetSecret resolves a secret, preferring a fresh cached value, then Vault,
// then the matching environment variable
func (m *VaultManager) GetSecret(ctx context.Context, key string) (string, error) {
	if value, ok := m.fromCache(key); ok {
		return value, nil
	}

	if !m.enabled || m.client == nil {
		return m.fromEnvironment(key)
	}

	value, err := m.fromVault(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			m.log.Warn("Secret not found in Vault, falling back to environment", "key", key)
			return m.fromEnvironment(key)
		}
		return "", err
	}

	m.store(key, value)
	return value, nil
}

// GetSecretWithDefault resolves a secret, returning the default on any failure
func (m *VaultManager) GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	value, err := m.GetSecret(ctx, key)
	if err != nil {
		m.log.Warn("Failed to get secret, using default value",
			"key", key,
			"error", err.Error(),
		)
		return defaultValue
	}
	return value
}

func (m *VaultManager) fromCache(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.cache[key]
	if !ok || time.Since(entry.fetchedAt) > m.cacheTTL {
		return "", false
	}
	return entry.value, true
}

func (m *VaultManager) store(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = cachedSecret{value: value, fetchedAt: time.Now()}
}

func (m *VaultManager) fromVault(ctx context.Context, key string) (string, error) {
	secret, err := m.client.KVv2("secret").Get(ctx, m.secretsPath)
	if err != nil {
		m.log.Error("Failed to read secret from Vault",
			"path", m.secretsPath,
			"error", err.Error(),
		)
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	if secret == nil || secret.Data == nil {
		return "", ErrSecretNotFound
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", ErrSecretNotFound
	}

	value, ok := data[key].(string)
	if !ok {
		return "", ErrSecretNotFound
	}
	return value, nil
}

// fromEnvironment maps jwt_secret and the like to JWT_SECRET
func (m *VaultManager) fromEnvironment(key string) (string, error) {
	envKey := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))

	value := os.Getenv(envKey)
	if value == "" {
		return "", ErrSecretNotFound
	}

	m.store(key, value)
	return value, nil
}
