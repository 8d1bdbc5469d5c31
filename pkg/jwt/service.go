package jwt

import (
	"time"
)

// Service is a wrapper for JWT operations with a fixed secret and expiry
type Service struct {
	secretKey string
	expiry    time.Duration
}

// NewService creates a new JWT service
func NewService(secretKey string, expiry time.Duration) *Service {
	if expiry == 0 {
		expiry = 30 * time.Minute
	}

	return &Service{
		secretKey: secretKey,
		expiry:    expiry,
	}
}

// GenerateToken generates a token for an admin account
func (s *Service) GenerateToken(username string, role Role) (string, error) {
	return Generate(s.secretKey, username, role, s.expiry)
}

// ValidateToken validates a token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return Validate(s.secretKey, tokenString)
}

// Expiry returns the configured token lifetime
func (s *Service) Expiry() time.Duration {
	return s.expiry
}
