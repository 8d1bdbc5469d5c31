package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Role identifies what an admin account is allowed to do
type Role string

const (
	// RoleAdmin may list logs and submit answers
	RoleAdmin Role = "admin"
	// RoleViewer may list logs but not answer them
	RoleViewer Role = "viewer"
)

// Valid reports whether the role is one of the recognized roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleViewer
}

// Claims represents the claims carried by an admin bearer token
type Claims struct {
	Username string `json:"sub_name"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry the given role.
// Admin implies viewer for read-only operations.
func (c *Claims) HasRole(role Role) bool {
	if c.Role == role {
		return true
	}
	return role == RoleViewer && c.Role == RoleAdmin
}

// Generate signs a token for an admin account with a bounded expiry
func Generate(secret string, username string, role Role, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Validate parses and verifies a token, failing closed: any malformed,
// mis-signed or expired token yields an error, never partial claims.
func Validate(secret string, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secret), nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
