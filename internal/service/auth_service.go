package service

import (
	"context"
	"errors"

	"kamgar-sahayak/backend/internal/models"
	"kamgar-sahayak/backend/internal/store"
	apperrors "kamgar-sahayak/backend/pkg/errors"
	"kamgar-sahayak/backend/pkg/jwt"
	"kamgar-sahayak/backend/pkg/logger"
)

// AuthService is the auth gate: it verifies administrator credentials and
// issues the bounded bearer tokens the review queue requires
type AuthService struct {
	accounts   store.AdminStore
	jwtService *jwt.Service
	log        *logger.Logger
}

// NewAuthService creates an auth service
func NewAuthService(accounts store.AdminStore, jwtService *jwt.Service, log *logger.Logger) *AuthService {
	return &AuthService{
		accounts:   accounts,
		jwtService: jwtService,
		log:        log,
	}
}

// Login authenticates an administrator and returns a bearer token. The
// failure message never reveals which of the two fields was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			return "", apperrors.NewUnauthorizedError(apperrors.CodeInvalidCredentials, "Incorrect username or password")
		}
		s.log.LogError(err, "Admin account lookup failed")
		return "", apperrors.NewInternalServerError("STORE_ERROR", "An error occurred during login")
	}

	if !models.CheckPasswordHash(password, account.Password) {
		return "", apperrors.NewUnauthorizedError(apperrors.CodeInvalidCredentials, "Incorrect username or password")
	}

	token, err := s.jwtService.GenerateToken(account.Username, jwt.Role(account.Role))
	if err != nil {
		s.log.LogError(err, "Token generation failed", "username", account.Username)
		return "", apperrors.NewInternalServerError("TOKEN_ERROR", "An error occurred during login")
	}

	s.log.Info("Admin logged in", "username", account.Username, "role", account.Role)
	return token, nil
}

// Register creates an additional reviewer account
func (s *AuthService) Register(ctx context.Context, req *models.RegisterAdminRequest) (*models.AdminUser, error) {
	role := jwt.Role(req.Role)
	if req.Role == "" {
		role = jwt.RoleAdmin
	}
	if !role.Valid() {
		return nil, apperrors.NewBadRequestError(apperrors.CodeValidation, "Role must be admin or viewer")
	}

	account := &models.AdminUser{
		Username: req.Username,
		Password: req.Password,
		Role:     string(role),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrAdminExists) {
			return nil, apperrors.NewConflictError("ADMIN_EXISTS", "An account with this username already exists")
		}
		s.log.LogError(err, "Admin account creation failed")
		return nil, apperrors.NewInternalServerError("STORE_ERROR", "Failed to create admin account")
	}

	return account, nil
}
