package store

import (
	"context"
	"errors"
	"sync"

	"kamgar-sahayak/backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrAdminNotFound means no account exists with the given username
	ErrAdminNotFound = errors.New("admin account not found")
	// ErrAdminExists means the username is already taken
	ErrAdminExists = errors.New("admin account already exists")
)

// AdminStore holds administrator accounts for the auth gate
type AdminStore interface {
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	Create(ctx context.Context, account *models.AdminUser) error
}

// GormAdminStore persists admin accounts via gorm
type GormAdminStore struct {
	db *gorm.DB
}

// NewGormAdminStore creates a gorm-backed admin account store
func NewGormAdminStore(db *gorm.DB) *GormAdminStore {
	return &GormAdminStore{db: db}
}

// FindByUsername returns the account with the given username
func (s *GormAdminStore) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var account models.AdminUser
	result := s.db.WithContext(ctx).Where("username = ?", username).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, result.Error
	}
	return &account, nil
}

// Create inserts a new account; the model hook hashes the password
func (s *GormAdminStore) Create(ctx context.Context, account *models.AdminUser) error {
	var existing models.AdminUser
	result := s.db.WithContext(ctx).Where("username = ?", account.Username).First(&existing)
	if result.RowsAffected > 0 {
		return ErrAdminExists
	}
	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		// A racing insert can slip past the existence check; the unique
		// index on username reports it as a duplicated key
		return translateCreateError(err)
	}
	return nil
}

func translateCreateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAdminExists
	}
	return err
}

// MemoryAdminStore is an in-process account store for tests and DB-less runs
type MemoryAdminStore struct {
	mu       sync.RWMutex
	accounts map[string]models.AdminUser
	nextID   uint
}

// NewMemoryAdminStore creates an empty in-memory admin account store
func NewMemoryAdminStore() *MemoryAdminStore {
	return &MemoryAdminStore{
		accounts: make(map[string]models.AdminUser),
		nextID:   1,
	}
}

// FindByUsername returns the account with the given username
func (s *MemoryAdminStore) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[username]
	if !ok {
		return nil, ErrAdminNotFound
	}
	return &account, nil
}

// Create inserts a new account, hashing the password the way the gorm hook
// does for the database-backed store
func (s *MemoryAdminStore) Create(ctx context.Context, account *models.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.Username]; exists {
		return ErrAdminExists
	}

	hashed, err := models.HashPassword(account.Password)
	if err != nil {
		return err
	}
	account.Password = hashed
	if account.Role == "" {
		account.Role = "admin"
	}

	account.ID = s.nextID
	s.nextID++
	s.accounts[account.Username] = *account
	return nil
}
