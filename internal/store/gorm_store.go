package store

import (
	"context"
	"errors"
	"time"

	"kamgar-sahayak/backend/internal/models"

	"gorm.io/gorm"
)

// GormStore persists query log entries in Postgres via gorm
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a gorm-backed query log store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Append persists a new entry, assigning id and creation time
func (s *GormStore) Append(ctx context.Context, entry *models.QueryLog) error {
	if entry.Status == "" {
		entry.Status = models.StatusPending
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

// Get returns the entry with the given id
func (s *GormStore) Get(ctx context.Context, id uint) (*models.QueryLog, error) {
	var entry models.QueryLog
	result := s.db.WithContext(ctx).First(&entry, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &entry, nil
}

// ListByStatus returns entries with the given status, oldest first
func (s *GormStore) ListByStatus(ctx context.Context, status models.QueryStatus) ([]models.QueryLog, error) {
	var entries []models.QueryLog
	result := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC, id ASC").
		Find(&entries)
	return entries, result.Error
}

// ListAll returns every entry, oldest first
func (s *GormStore) ListAll(ctx context.Context) ([]models.QueryLog, error) {
	var entries []models.QueryLog
	result := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&entries)
	return entries, result.Error
}

// Resolve transitions an entry to answered. The guarded UPDATE serializes
// racing admins at the database: the status predicate makes exactly one
// transition win, and the loser is reported as a conflict, never a silent
// overwrite.
func (s *GormStore) Resolve(ctx context.Context, id uint, answer Answer) (*models.QueryLog, error) {
	var updated models.QueryLog

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.QueryLog{}).
			Where("id = ? AND status IN ?", id, resolvableFrom).
			Updates(map[string]interface{}{
				"status":            models.StatusAnswered,
				"bot_response_text": answer.Text,
				"answered_by":       answer.AnsweredBy,
				"answered_at":       now,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// Distinguish an unknown id from an already-answered entry
			var existing models.QueryLog
			if err := tx.First(&existing, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			return ErrInvalidTransition
		}

		return tx.First(&updated, id).Error
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}
