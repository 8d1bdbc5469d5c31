package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"kamgar-sahayak/backend/internal/models"
)

// MemoryStore is an in-process query log store. It backs tests and DB-less
// development; the mutex gives it the same serialization guarantee as the
// database-backed store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uint]models.QueryLog
	nextID  uint
}

// NewMemoryStore creates an empty in-memory query log store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[uint]models.QueryLog),
		nextID:  1,
	}
}

// Append persists a new entry, assigning id and creation time
func (s *MemoryStore) Append(ctx context.Context, entry *models.QueryLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Status == "" {
		entry.Status = models.StatusPending
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	entry.ID = s.nextID
	s.nextID++
	s.entries[entry.ID] = *entry
	return nil
}

// Get returns the entry with the given id
func (s *MemoryStore) Get(ctx context.Context, id uint) (*models.QueryLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

// ListByStatus returns entries with the given status, oldest first
func (s *MemoryStore) ListByStatus(ctx context.Context, status models.QueryStatus) ([]models.QueryLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []models.QueryLog
	for _, entry := range s.entries {
		if entry.Status == status {
			entries = append(entries, entry)
		}
	}
	sortByCreation(entries)
	return entries, nil
}

// ListAll returns every entry, oldest first
func (s *MemoryStore) ListAll(ctx context.Context) ([]models.QueryLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.QueryLog, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	sortByCreation(entries)
	return entries, nil
}

// Resolve transitions an entry to answered under the store lock
func (s *MemoryStore) Resolve(ctx context.Context, id uint, answer Answer) (*models.QueryLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}

	allowed := false
	for _, from := range resolvableFrom {
		if entry.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	entry.Status = models.StatusAnswered
	entry.BotResponseText = answer.Text
	entry.AnsweredBy = answer.AnsweredBy
	entry.AnsweredAt = &now
	s.entries[id] = entry

	return &entry, nil
}

func sortByCreation(entries []models.QueryLog) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}
