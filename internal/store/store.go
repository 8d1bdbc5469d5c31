package store

import (
	"context"
	"errors"

	"kamgar-sahayak/backend/internal/models"
)

var (
	// ErrNotFound means no entry exists with the given id
	ErrNotFound = errors.New("query log entry not found")
	// ErrInvalidTransition means the requested status change violates the
	// pending -> {answered|unanswered}, unanswered -> answered invariant
	ErrInvalidTransition = errors.New("invalid query log status transition")
)

// Answer carries the fields that change together when an entry is resolved.
// The triple is applied atomically: either all of it lands or none of it.
type Answer struct {
	Text       string
	AnsweredBy string
}

// QueryLogStore is the durable record of every user query and its outcome.
// Implementations must serialize concurrent transitions on the same entry so
// exactly one valid transition wins; the loser gets ErrInvalidTransition.
type QueryLogStore interface {
	// Append persists a new entry, assigning its id and creation time.
	// An empty status defaults to pending.
	Append(ctx context.Context, entry *models.QueryLog) error

	// Get returns the entry with the given id
	Get(ctx context.Context, id uint) (*models.QueryLog, error)

	// ListByStatus returns entries with the given status in ascending
	// creation-time order (the admin queue's triage order)
	ListByStatus(ctx context.Context, status models.QueryStatus) ([]models.QueryLog, error)

	// ListAll returns every entry in ascending creation-time order
	ListAll(ctx context.Context) ([]models.QueryLog, error)

	// Resolve transitions an entry to answered, recording the answer text,
	// the answering principal and the answer time. Only entries currently
	// unanswered may be resolved; the relay persists every exchange with a
	// final status, so pending never reaches the review queue.
	Resolve(ctx context.Context, id uint, answer Answer) (*models.QueryLog, error)
}

// resolvableFrom lists the statuses an entry may be answered from
var resolvableFrom = []models.QueryStatus{models.StatusUnanswered}
