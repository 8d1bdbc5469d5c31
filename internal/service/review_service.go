package service

import (
	"context"
	"errors"
	"strings"

	"kamgar-sahayak/backend/internal/models"
	"kamgar-sahayak/backend/internal/store"
	apperrors "kamgar-sahayak/backend/pkg/errors"
	"kamgar-sahayak/backend/pkg/logger"
	"kamgar-sahayak/backend/pkg/observability"
)

// ReviewService is the admin review queue: it exposes escalated queries to
// administrators and accepts their answers
type ReviewService struct {
	store       store.QueryLogStore
	answerCache AnswerCache
	metrics     *observability.Metrics
	log         *logger.Logger
}

// NewReviewService creates a review queue service
func NewReviewService(
	queryStore store.QueryLogStore,
	answerCache AnswerCache,
	metrics *observability.Metrics,
	log *logger.Logger,
) *ReviewService {
	return &ReviewService{
		store:       queryStore,
		answerCache: answerCache,
		metrics:     metrics,
		log:         log,
	}
}

// ListPending returns escalated entries oldest first, the queue's
// first-come-first-served triage order
func (s *ReviewService) ListPending(ctx context.Context) ([]models.QueryLog, error) {
	entries, err := s.store.ListByStatus(ctx, models.StatusUnanswered)
	if err != nil {
		s.log.LogError(err, "Failed to list unanswered entries")
		return nil, apperrors.NewInternalServerError("STORE_ERROR", "Failed to fetch unanswered logs")
	}
	return entries, nil
}

// ListAll returns every logged query for audit
func (s *ReviewService) ListAll(ctx context.Context) ([]models.QueryLog, error) {
	entries, err := s.store.ListAll(ctx)
	if err != nil {
		s.log.LogError(err, "Failed to list query log")
		return nil, apperrors.NewInternalServerError("STORE_ERROR", "Failed to fetch logs")
	}
	return entries, nil
}

// SubmitAnswer resolves one escalated entry with a human answer. This is the
// sole path by which a human answer enters the system; the store guarantees
// a racing second answer loses with a conflict rather than overwriting.
func (s *ReviewService) SubmitAnswer(ctx context.Context, id uint, answerText, answeredBy string) (*models.QueryLog, error) {
	answerText = strings.TrimSpace(answerText)
	if answerText == "" {
		return nil, apperrors.NewBadRequestError(apperrors.CodeValidation, "answer must not be empty")
	}

	entry, err := s.store.Resolve(ctx, id, store.Answer{
		Text:       answerText,
		AnsweredBy: answeredBy,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, apperrors.NewNotFoundError(apperrors.CodeEntryNotFound, "No query log entry with this id")
		case errors.Is(err, store.ErrInvalidTransition):
			return nil, apperrors.NewConflictError(apperrors.CodeInvalidStateTransition, "Entry has already been answered")
		default:
			s.log.LogError(err, "Failed to resolve entry", "id", id)
			return nil, apperrors.NewInternalServerError("STORE_ERROR", "Failed to submit answer")
		}
	}

	// Make the approved answer available to the relay for future identical
	// queries
	s.answerCache.Put(ctx, entry.QueryText, answerText)
	s.metrics.RecordAdminAnswer(ctx)

	s.log.Info("Escalated query answered",
		"id", entry.ID,
		"answered_by", answeredBy,
	)

	return entry, nil
}
