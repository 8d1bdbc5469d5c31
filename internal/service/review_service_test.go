package service

import (
	"context"
	"testing"

	"kamgar-sahayak/backend/internal/models"
	"kamgar-sahayak/backend/internal/store"
	apperrors "kamgar-sahayak/backend/pkg/errors"
	"kamgar-sahayak/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewFixture() (*ReviewService, *store.MemoryStore, *fakeAnswerCache) {
	queryStore := store.NewMemoryStore()
	answerCache := newFakeAnswerCache()
	log := logger.New(logger.DefaultConfig())
	svc := NewReviewService(queryStore, answerCache, nil, log)
	return svc, queryStore, answerCache
}

func escalate(t *testing.T, queryStore *store.MemoryStore, queryText string) *models.QueryLog {
	t.Helper()
	entry := &models.QueryLog{
		UserID:    "user-1",
		QueryText: queryText,
		Status:    models.StatusUnanswered,
		Language:  "en",
	}
	require.NoError(t, queryStore.Append(context.Background(), entry))
	return entry
}

func TestListPendingOnlyUnanswered(t *testing.T) {
	svc, queryStore, _ := newReviewFixture()
	ctx := context.Background()

	escalate(t, queryStore, "first question")
	require.NoError(t, queryStore.Append(ctx, &models.QueryLog{
		UserID: "user-2", QueryText: "already handled", Status: models.StatusAnswered,
	}))
	escalate(t, queryStore, "second question")

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "first question", pending[0].QueryText)
	assert.Equal(t, "second question", pending[1].QueryText)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSubmitAnswerResolvesEntry(t *testing.T) {
	svc, queryStore, answerCache := newReviewFixture()
	ctx := context.Background()

	entry := escalate(t, queryStore, "What notice period applies?")

	resolved, err := svc.SubmitAnswer(ctx, entry.ID, "Thirty days unless the contract says more.", "admin1")
	require.NoError(t, err)

	assert.Equal(t, models.StatusAnswered, resolved.Status)
	assert.Equal(t, "Thirty days unless the contract says more.", resolved.BotResponseText)
	assert.Equal(t, "admin1", resolved.AnsweredBy)
	require.NotNil(t, resolved.AnsweredAt)

	// The approved answer is now reusable by the relay
	answer, ok := answerCache.Get(ctx, "what notice period applies?")
	require.True(t, ok)
	assert.Equal(t, "Thirty days unless the contract says more.", answer)
}

func TestSubmitAnswerUnknownEntry(t *testing.T) {
	svc, _, _ := newReviewFixture()

	_, err := svc.SubmitAnswer(context.Background(), 404, "an answer", "admin1")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeEntryNotFound))
	assert.Equal(t, 404, apperrors.FromError(err).StatusCode)
}

func TestSubmitAnswerTwiceConflicts(t *testing.T) {
	svc, queryStore, _ := newReviewFixture()
	ctx := context.Background()

	entry := escalate(t, queryStore, "a question")

	_, err := svc.SubmitAnswer(ctx, entry.ID, "first answer", "admin1")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, entry.ID, "second answer", "admin2")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidStateTransition))
	assert.Equal(t, 409, apperrors.FromError(err).StatusCode)

	// First answer is untouched
	got, err := queryStore.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "first answer", got.BotResponseText)
	assert.Equal(t, "admin1", got.AnsweredBy)
}

func TestSubmitAnswerEmptyAnswer(t *testing.T) {
	svc, queryStore, _ := newReviewFixture()
	ctx := context.Background()

	entry := escalate(t, queryStore, "a question")

	_, err := svc.SubmitAnswer(ctx, entry.ID, "   ", "admin1")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	// Entry stays in the queue
	got, _ := queryStore.Get(ctx, entry.ID)
	assert.Equal(t, models.StatusUnanswered, got.Status)
}
