package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"kamgar-sahayak/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAssignsIDAndDefaults(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	entry := &models.QueryLog{
		UserID:    "user-1",
		QueryText: "what is gratuity",
	}
	require.NoError(t, s.Append(ctx, entry))

	assert.Equal(t, uint(1), entry.ID)
	assert.Equal(t, models.StatusPending, entry.Status)
	assert.False(t, entry.CreatedAt.IsZero())

	got, err := s.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "what is gratuity", got.QueryText)
}

func TestGetUnknownID(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByStatusReturnsTriageOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, status := range []models.QueryStatus{
		models.StatusUnanswered,
		models.StatusAnswered,
		models.StatusUnanswered,
	} {
		require.NoError(t, s.Append(ctx, &models.QueryLog{
			UserID:    "user-1",
			QueryText: "q",
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	unanswered, err := s.ListByStatus(ctx, models.StatusUnanswered)
	require.NoError(t, err)
	require.Len(t, unanswered, 2)
	assert.Equal(t, uint(1), unanswered[0].ID)
	assert.Equal(t, uint(3), unanswered[1].ID)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.Before(all[1].CreatedAt))
}

func TestResolveOnlyFromUnanswered(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	escalated := &models.QueryLog{UserID: "u", QueryText: "q1", Status: models.StatusUnanswered}
	require.NoError(t, s.Append(ctx, escalated))

	got, err := s.Resolve(ctx, escalated.ID, Answer{Text: "an answer", AnsweredBy: "admin1"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAnswered, got.Status)
	assert.Equal(t, "an answer", got.BotResponseText)
	assert.Equal(t, "admin1", got.AnsweredBy)
	require.NotNil(t, got.AnsweredAt)

	// A pending entry has not been through triage and is not answerable
	pending := &models.QueryLog{UserID: "u", QueryText: "q2", Status: models.StatusPending}
	require.NoError(t, s.Append(ctx, pending))

	_, err = s.Resolve(ctx, pending.ID, Answer{Text: "an answer", AnsweredBy: "admin1"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	unchanged, err := s.Get(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, unchanged.Status)
}

func TestResolveAnsweredEntryConflicts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	entry := &models.QueryLog{UserID: "u", QueryText: "q", Status: models.StatusUnanswered}
	require.NoError(t, s.Append(ctx, entry))

	_, err := s.Resolve(ctx, entry.ID, Answer{Text: "first", AnsweredBy: "admin1"})
	require.NoError(t, err)

	_, err = s.Resolve(ctx, entry.ID, Answer{Text: "second", AnsweredBy: "admin2"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// First answer must survive untouched
	got, err := s.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.BotResponseText)
	assert.Equal(t, "admin1", got.AnsweredBy)
}

func TestResolveUnknownID(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Resolve(context.Background(), 99, Answer{Text: "a"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentResolveHasOneWinner(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	entry := &models.QueryLog{UserID: "u", QueryText: "q", Status: models.StatusUnanswered}
	require.NoError(t, s.Append(ctx, entry))

	const racers = 16
	var wg sync.WaitGroup
	errs := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Resolve(ctx, entry.ID, Answer{Text: "a", AnsweredBy: "admin"})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	entry := &models.QueryLog{UserID: "u", QueryText: "q"}
	require.NoError(t, s.Append(ctx, entry))

	got, err := s.Get(ctx, entry.ID)
	require.NoError(t, err)
	got.QueryText = "mutated"

	again, err := s.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "q", again.QueryText)
}
