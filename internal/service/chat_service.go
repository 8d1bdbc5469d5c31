package service

import (
	"context"
	"strings"

	"kamgar-sahayak/backend/internal/models"
	"kamgar-sahayak/backend/internal/nlp"
	"kamgar-sahayak/backend/internal/store"
	"kamgar-sahayak/backend/pkg/config"
	"kamgar-sahayak/backend/pkg/errors"
	"kamgar-sahayak/backend/pkg/logger"
	"kamgar-sahayak/backend/pkg/observability"
)

// AnswerFetcher is the NLP collaborator contract consumed by the relay
type AnswerFetcher interface {
	GetAnswer(ctx context.Context, req nlp.AnswerRequest) (nlp.AnswerResponse, error)
}

// ChatService relays user messages to the NLP collaborator, merges the
// escalation resolver's verdict, and records exactly one query log entry per
// successful exchange
type ChatService struct {
	store       store.QueryLogStore
	nlp         AnswerFetcher
	answerCache AnswerCache
	metrics     *observability.Metrics
	log         *logger.Logger

	defaultLanguage string
	supported       map[string]bool
	maxQueryLength  int
}

// NewChatService creates a chat relay service
func NewChatService(
	queryStore store.QueryLogStore,
	fetcher AnswerFetcher,
	answerCache AnswerCache,
	metrics *observability.Metrics,
	log *logger.Logger,
) *ChatService {
	cfg := config.Get()

	supported := make(map[string]bool, len(cfg.Chat.SupportedLanguages))
	for _, lang := range cfg.Chat.SupportedLanguages {
		supported[lang] = true
	}

	return &ChatService{
		store:           queryStore,
		nlp:             fetcher,
		answerCache:     answerCache,
		metrics:         metrics,
		log:             log,
		defaultLanguage: cfg.Chat.DefaultLanguage,
		supported:       supported,
		maxQueryLength:  cfg.Chat.MaxQueryLength,
	}
}

// HandleMessage processes one user message end to end. Validation failures
// and upstream failures produce no log entry; every other path writes
// exactly one.
func (s *ChatService) HandleMessage(ctx context.Context, userID, queryText, language string) (*models.ChatResponse, error) {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return nil, errors.NewBadRequestError(errors.CodeValidation, "query_text must not be empty")
	}
	if s.maxQueryLength > 0 && len(queryText) > s.maxQueryLength {
		return nil, errors.NewBadRequestError(errors.CodeValidation, "query_text exceeds maximum length")
	}

	language = s.normalizeLanguage(language)

	// A previously approved admin answer short-circuits the collaborator
	if answer, ok := s.answerCache.Get(ctx, queryText); ok {
		s.metrics.RecordCacheHit(ctx)
		return s.record(ctx, userID, queryText, language, models.QueryLog{
			Status:          models.StatusAnswered,
			BotResponseText: answer,
		}, answer, nil)
	}

	resp, err := s.nlp.GetAnswer(ctx, nlp.AnswerRequest{
		QueryText: queryText,
		UserID:    userID,
		Language:  language,
	})
	if err != nil {
		// Transport errors are not escalations; nothing is logged so the
		// review queue only ever holds genuine unanswered questions
		s.metrics.RecordUpstreamFailure(ctx)
		s.log.Warn("NLP collaborator call failed", "error", err.Error(), "user_id", userID)
		return nil, errors.NewBadGatewayError(errors.CodeUpstreamUnavailable, upstreamErrorReply(language))
	}

	if nlp.Classify(resp) == nlp.VerdictEscalate {
		s.metrics.RecordEscalation(ctx)
		reply := escalationReply(language)
		return s.record(ctx, userID, queryText, language, models.QueryLog{
			Status: models.StatusUnanswered,
		}, reply, resp.SimilarityScore)
	}

	return s.record(ctx, userID, queryText, language, models.QueryLog{
		Status:          models.StatusAnswered,
		BotResponseText: resp.BotResponse,
	}, resp.BotResponse, resp.SimilarityScore)
}

// record writes the single query log entry for this exchange and assembles
// the user-facing reply
func (s *ChatService) record(
	ctx context.Context,
	userID, queryText, language string,
	entry models.QueryLog,
	reply string,
	score *float64,
) (*models.ChatResponse, error) {
	entry.UserID = userID
	entry.QueryText = queryText
	entry.Language = language
	entry.SimilarityScore = score

	if err := s.store.Append(ctx, &entry); err != nil {
		s.log.LogError(err, "Failed to persist query log entry", "user_id", userID)
		return nil, errors.NewInternalServerError("STORE_ERROR", "Failed to record the query")
	}

	s.metrics.RecordChatQuery(ctx, string(entry.Status))

	return &models.ChatResponse{
		BotResponse:     reply,
		Status:          entry.Status,
		Language:        language,
		QueryID:         entry.ID,
		SimilarityScore: score,
	}, nil
}

// normalizeLanguage maps unrecognized languages to the default
func (s *ChatService) normalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if s.supported[language] {
		return language
	}
	return s.defaultLanguage
}
