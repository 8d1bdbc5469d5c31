package service

import (
	"context"
	"strings"

	"kamgar-sahayak/backend/pkg/cache"
	"kamgar-sahayak/backend/pkg/config"
	"kamgar-sahayak/backend/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// AnswerCache remembers admin-approved answers keyed by normalized query
// text, so a later identical query is answered without another escalation.
// This is the feedback half of the review workflow; the NLP collaborator's
// own knowledge base is never mutated.
type AnswerCache interface {
	Get(ctx context.Context, queryText string) (string, bool)
	Put(ctx context.Context, queryText string, answer string)
}

// NormalizeQuery folds case and collapses whitespace so trivially different
// phrasings of the same query share a cache key
func NormalizeQuery(queryText string) string {
	return strings.Join(strings.Fields(strings.ToLower(queryText)), " ")
}

// NewAnswerCache selects the cache backend: Redis when configured, the
// in-process TTL cache otherwise, a no-op when caching is disabled
func NewAnswerCache(log *logger.Logger) AnswerCache {
	cfg := config.Get()

	if !cfg.Cache.Enabled {
		return noopAnswerCache{}
	}

	if cfg.Cache.RedisURL != "" {
		log.Info("Answer cache using Redis", "addr", cfg.Cache.RedisURL)
		return newRedisAnswerCache(cfg.Cache.RedisURL, log)
	}

	return &memoryAnswerCache{cache: cache.NewCache()}
}

type noopAnswerCache struct{}

func (noopAnswerCache) Get(ctx context.Context, queryText string) (string, bool) { return "", false }
func (noopAnswerCache) Put(ctx context.Context, queryText string, answer string) {}

// memoryAnswerCache keeps approved answers in process memory
type memoryAnswerCache struct {
	cache *cache.Cache
}

func (m *memoryAnswerCache) Get(ctx context.Context, queryText string) (string, bool) {
	return m.cache.Get(NormalizeQuery(queryText))
}

func (m *memoryAnswerCache) Put(ctx context.Context, queryText string, answer string) {
	m.cache.Set(NormalizeQuery(queryText), answer)
}

// redisAnswerCache shares approved answers across service instances
type redisAnswerCache struct {
	client *redis.Client
	log    *logger.Logger
}

const answerKeyPrefix = "answer:"

func newRedisAnswerCache(addr string, log *logger.Logger) *redisAnswerCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &redisAnswerCache{client: client, log: log}
}

func (r *redisAnswerCache) Get(ctx context.Context, queryText string) (string, bool) {
	value, err := r.client.Get(ctx, answerKeyPrefix+NormalizeQuery(queryText)).Result()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("Answer cache read failed", "error", err.Error())
		}
		return "", false
	}
	return value, true
}

func (r *redisAnswerCache) Put(ctx context.Context, queryText string, answer string) {
	ttl := config.Get().Cache.TTL
	if err := r.client.Set(ctx, answerKeyPrefix+NormalizeQuery(queryText), answer, ttl).Err(); err != nil {
		r.log.Warn("Answer cache write failed", "error", err.Error())
	}
}
