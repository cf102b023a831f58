// Package cache provides a Redis-backed cache for ranked match results.
// The cache is strictly best-effort: every method tolerates a nil receiver
// and swallows store errors, so the service works unchanged without Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/priyal/unimatch/backend/internal/domain"
)

// MatchCache stores ranked recommendation lists keyed by user and limit.
type MatchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New builds a MatchCache around an existing Redis client. Entries expire
// after ttl.
func New(client *redis.Client, ttl time.Duration) *MatchCache {
	return &MatchCache{client: client, ttl: ttl}
}

// GetRanked returns the cached ranking for a user/limit pair, or false when
// the entry is missing, expired, or unreadable.
func (c *MatchCache) GetRanked(ctx context.Context, userID string, limit int) ([]domain.RankedCandidate, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, matchKey(userID, limit)).Bytes()
	if err != nil {
		return nil, false
	}

	var ranked []domain.RankedCandidate
	if err := json.Unmarshal(payload, &ranked); err != nil {
		return nil, false
	}
	return ranked, true
}

// SetRanked stores a ranking for a user/limit pair.
func (c *MatchCache) SetRanked(ctx context.Context, userID string, limit int, ranked []domain.RankedCandidate) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(ranked)
	if err != nil {
		return
	}
	c.client.Set(ctx, matchKey(userID, limit), payload, c.ttl)
}

// InvalidateUser drops every cached ranking for the user, regardless of the
// limit it was computed with.
func (c *MatchCache) InvalidateUser(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, fmt.Sprintf("matches:%s:*", userID), 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}

func matchKey(userID string, limit int) string {
	return fmt.Sprintf("matches:%s:%d", userID, limit)
}
