package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/priyal/unimatch/backend/internal/domain"
)

// The service treats caching as optional and passes a nil cache through when
// Redis is not configured, so every method must be safe on a nil receiver.
func TestNilCacheIsSafe(t *testing.T) {
	var c *MatchCache
	ctx := context.Background()

	ranked, ok := c.GetRanked(ctx, "u1", 10)
	assert.Nil(t, ranked)
	assert.False(t, ok)

	c.SetRanked(ctx, "u1", 10, []domain.RankedCandidate{})
	c.InvalidateUser(ctx, "u1")
}

func TestMatchKey(t *testing.T) {
	assert.Equal(t, "matches:u1:10", matchKey("u1", 10))
}
