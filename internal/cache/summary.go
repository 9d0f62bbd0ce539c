package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/focusflow/focusflow/internal/model"
)

// summaryKeyPrefix is the Redis key prefix for cached dashboard summaries.
const summaryKeyPrefix = "summary:"

// ErrCacheMiss indicates the requested key is not cached.
var ErrCacheMiss = errors.New("cache miss")

// SummaryKey builds the cache key for a user's dashboard summary.
func SummaryKey(userID string) string {
	return summaryKeyPrefix + userID
}

// GetSummary retrieves a cached dashboard summary for a user.
// Returns ErrCacheMiss if not found. A corrupted entry is treated as a miss.
func (c *Cache) GetSummary(ctx context.Context, userID string) (*model.Summary, error) {
	data, err := c.client.Get(ctx, SummaryKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var summary model.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, ErrCacheMiss
	}

	return &summary, nil
}

// SetSummary stores a dashboard summary with the given TTL.
func (c *Cache) SetSummary(ctx context.Context, userID string, summary *model.Summary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	if err := c.client.Set(ctx, SummaryKey(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache summary: %w", err)
	}

	return nil
}

// InvalidateSummary drops the cached summary for a user. Called after any
// task or timer mutation so the dashboard reflects the change.
func (c *Cache) InvalidateSummary(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, SummaryKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary: %w", err)
	}
	return nil
}
