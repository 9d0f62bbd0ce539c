package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// rateLimitIPPrefix is the Redis key prefix for IP rate limits.
	rateLimitIPPrefix = "ratelimit:ip:"
	// rateLimitIPTTL is the TTL for IP rate limit keys.
	rateLimitIPTTL = 60 * time.Second
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// tokenBucketScript is a Lua script implementing the token bucket algorithm.
// It's atomic and handles token refill and consumption in a single operation.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per second
	local burst = tonumber(ARGV[2])     -- max tokens (bucket capacity)
	local now = tonumber(ARGV[3])       -- current time in seconds
	local ttl = tonumber(ARGV[4])       -- TTL in seconds

	-- Get current state
	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	-- Refill tokens based on elapsed time
	local elapsed = now - last_update
	tokens = math.min(burst, tokens + (elapsed * rate))

	-- Check if request is allowed
	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		-- Calculate when 1 token will be available
		retry_after = math.ceil((1 - tokens) / rate)
	end

	-- Update state
	redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// CheckIPRateLimit checks and updates the per-IP rate limit used on the
// auth endpoints. The IP is hashed before use as a key.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, rps, burst int) (*RateLimitResult, error) {
	key := rateLimitIPPrefix + HashRateLimitKey(ip)
	now := time.Now()

	res, err := tokenBucketScript.Run(ctx, c.client,
		[]string{key},
		rps,
		burst,
		now.Unix(),
		int(rateLimitIPTTL.Seconds()),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit script failed: %w", err)
	}

	values, ok := res.([]any)
	if !ok || len(values) != 3 {
		return nil, fmt.Errorf("unexpected rate limit script result: %v", res)
	}

	allowed, _ := values[0].(int64)
	retryAfter, _ := values[1].(int64)
	remaining, _ := values[2].(int64)

	return &RateLimitResult{
		Allowed:    allowed == 1,
		Remaining:  remaining,
		ResetAt:    now.Add(rateLimitIPTTL),
		RetryAfter: time.Duration(retryAfter) * time.Second,
	}, nil
}

// HashRateLimitKey hashes an IP before it is used as a Redis key.
// Raw client addresses never land in the keyspace.
func HashRateLimitKey(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:16])
}
