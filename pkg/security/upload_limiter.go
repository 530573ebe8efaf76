package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"easemyform-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// ErrLimiterUnavailable means uploads were allowed without a Redis check.
var ErrLimiterUnavailable = errors.New("upload limiter unavailable: redis not connected")

// UploadLimiter enforces resume upload limits using a Redis sliding window
type UploadLimiter struct {
	maxPerMinute int // per client IP
	maxPerDay    int // per signed-in user
	client       func() *goredis.Client
}

// Sliding window check
// KEYS[1] = rate limit key
// ARGV[1] = max count allowed
// ARGV[2] = window size in seconds
// ARGV[3] = current timestamp
// Returns: 1 if allowed, 0 if rate limited
const uploadRateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('EXPIRE', key, window)
return 1
`

// NewUploadLimiter creates an upload rate limiter backed by the shared Redis
// client. Defaults: 10 uploads/min per IP, 50 uploads/day per user.
func NewUploadLimiter(perMin, perDay int) *UploadLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	if perDay <= 0 {
		perDay = 50
	}
	return &UploadLimiter{
		maxPerMinute: perMin,
		maxPerDay:    perDay,
		client:       redis.Client,
	}
}

// AllowUpload returns (allowed, retryAfterSeconds, error).
// Without Redis it allows the upload and returns ErrLimiterUnavailable.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, ip, userID string) (bool, int, error) {
	client := ul.client()
	if client == nil {
		return true, 0, ErrLimiterUnavailable
	}

	now := time.Now().Unix()

	ipKey := fmt.Sprintf("ratelimit:resume:ip:%s", ip)
	allowed, err := ul.checkLimit(ctx, client, ipKey, ul.maxPerMinute, 60, now)
	if err != nil {
		return false, 60, fmt.Errorf("rate limit check failed: %w", err)
	}
	if !allowed {
		return false, 60, nil
	}

	if userID != "" {
		userKey := fmt.Sprintf("ratelimit:resume:user:%s", userID)
		allowed, err = ul.checkLimit(ctx, client, userKey, ul.maxPerDay, 86400, now)
		if err != nil {
			return false, 3600, fmt.Errorf("rate limit check failed: %w", err)
		}
		if !allowed {
			return false, 3600, nil
		}
	}

	return true, 0, nil
}

// checkLimit performs the atomic sliding window rate limit check
func (ul *UploadLimiter) checkLimit(ctx context.Context, client *goredis.Client, key string, limit, window int, now int64) (bool, error) {
	result, err := client.Eval(ctx, uploadRateLimitScript, []string{key}, limit, window, now).Result()
	if err != nil {
		return false, err
	}
	allowed, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected result type from rate limit script")
	}
	return allowed == 1, nil
}
