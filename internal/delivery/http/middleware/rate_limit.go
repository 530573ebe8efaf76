package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"easemyform-backend/internal/delivery/http/response"
	"easemyform-backend/pkg/redis"
	"easemyform-backend/pkg/security"
	"easemyform-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig describes one fixed-window limit.
type RateLimitConfig struct {
	// Requests per window. Zero or less disables the limit.
	Limit  int
	Window time.Duration
	// KeyFunc names the bucket for a request. Returning false lets the
	// request through uncounted.
	KeyFunc   func(*gin.Context) (string, bool)
	KeyPrefix string
	// Reject with 503 instead of counting in-process when Redis errors.
	FailClosed bool
}

// fixedWindow counts hits per key and reports when the window resets.
type fixedWindow interface {
	hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
}

// INCR with EXPIRE on the first hit. Returns {count, ttl}.
var fixedWindowScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('TTL', KEYS[1])}
`)

type redisWindow struct {
	client goredis.Scripter
}

func (w redisWindow) hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	vals, err := fixedWindowScript.Run(ctx, w.client, []string{key}, int(window.Seconds())).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit: %w", err)
	}
	if len(vals) != 2 {
		return 0, time.Time{}, fmt.Errorf("redis rate limit: unexpected reply %v", vals)
	}
	return int(vals[0]), time.Now().Add(time.Duration(vals[1]) * time.Second), nil
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// memoryWindow is the in-process fallback. Expired buckets are swept every
// sweepEvery hits.
type memoryWindow struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	hits    int
	now     func() time.Time
}

const sweepEvery = 1000

func newMemoryWindow() *memoryWindow {
	return &memoryWindow{entries: map[string]*windowEntry{}, now: time.Now}
}

func (w *memoryWindow) hit(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.hits++
	if w.hits%sweepEvery == 0 {
		for k, e := range w.entries {
			if now.After(e.resetAt) {
				delete(w.entries, k)
			}
		}
	}

	e, ok := w.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &windowEntry{resetAt: now.Add(window)}
		w.entries[key] = e
	}
	e.count++
	return e.count, e.resetAt, nil
}

// shared so every limiter on a given key prefix sees the same counts
var fallbackWindow = newMemoryWindow()

// GlobalRateLimitConfig limits every API request per client IP.
// Fails open so a Redis outage does not take the API down.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
		KeyFunc:   clientIPKey,
	}
}

// OTPRateLimitConfig is the strict per-IP limit for send-otp and verify-otp.
// Fails closed to keep code guessing bounded.
func OTPRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:otp:ip:",
		FailClosed: true,
		KeyFunc:    clientIPKey,
	}
}

// OTPPhoneRateLimitConfig limits OTP requests per normalised phone number,
// so rotating client IPs does not buy extra guesses against one number.
func OTPPhoneRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:otp:phone:",
		FailClosed: true,
		KeyFunc:    phoneKey,
	}
}

func clientIPKey(c *gin.Context) (string, bool) {
	return c.ClientIP(), true
}

// maxPeekBytes bounds how much of an OTP request body is read for the key.
const maxPeekBytes = 4 << 10

// phoneKey reads phone_number from the JSON body and restores the body for
// the handler. Requests without a valid number are left to the handler's
// own validation.
func phoneKey(c *gin.Context) (string, bool) {
	if c.Request.Body == nil {
		return "", false
	}
	head, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPeekBytes))
	c.Request.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), c.Request.Body), c.Request.Body}
	if err != nil {
		return "", false
	}

	var payload struct {
		PhoneNumber string `json:"phone_number"`
	}
	if json.Unmarshal(head, &payload) != nil {
		return "", false
	}
	return validation.NormalizePhone(payload.PhoneNumber)
}

// RateLimitMiddleware enforces config. Counts live in Redis when it is
// connected and in process memory otherwise.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.Limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if config.KeyFunc == nil {
		config.KeyFunc = clientIPKey
	}

	return func(c *gin.Context) {
		key, ok := config.KeyFunc(c)
		if !ok {
			c.Next()
			return
		}
		fullKey := config.KeyPrefix + key

		count, resetAt, err := activeWindow().hit(c.Request.Context(), fullKey, config.Window)
		if err != nil {
			if config.FailClosed {
				logRateLimitError(c, err)
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
			count, resetAt, _ = fallbackWindow.hit(c.Request.Context(), fullKey, config.Window)
		}

		remaining := max(config.Limit-count, 0)
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := max(int(time.Until(resetAt).Seconds()), 1)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logRateLimitTriggered(c)

			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func activeWindow() fixedWindow {
	if client := redis.Client(); client != nil {
		return redisWindow{client: client}
	}
	return fallbackWindow
}

func logRateLimitTriggered(c *gin.Context) {
	security.DefaultLogger().LogRateLimitTriggered(
		c.Request.Context(),
		c.ClientIP(),
		c.GetHeader("User-Agent"),
		c.GetString("RequestID"),
		c.FullPath(),
	)
}

func logRateLimitError(c *gin.Context, err error) {
	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventRateLimitTriggered,
		SubjectType: "system",
		IP:          c.ClientIP(),
		Details: map[string]interface{}{
			"error_type": "redis_error",
			"error":      err.Error(),
		},
	})
}
