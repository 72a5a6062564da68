package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a sliding-window limiter shared by every API process
// ⭐ SSOT: 분산 레이트 리밋은 여기서만
type RateLimiter struct {
	client *Client
	prefix string
	now    func() time.Time
}

// RateLimitConfig is the budget of one key
type RateLimitConfig struct {
	Key    string        // 클라이언트 식별자 (IP, user id)
	Limit  int           // 윈도우 내 최대 요청 수
	Window time.Duration // 윈도우 길이
}

// NewRateLimiter keys its windows under prefix:ratelimit:
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix, now: time.Now}
}

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is when the oldest request leaves the window (denials only)
	RetryAfter time.Duration
}

// slidingWindow keeps one sorted-set member per accepted request. A denial
// returns the score of the oldest member so the caller can derive RetryAfter.
var slidingWindow = redis.NewScript(`
local now_ms = tonumber(ARGV[1])
local window_ms = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, now_ms - window_ms)
local used = redis.call('ZCARD', KEYS[1])
if used >= limit then
	local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
	return {0, 0, tonumber(oldest[2] or now_ms)}
end
redis.call('ZADD', KEYS[1], now_ms, ARGV[4])
redis.call('PEXPIRE', KEYS[1], window_ms)
return {1, limit - used - 1, 0}
`)

// Allow records one request for cfg.Key if the window has room.
// A disabled client allows everything.
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (Decision, error) {
	if !r.client.Enabled() {
		return Decision{Allowed: true, Remaining: cfg.Limit}, nil
	}

	now := r.now()
	nowMs := now.UnixMilli()
	windowMs := cfg.Window.Milliseconds()

	// 같은 밀리초 요청이 덮어쓰지 않도록 나노초 멤버
	out, err := slidingWindow.Run(ctx, r.client.Redis(),
		[]string{r.prefix + ":ratelimit:" + cfg.Key},
		nowMs, windowMs, cfg.Limit, now.UnixNano(),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("sliding window %s: %w", cfg.Key, err)
	}
	if len(out) != 3 {
		return Decision{}, fmt.Errorf("sliding window %s: unexpected reply %v", cfg.Key, out)
	}

	d := Decision{Allowed: out[0] == 1, Remaining: int(out[1])}
	if !d.Allowed {
		d.RetryAfter = time.Duration(out[2]+windowMs-nowMs) * time.Millisecond
		if d.RetryAfter < 0 {
			d.RetryAfter = 0
		}
	}
	return d, nil
}

// ClientRateLimit is the per-client API budget derived from a per-second rate
func ClientRateLimit(client string, rps float64, burst int) RateLimitConfig {
	limit := int(rps * 60)
	if limit < burst {
		limit = burst
	}
	return RateLimitConfig{
		Key:    "api:" + client,
		Limit:  limit,
		Window: time.Minute,
	}
}
