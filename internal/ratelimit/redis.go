package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "scoutline:ratelimit:"

// fixedWindow increments the key's counter, starting the window on the first
// hit, and returns the count and the window's remaining milliseconds.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {n, ttl}
`)

// RedisLimiter is a fixed-window Store shared by every instance that points
// at the same redis.
type RedisLimiter struct {
	client redis.Scripter
	rate   int
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter creates a limiter allowing rate requests per window.
func NewRedisLimiter(client redis.Scripter, rate int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, rate: rate, window: window, now: time.Now}
}

// Take counts one request for key.
func (l *RedisLimiter) Take(ctx context.Context, key string) (Decision, error) {
	res, err := fixedWindow.Run(ctx, l.client, []string{redisKeyPrefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}

	count, ttl := res[0], time.Duration(res[1])*time.Millisecond
	if ttl < 0 {
		ttl = l.window
	}

	d := Decision{
		Allowed: count <= int64(l.rate),
		Limit:   l.rate,
		ResetAt: l.now().Add(ttl),
	}
	if remaining := int64(l.rate) - count; remaining > 0 {
		d.Remaining = int(remaining)
	}
	if !d.Allowed {
		d.RetryAfter = ttl
	}
	return d, nil
}
