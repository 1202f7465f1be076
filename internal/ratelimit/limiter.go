package ratelimit

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// fixedWindowScript counts attempts per identifier inside a fixed window.
// The expiry is set when the first attempt of a window arrives, so stale
// counters disappear on their own.
const fixedWindowScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`

type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// AttemptLimiter tracks failed attempts per identifier in redis rather than
// in process memory, so limits hold across restarts and replicas.
type AttemptLimiter struct {
	client      *redis.Client
	script      *redis.Script
	maxAttempts int
	window      time.Duration
}

func NewAttemptLimiter(client *redis.Client, maxAttempts int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{
		client:      client,
		script:      redis.NewScript(fixedWindowScript),
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Allow records one attempt for the identifier and reports whether it stays
// under the limit. With no redis configured the limiter is a no-op.
func (l *AttemptLimiter) Allow(ctx context.Context, identifier string) (Result, error) {
	if l.client == nil {
		return Result{Allowed: true, Remaining: l.maxAttempts}, nil
	}

	values, err := l.script.Run(ctx, l.client, []string{l.key(identifier)}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, err
	}

	count := int(values[0])
	retryAfter := time.Duration(0)
	if len(values) > 1 && values[1] > 0 {
		retryAfter = time.Duration(values[1]) * time.Millisecond
	}

	remaining := l.maxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:    count <= l.maxAttempts,
		Remaining:  remaining,
		RetryAfter: retryAfter,
	}, nil
}

// Reset clears the counter for an identifier, for use after a success.
func (l *AttemptLimiter) Reset(ctx context.Context, identifier string) error {
	if l.client == nil {
		return nil
	}
	return l.client.Del(ctx, l.key(identifier)).Err()
}

func (l *AttemptLimiter) key(identifier string) string {
	return "ratelimit:attempts:" + identifier
}
