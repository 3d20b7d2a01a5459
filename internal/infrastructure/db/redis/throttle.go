package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 5
	defaultWindow      = 15 * time.Minute
)

// LoginThrottle counts failed logins per email in Redis.
// Key format: login:fail:<email>
type LoginThrottle struct {
	client      *redis.Client
	maxFailures int64
	window      time.Duration
}

// NewLoginThrottle blocks an email after maxFailures failures inside window.
// Non-positive values use the defaults.
func NewLoginThrottle(client *redis.Client, maxFailures int, window time.Duration) *LoginThrottle {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, maxFailures: int64(maxFailures), window: window}
}

// Both scripts give a counter without expiry a fresh window, so a key can
// never lock an email out permanently.
var (
	recordFailureScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

	failuresScript = redis.NewScript(`
local n = tonumber(redis.call('GET', KEYS[1]) or '0')
if n > 0 and redis.call('PTTL', KEYS[1]) == -1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)
)

// Blocked reports whether email has reached the failure limit.
func (t *LoginThrottle) Blocked(ctx context.Context, email string) (bool, error) {
	n, err := failuresScript.Run(ctx, t.client, []string{t.key(email)}, t.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= t.maxFailures, nil
}

// RecordFailure increments the counter. The window starts at the first
// failure; increment and expiry are applied atomically.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	if err := recordFailureScript.Run(ctx, t.client, []string{t.key(email)}, t.window.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	return t.client.Del(ctx, t.key(email)).Err()
}

func (t *LoginThrottle) key(email string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(email))
}
