package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 10
	defaultWindow      = 15 * time.Minute
)

// LoginThrottle counts failed login attempts per (tenant, username) pair in
// Redis. Key format: login_fail:<tenant_id>:<username>. The counter expires
// after the window, so a quiet period clears the slate.
type LoginThrottle struct {
	client      *redis.Client
	maxFailures int64
	window      time.Duration
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
// Non-positive limits fall back to the defaults.
func NewLoginThrottle(client *redis.Client, maxFailures int64, window time.Duration) *LoginThrottle {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, maxFailures: maxFailures, window: window}
}

// Allowed reports whether the pair is still under the failure limit.
func (t *LoginThrottle) Allowed(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(tenantID, username)).Int64()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n < t.maxFailures, nil
}

// RecordFailure increments the failure counter and refreshes its expiry.
func (t *LoginThrottle) RecordFailure(ctx context.Context, tenantID uuid.UUID, username string) error {
	key := t.key(tenantID, username)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, tenantID uuid.UUID, username string) error {
	return t.client.Del(ctx, t.key(tenantID, username)).Err()
}

func (t *LoginThrottle) key(tenantID uuid.UUID, username string) string {
	return fmt.Sprintf("login_fail:%s:%s", tenantID, username)
}
