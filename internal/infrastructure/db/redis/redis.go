// Package redis holds the auth service's volatile state. Today that is one
// thing: per-username login failure counters backing the throttle. The client
// doubles as the readiness probe's ping target.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Throttle tuning. A username that accumulates maxLoginFailures failed
// attempts within loginFailureWindow is rejected until the counter expires,
// so a quiet account unlocks itself without operator action.
const (
	loginAttemptsPrefix = "login_attempts:"
	maxLoginFailures    = 10
	loginFailureWindow  = 15 * time.Minute
)

// Config captures the settings for establishing the Redis connection.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises the client used by the login throttle and the readiness
// probe, validating connectivity with a ping. Losing Redis degrades the
// service (throttling fails open) rather than taking logins down, so callers
// should treat a failed Connect as fatal only at startup.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
