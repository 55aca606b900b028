package auth

import (
	"context"
	"fmt"
	"time"

	"knowledge-platform/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter bounds login attempts per email+IP inside a fixed window.
// It runs before credential verification so hammering a single account is
// throttled regardless of outcome.
type LoginLimiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

func NewLoginLimiter(rdb *redis.Client, max int, window time.Duration) *LoginLimiter {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{rdb: rdb, max: max, window: window}
}

func loginKey(email, ip string) string {
	return fmt.Sprintf("login_attempts:%s:%s", email, ip)
}

// Allow reports whether another attempt is permitted. A nil limiter or a
// redis failure fails open: login availability is not gated on redis health.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) bool {
	if l == nil || l.rdb == nil {
		return true
	}
	ok, err := utils.AllowFixedWindow(ctx, l.rdb, loginKey(email, ip), l.max, l.window)
	if err != nil {
		return true
	}
	return ok
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) {
	if l == nil || l.rdb == nil {
		return
	}
	_ = utils.ResetWindow(ctx, l.rdb, loginKey(email, ip))
}
