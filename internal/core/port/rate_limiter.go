package port

import (
	"context"
	"time"
)

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	// Allow records one request for key against limit and reports whether
	// it fits in the current window.
	Allow(ctx context.Context, key string, limit int) (RateLimitResult, error)
}

// RateLimitResult describes the state of a key's window after a request.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}
