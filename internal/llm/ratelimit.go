package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited spaces calls to the wrapped client to a fixed rate.
type RateLimited struct {
	next    Client
	limiter *rate.Limiter
}

// NewRateLimited allows requestsPerMinute calls per minute with a burst of one.
func NewRateLimited(next Client, requestsPerMinute int) *RateLimited {
	interval := time.Minute / time.Duration(requestsPerMinute)
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Chat waits for a token, then delegates.
func (r *RateLimited) Chat(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	return r.next.Chat(ctx, prompt)
}

// Name returns the wrapped client's name.
func (r *RateLimited) Name() string {
	return r.next.Name()
}

// Close closes the wrapped client.
func (r *RateLimited) Close() error {
	return Close(r.next)
}
