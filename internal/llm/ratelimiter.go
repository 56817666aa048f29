package llm

import (
	"context"
	"sync"
	"time"
)

// RateLimitedProvider wraps a Provider with a token bucket holding at most
// rpm tokens and refilling rpm tokens per minute.
type RateLimitedProvider struct {
	provider Provider
	rpm      int
	poll     time.Duration

	mu       sync.Mutex
	tokens   float64
	lastFill time.Time
	now      func() time.Time
}

// NewRateLimitedProvider wraps the given provider with a rate limiter
// that allows at most rpm requests per minute.
func NewRateLimitedProvider(provider Provider, rpm int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		rpm:      rpm,
		poll:     100 * time.Millisecond,
		tokens:   float64(rpm),
		lastFill: time.Now(),
		now:      time.Now,
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.provider.Complete(ctx, req)
}

// take refills the bucket and consumes a token if one is available.
func (r *RateLimitedProvider) take() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.tokens += now.Sub(r.lastFill).Minutes() * float64(r.rpm)
	if limit := float64(r.rpm); r.tokens > limit {
		r.tokens = limit
	}
	r.lastFill = now

	if r.tokens >= 1 {
		r.tokens--
		return true
	}
	return false
}

func (r *RateLimitedProvider) wait(ctx context.Context) error {
	for !r.take() {
		timer := time.NewTimer(r.poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
