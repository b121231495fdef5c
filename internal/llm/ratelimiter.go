package llm

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket shared by every call that hits the same account:
// completions, image requests and narration.
type Limiter struct {
	rpm      int
	mu       sync.Mutex
	tokens   int
	lastFill time.Time
}

// NewLimiter allows at most rpm requests per minute. rpm <= 0 disables limiting.
func NewLimiter(rpm int) *Limiter {
	return &Limiter{rpm: rpm, tokens: rpm, lastFill: time.Now()}
}

// Wait blocks until a request may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.rpm <= 0 {
		return nil
	}
	for {
		l.mu.Lock()
		now := time.Now()
		refill := int(now.Sub(l.lastFill).Seconds() * float64(l.rpm) / 60.0)
		if refill > 0 {
			l.tokens += refill
			if l.tokens > l.rpm {
				l.tokens = l.rpm
			}
			l.lastFill = now
		}

		if l.tokens > 0 {
			l.tokens--
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// RateLimitedProvider wraps a Provider with a Limiter.
type RateLimitedProvider struct {
	provider Provider
	limiter  *Limiter
}

// NewRateLimitedProvider wraps provider so that it shares limiter.
func NewRateLimitedProvider(provider Provider, limiter *Limiter) Provider {
	return &RateLimitedProvider{provider: provider, limiter: limiter}
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.provider.Complete(ctx, req)
}
