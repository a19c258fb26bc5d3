package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited bounds how often the wrapped client is called. Callers block until
// a token is available or their context ends.
type RateLimited struct {
	next    CompletionClient
	limiter *rate.Limiter
}

func NewRateLimited(next CompletionClient, perSecond float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (r *RateLimited) Complete(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Complete(ctx, prompt)
}
