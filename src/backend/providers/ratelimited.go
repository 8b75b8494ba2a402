package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Provider and spaces out outbound generation calls
type RateLimited struct {
	Provider
	limiter *rate.Limiter
}

// NewRateLimited wraps p. A non-positive rps disables limiting.
func NewRateLimited(p Provider, rps float64, burst int) *RateLimited {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{Provider: p, limiter: rate.NewLimiter(limit, burst)}
}

func (r *RateLimited) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%s rate limit: %w", r.GetName(), err)
	}
	return r.Provider.Generate(ctx, req)
}
