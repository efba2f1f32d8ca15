package summarizer

import (
	"context"

	"golang.org/x/time/rate"
)

type rateLimited struct {
	Summarizer
	limiter *rate.Limiter
}

// withRateLimit caps requests per second across all callers of s.
// A non-positive rps returns s unchanged.
func withRateLimit(s Summarizer, rps float64, burst int) Summarizer {
	if rps <= 0 {
		return s
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimited{Summarizer: s, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *rateLimited) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", modelError(r.Name(), err)
	}
	return r.Summarizer.Summarize(ctx, text, minLength, maxLength)
}
