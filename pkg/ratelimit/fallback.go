package ratelimit

import (
	"context"
	"log/slog"

	"contact-mailer-backend/pkg/metrics"
)

// Fallback consults primary and, when it fails, answers from secondary so
// the endpoint stays available while the shared store is down.
type Fallback struct {
	primary   Limiter
	secondary Limiter
	name      string
	log       *slog.Logger
}

func NewFallback(primary, secondary Limiter, name string, log *slog.Logger) *Fallback {
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		name:      name,
		log:       log,
	}
}

func (f *Fallback) Allow(ctx context.Context, key string) (Result, error) {
	res, err := f.primary.Allow(ctx, key)
	if err == nil {
		return res, nil
	}

	metrics.RateLimitStoreErrors.WithLabelValues(f.name).Inc()
	f.log.Warn("rate limit store unavailable, using in-memory counters", "store", f.name, "error", err)
	return f.secondary.Allow(ctx, key)
}
