package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"contact-mailer-backend/internal/delivery/http/response"
	"contact-mailer-backend/pkg/apperror"
	"contact-mailer-backend/pkg/metrics"
	"contact-mailer-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limiter ratelimit.Limiter
	// Requests per window, used for headers and the rejection message
	Limit  int
	Window time.Duration
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Reject with 503 instead of letting the request through when the limiter errors
	FailClosed bool
	Log        *slog.Logger
}

// ContactRateLimitConfig returns the per-client limit for the contact form
func ContactRateLimitConfig(l ratelimit.Limiter, limit int, window time.Duration, failClosed bool, log *slog.Logger) RateLimitConfig {
	return RateLimitConfig{
		Limiter:    l,
		Limit:      limit,
		Window:     window,
		FailClosed: failClosed,
		Log:        log,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimitMiddleware aborts requests over the limit before the handler runs
// and attaches a rate limit error for ErrorHandler to render as 429.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	message := fmt.Sprintf("Rate limit exceeded: %d per %s", config.Limit, describeWindow(config.Window))

	return func(c *gin.Context) {
		res, err := config.Limiter.Allow(c.Request.Context(), config.KeyFunc(c))
		if err != nil {
			if config.Log != nil {
				config.Log.Error("rate limiter failed", "path", c.FullPath(), "error", err)
			}
			if config.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.")
				return
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(res.RetryAfter(time.Now())))
			metrics.RateLimitRejections.WithLabelValues(c.FullPath()).Inc()
			if config.Log != nil {
				config.Log.Warn("rate limit exceeded",
					"client_ip", c.ClientIP(),
					"path", c.FullPath(),
					"request_id", c.GetString(RequestIDKey),
				)
			}
			_ = c.Error(apperror.RateLimited(message))
			c.Abort()
			return
		}

		c.Next()
	}
}

// describeWindow renders a window as "1 minute", "30 second", "2 hour".
func describeWindow(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%d hour", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%d minute", d/time.Minute)
	default:
		return fmt.Sprintf("%d second", int(d.Seconds()))
	}
}
