package v1

import (
	"log/slog"

	"contact-mailer-backend/config"
	"contact-mailer-backend/internal/delivery/http/middleware"
	"contact-mailer-backend/internal/domain"
	"contact-mailer-backend/pkg/metrics"
	"contact-mailer-backend/pkg/ratelimit"
	"contact-mailer-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC      domain.ContactUsecase
	HealthUC       domain.HealthUsecase
	ContactLimiter ratelimit.Limiter
	Config         *config.Config
	Log            *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	// Report binding errors with json field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	r := gin.New()
	// X-Forwarded-For is only honoured from configured proxies; otherwise
	// ClientIP is the remote address.
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		deps.Log.Error("invalid trusted proxies, ignoring forwarded headers", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middlewares
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(deps.Log))
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendOrigin))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.Log))

	public := r.Group("")

	NewHealthHandler(public, deps.HealthUC)

	contactLimit := middleware.RateLimitMiddleware(middleware.ContactRateLimitConfig(
		deps.ContactLimiter,
		deps.Config.ContactRateLimit,
		deps.Config.ContactRateWindow,
		deps.Config.ContactRateFailClosed,
		deps.Log,
	))
	NewContactHandler(public, deps.ContactUC, contactLimit)

	// Operations
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
