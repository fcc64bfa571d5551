package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contact-mailer-backend/config"
	_ "contact-mailer-backend/docs" // Important for Swagger
	v1 "contact-mailer-backend/internal/delivery/http/v1"
	"contact-mailer-backend/internal/usecase"
	"contact-mailer-backend/pkg/email"
	"contact-mailer-backend/pkg/logger"
	"contact-mailer-backend/pkg/ratelimit"
	"contact-mailer-backend/pkg/redis"
	"contact-mailer-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Contact Mailer API
// @version         1.0
// @description     Relays website contact form submissions to the operator mailbox over SMTP.
// @host            localhost:8080
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting contact mailer", "port", cfg.Port, "frontend_origin", cfg.FrontendOrigin)

	// 3. Setup Rate Limiter (Redis when configured, in-memory otherwise)
	memLimiter := ratelimit.NewMemory(cfg.ContactRateLimit, cfg.ContactRateWindow, 5*time.Minute)
	defer memLimiter.Close()

	var contactLimiter ratelimit.Limiter = memLimiter
	redisClient, err := redis.NewClient(context.Background(), redis.Config{
		URL:      cfg.RedisURL,
		Password: cfg.RedisPassword,
	})
	switch {
	case err == nil:
		defer redisClient.Close()
		redisLimiter := ratelimit.NewRedis(redisClient, "rl:contact:", cfg.ContactRateLimit, cfg.ContactRateWindow)
		contactLimiter = ratelimit.NewFallback(redisLimiter, memLimiter, "redis", logger.Log)
		logger.Log.Info("Rate limiting backed by redis")
	case errors.Is(err, redis.ErrNotConfigured):
		logger.Log.Info("Rate limiting backed by in-memory counters")
	default:
		logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory counters", "error", err)
	}

	// 4. Setup Email Service
	emailService := email.NewEmailService(cfg, email.WithLogger(logger.Log))
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - contact form deliveries will fail")
	}

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(emailService, validation.New(), logger.Log)
	healthUC := usecase.NewHealthUsecase()

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:      contactUC,
		HealthUC:       healthUC,
		ContactLimiter: contactLimiter,
		Config:         cfg,
		Log:            logger.Log,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
