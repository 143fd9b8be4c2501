package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"novaestudio_backend/internal/conversation"
	"novaestudio_backend/internal/conversation/agent"
	"novaestudio_backend/internal/email"
	"novaestudio_backend/internal/events"
	apphttp "novaestudio_backend/internal/http"
	"novaestudio_backend/internal/http/router"
	"novaestudio_backend/internal/notification"
	"novaestudio_backend/internal/ratelimit"
	"novaestudio_backend/internal/whatsapp"
	"novaestudio_backend/platform/config"
	"novaestudio_backend/platform/db"
	"novaestudio_backend/platform/httpkit"
	"novaestudio_backend/platform/logger"
	"novaestudio_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Notification Layer
	// ========================================================================

	sender := email.NewSender(cfg)
	waClient := whatsapp.NewClient(cfg, log)

	notificationModule := notification.NewModule(sender, waClient, cfg, log)
	notificationModule.Subscribe(eventBus)

	// ========================================================================
	// Completion Provider
	// ========================================================================

	provider := initCompletionProvider(ctx, cfg, log)

	// ========================================================================
	// Domain Modules
	// ========================================================================

	conversationModule := conversation.NewModule(pool, provider, eventBus, val, cfg, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:        cfg,
		Logger:        log,
		Health:        db.NewPoolAdapter(pool),
		EventBus:      eventBus,
		ChatRateLimit: initChatRateLimit(cfg, log),
		Modules: []apphttp.Module{
			conversationModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initCompletionProvider builds the configured completion backend. A missing
// configuration is not fatal: the adapter degrades to the fallback reply and
// the pipeline keeps qualifying on heuristics.
func initCompletionProvider(ctx context.Context, cfg *config.Config, log *logger.Logger) agent.Provider {
	switch cfg.GetCompletionProvider() {
	case "openai":
		if cfg.GetOpenAIAPIKey() == "" {
			log.Warn("OPENAI_API_KEY not configured; completion disabled")
			return nil
		}
		return agent.NewOpenAIProvider(cfg.GetOpenAIAPIKey(), cfg.GetOpenAIBaseURL(), cfg.GetOpenAIModel())
	case "gemini":
		if cfg.GetGeminiAPIKey() == "" {
			log.Warn("GEMINI_API_KEY not configured; completion disabled")
			return nil
		}
		provider, err := agent.NewGeminiProvider(ctx, cfg.GetGeminiAPIKey(), cfg.GetGeminiModel())
		if err != nil {
			log.Error("failed to initialize gemini provider", "error", err)
			return nil
		}
		return provider
	default:
		log.Warn("no completion provider configured")
		return nil
	}
}

// initChatRateLimit prefers the Redis fixed-window limiter so the limit holds
// across instances; without Redis it falls back to the in-process limiter.
func initChatRateLimit(cfg *config.Config, log *logger.Logger) gin.HandlerFunc {
	if cfg.GetRedisURL() != "" {
		opt, err := redis.ParseURL(cfg.GetRedisURL())
		if err == nil {
			rdb := redis.NewClient(opt)
			return ratelimit.New(rdb, cfg.GetRateLimitWindow(), cfg.GetRateLimitMax(), log).Middleware()
		}
		log.Error("invalid REDIS_URL, using in-process rate limiter", "error", err)
	}

	perSecond := rate.Limit(float64(cfg.GetRateLimitMax()) / cfg.GetRateLimitWindow().Seconds())
	return httpkit.NewIPRateLimiter(perSecond, cfg.GetRateLimitMax(), log).RateLimit()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
