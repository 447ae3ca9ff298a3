package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"ticketcore/api/routes"
	"ticketcore/internal/notifications"
	"ticketcore/internal/payments"
	"ticketcore/internal/seats"
	"ticketcore/internal/shared/config"
	"ticketcore/internal/shared/database"
	"ticketcore/pkg/logger"
	"ticketcore/pkg/ratelimit"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.New()
	logger.SetDefault(appLogger)

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Preload the seat claim scripts so the first purchase does not pay
	// the script-load round trip
	gate := seats.NewAtomicSeatGate(db.GetRedis())
	if db.GetRedis() != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := gate.PreloadScripts(ctx); err != nil {
			appLogger.Error("Failed to preload Redis Lua scripts", slog.Any("error", err))
			// Continue without failing, scripts load on first use
		} else {
			appLogger.Info("Redis Lua scripts preloaded for atomic seat operations")
		}
		cancel()
	}

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && db.GetRedis() != nil {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedis(), &ratelimit.Config{
			Enabled:          cfg.RateLimit.Enabled,
			WindowDuration:   cfg.RateLimit.WindowDuration,
			DefaultRequests:  cfg.RateLimit.DefaultRequests,
			PublicRequests:   cfg.RateLimit.PublicRequests,
			AuthRequests:     cfg.RateLimit.AuthRequests,
			PurchaseRequests: cfg.RateLimit.PurchaseRequests,
			PayoutRequests:   cfg.RateLimit.PayoutRequests,
			WhitelistedIPs:   cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	var notifier notifications.Notifier
	if cfg.Kafka.Enabled {
		producer, err := notifications.NewKafkaProducer(notifications.DefaultKafkaProducerConfig(cfg.Kafka))
		if err != nil {
			appLogger.Error("Failed to initialize Kafka producer", slog.Any("error", err))
			appLogger.Info("Continuing without notifications")
		} else {
			svc := notifications.NewService(producer, appLogger)
			defer svc.Close()
			notifier = svc
			appLogger.Info("Kafka notification producer initialized",
				slog.String("topic", cfg.Kafka.Topic),
			)
		}
	}

	gateway := payments.NewSimulator(cfg.Payments)

	engine := setupEngine(cfg, appLogger, rateLimiter)
	appRouter := routes.NewRouter(cfg, db, appLogger, gate, gateway, notifier)
	appRouter.SetupRoutes(engine)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("redis_cache", db.GetRedis() != nil),
			slog.Bool("rate_limiting", rateLimiter != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupEngine(cfg *config.Config, appLogger *logger.Logger, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()

	engine.Use(requestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	return engine
}

func requestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
