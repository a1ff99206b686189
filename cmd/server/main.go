package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/mintrail/mintrail/application/port/inbound"
	"github.com/mintrail/mintrail/application/port/outbound"
	"github.com/mintrail/mintrail/application/usecase"
	"github.com/mintrail/mintrail/infrastructure/adapter/postgres"
	"github.com/mintrail/mintrail/infrastructure/config"
	"github.com/mintrail/mintrail/infrastructure/http/handler"
	"github.com/mintrail/mintrail/infrastructure/http/middleware"
	"github.com/mintrail/mintrail/infrastructure/service/chain"
	"github.com/mintrail/mintrail/infrastructure/service/jwt"
	"github.com/mintrail/mintrail/infrastructure/service/logger"
	"github.com/mintrail/mintrail/infrastructure/service/mail"
	"github.com/mintrail/mintrail/infrastructure/service/metrics"
	"github.com/mintrail/mintrail/infrastructure/service/ratelimit"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger
	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		CorrelationIDHeader: middleware.CorrelationIDHeader,
		ServiceName:         "mintrail",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	// Connect to database
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to connect to database", err, map[string]interface{}{})
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		structuredLogger.Error(ctx, "Failed to ping database", err, map[string]interface{}{})
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", map[string]interface{}{})

	// Initialize rate limiting service (Redis-backed or noop based on config)
	var rateLimitService inbound.RateLimitService
	{
		rlConfig := ratelimit.RateLimitConfig{
			Enabled:        cfg.RateLimitEnabled,
			RedisURL:       cfg.RedisURL,
			CommitAttempts: cfg.RateLimitCommitAttempts,
			CommitWindow:   cfg.RateLimitCommitWindow,
			BlockDuration:  cfg.RateLimitBlockDuration,
		}
		rs, err := ratelimit.NewRateLimitService(rlConfig, logrus.New())
		if err != nil {
			structuredLogger.Error(ctx, "Failed to initialize rate limit service", err, map[string]interface{}{
				"redis_url": cfg.RedisURL,
			})
			log.Fatalf("Failed to initialize rate limit service: %v", err)
		}
		rateLimitService = rs
	}

	// Initialize repositories
	eventRepo := postgres.NewPostgresEventRepository(db)
	membershipRepo := postgres.NewPostgresMembershipRepository(db)

	// Initialize services
	tokenService, err := jwt.NewJWTService(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize JWT service", err, map[string]interface{}{})
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}

	var chainService outbound.ChainService
	if cfg.ChainMockMode {
		chainService = chain.NewMockChainService(200 * time.Millisecond)
		structuredLogger.Warn(ctx, "Chain mock mode enabled, no real commits will be issued", map[string]interface{}{})
	} else {
		chainService = chain.NewRelayerService(cfg.RelayerURL, cfg.RelayerTimeout, structuredLogger)
		structuredLogger.Info(ctx, "Relayer chain service initialized", map[string]interface{}{
			"relayer_url": cfg.RelayerURL,
			"timeout":     cfg.RelayerTimeout.String(),
		})
	}

	notifier := mail.NewComposer(cfg.SenderName, cfg.ExplorerBaseURL)
	workflowMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Initialize use cases
	distributionUseCase := usecase.NewDistributionUseCase(
		eventRepo,
		membershipRepo,
		chainService,
		notifier,
		structuredLogger,
		workflowMetrics,
		cfg.Collections,
		cfg.WalletAddress,
		cfg.OperatorAddress,
	)
	historyUseCase := usecase.NewHistoryUseCase(eventRepo, membershipRepo, structuredLogger)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(
		rateLimitService,
		structuredLogger,
		cfg.RateLimitCommitAttempts,
		cfg.RateLimitCommitWindow,
		cfg.RateLimitBlockDuration,
	)

	// Initialize handlers and routes
	router := mux.NewRouter()
	handler.NewHistoryHandler(historyUseCase, authMiddleware).RegisterRoutes(router)
	handler.NewDistributionHandler(distributionUseCase, authMiddleware, rateLimitMiddleware).RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"healthy"}`)
	}).Methods("GET")

	// Compose middleware: CorrelationID then CORS (if enabled)
	var rootHandler http.Handler = middleware.CorrelationIDMiddleware(router)
	if cfg.CORSEnabled && len(cfg.CORSAllowedOrigins) > 0 {
		rootHandler = middleware.CORSMiddleware(rootHandler, cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler: rootHandler,
		// Write timeout leaves headroom for a slow relayer confirmation.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RelayerTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		structuredLogger.Info(ctx, "Starting server", map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			structuredLogger.Error(ctx, "Server failed to start", err, map[string]interface{}{
				"host": cfg.ServerHost,
				"port": cfg.ServerPort,
			})
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	structuredLogger.Info(ctx, "Shutting down server...", map[string]interface{}{})

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, map[string]interface{}{})
	}
	structuredLogger.Info(ctx, "Server exited", map[string]interface{}{})
}
