package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/keypulse-be/internal/api"
	"github.com/isdelr/keypulse-be/internal/auth"
	"github.com/isdelr/keypulse-be/internal/config"
	"github.com/isdelr/keypulse-be/internal/database"
	"github.com/isdelr/keypulse-be/internal/encryption"
	"github.com/isdelr/keypulse-be/internal/logger"
	"github.com/isdelr/keypulse-be/internal/monitoring"
	"github.com/isdelr/keypulse-be/internal/ratelimit"
	"github.com/isdelr/keypulse-be/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", true)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up database
	store, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer store.Close()

	cipher, err := encryption.New(cfg.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)

	// Set up services
	accountService := services.NewAccountService(store, tokens)
	vaultService := services.NewVaultService(store, cipher)

	jobs := []monitoring.Job{monitoring.StoreHealthJob(store)}

	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		limiter = ratelimit.NewRedisLimiter(rdb, "keypulse:ratelimit:auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
		log.Info().Msg("Using Redis rate limiter")
	} else {
		memLimiter := ratelimit.NewMemoryLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
		jobs = append(jobs, monitoring.SweepRateLimitsJob(memLimiter))
		limiter = memLimiter
	}

	// Set up and run the background scheduler
	scheduler, err := monitoring.NewScheduler(jobs...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure scheduler")
	}
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(api.Options{
		AccountService: accountService,
		VaultService:   vaultService,
		Tokens:         tokens,
		AuthLimiter:    limiter,
		Health:         store,
		CORSOrigins:    cfg.CORSOrigins,
		TrustProxy:     cfg.TrustProxy,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
