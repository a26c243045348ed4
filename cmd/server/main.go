package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/investledger/internal/adapter/http"
	"github.com/iho/investledger/internal/adapter/http/handler"
	postgresRepo "github.com/iho/investledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/investledger/internal/adapter/repository/redis"
	"github.com/iho/investledger/internal/infrastructure/auth"
	"github.com/iho/investledger/internal/infrastructure/config"
	"github.com/iho/investledger/internal/infrastructure/logger"
	"github.com/iho/investledger/internal/infrastructure/metrics"
	"github.com/iho/investledger/internal/infrastructure/postgres"
	"github.com/iho/investledger/internal/infrastructure/redis"
	"github.com/iho/investledger/internal/usecase"
)

const migrationsPath = "internal/infrastructure/postgres/migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	ctx := context.Background()

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	typeRepo := postgresRepo.NewAccountTypeRepository(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	typeUC := usecase.NewAccountTypeUseCase(typeRepo, cache, idGen)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, typeUC, auditRepo, idGen, retrier, appMetrics)
	txnUC := usecase.NewTransactionUseCase(txManager, accountRepo, txnRepo, typeUC, auditRepo, idGen, retrier, appMetrics)
	reportUC := usecase.NewReportUseCase(txnRepo)
	auditUC := usecase.NewAuditUseCase(auditRepo)

	// HTTP layer
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountTypeHandler: handler.NewAccountTypeHandler(typeUC),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(txnUC),
		ReportHandler:      handler.NewReportHandler(reportUC),
		AuditHandler:       handler.NewAuditHandler(auditUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		Verifier:           jwtManager,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Metrics:            appMetrics,
		Logger:             appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
