package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/investledger/internal/adapter/http/handler"
	"github.com/iho/investledger/internal/adapter/http/middleware"
	"github.com/iho/investledger/internal/infrastructure/metrics"
	"github.com/iho/investledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountTypeHandler *handler.AccountTypeHandler
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	ReportHandler      *handler.ReportHandler
	AuditHandler       *handler.AuditHandler
	HealthHandler      *handler.HealthHandler
	Verifier           middleware.Verifier
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	Metrics            *metrics.Metrics
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Operational endpoints stay outside authentication.
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Verifier, cfg.Metrics))

		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Route("/account-types", func(r chi.Router) {
			r.Get("/", cfg.AccountTypeHandler.List)
			r.Get("/{id}", cfg.AccountTypeHandler.Get)

			r.With(middleware.RequireAdmin).Post("/", cfg.AccountTypeHandler.Create)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Delete("/{id}", cfg.AccountHandler.Delete)
			r.Get("/{id}/transactions", cfg.TransactionHandler.ListByAccount)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Put("/{id}", cfg.TransactionHandler.Update)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/users/{id}/transactions", cfg.ReportHandler.UserTransactions)
			r.Get("/audit-logs/{resourceType}/{id}", cfg.AuditHandler.ListByResource)
		})
	})

	return r
}
