package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountsDeleted   prometheus.Counter
	DuplicateAccounts prometheus.Counter

	// Transaction metrics
	TransactionsPosted  *prometheus.CounterVec
	TransactionsUpdated prometheus.Counter
	TransactionsDeleted prometheus.Counter
	TransactionAmount   prometheus.Histogram
	PermissionDenials   *prometheus.CounterVec
	InsufficientFunds   prometheus.Counter
	ConcurrencyRetries  prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "investledger_accounts_created_total",
			Help: "Total number of ledger accounts created",
		}),
		AccountsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "investledger_accounts_deleted_total",
			Help: "Total number of ledger accounts deleted",
		}),
		DuplicateAccounts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "investledger_duplicate_accounts_total",
			Help: "Account creations rejected because the user already holds the type",
		}),

		TransactionsPosted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "investledger_transactions_posted_total",
				Help: "Total number of transactions posted by kind",
			},
			[]string{"kind"},
		),
		TransactionsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "investledger_transactions_updated_total",
			Help: "Total number of transactions updated",
		}),
		TransactionsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "investledger_transactions_deleted_total",
			Help: "Total number of transactions deleted",
		}),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "investledger_transaction_amount",
			Help:    "Posted transaction amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		PermissionDenials: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "investledger_permission_denials_total",
				Help: "Operations rejected by the account type policy",
			},
			[]string{"operation"},
		),
		InsufficientFunds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "investledger_insufficient_funds_total",
			Help: "Debits rejected because they would overdraw the account",
		}),
		ConcurrencyRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "investledger_concurrency_retries_total",
			Help: "Operations that exhausted their storage conflict retries",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "investledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "investledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "investledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "investledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
