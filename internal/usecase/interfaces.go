package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/investledger/internal/domain"
)

// AccountTypeRepository defines data access for account types.
type AccountTypeRepository interface {
	Create(ctx context.Context, accountType *domain.AccountType) error
	GetByID(ctx context.Context, id string) (*domain.AccountType, error)
	List(ctx context.Context, limit, offset int) ([]*domain.AccountType, error)
}

// AccountRepository defines data access for ledger accounts.
type AccountRepository interface {
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// LastAccountNumberForUpdate returns the highest account number among
	// accounts of the (owner, type) pair, locking those rows. Returns ""
	// when the pair has no accounts yet.
	LastAccountNumberForUpdate(ctx context.Context, tx Transaction, ownerUserID, accountTypeID string) (string, error)
	ListByOwner(ctx context.Context, ownerUserID string, limit, offset int) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	DeleteTx(ctx context.Context, tx Transaction, id string) error
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
	// ListByOwnerBetween returns every transaction whose owning account
	// belongs to the user, with created_at in [from, to], oldest first.
	ListByOwnerBetween(ctx context.Context, ownerUserID string, from, to time.Time) ([]*domain.Transaction, error)
	Update(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	DeleteTx(ctx context.Context, tx Transaction, id string) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	ListByResource(ctx context.Context, resourceType, resourceID string, limit, offset int) ([]*domain.AuditLog, error)
}

// AccountTypeGetter resolves account types for policy evaluation.
type AccountTypeGetter interface {
	GetAccountType(ctx context.Context, id string) (*domain.AccountType, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on recoverable storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
