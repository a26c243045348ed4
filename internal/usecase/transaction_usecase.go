package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/infrastructure/metrics"
)

// TransactionUseCase handles posting, reading, updating and deleting
// ledger transactions. Every operation is authorized against the owning
// account's type policy before it touches the store, and every balance
// mutation happens inside one storage transaction holding a row lock on
// the account, so the balance always equals the net of committed history.
type TransactionUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	types       AccountTypeGetter
	auditRepo   AuditRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	types AccountTypeGetter,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		types:       types,
		auditRepo:   auditRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     metrics,
	}
}

// authorize checks that the caller owns the account and that the account
// type's policy permits the operation.
func (uc *TransactionUseCase) authorize(ctx context.Context, callerUserID string, account *domain.Account, op domain.Operation) error {
	if account.OwnerUserID != callerUserID {
		uc.denied(op)
		return domain.ErrPermissionDenied
	}

	accountType, err := uc.types.GetAccountType(ctx, account.AccountTypeID)
	if err != nil {
		return err
	}

	if !accountType.Policy.Allows(op) {
		uc.denied(op)
		return domain.ErrPermissionDenied
	}

	return nil
}

func (uc *TransactionUseCase) denied(op domain.Operation) {
	if uc.metrics != nil {
		uc.metrics.PermissionDenials.WithLabelValues(string(op)).Inc()
	}
}

// CreateTransactionInput represents input for posting a transaction.
type CreateTransactionInput struct {
	CallerUserID string
	AccountID    string
	Amount       decimal.Decimal
	Kind         domain.Kind
}

// CreateTransaction posts a debit or credit to an account. The amount check
// runs first and rejects non-positive amounts regardless of policy or
// balance. The funds check for debits runs against the lock-protected
// balance read, never a stale one.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	txn := &domain.Transaction{
		ID:        uc.idGen.Generate(),
		AccountID: input.AccountID,
		Amount:    input.Amount,
		Kind:      input.Kind,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := uc.authorize(ctx, input.CallerUserID, account, domain.OpCreate); err != nil {
		return nil, err
	}

	err = uc.retrier.Retry(ctx, func() error {
		return uc.applyTransaction(ctx, txn)
	})
	if err != nil {
		uc.failed(err)
		uc.audit(ctx, input.CallerUserID, domain.AuditActionTransactionCreate, txn.ID, domain.AuditStatusFailure, nil, domain.MarshalState(txn))

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsPosted.WithLabelValues(string(txn.Kind)).Inc()
		uc.metrics.TransactionAmount.Observe(txn.Amount.InexactFloat64())
	}

	uc.audit(ctx, input.CallerUserID, domain.AuditActionTransactionCreate, txn.ID, domain.AuditStatusSuccess, nil, domain.MarshalState(txn))

	return txn, nil
}

// failed records the outcome counters for a mutation that did not commit.
func (uc *TransactionUseCase) failed(err error) {
	if uc.metrics == nil {
		return
	}

	if errors.Is(err, domain.ErrInsufficientFunds) {
		uc.metrics.InsufficientFunds.Inc()
	}

	if errors.Is(err, domain.ErrConcurrencyConflict) {
		uc.metrics.ConcurrencyRetries.Inc()
	}
}

// applyTransaction commits the transaction row and the balance change as
// one atomic unit.
func (uc *TransactionUseCase) applyTransaction(ctx context.Context, txn *domain.Transaction) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, txn.AccountID)
	if err != nil {
		return err
	}

	var newBalance decimal.Decimal

	switch txn.Kind {
	case domain.KindDebit:
		if err := account.ValidateDebit(txn.Amount); err != nil {
			return err
		}

		newBalance = account.ApplyDebit(txn.Amount)
	case domain.KindCredit:
		newBalance = account.ApplyCredit(txn.Amount)
	default:
		return domain.ErrInvalidKind
	}

	now := time.Now().UTC()
	txn.CreatedAt = now
	txn.UpdatedAt = now

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return err
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetTransaction retrieves a single transaction, subject to the Read
// operation of the owning account's policy.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, callerUserID, transactionID string) (*domain.Transaction, error) {
	txn, err := uc.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, txn.AccountID)
	if err != nil {
		return nil, err
	}

	if err := uc.authorize(ctx, callerUserID, account, domain.OpRead); err != nil {
		return nil, err
	}

	return txn, nil
}

// ListTransactionsInput represents input for listing account transactions.
type ListTransactionsInput struct {
	CallerUserID string
	AccountID    string
	Limit        int
	Offset       int
}

// ListTransactions lists an account's transactions oldest first, subject
// to the List operation of the account's policy.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := uc.authorize(ctx, input.CallerUserID, account, domain.OpList); err != nil {
		return nil, err
	}

	return uc.txnRepo.ListByAccount(ctx, input.AccountID, clampPageSize(input.Limit), input.Offset)
}

// UpdateTransactionInput represents input for updating a transaction.
type UpdateTransactionInput struct {
	CallerUserID  string
	TransactionID string
	Amount        decimal.Decimal
	Kind          domain.Kind
}

// UpdateTransaction replaces a transaction's amount and kind, reconciling
// the account balance as if the old transaction were reversed and the new
// one applied, atomically. A naive overwrite of the stored amount would
// desynchronize the balance from the transaction history.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	candidate := &domain.Transaction{Amount: input.Amount, Kind: input.Kind}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	txn, err := uc.txnRepo.GetByID(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, txn.AccountID)
	if err != nil {
		return nil, err
	}

	if err := uc.authorize(ctx, input.CallerUserID, account, domain.OpUpdate); err != nil {
		return nil, err
	}

	before := *txn

	var updated *domain.Transaction

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		locked, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, txn.AccountID)
		if err != nil {
			return err
		}

		// Re-read the committed transaction under the account lock so the
		// reversal uses its current amount, not a stale one.
		current, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, input.TransactionID)
		if err != nil {
			return err
		}

		reversed := locked.Balance.Sub(current.SignedAmount())

		next := &domain.Transaction{
			ID:        current.ID,
			AccountID: current.AccountID,
			Amount:    input.Amount,
			Kind:      input.Kind,
			CreatedAt: current.CreatedAt,
			UpdatedAt: time.Now().UTC(),
		}

		newBalance := reversed.Add(next.SignedAmount())
		if newBalance.IsNegative() {
			return domain.ErrInsufficientFunds
		}

		if err := uc.accountRepo.UpdateBalance(ctx, tx, locked.ID, newBalance, next.UpdatedAt); err != nil {
			return err
		}

		if err := uc.txnRepo.Update(ctx, tx, next); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		updated = next

		return nil
	})
	if err != nil {
		uc.failed(err)
		uc.audit(ctx, input.CallerUserID, domain.AuditActionTransactionUpdate, txn.ID, domain.AuditStatusFailure, domain.MarshalState(&before), nil)

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsUpdated.Inc()
	}

	uc.audit(ctx, input.CallerUserID, domain.AuditActionTransactionUpdate, updated.ID, domain.AuditStatusSuccess, domain.MarshalState(&before), domain.MarshalState(updated))

	return updated, nil
}

// DeleteTransaction removes a transaction and reverses its effect on the
// account balance in the same atomic unit. Deleting a credit whose funds
// were already spent fails with ErrInsufficientFunds rather than leaving
// a negative balance.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, callerUserID, transactionID string) error {
	txn, err := uc.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}

	account, err := uc.accountRepo.GetByID(ctx, txn.AccountID)
	if err != nil {
		return err
	}

	if err := uc.authorize(ctx, callerUserID, account, domain.OpDelete); err != nil {
		return err
	}

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		locked, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, txn.AccountID)
		if err != nil {
			return err
		}

		current, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, transactionID)
		if err != nil {
			return err
		}

		newBalance := locked.Balance.Sub(current.SignedAmount())
		if newBalance.IsNegative() {
			return domain.ErrInsufficientFunds
		}

		if err := uc.accountRepo.UpdateBalance(ctx, tx, locked.ID, newBalance, time.Now().UTC()); err != nil {
			return err
		}

		if err := uc.txnRepo.DeleteTx(ctx, tx, transactionID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		uc.failed(err)
		uc.audit(ctx, callerUserID, domain.AuditActionTransactionDelete, transactionID, domain.AuditStatusFailure, domain.MarshalState(txn), nil)

		return err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsDeleted.Inc()
	}

	uc.audit(ctx, callerUserID, domain.AuditActionTransactionDelete, transactionID, domain.AuditStatusSuccess, domain.MarshalState(txn), nil)

	return nil
}

func (uc *TransactionUseCase) audit(ctx context.Context, userID string, action domain.AuditAction, resourceID string, status domain.AuditStatus, before, after domain.JSON) {
	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(action), string(status)).Inc()
	}

	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: "transaction",
		ResourceID:   resourceID,
		BeforeState:  before,
		AfterState:   after,
		Status:       string(status),
		CreatedAt:    time.Now().UTC(),
	})
}
