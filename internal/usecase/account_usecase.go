package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/infrastructure/metrics"
)

// AccountUseCase handles ledger account lifecycle.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	types       AccountTypeGetter
	auditRepo   AuditRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	types AccountTypeGetter,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		types:       types,
		auditRepo:   auditRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     metrics,
	}
}

// CreateAccountInput represents input for creating a ledger account.
type CreateAccountInput struct {
	OwnerUserID   string
	AccountTypeID string
}

// CreateAccount creates a ledger account for a (user, account type) pair.
// The account number is derived from the pair inside the same transaction
// that inserts the row, so concurrent creations cannot produce duplicate
// numbers. A second account for the same pair fails with
// domain.ErrDuplicateAccount via the store's uniqueness constraint.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if _, err := uc.types.GetAccountType(ctx, input.AccountTypeID); err != nil {
		return nil, err
	}

	var account *domain.Account

	err := uc.retrier.Retry(ctx, func() error {
		created, err := uc.createAccountOnce(ctx, input)
		if err != nil {
			return err
		}

		account = created

		return nil
	})
	if err != nil {
		if uc.metrics != nil {
			if errors.Is(err, domain.ErrDuplicateAccount) {
				uc.metrics.DuplicateAccounts.Inc()
			}
			if errors.Is(err, domain.ErrConcurrencyConflict) {
				uc.metrics.ConcurrencyRetries.Inc()
			}
		}

		uc.audit(ctx, input.OwnerUserID, domain.AuditActionAccountCreate, "", domain.AuditStatusFailure, nil, nil)

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	uc.audit(ctx, input.OwnerUserID, domain.AuditActionAccountCreate, account.ID, domain.AuditStatusSuccess, nil, domain.MarshalState(account))

	return account, nil
}

func (uc *AccountUseCase) createAccountOnce(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	lastNumber, err := uc.accountRepo.LastAccountNumberForUpdate(ctx, tx, input.OwnerUserID, input.AccountTypeID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sequence := domain.NextAccountSequence(lastNumber)

	account := &domain.Account{
		ID:            uc.idGen.Generate(),
		OwnerUserID:   input.OwnerUserID,
		AccountTypeID: input.AccountTypeID,
		AccountNumber: domain.BuildAccountNumber(input.OwnerUserID, input.AccountTypeID, now.Year(), sequence),
		Balance:       decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.accountRepo.CreateTx(ctx, tx, account); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account owned by the caller.
func (uc *AccountUseCase) GetAccount(ctx context.Context, callerUserID, accountID string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if account.OwnerUserID != callerUserID {
		return nil, domain.ErrPermissionDenied
	}

	return account, nil
}

// ListAccountsInput represents input for listing a user's accounts.
type ListAccountsInput struct {
	OwnerUserID string
	Limit       int
	Offset      int
}

// ListAccounts lists a user's ledger accounts.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	return uc.accountRepo.ListByOwner(ctx, input.OwnerUserID, clampPageSize(input.Limit), input.Offset)
}

// DeleteAccount deletes an account owned by the caller. The account's
// transactions go with it in the same storage transaction.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, callerUserID, accountID string) error {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if account.OwnerUserID != callerUserID {
		return domain.ErrPermissionDenied
	}

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.accountRepo.DeleteTx(ctx, tx, accountID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		if uc.metrics != nil && errors.Is(err, domain.ErrConcurrencyConflict) {
			uc.metrics.ConcurrencyRetries.Inc()
		}

		uc.audit(ctx, callerUserID, domain.AuditActionAccountDelete, accountID, domain.AuditStatusFailure, domain.MarshalState(account), nil)

		return err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsDeleted.Inc()
	}

	uc.audit(ctx, callerUserID, domain.AuditActionAccountDelete, accountID, domain.AuditStatusSuccess, domain.MarshalState(account), nil)

	return nil
}

func (uc *AccountUseCase) audit(ctx context.Context, userID string, action domain.AuditAction, resourceID string, status domain.AuditStatus, before, after domain.JSON) {
	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(action), string(status)).Inc()
	}

	if uc.auditRepo == nil {
		return
	}

	// Audit writes are best effort and never fail the operation.
	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: "account",
		ResourceID:   resourceID,
		BeforeState:  before,
		AfterState:   after,
		Status:       string(status),
		CreatedAt:    time.Now().UTC(),
	})
}
