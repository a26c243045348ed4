package integration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/investledger/internal/adapter/repository/postgres"
	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/usecase"
	"github.com/iho/investledger/tests/testutil"
)

func TestConcurrentPosting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	typeRepo := postgres.NewAccountTypeRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	typeUC := usecase.NewAccountTypeUseCase(typeRepo, nil, idGen)
	txnUC := usecase.NewTransactionUseCase(txManager, accountRepo, txnRepo, typeUC, nil, idGen, retrier, nil)

	t.Run("100 concurrent debits never overdraw", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		accountType := testDB.CreateTestAccountType(ctx, "brokerage", domain.PolicyFullAccess)
		owner := testutil.GenerateID()

		// Funds for exactly 50 of the 100 attempted debits.
		account := testDB.CreateTestAccountWithBalance(ctx, owner, accountType.ID, decimal.NewFromInt(500))

		numDebits := 100
		debitAmount := decimal.NewFromInt(10)

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			rejectCount  atomic.Int32
		)

		wg.Add(numDebits)

		for range numDebits {
			go func() {
				defer wg.Done()

				_, err := txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
					CallerUserID: owner,
					AccountID:    account.ID,
					Amount:       debitAmount,
					Kind:         domain.KindDebit,
				})

				switch {
				case err == nil:
					successCount.Add(1)
				case errors.Is(err, domain.ErrInsufficientFunds):
					rejectCount.Add(1)
				default:
					t.Errorf("unexpected debit error: %v", err)
				}
			}()
		}

		wg.Wait()

		if got := successCount.Load(); got != 50 {
			t.Errorf("successful debits = %d, want 50", got)
		}

		if got := rejectCount.Load(); got != 50 {
			t.Errorf("rejected debits = %d, want 50", got)
		}

		final, err := accountRepo.GetByID(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}

		if !final.Balance.IsZero() {
			t.Errorf("final balance = %s, want 0", final.Balance)
		}

		history, err := txnUC.ListTransactions(ctx, usecase.ListTransactionsInput{
			CallerUserID: owner,
			AccountID:    account.ID,
			Limit:        200,
		})
		if err != nil {
			t.Fatalf("ListTransactions: %v", err)
		}

		if len(history) != 50 {
			t.Errorf("recorded transactions = %d, want 50", len(history))
		}
	})

	t.Run("mixed credits and debits reconcile exactly", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		accountType := testDB.CreateTestAccountType(ctx, "brokerage", domain.PolicyFullAccess)
		owner := testutil.GenerateID()
		account := testDB.CreateTestAccountWithBalance(ctx, owner, accountType.ID, decimal.NewFromInt(1000))

		numPairs := 25

		var wg sync.WaitGroup

		wg.Add(numPairs * 2)

		for range numPairs {
			go func() {
				defer wg.Done()

				if _, err := txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
					CallerUserID: owner,
					AccountID:    account.ID,
					Amount:       decimal.NewFromInt(7),
					Kind:         domain.KindCredit,
				}); err != nil {
					t.Errorf("credit: %v", err)
				}
			}()

			go func() {
				defer wg.Done()

				if _, err := txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
					CallerUserID: owner,
					AccountID:    account.ID,
					Amount:       decimal.NewFromInt(3),
					Kind:         domain.KindDebit,
				}); err != nil {
					t.Errorf("debit: %v", err)
				}
			}()
		}

		wg.Wait()

		final, err := accountRepo.GetByID(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}

		// 1000 + 25*7 - 25*3
		want := decimal.NewFromInt(1100)
		if !final.Balance.Equal(want) {
			t.Errorf("final balance = %s, want %s", final.Balance, want)
		}
	})
}

func TestConcurrentAccountCreation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	typeRepo := postgres.NewAccountTypeRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	typeUC := usecase.NewAccountTypeUseCase(typeRepo, nil, idGen)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, typeUC, nil, idGen, retrier, nil)

	t.Run("same owner and type races to exactly one account", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		accountType := testDB.CreateTestAccountType(ctx, "brokerage", domain.PolicyFullAccess)
		owner := testutil.GenerateID()

		numAttempts := 10

		var (
			wg             sync.WaitGroup
			successCount   atomic.Int32
			duplicateCount atomic.Int32
		)

		wg.Add(numAttempts)

		for range numAttempts {
			go func() {
				defer wg.Done()

				_, err := accountUC.CreateAccount(ctx, usecase.CreateAccountInput{
					OwnerUserID:   owner,
					AccountTypeID: accountType.ID,
				})

				switch {
				case err == nil:
					successCount.Add(1)
				case errors.Is(err, domain.ErrDuplicateAccount):
					duplicateCount.Add(1)
				default:
					t.Errorf("unexpected create error: %v", err)
				}
			}()
		}

		wg.Wait()

		if got := successCount.Load(); got != 1 {
			t.Errorf("successful creations = %d, want exactly 1", got)
		}

		if got := duplicateCount.Load(); got != int32(numAttempts-1) {
			t.Errorf("duplicate rejections = %d, want %d", got, numAttempts-1)
		}

		var rows int
		if err := pool.QueryRow(ctx,
			"SELECT COUNT(*) FROM accounts WHERE owner_user_id = $1 AND account_type_id = $2",
			owner, accountType.ID,
		).Scan(&rows); err != nil {
			t.Fatalf("count accounts: %v", err)
		}

		if rows != 1 {
			t.Errorf("stored accounts = %d, want 1", rows)
		}
	})
}
