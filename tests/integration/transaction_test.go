package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/investledger/internal/adapter/repository/postgres"
	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/usecase"
	"github.com/iho/investledger/tests/testutil"
)

func TestTransactionPosting(t *testing.T) {
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

	t.Run("credit raises the balance and overdraft debit leaves it untouched", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		accountType := testDB.CreateTestAccountType(ctx, "brokerage", domain.PolicyFullAccess)
		owner := testutil.GenerateID()
		account := testDB.CreateTestAccountWithBalance(ctx, owner, accountType.ID, decimal.NewFromInt(1000))

		if _, err := txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
			CallerUserID: owner,
			AccountID:    account.ID,
			Amount:       decimal.NewFromInt(100),
			Kind:         domain.KindCredit,
		}); err != nil {
			t.Fatalf("credit: %v", err)
		}

		afterCredit, err := accountRepo.GetByID(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}

		if !afterCredit.Balance.Equal(decimal.NewFromInt(1100)) {
			t.Fatalf("balance after credit = %s, want 1100", afterCredit.Balance)
		}

		_, err = txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
			CallerUserID: owner,
			AccountID:    account.ID,
			Amount:       decimal.NewFromInt(1200),
			Kind:         domain.KindDebit,
		})
		if !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Fatalf("overdraft debit error = %v, want ErrInsufficientFunds", err)
		}

		afterDebit, err := accountRepo.GetByID(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}

		if !afterDebit.Balance.Equal(decimal.NewFromInt(1100)) {
			t.Fatalf("balance after rejected debit = %s, want 1100", afterDebit.Balance)
		}

		history, err := txnUC.ListTransactions(ctx, usecase.ListTransactionsInput{
			CallerUserID: owner,
			AccountID:    account.ID,
			Limit:        50,
		})
		if err != nil {
			t.Fatalf("ListTransactions: %v", err)
		}

		if len(history) != 1 {
			t.Fatalf("history has %d transactions after rejected debit, want 1", len(history))
		}
	})

	t.Run("non-positive amount is rejected before anything else", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		accountType := testDB.CreateTestAccountType(ctx, "viewer", domain.PolicyViewOnly)
		owner := testutil.GenerateID()
		account := testDB.CreateTestAccount(ctx, owner, accountType.ID)

		// Even though the policy would also deny this, the amount check
		// comes first.
		_, err := txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
			CallerUserID: owner,
			AccountID:    account.ID,
			Amount:       decimal.Zero,
			Kind:         domain.KindCredit,
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("zero amount error = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("view_only policy denies posting", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		accountType := testDB.CreateTestAccountType(ctx, "viewer", domain.PolicyViewOnly)
		owner := testutil.GenerateID()
		account := testDB.CreateTestAccount(ctx, owner, accountType.ID)

		_, err := txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
			CallerUserID: owner,
			AccountID:    account.ID,
			Amount:       decimal.NewFromInt(10),
			Kind:         domain.KindCredit,
		})
		if !errors.Is(err, domain.ErrPermissionDenied) {
			t.Fatalf("view_only post error = %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("post_only policy posts but cannot read back", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		accountType := testDB.CreateTestAccountType(ctx, "dropbox", domain.PolicyPostOnly)
		owner := testutil.GenerateID()
		account := testDB.CreateTestAccount(ctx, owner, accountType.ID)

		txn, err := txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
			CallerUserID: owner,
			AccountID:    account.ID,
			Amount:       decimal.NewFromInt(25),
			Kind:         domain.KindCredit,
		})
		if err != nil {
			t.Fatalf("post_only credit: %v", err)
		}

		if _, err := txnUC.GetTransaction(ctx, owner, txn.ID); !errors.Is(err, domain.ErrPermissionDenied) {
			t.Fatalf("post_only read error = %v, want ErrPermissionDenied", err)
		}

		if _, err := txnUC.ListTransactions(ctx, usecase.ListTransactionsInput{
			CallerUserID: owner,
			AccountID:    account.ID,
		}); !errors.Is(err, domain.ErrPermissionDenied) {
			t.Fatalf("post_only list error = %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("only the owner may post", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		accountType := testDB.CreateTestAccountType(ctx, "brokerage", domain.PolicyFullAccess)
		account := testDB.CreateTestAccount(ctx, testutil.GenerateID(), accountType.ID)

		_, err := txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
			CallerUserID: testutil.GenerateID(),
			AccountID:    account.ID,
			Amount:       decimal.NewFromInt(10),
			Kind:         domain.KindCredit,
		})
		if !errors.Is(err, domain.ErrPermissionDenied) {
			t.Fatalf("stranger post error = %v, want ErrPermissionDenied", err)
		}
	})
}

func TestTransactionReconciliation(t *testing.T) {
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

	t.Run("update reverses the old amount and applies the new one", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		accountType := testDB.CreateTestAccountType(ctx, "brokerage", domain.PolicyFullAccess)
		owner := testutil.GenerateID()
		account := testDB.CreateTestAccountWithBalance(ctx, owner, accountType.ID, decimal.NewFromInt(1000))

		txn, err := txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
			CallerUserID: owner,
			AccountID:    account.ID,
			Amount:       decimal.NewFromInt(100),
			Kind:         domain.KindDebit,
		})
		if err != nil {
			t.Fatalf("debit: %v", err)
		}

		// 900 on the books; turning the 100 debit into a 50 credit should
		// land on 1050.
		updated, err := txnUC.UpdateTransaction(ctx, usecase.UpdateTransactionInput{
			CallerUserID:  owner,
			TransactionID: txn.ID,
			Amount:        decimal.NewFromInt(50),
			Kind:          domain.KindCredit,
		})
		if err != nil {
			t.Fatalf("UpdateTransaction: %v", err)
		}

		if updated.Kind != domain.KindCredit || !updated.Amount.Equal(decimal.NewFromInt(50)) {
			t.Fatalf("updated transaction = %s %s, want credit 50", updated.Kind, updated.Amount)
		}

		after, err := accountRepo.GetByID(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}

		if !after.Balance.Equal(decimal.NewFromInt(1050)) {
			t.Fatalf("balance after update = %s, want 1050", after.Balance)
		}
	})

	t.Run("update that would overdraw is rejected", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		accountType := testDB.CreateTestAccountType(ctx, "brokerage", domain.PolicyFullAccess)
		owner := testutil.GenerateID()
		account := testDB.CreateTestAccountWithBalance(ctx, owner, accountType.ID, decimal.NewFromInt(1000))

		txn, err := txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
			CallerUserID: owner,
			AccountID:    account.ID,
			Amount:       decimal.NewFromInt(100),
			Kind:         domain.KindDebit,
		})
		if err != nil {
			t.Fatalf("debit: %v", err)
		}

		_, err = txnUC.UpdateTransaction(ctx, usecase.UpdateTransactionInput{
			CallerUserID:  owner,
			TransactionID: txn.ID,
			Amount:        decimal.NewFromInt(2000),
			Kind:          domain.KindDebit,
		})
		if !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Fatalf("overdrawing update error = %v, want ErrInsufficientFunds", err)
		}

		after, err := accountRepo.GetByID(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}

		if !after.Balance.Equal(decimal.NewFromInt(900)) {
			t.Fatalf("balance after rejected update = %s, want 900", after.Balance)
		}
	})

	t.Run("delete reverses the balance effect", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		accountType := testDB.CreateTestAccountType(ctx, "brokerage", domain.PolicyFullAccess)
		owner := testutil.GenerateID()
		account := testDB.CreateTestAccountWithBalance(ctx, owner, accountType.ID, decimal.NewFromInt(1000))

		txn, err := txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
			CallerUserID: owner,
			AccountID:    account.ID,
			Amount:       decimal.NewFromInt(300),
			Kind:         domain.KindDebit,
		})
		if err != nil {
			t.Fatalf("debit: %v", err)
		}

		if err := txnUC.DeleteTransaction(ctx, owner, txn.ID); err != nil {
			t.Fatalf("DeleteTransaction: %v", err)
		}

		after, err := accountRepo.GetByID(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}

		if !after.Balance.Equal(decimal.NewFromInt(1000)) {
			t.Fatalf("balance after delete = %s, want 1000", after.Balance)
		}

		if _, err := txnUC.GetTransaction(ctx, owner, txn.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
			t.Fatalf("GetTransaction after delete error = %v, want ErrTransactionNotFound", err)
		}
	})

	t.Run("deleting a spent credit is rejected", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		accountType := testDB.CreateTestAccountType(ctx, "brokerage", domain.PolicyFullAccess)
		owner := testutil.GenerateID()
		account := testDB.CreateTestAccount(ctx, owner, accountType.ID)

		credit, err := txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
			CallerUserID: owner,
			AccountID:    account.ID,
			Amount:       decimal.NewFromInt(100),
			Kind:         domain.KindCredit,
		})
		if err != nil {
			t.Fatalf("credit: %v", err)
		}

		if _, err := txnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
			CallerUserID: owner,
			AccountID:    account.ID,
			Amount:       decimal.NewFromInt(80),
			Kind:         domain.KindDebit,
		}); err != nil {
			t.Fatalf("debit: %v", err)
		}

		err = txnUC.DeleteTransaction(ctx, owner, credit.ID)
		if !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Fatalf("delete spent credit error = %v, want ErrInsufficientFunds", err)
		}
	})
}
