package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/usecase"
)

func TestCreateTransactionRequestToUseCaseInput(t *testing.T) {
	req := CreateTransactionRequest{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(250),
		Kind:      "debit",
	}

	input := req.ToUseCaseInput("user-1")

	if input.CallerUserID != "user-1" || input.AccountID != "acc-1" {
		t.Fatalf("unexpected input: %+v", input)
	}
	if input.Kind != domain.KindDebit || !input.Amount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("unexpected amount/kind: %+v", input)
	}
}

func TestCreateAccountTypeRequestToUseCaseInput(t *testing.T) {
	req := CreateAccountTypeRequest{
		Name:        "Retirement",
		Description: "restricted account",
		Policy:      "view_only",
	}

	input := req.ToUseCaseInput()

	if input.Policy != domain.PolicyViewOnly || input.Name != "Retirement" {
		t.Fatalf("unexpected input: %+v", input)
	}
}

func TestReportFromUseCase(t *testing.T) {
	from := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)

	input := usecase.UserTransactionsInput{UserID: "user-1", From: from, To: to}
	report := &usecase.UserTransactionsReport{
		Transactions: []*domain.Transaction{
			{ID: "txn-1", AccountID: "acc-1", Amount: decimal.NewFromInt(100), Kind: domain.KindCredit},
		},
		TotalBalance: decimal.NewFromInt(100),
	}

	resp := ReportFromUseCase(input, report)

	if resp.UserID != "user-1" || !resp.From.Equal(from) || !resp.To.Equal(to) {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if len(resp.Transactions) != 1 || resp.Transactions[0].Kind != "credit" {
		t.Fatalf("unexpected transactions: %+v", resp.Transactions)
	}
	if !resp.TotalBalance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected total: %s", resp.TotalBalance)
	}
}

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		ID:            "acc-1",
		OwnerUserID:   "user-1",
		AccountTypeID: "type-1",
		AccountNumber: "user-1type-120240001",
		Balance:       decimal.NewFromInt(1000),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	resp := AccountFromDomain(account)

	if resp.ID != account.ID || resp.AccountNumber != account.AccountNumber {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.Balance.Equal(account.Balance) {
		t.Fatalf("unexpected balance: %s", resp.Balance)
	}
}
