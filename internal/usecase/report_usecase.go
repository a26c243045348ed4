package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/investledger/internal/domain"
)

// ReportUseCase handles administrative aggregation queries. It is
// read-only and runs without locks; the caller's administrative privilege
// is checked by the transport layer, not here.
type ReportUseCase struct {
	txnRepo TransactionRepository
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(txnRepo TransactionRepository) *ReportUseCase {
	return &ReportUseCase{txnRepo: txnRepo}
}

// UserTransactionsInput represents input for the user transaction report.
// From and To are inclusive bounds.
type UserTransactionsInput struct {
	UserID string
	From   time.Time
	To     time.Time
}

// UserTransactionsReport is the aggregation result. TotalBalance is the
// net flow over the range (credits minus debits), not an account balance
// snapshot. Transactions are ordered oldest first.
type UserTransactionsReport struct {
	Transactions []*domain.Transaction
	TotalBalance decimal.Decimal
}

// UserTransactions gathers every transaction across the user's accounts
// within [From, To] and computes the signed total.
func (uc *ReportUseCase) UserTransactions(ctx context.Context, input UserTransactionsInput) (*UserTransactionsReport, error) {
	if input.From.After(input.To) {
		return nil, domain.ErrInvalidDateRange
	}

	transactions, err := uc.txnRepo.ListByOwnerBetween(ctx, input.UserID, input.From, input.To)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, txn := range transactions {
		total = total.Add(txn.SignedAmount())
	}

	return &UserTransactionsReport{
		Transactions: transactions,
		TotalBalance: total,
	}, nil
}
