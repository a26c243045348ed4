package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the direction of a transaction.
type Kind string

const (
	KindDebit  Kind = "debit"
	KindCredit Kind = "credit"
)

// IsValid checks if the kind is debit or credit.
func (k Kind) IsValid() bool {
	return k == KindDebit || k == KindCredit
}

// Transaction is a signed amount applied to one account's balance. The
// balance change is committed in the same storage transaction that creates
// the record, so a transaction never exists without its balance effect.
type Transaction struct {
	ID        string
	AccountID string
	Amount    decimal.Decimal
	Kind      Kind
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates amount and kind. Amount must be strictly positive
// regardless of kind.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}

	return nil
}

// SignedAmount is the transaction's net effect on a balance: positive for
// credits, negative for debits.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
