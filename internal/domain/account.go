package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// accountNumberSequenceWidth is the zero-padded width of the sequence
// suffix in account numbers.
const accountNumberSequenceWidth = 4

// Account is a user's balance-bearing instance of an account type.
// At most one account exists per (owner, account type) pair. The balance
// is mutated exclusively by the transaction use case under a row lock.
type Account struct {
	ID            string
	OwnerUserID   string
	AccountTypeID string
	AccountNumber string
	Balance       decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateDebit checks if the account holds enough funds for a debit.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns the balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// BuildAccountNumber derives the account number for an (owner, type) pair:
// owner ID, type ID, creation year and a zero-padded sequence, concatenated.
// The number is assigned once at creation and never changes.
func BuildAccountNumber(ownerUserID, accountTypeID string, year, sequence int) string {
	return fmt.Sprintf("%s%s%d%0*d", ownerUserID, accountTypeID, year, accountNumberSequenceWidth, sequence)
}

// NextAccountSequence parses the sequence suffix from the most recent
// account number for the pair and increments it. An empty number (no prior
// accounts) starts the sequence at 1.
func NextAccountSequence(lastAccountNumber string) int {
	if len(lastAccountNumber) < accountNumberSequenceWidth {
		return 1
	}

	tail := lastAccountNumber[len(lastAccountNumber)-accountNumberSequenceWidth:]
	seq, err := strconv.Atoi(tail)
	if err != nil {
		return 1
	}

	return seq + 1
}
