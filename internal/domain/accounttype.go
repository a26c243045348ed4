package domain

import (
	"strings"
	"time"
)

// AccountType is a named category of ledger account. Every account of the
// type carries the type's permission policy. Created administratively and
// immutable afterwards.
type AccountType struct {
	ID          string
	Name        string
	Description string
	Policy      Policy
	CreatedAt   time.Time
}

// Validate checks the account type fields.
func (t *AccountType) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrInvalidName
	}

	if !t.Policy.IsValid() {
		return ErrInvalidPolicy
	}

	return nil
}
