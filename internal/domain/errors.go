package domain

import "errors"

var (
	// Authorization errors
	ErrPermissionDenied = errors.New("operation not permitted for account policy")

	// Account type errors
	ErrAccountTypeNotFound = errors.New("account type not found")
	ErrInvalidPolicy       = errors.New("invalid permission policy")
	ErrInvalidName         = errors.New("name must not be empty")

	// Account errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account already exists for user and account type")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidKind         = errors.New("transaction kind must be debit or credit")
	ErrInsufficientFunds   = errors.New("insufficient funds: balance would go negative")

	// Query errors
	ErrInvalidDateRange    = errors.New("start date must not be after end date")
	ErrInvalidResourceType = errors.New("resource type must be account or transaction")

	// ErrConcurrencyConflict is returned after a retryable storage conflict
	// exhausted its retries. Callers may retry the whole operation.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)
