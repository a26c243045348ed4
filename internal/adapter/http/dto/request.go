package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/usecase"
)

// CreateAccountTypeRequest represents a request to create an account type.
type CreateAccountTypeRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1024"`
	Policy      string `json:"permission_policy" validate:"required,oneof=view_only full_access post_only"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountTypeRequest) ToUseCaseInput() usecase.CreateAccountTypeInput {
	return usecase.CreateAccountTypeInput{
		Name:        r.Name,
		Description: r.Description,
		Policy:      domain.Policy(r.Policy),
	}
}

// CreateAccountRequest represents a request to open a ledger account.
type CreateAccountRequest struct {
	AccountTypeID string `json:"account_type_id" validate:"required"`
}

// ToUseCaseInput converts to use case input for the given caller.
func (r *CreateAccountRequest) ToUseCaseInput(callerUserID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerUserID:   callerUserID,
		AccountTypeID: r.AccountTypeID,
	}
}

// CreateTransactionRequest represents a request to post a transaction.
type CreateTransactionRequest struct {
	AccountID string          `json:"account_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Kind      string          `json:"kind" validate:"required,oneof=debit credit"`
}

// ToUseCaseInput converts to use case input for the given caller.
func (r *CreateTransactionRequest) ToUseCaseInput(callerUserID string) usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		CallerUserID: callerUserID,
		AccountID:    r.AccountID,
		Amount:       r.Amount,
		Kind:         domain.Kind(r.Kind),
	}
}

// UpdateTransactionRequest represents a request to rewrite a transaction.
type UpdateTransactionRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Kind   string          `json:"kind" validate:"required,oneof=debit credit"`
}

// ToUseCaseInput converts to use case input for the given caller and
// transaction.
func (r *UpdateTransactionRequest) ToUseCaseInput(callerUserID, transactionID string) usecase.UpdateTransactionInput {
	return usecase.UpdateTransactionInput{
		CallerUserID:  callerUserID,
		TransactionID: transactionID,
		Amount:        r.Amount,
		Kind:          domain.Kind(r.Kind),
	}
}
