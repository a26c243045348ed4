package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/usecase"
)

// AccountTypeResponse represents an account type in API responses.
type AccountTypeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Policy      string    `json:"permission_policy"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccountTypeFromDomain converts a domain account type to a response.
func AccountTypeFromDomain(at *domain.AccountType) *AccountTypeResponse {
	return &AccountTypeResponse{
		ID:          at.ID,
		Name:        at.Name,
		Description: at.Description,
		Policy:      string(at.Policy),
		CreatedAt:   at.CreatedAt,
	}
}

// AccountTypesFromDomain converts domain account types to responses.
func AccountTypesFromDomain(types []*domain.AccountType) []*AccountTypeResponse {
	result := make([]*AccountTypeResponse, len(types))
	for i, at := range types {
		result[i] = AccountTypeFromDomain(at)
	}
	return result
}

// ListAccountTypesResponse wraps a page of account types.
type ListAccountTypesResponse struct {
	AccountTypes []*AccountTypeResponse `json:"account_types"`
	Total        int64                  `json:"total"`
}

// AccountResponse represents a ledger account in API responses.
type AccountResponse struct {
	ID            string          `json:"id"`
	OwnerUserID   string          `json:"owner_user_id"`
	AccountTypeID string          `json:"account_type_id"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		OwnerUserID:   a.OwnerUserID,
		AccountTypeID: a.AccountTypeID,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      string          `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:        t.ID,
		AccountID: t.AccountID,
		Amount:    t.Amount,
		Kind:      string(t.Kind),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// UserTransactionsReportResponse represents the admin aggregation result.
// TotalBalance is the signed net flow over the range, credits minus debits.
type UserTransactionsReportResponse struct {
	UserID       string                 `json:"user_id"`
	From         time.Time              `json:"from"`
	To           time.Time              `json:"to"`
	Transactions []*TransactionResponse `json:"transactions"`
	TotalBalance decimal.Decimal        `json:"total_balance"`
}

// ReportFromUseCase converts a report to a response.
func ReportFromUseCase(input usecase.UserTransactionsInput, report *usecase.UserTransactionsReport) *UserTransactionsReportResponse {
	return &UserTransactionsReportResponse{
		UserID:       input.UserID,
		From:         input.From,
		To:           input.To,
		Transactions: TransactionsFromDomain(report.Transactions),
		TotalBalance: report.TotalBalance,
	}
}

// AuditLogResponse represents an audit trail entry in API responses.
type AuditLogResponse struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Action       string      `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id"`
	BeforeState  domain.JSON `json:"before_state,omitempty"`
	AfterState   domain.JSON `json:"after_state,omitempty"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// AuditLogFromDomain converts a domain audit log to a response.
func AuditLogFromDomain(l *domain.AuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		BeforeState:  l.BeforeState,
		AfterState:   l.AfterState,
		Status:       l.Status,
		CreatedAt:    l.CreatedAt,
	}
}

// AuditLogsFromDomain converts domain audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = AuditLogFromDomain(l)
	}
	return result
}

// ListAuditLogsResponse wraps a page of audit logs.
type ListAuditLogsResponse struct {
	AuditLogs []*AuditLogResponse `json:"audit_logs"`
	Total     int64               `json:"total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
