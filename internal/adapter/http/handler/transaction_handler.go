package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/investledger/internal/adapter/http/dto"
	"github.com/iho/investledger/internal/adapter/http/middleware"
	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, callerUserID, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, callerUserID, transactionID string) error
}

// TransactionHandler handles transaction HTTP requests.
type TransactionHandler struct {
	txnUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txnUC TransactionService) *TransactionHandler {
	return &TransactionHandler{txnUC: txnUC}
}

// Create posts a debit or credit to an account the caller owns, subject to
// the account type's policy.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateTransactionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	txn, err := h.txnUC.CreateTransaction(r.Context(), req.ToUseCaseInput(claims.UserID))
	if err != nil {
		writeDomainError(w, "failed to create transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.txnUC.GetTransaction(r.Context(), claims.UserID, id)
	if err != nil {
		writeDomainError(w, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// ListByAccount lists an account's transactions.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	txns, err := h.txnUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		CallerUserID: claims.UserID,
		AccountID:    accountID,
		Limit:        parseIntQuery(r, "limit", 20),
		Offset:       parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Total:        int64(len(txns)),
	})
}

// Update rewrites a transaction's amount and kind, reconciling the account
// balance.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.UpdateTransactionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	txn, err := h.txnUC.UpdateTransaction(r.Context(), req.ToUseCaseInput(claims.UserID, id))
	if err != nil {
		writeDomainError(w, "failed to update transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Delete removes a transaction and reverses its balance effect.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	if err := h.txnUC.DeleteTransaction(r.Context(), claims.UserID, id); err != nil {
		writeDomainError(w, "failed to delete transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
