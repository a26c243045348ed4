package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/investledger/internal/adapter/http/dto"
	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/usecase"
)

// AccountTypeService defines the behavior needed by AccountTypeHandler.
type AccountTypeService interface {
	CreateAccountType(ctx context.Context, input usecase.CreateAccountTypeInput) (*domain.AccountType, error)
	GetAccountType(ctx context.Context, id string) (*domain.AccountType, error)
	ListAccountTypes(ctx context.Context, input usecase.ListAccountTypesInput) ([]*domain.AccountType, error)
}

// AccountTypeHandler handles account type HTTP requests.
type AccountTypeHandler struct {
	typeUC AccountTypeService
}

// NewAccountTypeHandler creates a new AccountTypeHandler.
func NewAccountTypeHandler(typeUC AccountTypeService) *AccountTypeHandler {
	return &AccountTypeHandler{typeUC: typeUC}
}

// Create creates a new account type. Admin only; the router enforces the
// role check.
func (h *AccountTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountTypeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	accountType, err := h.typeUC.CreateAccountType(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create account type", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountTypeFromDomain(accountType))
}

// Get retrieves an account type by ID.
func (h *AccountTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account type ID", "")
		return
	}

	accountType, err := h.typeUC.GetAccountType(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get account type", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountTypeFromDomain(accountType))
}

// List lists account types.
func (h *AccountTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.typeUC.ListAccountTypes(r.Context(), usecase.ListAccountTypesInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list account types", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountTypesResponse{
		AccountTypes: dto.AccountTypesFromDomain(types),
		Total:        int64(len(types)),
	})
}
