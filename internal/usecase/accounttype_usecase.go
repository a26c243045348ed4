package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iho/investledger/internal/domain"
)

// AccountTypeUseCase handles account type registry logic.
type AccountTypeUseCase struct {
	typeRepo AccountTypeRepository
	cache    Cache
	idGen    IDGenerator
}

// NewAccountTypeUseCase creates a new AccountTypeUseCase. The cache is
// optional; pass nil to resolve types from the repository every time.
func NewAccountTypeUseCase(typeRepo AccountTypeRepository, cache Cache, idGen IDGenerator) *AccountTypeUseCase {
	return &AccountTypeUseCase{
		typeRepo: typeRepo,
		cache:    cache,
		idGen:    idGen,
	}
}

// CreateAccountTypeInput represents input for creating an account type.
type CreateAccountTypeInput struct {
	Name        string
	Description string
	Policy      domain.Policy
}

// CreateAccountType creates a new account type.
func (uc *AccountTypeUseCase) CreateAccountType(ctx context.Context, input CreateAccountTypeInput) (*domain.AccountType, error) {
	accountType := &domain.AccountType{
		ID:          uc.idGen.Generate(),
		Name:        input.Name,
		Description: input.Description,
		Policy:      input.Policy,
		CreatedAt:   time.Now().UTC(),
	}

	if err := accountType.Validate(); err != nil {
		return nil, err
	}

	if err := uc.typeRepo.Create(ctx, accountType); err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, accountType)

	return accountType, nil
}

// GetAccountType retrieves an account type by ID, cache first.
func (uc *AccountTypeUseCase) GetAccountType(ctx context.Context, id string) (*domain.AccountType, error) {
	if cached := uc.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	accountType, err := uc.typeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, accountType)

	return accountType, nil
}

// ListAccountTypesInput represents input for listing account types.
type ListAccountTypesInput struct {
	Limit  int
	Offset int
}

// ListAccountTypes lists account types with pagination.
func (uc *AccountTypeUseCase) ListAccountTypes(ctx context.Context, input ListAccountTypesInput) ([]*domain.AccountType, error) {
	return uc.typeRepo.List(ctx, clampPageSize(input.Limit), input.Offset)
}

func (uc *AccountTypeUseCase) cacheGet(ctx context.Context, id string) *domain.AccountType {
	if uc.cache == nil {
		return nil
	}

	data, err := uc.cache.Get(ctx, accountTypeCacheKey(id))
	if err != nil {
		return nil
	}

	var accountType domain.AccountType
	if err := json.Unmarshal(data, &accountType); err != nil {
		return nil
	}

	return &accountType
}

func (uc *AccountTypeUseCase) cacheSet(ctx context.Context, accountType *domain.AccountType) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(accountType)
	if err != nil {
		return
	}

	// Cache failures are not fatal; the repository stays authoritative.
	_ = uc.cache.Set(ctx, accountTypeCacheKey(accountType.ID), data, AccountTypeCacheTTL)
}

func accountTypeCacheKey(id string) string {
	return "account_type:" + id
}
