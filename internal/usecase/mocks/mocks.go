package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/usecase"
)

// MockAccountTypeRepository is a mock implementation of AccountTypeRepository.
type MockAccountTypeRepository struct {
	mu    sync.RWMutex
	types map[string]*domain.AccountType

	CreateFunc  func(ctx context.Context, accountType *domain.AccountType) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.AccountType, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.AccountType, error)
}

func NewMockAccountTypeRepository() *MockAccountTypeRepository {
	return &MockAccountTypeRepository{
		types: make(map[string]*domain.AccountType),
	}
}

func (m *MockAccountTypeRepository) Create(ctx context.Context, accountType *domain.AccountType) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, accountType)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[accountType.ID] = accountType
	return nil
}

func (m *MockAccountTypeRepository) GetByID(ctx context.Context, id string) (*domain.AccountType, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.types[id]; ok {
		return t, nil
	}
	return nil, domain.ErrAccountTypeNotFound
}

func (m *MockAccountTypeRepository) List(ctx context.Context, limit, offset int) ([]*domain.AccountType, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var types []*domain.AccountType
	for _, t := range m.types {
		types = append(types, t)
	}
	return types, nil
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateTxFunc                   func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc                    func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc           func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	LastAccountNumberForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ownerUserID, accountTypeID string) (string, error)
	ListByOwnerFunc                func(ctx context.Context, ownerUserID string, limit, offset int) ([]*domain.Account, error)
	UpdateBalanceFunc              func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	DeleteTxFunc                   func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.OwnerUserID == account.OwnerUserID && existing.AccountTypeID == account.AccountTypeID {
			return domain.ErrDuplicateAccount
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) LastAccountNumberForUpdate(ctx context.Context, tx usecase.Transaction, ownerUserID, accountTypeID string) (string, error) {
	if m.LastAccountNumberForUpdateFunc != nil {
		return m.LastAccountNumberForUpdateFunc(ctx, tx, ownerUserID, accountTypeID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var numbers []string
	for _, acc := range m.accounts {
		if acc.OwnerUserID == ownerUserID && acc.AccountTypeID == accountTypeID {
			numbers = append(numbers, acc.AccountNumber)
		}
	}
	if len(numbers) == 0 {
		return "", nil
	}
	sort.Strings(numbers)
	return numbers[len(numbers)-1], nil
}

func (m *MockAccountRepository) ListByOwner(ctx context.Context, ownerUserID string, limit, offset int) ([]*domain.Account, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerUserID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.OwnerUserID == ownerUserID {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Balance = balance
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteTxFunc != nil {
		return m.DeleteTxFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc             func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc            func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error)
	ListByAccountFunc      func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
	ListByOwnerBetweenFunc func(ctx context.Context, ownerUserID string, from, to time.Time) ([]*domain.Transaction, error)
	UpdateFunc             func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	DeleteTxFunc           func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok {
		copied := *txn
		return &copied, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.AccountID == accountID {
			txns = append(txns, txn)
		}
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].CreatedAt.Before(txns[j].CreatedAt) })
	return txns, nil
}

func (m *MockTransactionRepository) ListByOwnerBetween(ctx context.Context, ownerUserID string, from, to time.Time) ([]*domain.Transaction, error) {
	if m.ListByOwnerBetweenFunc != nil {
		return m.ListByOwnerBetweenFunc(ctx, ownerUserID, from, to)
	}
	return nil, nil
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteTxFunc != nil {
		return m.DeleteTxFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.transactions, id)
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	Logs []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) ListByResource(ctx context.Context, resourceType, resourceID string, limit, offset int) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, log := range m.Logs {
		if log.ResourceType == resourceType && log.ResourceID == resourceID {
			logs = append(logs, log)
		}
	}
	return logs, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockRetrier is a pass-through Retrier that runs the operation once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockAccountTypeGetter is a mock implementation of AccountTypeGetter.
type MockAccountTypeGetter struct {
	GetAccountTypeFunc func(ctx context.Context, id string) (*domain.AccountType, error)
}

func (m *MockAccountTypeGetter) GetAccountType(ctx context.Context, id string) (*domain.AccountType, error) {
	if m.GetAccountTypeFunc != nil {
		return m.GetAccountTypeFunc(ctx, id)
	}
	return nil, domain.ErrAccountTypeNotFound
}
