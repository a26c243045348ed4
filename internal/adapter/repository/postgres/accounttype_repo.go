package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/investledger/internal/domain"
)

// AccountTypeRepository implements usecase.AccountTypeRepository.
type AccountTypeRepository struct {
	pool *pgxpool.Pool
}

// NewAccountTypeRepository creates a new AccountTypeRepository.
func NewAccountTypeRepository(pool *pgxpool.Pool) *AccountTypeRepository {
	return &AccountTypeRepository{pool: pool}
}

// Create inserts a new account type.
func (r *AccountTypeRepository) Create(ctx context.Context, at *domain.AccountType) error {
	query := `
		INSERT INTO account_types (id, name, description, permission_policy, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		at.ID,
		at.Name,
		at.Description,
		string(at.Policy),
		at.CreatedAt,
	)

	return err
}

// GetByID retrieves an account type by ID.
func (r *AccountTypeRepository) GetByID(ctx context.Context, id string) (*domain.AccountType, error) {
	query := accountTypeSelect + ` WHERE id = $1`

	return r.scanAccountType(r.pool.QueryRow(ctx, query, id))
}

// List lists account types ordered by name.
func (r *AccountTypeRepository) List(ctx context.Context, limit, offset int) ([]*domain.AccountType, error) {
	query := accountTypeSelect + `
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*domain.AccountType
	for rows.Next() {
		at, err := r.scanAccountType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, at)
	}

	return types, rows.Err()
}

const accountTypeSelect = `
	SELECT id, name, description, permission_policy, created_at
	FROM account_types`

func (r *AccountTypeRepository) scanAccountType(row pgx.Row) (*domain.AccountType, error) {
	var (
		at     domain.AccountType
		policy string
	)

	err := row.Scan(&at.ID, &at.Name, &at.Description, &policy, &at.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountTypeNotFound
		}

		return nil, err
	}

	at.Policy = domain.Policy(policy)

	return &at, nil
}
