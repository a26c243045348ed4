package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// CreateTx inserts a new account inside the given transaction. A unique
// violation on the (owner, type) pair or the account number maps to
// domain.ErrDuplicateAccount.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO accounts (id, owner_user_id, account_type_id, account_number, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgxTx.Exec(ctx, query,
		account.ID,
		account.OwnerUserID,
		account.AccountTypeID,
		account.AccountNumber,
		decimalToNumeric(account.Balance),
		account.CreatedAt,
		account.UpdatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return domain.ErrDuplicateAccount
	}

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := accountSelect + ` WHERE id = $1`

	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := accountSelect + ` WHERE id = $1 FOR UPDATE`

	return r.scanAccount(pgxTx.QueryRow(ctx, query, id))
}

// LastAccountNumberForUpdate returns the highest account number for the
// (owner, type) pair, locking the matching rows for the remainder of the
// transaction. First account creation for a pair finds no rows to lock;
// the unique constraint on the pair settles that race.
func (r *AccountRepository) LastAccountNumberForUpdate(ctx context.Context, tx usecase.Transaction, ownerUserID, accountTypeID string) (string, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT account_number
		FROM accounts
		WHERE owner_user_id = $1 AND account_type_id = $2
		ORDER BY account_number DESC
		LIMIT 1
		FOR UPDATE
	`

	var number string
	err := pgxTx.QueryRow(ctx, query, ownerUserID, accountTypeID).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}

	return number, err
}

// ListByOwner lists a user's accounts, newest first.
func (r *AccountRepository) ListByOwner(ctx context.Context, ownerUserID string, limit, offset int) ([]*domain.Account, error) {
	query := accountSelect + `
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerUserID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := r.scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateBalance updates the balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1`

	_, err := pgxTx.Exec(ctx, query, id, decimalToNumeric(balance), updatedAt)

	return err
}

// DeleteTx deletes an account. Its transactions go with it via the
// ON DELETE CASCADE on transactions.account_id.
func (r *AccountRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

const accountSelect = `
	SELECT id, owner_user_id, account_type_id, account_number, balance, created_at, updated_at
	FROM accounts`

func (r *AccountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account domain.Account
		balance pgtype.Numeric
	)

	err := row.Scan(
		&account.ID,
		&account.OwnerUserID,
		&account.AccountTypeID,
		&account.AccountNumber,
		&balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.Balance = numericToDecimal(balance)

	return &account, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}
