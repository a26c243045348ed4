package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a new ledger transaction inside the given database
// transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO transactions (id, account_id, amount, kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := pgxTx.Exec(ctx, query,
		txn.ID,
		txn.AccountID,
		decimalToNumeric(txn.Amount),
		string(txn.Kind),
		txn.CreatedAt,
		txn.UpdatedAt,
	)

	return err
}

// GetByID retrieves a ledger transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := transactionSelect + ` WHERE id = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a ledger transaction by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := transactionSelect + ` WHERE id = $1 FOR UPDATE`

	return r.scanTransaction(pgxTx.QueryRow(ctx, query, id))
}

// ListByAccount lists an account's transactions, oldest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	query := transactionSelect + `
		WHERE account_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectTransactions(rows)
}

// ListByOwnerBetween returns every transaction on any of the user's accounts
// with created_at in [from, to], oldest first.
func (r *TransactionRepository) ListByOwnerBetween(ctx context.Context, ownerUserID string, from, to time.Time) ([]*domain.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.amount, t.kind, t.created_at, t.updated_at
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.owner_user_id = $1
		  AND t.created_at BETWEEN $2 AND $3
		ORDER BY t.created_at ASC, t.id ASC
	`

	rows, err := r.pool.Query(ctx, query, ownerUserID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectTransactions(rows)
}

// Update rewrites a ledger transaction's amount and kind.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `UPDATE transactions SET amount = $2, kind = $3, updated_at = $4 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, txn.ID, decimalToNumeric(txn.Amount), string(txn.Kind), txn.UpdatedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// DeleteTx deletes a ledger transaction.
func (r *TransactionRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

const transactionSelect = `
	SELECT id, account_id, amount, kind, created_at, updated_at
	FROM transactions`

func (r *TransactionRepository) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn    domain.Transaction
		amount pgtype.Numeric
		kind   string
	)

	err := row.Scan(&txn.ID, &txn.AccountID, &amount, &kind, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn.Amount = numericToDecimal(amount)
	txn.Kind = domain.Kind(kind)

	return &txn, nil
}

func (r *TransactionRepository) collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := r.scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}
