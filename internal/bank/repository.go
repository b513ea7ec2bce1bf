package bank

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoPrimaryAccount means no bank account row is flagged both primary
// and active. Order creation cannot proceed without one; this is an
// operational misconfiguration, not a customer error.
var ErrNoPrimaryAccount = errors.New("bank: no primary active account configured")

// RowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, so the
// primary-account lookup can run standalone or inside the order-creation
// transaction.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	GetPrimary(ctx context.Context) (*Account, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetPrimary(ctx context.Context) (*Account, error) {
	return QueryPrimary(ctx, r.db)
}

// QueryPrimary resolves the primary active bank account using the given
// querier (pool or transaction).
func QueryPrimary(ctx context.Context, q RowQuerier) (*Account, error) {
	query := `
		SELECT id, bank_name, bank_code, account_number, account_holder, is_primary, is_active, created_at
		FROM bank_accounts
		WHERE is_primary = TRUE AND is_active = TRUE
		LIMIT 1
	`

	var acct Account
	err := q.QueryRow(ctx, query).Scan(
		&acct.ID,
		&acct.BankName,
		&acct.BankCode,
		&acct.AccountNumber,
		&acct.AccountHolder,
		&acct.IsPrimary,
		&acct.IsActive,
		&acct.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoPrimaryAccount
		}
		return nil, fmt.Errorf("repository: failed to select primary bank account: %w", err)
	}

	return &acct, nil
}
