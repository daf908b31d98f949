package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/plarivier/corebank/internal/apperrors"
	"github.com/plarivier/corebank/internal/core/domain"
	portsrepo "github.com/plarivier/corebank/internal/core/ports/repositories"
	"github.com/plarivier/corebank/internal/models"
	"github.com/plarivier/corebank/internal/utils/mapping"
)

const accountColumns = `account_id, user_id, name, category, balance, iban, is_primary, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAccountRepository implements the facade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccountRow(row pgx.Row) (*models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.Name,
		&m.Category,
		&m.Balance,
		&m.IBAN,
		&m.IsPrimary,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (account_id, user_id, name, category, balance, iban, is_primary, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.Name,
		m.Category,
		m.Balance,
		m.IBAN,
		m.IsPrimary,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account conflicts with an existing one: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND deleted_at IS NULL;`
	m, err := scanAccountRow(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}
	account := mapping.ToDomainAccount(*m)
	return &account, nil
}

func (r *PgxAccountRepository) FindAccountByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE iban = $1 AND deleted_at IS NULL;`
	m, err := scanAccountRow(r.Pool.QueryRow(ctx, query, iban))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by IBAN: %w", err)
	}
	account := mapping.ToDomainAccount(*m)
	return &account, nil
}

func (r *PgxAccountRepository) FindPrimaryAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND is_primary AND deleted_at IS NULL;`
	m, err := scanAccountRow(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find primary account: %w", err)
	}
	account := mapping.ToDomainAccount(*m)
	return &account, nil
}

func (r *PgxAccountRepository) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at ASC;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

func (r *PgxAccountRepository) SoftDeleteAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND deleted_at IS NULL;
	`
	ct, err := r.Pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to soft delete account: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("account not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

// ApplyBalanceDelta applies balance += delta as one conditional UPDATE. The
// WHERE clause rejects updates that would drive the balance negative, and
// credits that would push a non-primary account past the ceiling, so
// concurrent writers serialize on the row and the losing writer fails
// cleanly instead of overdrawing or overfilling.
func (r *PgxAccountRepository) ApplyBalanceDelta(ctx context.Context, accountID string, delta decimal.Decimal, ceiling decimal.Decimal, userID string, now time.Time) (*domain.Account, error) {
	return r.applyBalanceDelta(ctx, r.Pool, accountID, delta, ceiling, userID, now)
}

// ApplyBalanceDeltaInTx is ApplyBalanceDelta running inside an enclosing
// transaction owned by another repository.
func (r *PgxAccountRepository) ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, ceiling decimal.Decimal, userID string, now time.Time) (*domain.Account, error) {
	return r.applyBalanceDelta(ctx, tx, accountID, delta, ceiling, userID, now)
}

func (r *PgxAccountRepository) applyBalanceDelta(ctx context.Context, q pgxQuerier, accountID string, delta decimal.Decimal, ceiling decimal.Decimal, userID string, now time.Time) (*domain.Account, error) {
	// The ceiling clause only gates credits ($2 > 0): debits must go through
	// even on accounts legitimately above the ceiling, and a non-positive $5
	// disables the check entirely (refunds, closure sweeps into the primary).
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND deleted_at IS NULL AND balance + $2 >= 0
		  AND ($2 <= 0 OR $5 <= 0 OR is_primary OR balance + $2 <= $5)
		RETURNING ` + accountColumns + `;
	`
	m, err := scanAccountRow(q.QueryRow(ctx, query, accountID, delta, now, userID, ceiling))
	if err == nil {
		account := mapping.ToDomainAccount(*m)
		return &account, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to apply balance delta to account %s: %w", accountID, err)
	}

	// No row matched: the account is gone, the debit would overdraw, or the
	// credit would breach the ceiling.
	var current models.Account
	checkQuery := `SELECT balance, is_primary FROM accounts WHERE account_id = $1 AND deleted_at IS NULL;`
	if checkErr := q.QueryRow(ctx, checkQuery, accountID).Scan(&current.Balance, &current.IsPrimary); checkErr != nil {
		if errors.Is(checkErr, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s not found during balance update: %w", accountID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to check account %s after rejected balance update: %w", accountID, checkErr)
	}
	if current.Balance.Add(delta).IsNegative() {
		return nil, fmt.Errorf("balance update of %s on account %s rejected: %w", delta.String(), accountID, apperrors.ErrInsufficientFunds)
	}
	return nil, fmt.Errorf("credit of %s on account %s rejected: %w", delta.String(), accountID, apperrors.ErrCeilingExceeded)
}
