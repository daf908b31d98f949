package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

const transactionColumns = `transaction_id, sender_account_id, receiver_account_id, amount, description, status, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountTransactionSupport
}

func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountTransactionSupport) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxTransactionRepository implements the facade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransactionRow(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.SenderAccountID,
		&m.ReceiverAccountID,
		&m.Amount,
		&m.Description,
		&m.Status,
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

// SaveTransactionWithChanges applies every balance delta and inserts the
// transaction record (when given) in one storage transaction. Deltas run in
// sorted account order so concurrent multi-account units take row locks in a
// consistent order. Credits carry the ceiling into the in-row guard; a split
// computed from a stale balance rolls back whole with ErrCeilingExceeded.
func (r *PgxTransactionRepository) SaveTransactionWithChanges(ctx context.Context, txn *domain.Transaction, changes map[string]decimal.Decimal, ceiling decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	accountIDs := make([]string, 0, len(changes))
	for accountID := range changes {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Strings(accountIDs)

	for _, accountID := range accountIDs {
		delta := changes[accountID]
		if delta.IsZero() {
			continue
		}
		if _, err := r.accountRepo.ApplyBalanceDeltaInTx(ctx, tx, accountID, delta, ceiling, userID, now); err != nil {
			return err
		}
	}

	if txn != nil {
		m := mapping.ToModelTransaction(*txn)
		insertQuery := `
			INSERT INTO transactions (transaction_id, sender_account_id, receiver_account_id, amount, description, status, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`
		if _, err := tx.Exec(ctx, insertQuery,
			m.TransactionID,
			m.SenderAccountID,
			m.ReceiverAccountID,
			m.Amount,
			m.Description,
			m.Status,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateTransactionStatus is a compare-and-set on the status column. When two
// workers race to settle and cancel the same transaction, exactly one
// conditional UPDATE matches; the other observes zero rows and reports
// ErrConflict.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, from, to domain.TransactionStatus, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $1 AND status = $2 AND deleted_at IS NULL;
	`
	ct, err := r.Pool.Exec(ctx, query, transactionID, string(from), string(to), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %s: %w", transactionID, err)
	}
	if ct.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1 AND deleted_at IS NULL);`
	if checkErr := r.Pool.QueryRow(ctx, checkQuery, transactionID).Scan(&exists); checkErr != nil {
		return fmt.Errorf("failed to check transaction %s after rejected status update: %w", transactionID, checkErr)
	}
	if !exists {
		return fmt.Errorf("transaction %s not found: %w", transactionID, apperrors.ErrNotFound)
	}
	return fmt.Errorf("transaction %s is not %s: %w", transactionID, from, apperrors.ErrConflict)
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 AND deleted_at IS NULL;`
	m, err := scanTransactionRow(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID: %w", err)
	}
	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

func (r *PgxTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (sender_account_id = $1 OR receiver_account_id = $1) AND deleted_at IS NULL
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var ms []models.Transaction
	for rows.Next() {
		m, err := scanTransactionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

func (r *PgxTransactionRepository) CountPendingByAccountID(ctx context.Context, accountID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions
		WHERE (sender_account_id = $1 OR receiver_account_id = $1)
		  AND status = $2 AND deleted_at IS NULL;
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, accountID, string(domain.TransactionPending)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending transactions: %w", err)
	}
	return count, nil
}
