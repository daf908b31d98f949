package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/plarivier/corebank/internal/core/domain"
	portsrepo "github.com/plarivier/corebank/internal/core/ports/repositories"
	"github.com/plarivier/corebank/internal/models"
	"github.com/plarivier/corebank/internal/utils/mapping"
)

const depositColumns = `deposit_id, account_id, amount, description, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

type PgxDepositRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountTransactionSupport
}

func newPgxDepositRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountTransactionSupport) *PgxDepositRepository {
	return &PgxDepositRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxDepositRepository implements the facade
var _ portsrepo.DepositRepositoryFacade = (*PgxDepositRepository)(nil)

func scanDepositRow(row pgx.Row) (*models.Deposit, error) {
	var m models.Deposit
	err := row.Scan(
		&m.DepositID,
		&m.AccountID,
		&m.Amount,
		&m.Description,
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

// SaveDeposits inserts every record and credits its account inside one
// transaction. A ceiling split (credit to the target plus the swept remainder
// on the primary) either lands whole or not at all: when a credit fails the
// in-row ceiling guard the whole batch rolls back with ErrCeilingExceeded.
func (r *PgxDepositRepository) SaveDeposits(ctx context.Context, deposits []domain.Deposit, ceiling decimal.Decimal) error {
	if len(deposits) == 0 {
		return nil
	}

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

	insertQuery := `
		INSERT INTO deposits (deposit_id, account_id, amount, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, d := range deposits {
		if _, err := r.accountRepo.ApplyBalanceDeltaInTx(ctx, tx, d.AccountID, d.Amount, ceiling, d.CreatedBy, d.CreatedAt); err != nil {
			return fmt.Errorf("failed to credit account %s for deposit: %w", d.AccountID, err)
		}
		m := mapping.ToModelDeposit(d)
		if _, err := tx.Exec(ctx, insertQuery,
			m.DepositID,
			m.AccountID,
			m.Amount,
			m.Description,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		); err != nil {
			return fmt.Errorf("failed to insert deposit %s: %w", m.DepositID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *PgxDepositRepository) ListDepositsByAccountID(ctx context.Context, accountID string) ([]domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE account_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	defer rows.Close()

	var ms []models.Deposit
	for rows.Next() {
		m, err := scanDepositRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deposit rows: %w", err)
	}
	return mapping.ToDomainDepositSlice(ms), nil
}
