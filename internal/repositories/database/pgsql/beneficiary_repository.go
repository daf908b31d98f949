package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plarivier/corebank/internal/apperrors"
	"github.com/plarivier/corebank/internal/core/domain"
	portsrepo "github.com/plarivier/corebank/internal/core/ports/repositories"
	"github.com/plarivier/corebank/internal/models"
	"github.com/plarivier/corebank/internal/utils/mapping"
)

const beneficiaryColumns = `beneficiary_id, user_id, alias, account_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxBeneficiaryRepository struct {
	BaseRepository
}

func newPgxBeneficiaryRepository(pool *pgxpool.Pool) *PgxBeneficiaryRepository {
	return &PgxBeneficiaryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxBeneficiaryRepository implements the facade
var _ portsrepo.BeneficiaryRepositoryFacade = (*PgxBeneficiaryRepository)(nil)

func scanBeneficiaryRow(row pgx.Row) (*models.Beneficiary, error) {
	var m models.Beneficiary
	err := row.Scan(
		&m.BeneficiaryID,
		&m.UserID,
		&m.Alias,
		&m.AccountID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxBeneficiaryRepository) SaveBeneficiary(ctx context.Context, beneficiary domain.Beneficiary) error {
	m := mapping.ToModelBeneficiary(beneficiary)
	query := `
		INSERT INTO beneficiaries (beneficiary_id, user_id, alias, account_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BeneficiaryID,
		m.UserID,
		m.Alias,
		m.AccountID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("beneficiary already saved: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save beneficiary: %w", err)
	}
	return nil
}

func (r *PgxBeneficiaryRepository) ListBeneficiariesByUserID(ctx context.Context, userID string) ([]domain.Beneficiary, error) {
	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries WHERE user_id = $1 ORDER BY alias ASC;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list beneficiaries: %w", err)
	}
	defer rows.Close()

	var ms []models.Beneficiary
	for rows.Next() {
		m, err := scanBeneficiaryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan beneficiary row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating beneficiary rows: %w", err)
	}
	return mapping.ToDomainBeneficiarySlice(ms), nil
}
