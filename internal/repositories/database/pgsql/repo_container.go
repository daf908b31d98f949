package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/plarivier/corebank/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	depositRepo := newPgxDepositRepository(dbPool, accountRepo)
	transactionRepo := newPgxTransactionRepository(dbPool, accountRepo)
	beneficiaryRepo := newPgxBeneficiaryRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:        userRepo,
		AccountRepo:     accountRepo,
		DepositRepo:     depositRepo,
		TransactionRepo: transactionRepo,
		BeneficiaryRepo: beneficiaryRepo,
	}
}
