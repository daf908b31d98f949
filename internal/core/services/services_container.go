package services

import (
	"log/slog"

	portsrepo "github.com/plarivier/corebank/internal/core/ports/repositories"
	portssvc "github.com/plarivier/corebank/internal/core/ports/services"
	"github.com/plarivier/corebank/pkg/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. The returned scheduler must be closed on
// shutdown so in-flight settlements can finish.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) (*portssvc.ServiceContainer, *SettlementScheduler) {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.User = NewUserService(repos.UserRepo, container.Account)
	container.Deposit = NewDepositService(repos.DepositRepo, repos.AccountRepo, cfg.BalanceCeiling)

	transactionSvc := NewTransactionService(
		repos.TransactionRepo,
		repos.AccountRepo,
		WithCeiling(cfg.BalanceCeiling),
		WithSweepRecords(cfg.RecordSweepTransactions),
	)
	scheduler := NewSettlementScheduler(transactionSvc, cfg.SettlementDelay, logger)
	transactionSvc.AttachScheduler(scheduler)
	container.Transaction = transactionSvc

	container.Beneficiary = NewBeneficiaryService(repos.BeneficiaryRepo, repos.AccountRepo)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container, scheduler
}
