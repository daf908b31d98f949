package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/plarivier/corebank/internal/apperrors"
	"github.com/plarivier/corebank/internal/core/domain"
	portsrepo "github.com/plarivier/corebank/internal/core/ports/repositories"
	portssvc "github.com/plarivier/corebank/internal/core/ports/services"
	"github.com/plarivier/corebank/internal/dto"
	"github.com/plarivier/corebank/internal/middleware"
	"github.com/plarivier/corebank/internal/utils"
)

var (
	ErrSameAccount            = errors.New("sender and receiver must be different accounts")
	ErrCannotCancel           = errors.New("transaction is no longer pending")
	ErrIsPrimary              = errors.New("primary accounts cannot be closed")
	ErrHasPendingTransactions = errors.New("account has pending transactions")
)

const accountClosedDescription = "account closed"

// SettlementNotifier schedules the deferred settlement of a transaction.
type SettlementNotifier interface {
	Schedule(transactionID string)
}

// transactionAccountRepo is the slice of the account repository the
// transaction engine needs: lookups plus soft deletion for account closing.
type transactionAccountRepo interface {
	portsrepo.AccountReader
	portsrepo.AccountWriter
}

// TransactionService is the transaction engine: transfer creation with a
// synchronous sender debit, deferred settlement of the credit side,
// cancellation with refund and account closing.
type TransactionService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
	accountRepo     transactionAccountRepo
	ceiling         decimal.Decimal
	recordSweeps    bool
	notifier        SettlementNotifier
}

// TransactionServiceOption configures a TransactionService.
type TransactionServiceOption func(*TransactionService)

// WithCeiling overrides the balance ceiling applied at settlement.
func WithCeiling(ceiling decimal.Decimal) TransactionServiceOption {
	return func(s *TransactionService) {
		if ceiling.IsPositive() {
			s.ceiling = ceiling
		}
	}
}

// WithSweepRecords controls whether ceiling sweeps create their own
// transaction records.
func WithSweepRecords(record bool) TransactionServiceOption {
	return func(s *TransactionService) {
		s.recordSweeps = record
	}
}

// NewTransactionService creates a new transaction service. A settlement
// notifier must be attached before transfers are created.
func NewTransactionService(transactionRepo portsrepo.TransactionRepositoryFacade, accountRepo transactionAccountRepo, opts ...TransactionServiceOption) *TransactionService {
	s := &TransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		ceiling:         domain.DefaultBalanceCeiling,
		recordSweeps:    true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure TransactionService implements both halves of the engine
var (
	_ portssvc.TransactionSvcFacade = (*TransactionService)(nil)
	_ portssvc.TransactionSettler   = (*TransactionService)(nil)
)

// AttachScheduler wires the notifier that triggers deferred settlement. Split
// from the constructor because the scheduler itself needs the service as its
// settler.
func (s *TransactionService) AttachScheduler(notifier SettlementNotifier) {
	s.notifier = notifier
}

func (s *TransactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, callerUserID string) (*domain.Transaction, error) {
	sender, err := s.accountRepo.FindAccountByIBAN(ctx, req.SenderIBAN)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("sender account %s: %w", req.SenderIBAN, apperrors.ErrNotFound)
		}
		return nil, err
	}
	receiver, err := s.accountRepo.FindAccountByIBAN(ctx, req.ReceiverIBAN)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("receiver account %s: %w", req.ReceiverIBAN, apperrors.ErrNotFound)
		}
		return nil, err
	}

	if !req.Amount.IsPositive() || !utils.HasValidScale(req.Amount) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAmount, apperrors.ErrValidation)
	}
	if sender.AccountID == receiver.AccountID {
		return nil, fmt.Errorf("%w: %w", ErrSameAccount, apperrors.ErrValidation)
	}
	// Funds are reported before ownership; the snapshot check here fixes the
	// error order while the conditional update below stays the real guard.
	if sender.Balance.LessThan(req.Amount) {
		return nil, fmt.Errorf("sender account %s cannot cover %s: %w", sender.AccountID, req.Amount.String(), apperrors.ErrInsufficientFunds)
	}
	if sender.UserID != callerUserID {
		return nil, fmt.Errorf("sender account does not belong to the caller: %w", apperrors.ErrForbidden)
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID:     uuid.NewString(),
		SenderAccountID:   sender.AccountID,
		ReceiverAccountID: receiver.AccountID,
		Amount:            req.Amount,
		Description:       req.Description,
		Status:            domain.TransactionPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     callerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: callerUserID,
		},
	}

	// The debit and the pending record land atomically; the repository
	// rejects the debit when the sender balance would go negative.
	changes := map[string]decimal.Decimal{sender.AccountID: req.Amount.Neg()}
	if err := s.transactionRepo.SaveTransactionWithChanges(ctx, &txn, changes, s.ceiling, callerUserID, now); err != nil {
		return nil, err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.InfoContext(ctx, "transfer created",
		"transaction_id", txn.TransactionID,
		"sender_account_id", sender.AccountID,
		"receiver_account_id", receiver.AccountID,
		"amount", req.Amount.String(),
	)

	if s.notifier != nil {
		s.notifier.Schedule(txn.TransactionID)
	} else {
		logger.WarnContext(ctx, "no settlement scheduler attached; transaction will stay pending",
			"transaction_id", txn.TransactionID)
	}
	return &txn, nil
}

// Settle credits the receiver of a pending transaction and marks it settled.
// The status flip runs first as a compare-and-set: when a concurrent cancel
// wins, the flip reports a conflict and no credit happens, so exactly one of
// refund and settlement ever takes effect.
func (s *TransactionService) Settle(ctx context.Context, transactionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to load transaction %s for settlement: %w", transactionID, err)
	}
	if txn.Status.IsTerminal() {
		return nil
	}

	now := time.Now()
	err = s.transactionRepo.UpdateTransactionStatus(ctx, transactionID, domain.TransactionPending, domain.TransactionSettled, txn.CreatedBy, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.InfoContext(ctx, "settlement skipped, transaction already terminal",
				"transaction_id", transactionID)
			return nil
		}
		return err
	}

	// The split below is computed from a balance snapshot; the storage layer
	// rejects credits that a concurrent write pushed past the ceiling, and
	// the split is recomputed from a fresh read, bounded by
	// maxSweepIterations.
	for attempt := 0; attempt < maxSweepIterations; attempt++ {
		receiver, err := s.accountRepo.FindAccountByID(ctx, txn.ReceiverAccountID)
		if err != nil {
			logger.ErrorContext(ctx, "settlement credit failed, receiver account unavailable",
				"transaction_id", transactionID,
				"receiver_account_id", txn.ReceiverAccountID,
				"error", err,
			)
			return fmt.Errorf("failed to load receiver of transaction %s: %w", transactionID, err)
		}

		changes := map[string]decimal.Decimal{receiver.AccountID: txn.Amount}
		ceiling := s.ceiling
		var sweepTxn *domain.Transaction

		overflow := domain.OverflowAmount(*receiver, txn.Amount, s.ceiling)
		if overflow.IsPositive() {
			primary, err := s.accountRepo.FindPrimaryAccountByUserID(ctx, receiver.UserID)
			if err != nil {
				// Without a sweep target the full amount stays on the
				// receiver; the ceiling is a policy bound, losing money is
				// worse. The guard is disabled for this credit so the
				// over-ceiling write goes through.
				logger.ErrorContext(ctx, "ceiling exceeded but owner has no primary account, crediting in full",
					"transaction_id", transactionID,
					"receiver_account_id", receiver.AccountID,
					"overflow", overflow.String(),
					"error", err,
				)
				ceiling = decimal.Zero
			} else {
				changes[receiver.AccountID] = txn.Amount.Sub(overflow)
				changes[primary.AccountID] = changes[primary.AccountID].Add(overflow)
				if s.recordSweeps {
					sweepTxn = &domain.Transaction{
						TransactionID:     uuid.NewString(),
						SenderAccountID:   receiver.AccountID,
						ReceiverAccountID: primary.AccountID,
						Amount:            overflow,
						Description:       domain.SweepDescription,
						Status:            domain.TransactionSettled,
						AuditFields: domain.AuditFields{
							CreatedAt:     now,
							CreatedBy:     txn.CreatedBy,
							LastUpdatedAt: now,
							LastUpdatedBy: txn.CreatedBy,
						},
					}
				}
			}
		}

		err = s.transactionRepo.SaveTransactionWithChanges(ctx, sweepTxn, changes, ceiling, txn.CreatedBy, now)
		if err == nil {
			logger.InfoContext(ctx, "transaction settled",
				"transaction_id", transactionID,
				"receiver_account_id", receiver.AccountID,
				"swept", overflow.String(),
			)
			return nil
		}
		if !errors.Is(err, apperrors.ErrCeilingExceeded) {
			logger.ErrorContext(ctx, "settlement credit failed after status flip",
				"transaction_id", transactionID,
				"error", err,
			)
			return fmt.Errorf("failed to credit settlement of transaction %s: %w", transactionID, err)
		}
	}

	logger.ErrorContext(ctx, "settlement sweep kept losing ceiling races, giving up",
		"transaction_id", transactionID,
		"attempts", maxSweepIterations,
	)
	return fmt.Errorf("%w settling transaction %s: %w", ErrSweepDidNotConverge, transactionID, apperrors.ErrConflict)
}

func (s *TransactionService) CancelTransaction(ctx context.Context, transactionID string, callerUserID string) error {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.Status.IsTerminal() {
		return fmt.Errorf("%w: %w", ErrCannotCancel, apperrors.ErrConflict)
	}

	sender, err := s.accountRepo.FindAccountByID(ctx, txn.SenderAccountID)
	if err != nil {
		return fmt.Errorf("failed to load sender of transaction %s: %w", transactionID, err)
	}
	if sender.UserID != callerUserID {
		return fmt.Errorf("transaction %s does not belong to the caller: %w", transactionID, apperrors.ErrForbidden)
	}

	now := time.Now()
	err = s.transactionRepo.UpdateTransactionStatus(ctx, transactionID, domain.TransactionPending, domain.TransactionCancelled, callerUserID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: %w", ErrCannotCancel, apperrors.ErrConflict)
		}
		return err
	}

	// The cancel won the status race, so the settlement credit never runs
	// and the debited amount goes straight back to the sender. Refunds
	// restore the pre-debit balance in full, so the ceiling guard is off.
	refund := map[string]decimal.Decimal{txn.SenderAccountID: txn.Amount}
	if err := s.transactionRepo.SaveTransactionWithChanges(ctx, nil, refund, decimal.Zero, callerUserID, now); err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.ErrorContext(ctx, "refund failed after cancellation",
			"transaction_id", transactionID,
			"sender_account_id", txn.SenderAccountID,
			"error", err,
		)
		return fmt.Errorf("failed to refund cancelled transaction %s: %w", transactionID, err)
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.InfoContext(ctx, "transaction cancelled",
		"transaction_id", transactionID,
		"refunded", txn.Amount.String(),
	)
	return nil
}

func (s *TransactionService) GetTransactionByID(ctx context.Context, transactionID string, callerUserID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if s.ownsEitherSide(ctx, txn, callerUserID) {
		return txn, nil
	}
	return nil, fmt.Errorf("transaction %s is not visible to the caller: %w", transactionID, apperrors.ErrForbidden)
}

func (s *TransactionService) ownsEitherSide(ctx context.Context, txn *domain.Transaction, userID string) bool {
	for _, accountID := range []string{txn.SenderAccountID, txn.ReceiverAccountID} {
		if accountID == "" {
			continue
		}
		account, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err == nil && account.UserID == userID {
			return true
		}
	}
	return false
}

func (s *TransactionService) ListTransactions(ctx context.Context, accountID string, callerUserID string) ([]domain.Transaction, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != callerUserID {
		return nil, fmt.Errorf("account %s does not belong to the caller: %w", accountID, apperrors.ErrForbidden)
	}
	return s.transactionRepo.ListTransactionsByAccountID(ctx, accountID)
}

// CloseAccount sweeps the remaining balance to the owner's primary account
// and soft-deletes the account. Primary accounts and accounts with pending
// transactions cannot be closed.
func (s *TransactionService) CloseAccount(ctx context.Context, accountID string, callerUserID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != callerUserID {
		return nil, fmt.Errorf("account %s does not belong to the caller: %w", accountID, apperrors.ErrForbidden)
	}
	if account.IsPrimary {
		return nil, fmt.Errorf("%w: %w", ErrIsPrimary, apperrors.ErrValidation)
	}

	pending, err := s.transactionRepo.CountPendingByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, fmt.Errorf("%w (%d pending): %w", ErrHasPendingTransactions, pending, apperrors.ErrConflict)
	}

	now := time.Now()
	if account.Balance.IsPositive() {
		primary, err := s.accountRepo.FindPrimaryAccountByUserID(ctx, account.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %w", ErrPrimaryAccountNotFound, apperrors.ErrConflict)
			}
			return nil, err
		}
		var closeTxn *domain.Transaction
		if s.recordSweeps {
			closeTxn = &domain.Transaction{
				TransactionID:     uuid.NewString(),
				SenderAccountID:   account.AccountID,
				ReceiverAccountID: primary.AccountID,
				Amount:            account.Balance,
				Description:       accountClosedDescription,
				Status:            domain.TransactionSettled,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     callerUserID,
					LastUpdatedAt: now,
					LastUpdatedBy: callerUserID,
				},
			}
		}
		changes := map[string]decimal.Decimal{
			account.AccountID: account.Balance.Neg(),
			primary.AccountID: account.Balance,
		}
		if err := s.transactionRepo.SaveTransactionWithChanges(ctx, closeTxn, changes, s.ceiling, callerUserID, now); err != nil {
			return nil, fmt.Errorf("failed to sweep balance of closing account %s: %w", accountID, err)
		}
	}

	if err := s.accountRepo.SoftDeleteAccount(ctx, accountID, callerUserID, now); err != nil {
		return nil, err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.InfoContext(ctx, "account closed",
		"account_id", accountID,
		"swept", account.Balance.String(),
	)

	closed := *account
	closed.Balance = decimal.Zero
	closed.DeletedAt = &now
	closed.LastUpdatedAt = now
	closed.LastUpdatedBy = callerUserID
	return &closed, nil
}
