package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/plarivier/corebank/internal/apperrors"
	"github.com/plarivier/corebank/internal/core/domain"
)

// fakeAccountStore is an in-memory account repository with the same atomicity
// guarantees the SQL implementation gives: balance updates either apply fully
// or fail without effect, a debit can never drive a balance negative, and a
// guarded credit can never push a non-primary account past the ceiling even
// when the caller computed its split from a stale balance.
type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

func newFakeAccountStore(accounts ...domain.Account) *fakeAccountStore {
	s := &fakeAccountStore{accounts: make(map[string]*domain.Account)}
	for _, acc := range accounts {
		a := acc
		s.accounts[a.AccountID] = &a
	}
	return s
}

func (s *fakeAccountStore) balance(accountID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[accountID].Balance
}

// applyDelta must be called with s.mu held. A positive ceiling gates credits
// to non-primary accounts, like the conditional UPDATE in the SQL layer.
func (s *fakeAccountStore) applyDelta(accountID string, delta decimal.Decimal, ceiling decimal.Decimal) error {
	acc, ok := s.accounts[accountID]
	if !ok || acc.DeletedAt != nil {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	next := acc.Balance.Add(delta)
	if next.IsNegative() {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrInsufficientFunds)
	}
	if delta.IsPositive() && ceiling.IsPositive() && !acc.IsPrimary && next.GreaterThan(ceiling) {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrCeilingExceeded)
	}
	acc.Balance = next
	return nil
}

// applyChanges applies every delta or none of them.
func (s *fakeAccountStore) applyChanges(changes map[string]decimal.Decimal, ceiling decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var applied []struct {
		id    string
		delta decimal.Decimal
	}
	for accountID, delta := range changes {
		if err := s.applyDelta(accountID, delta, ceiling); err != nil {
			for _, a := range applied {
				s.accounts[a.id].Balance = s.accounts[a.id].Balance.Sub(a.delta)
			}
			return err
		}
		applied = append(applied, struct {
			id    string
			delta decimal.Decimal
		}{accountID, delta})
	}
	return nil
}

func (s *fakeAccountStore) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok || acc.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (s *fakeAccountStore) FindAccountByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.IBAN == iban && acc.DeletedAt == nil {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *fakeAccountStore) FindPrimaryAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.UserID == userID && acc.IsPrimary && acc.DeletedAt == nil {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *fakeAccountStore) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Account
	for _, acc := range s.accounts {
		if acc.UserID == userID && acc.DeletedAt == nil {
			out = append(out, *acc)
		}
	}
	return out, nil
}

func (s *fakeAccountStore) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := account
	s.accounts[cp.AccountID] = &cp
	return nil
}

func (s *fakeAccountStore) SoftDeleteAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok || acc.DeletedAt != nil {
		return apperrors.ErrNotFound
	}
	acc.DeletedAt = &now
	return nil
}

func (s *fakeAccountStore) ApplyBalanceDelta(ctx context.Context, accountID string, delta decimal.Decimal, ceiling decimal.Decimal, userID string, now time.Time) (*domain.Account, error) {
	if err := s.applyChanges(map[string]decimal.Decimal{accountID: delta}, ceiling); err != nil {
		return nil, err
	}
	return s.FindAccountByID(ctx, accountID)
}

func (s *fakeAccountStore) ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, ceiling decimal.Decimal, userID string, now time.Time) (*domain.Account, error) {
	return s.ApplyBalanceDelta(ctx, accountID, delta, ceiling, userID, now)
}

// fakeTransactionRepo keeps transaction records in memory and delegates
// balance effects to the shared account store.
type fakeTransactionRepo struct {
	mu    sync.Mutex
	store *fakeAccountStore
	txns  map[string]*domain.Transaction
}

func newFakeTransactionRepo(store *fakeAccountStore) *fakeTransactionRepo {
	return &fakeTransactionRepo{
		store: store,
		txns:  make(map[string]*domain.Transaction),
	}
}

func (r *fakeTransactionRepo) SaveTransactionWithChanges(ctx context.Context, txn *domain.Transaction, changes map[string]decimal.Decimal, ceiling decimal.Decimal, userID string, now time.Time) error {
	if err := r.store.applyChanges(changes, ceiling); err != nil {
		return err
	}
	if txn != nil {
		r.mu.Lock()
		cp := *txn
		r.txns[cp.TransactionID] = &cp
		r.mu.Unlock()
	}
	return nil
}

func (r *fakeTransactionRepo) UpdateTransactionStatus(ctx context.Context, transactionID string, from, to domain.TransactionStatus, userID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[transactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if txn.Status != from {
		return fmt.Errorf("transaction %s is not %s: %w", transactionID, from, apperrors.ErrConflict)
	}
	txn.Status = to
	txn.LastUpdatedAt = now
	return nil
}

func (r *fakeTransactionRepo) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *txn
	return &cp, nil
}

func (r *fakeTransactionRepo) ListTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Transaction
	for _, txn := range r.txns {
		if txn.SenderAccountID == accountID || txn.ReceiverAccountID == accountID {
			out = append(out, *txn)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) CountPendingByAccountID(ctx context.Context, accountID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, txn := range r.txns {
		if txn.Status == domain.TransactionPending &&
			(txn.SenderAccountID == accountID || txn.ReceiverAccountID == accountID) {
			count++
		}
	}
	return count, nil
}

// sweepRecords returns the stored transactions carrying the given description.
func (r *fakeTransactionRepo) recordsWithDescription(description string) []domain.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Transaction
	for _, txn := range r.txns {
		if txn.Description == description {
			out = append(out, *txn)
		}
	}
	return out
}

// fakeDepositRepo records deposit batches and applies their credits
// all-or-nothing against the shared account store.
type fakeDepositRepo struct {
	mu       sync.Mutex
	store    *fakeAccountStore
	batches  [][]domain.Deposit
	deposits []domain.Deposit
}

func newFakeDepositRepo(store *fakeAccountStore) *fakeDepositRepo {
	return &fakeDepositRepo{store: store}
}

func (r *fakeDepositRepo) SaveDeposits(ctx context.Context, deposits []domain.Deposit, ceiling decimal.Decimal) error {
	changes := make(map[string]decimal.Decimal)
	for _, d := range deposits {
		changes[d.AccountID] = changes[d.AccountID].Add(d.Amount)
	}
	if err := r.store.applyChanges(changes, ceiling); err != nil {
		return err
	}
	r.mu.Lock()
	r.batches = append(r.batches, deposits)
	r.deposits = append(r.deposits, deposits...)
	r.mu.Unlock()
	return nil
}

func (r *fakeDepositRepo) ListDepositsByAccountID(ctx context.Context, accountID string) ([]domain.Deposit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Deposit
	for i := len(r.deposits) - 1; i >= 0; i-- {
		if r.deposits[i].AccountID == accountID {
			out = append(out, r.deposits[i])
		}
	}
	return out, nil
}

// gatedReadAccountStore wraps the store so the first N account reads all
// complete before any of those readers proceeds. Concurrent callers are
// forced to compute their credit splits from the same stale balance
// snapshot; later reads pass straight through.
type gatedReadAccountStore struct {
	*fakeAccountStore
	gateMu  sync.Mutex
	pending int
	barrier chan struct{}
}

func newGatedReadAccountStore(store *fakeAccountStore, readers int) *gatedReadAccountStore {
	return &gatedReadAccountStore{
		fakeAccountStore: store,
		pending:          readers,
		barrier:          make(chan struct{}),
	}
}

func (s *gatedReadAccountStore) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.fakeAccountStore.FindAccountByID(ctx, accountID)
	s.gateMu.Lock()
	if s.pending > 0 {
		s.pending--
		if s.pending == 0 {
			close(s.barrier)
		}
		s.gateMu.Unlock()
		<-s.barrier
		return account, err
	}
	s.gateMu.Unlock()
	return account, err
}

// fakeNotifier records scheduled transaction IDs without running settlement.
type fakeNotifier struct {
	mu        sync.Mutex
	scheduled []string
}

func (n *fakeNotifier) Schedule(transactionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scheduled = append(n.scheduled, transactionID)
}

func (n *fakeNotifier) scheduledIDs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.scheduled...)
}
