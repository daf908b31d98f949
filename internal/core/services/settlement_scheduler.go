package services

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	portssvc "github.com/plarivier/corebank/internal/core/ports/services"
	"github.com/plarivier/corebank/internal/middleware"
)

// SettlementScheduler runs the deferred half of a transfer: after the
// configured delay it invokes the settler once per scheduled transaction.
// Each task runs in its own goroutine; a settlement failure is logged and
// never retried. Close stops accepting new work, fires the still-waiting
// tasks immediately so no transfer is left pending by a shutdown, and waits
// for all tasks to finish.
type SettlementScheduler struct {
	settler portssvc.TransactionSettler
	delay   time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewSettlementScheduler creates a scheduler that settles transactions after
// the given delay.
func NewSettlementScheduler(settler portssvc.TransactionSettler, delay time.Duration, logger *slog.Logger) *SettlementScheduler {
	return &SettlementScheduler{
		settler: settler,
		delay:   delay,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

var _ SettlementNotifier = (*SettlementScheduler)(nil)

// Schedule queues the settlement of a transaction. It never blocks the
// caller; after Close it logs and drops the request.
func (s *SettlementScheduler) Schedule(transactionID string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("settlement scheduler closed, dropping task",
			"transaction_id", transactionID)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(transactionID)
}

func (s *SettlementScheduler) run(transactionID string) {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("settlement task panicked",
				"transaction_id", transactionID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-s.stopCh:
		// Shutdown: settle now instead of dropping the transfer.
	}

	ctx := middleware.ContextWithLogger(context.Background(), s.logger)
	if err := s.settler.Settle(ctx, transactionID); err != nil {
		s.logger.Error("settlement failed",
			"transaction_id", transactionID,
			"error", err,
		)
	}
}

// Close stops accepting new tasks, releases waiting tasks immediately and
// blocks until every in-flight settlement has finished.
func (s *SettlementScheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}
