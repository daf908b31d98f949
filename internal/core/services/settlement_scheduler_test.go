package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plarivier/corebank/internal/core/services"
)

// recordingSettler counts Settle invocations per transaction.
type recordingSettler struct {
	mu      sync.Mutex
	settled map[string]int
	done    chan string
	err     error
}

func newRecordingSettler() *recordingSettler {
	return &recordingSettler{
		settled: make(map[string]int),
		done:    make(chan string, 16),
	}
}

func (r *recordingSettler) Settle(ctx context.Context, transactionID string) error {
	r.mu.Lock()
	r.settled[transactionID]++
	r.mu.Unlock()
	r.done <- transactionID
	return r.err
}

func (r *recordingSettler) count(transactionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settled[transactionID]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerSettlesAfterDelay(t *testing.T) {
	settler := newRecordingSettler()
	scheduler := services.NewSettlementScheduler(settler, 10*time.Millisecond, discardLogger())
	defer scheduler.Close()

	start := time.Now()
	scheduler.Schedule("txn-1")

	select {
	case id := <-settler.done:
		require.Equal(t, "txn-1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("settlement never ran")
	}
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, 1, settler.count("txn-1"))
}

func TestSchedulerCloseReleasesWaitingTasks(t *testing.T) {
	settler := newRecordingSettler()
	// Delay long enough that the timer cannot fire during the test.
	scheduler := services.NewSettlementScheduler(settler, time.Hour, discardLogger())

	scheduler.Schedule("txn-1")
	scheduler.Schedule("txn-2")

	done := make(chan struct{})
	go func() {
		scheduler.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not drain")
	}
	assert.Equal(t, 1, settler.count("txn-1"))
	assert.Equal(t, 1, settler.count("txn-2"))
}

func TestSchedulerDropsTasksAfterClose(t *testing.T) {
	settler := newRecordingSettler()
	scheduler := services.NewSettlementScheduler(settler, time.Millisecond, discardLogger())
	scheduler.Close()

	scheduler.Schedule("txn-late")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, settler.count("txn-late"))
}

func TestSchedulerSurvivesSettlerErrors(t *testing.T) {
	settler := newRecordingSettler()
	settler.err = assert.AnError
	scheduler := services.NewSettlementScheduler(settler, time.Millisecond, discardLogger())
	defer scheduler.Close()

	scheduler.Schedule("txn-1")
	scheduler.Schedule("txn-2")

	for i := 0; i < 2; i++ {
		select {
		case <-settler.done:
		case <-time.After(2 * time.Second):
			t.Fatal("settlement never ran")
		}
	}
}
