package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/usecase"
)

type facadeStub struct {
	batches     [][]model.Order
	staleFn     func(context.Context, int) ([]model.Order, error)
	reconcileFn func(context.Context, string) (*usecase.ReconcileResult, error)

	mu        sync.Mutex
	calls     []string
	staleCall int32
}

func (s *facadeStub) StalePendingOrders(ctx context.Context, limit int) ([]model.Order, error) {
	if s.staleFn != nil {
		return s.staleFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.staleCall, 1)
	if int(call) <= len(s.batches) {
		return s.batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

func (s *facadeStub) Reconcile(ctx context.Context, txnID string) (*usecase.ReconcileResult, error) {
	if s.reconcileFn != nil {
		return s.reconcileFn(ctx, txnID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, txnID)
	return &usecase.ReconcileResult{
		Order:   &model.Order{GatewayTxnID: txnID, PaymentStatus: model.PaymentStatusSuccess},
		Applied: true,
	}, nil
}

func (s *facadeStub) reconciled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSettlementPollerProcessesBatches(t *testing.T) {
	stub := &facadeStub{batches: [][]model.Order{
		{
			{Number: "#Order_000001", GatewayTxnID: "TXN-1"},
			{Number: "#Order_000002", GatewayTxnID: "TXN-2"},
		},
		{
			{Number: "#Order_000003", GatewayTxnID: "TXN-3"},
		},
	}}

	poller := NewSettlementPoller(stub, 5*time.Millisecond, 8, 2, discardLogger())
	poller.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for {
		if len(stub.reconciled()) >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("expected 3 reconciled orders, got %v", stub.reconciled())
		case <-time.After(5 * time.Millisecond):
		}
	}
	poller.Stop()

	seen := make(map[string]bool)
	for _, txn := range stub.reconciled() {
		seen[txn] = true
	}
	for _, txn := range []string{"TXN-1", "TXN-2", "TXN-3"} {
		if !seen[txn] {
			t.Fatalf("expected %s to be reconciled, got %v", txn, stub.reconciled())
		}
	}
}

func TestSettlementPollerSkipsUnknownTxn(t *testing.T) {
	var attempts int32
	stub := &facadeStub{
		batches: [][]model.Order{{{Number: "#Order_000009", GatewayTxnID: "TXN-9"}}},
		reconcileFn: func(ctx context.Context, txnID string) (*usecase.ReconcileResult, error) {
			atomic.AddInt32(&attempts, 1)
			return nil, domainErrors.ErrUnknownTxn
		},
	}

	poller := NewSettlementPoller(stub, 5*time.Millisecond, 4, 1, discardLogger())
	poller.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&attempts) == 0 {
		select {
		case <-deadline:
			t.Fatalf("expected reconcile attempt")
		case <-time.After(5 * time.Millisecond):
		}
	}
	poller.Stop()
}

func TestSettlementPollerSurvivesFetchErrors(t *testing.T) {
	var polls int32
	stub := &facadeStub{
		staleFn: func(ctx context.Context, limit int) ([]model.Order, error) {
			atomic.AddInt32(&polls, 1)
			return nil, errors.New("db down")
		},
	}

	poller := NewSettlementPoller(stub, 5*time.Millisecond, 4, 1, discardLogger())
	poller.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&polls) < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected poller to keep polling after errors, polls=%d", atomic.LoadInt32(&polls))
		case <-time.After(5 * time.Millisecond):
		}
	}
	poller.Stop()
}

func TestSettlementPollerStopTerminates(t *testing.T) {
	stub := &facadeStub{}
	poller := NewSettlementPoller(stub, time.Hour, 4, 2, discardLogger())
	poller.Start(context.Background())

	done := make(chan struct{})
	go func() {
		poller.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not terminate")
	}
}

func TestNewSettlementPollerDefaults(t *testing.T) {
	poller := NewSettlementPoller(&facadeStub{}, time.Second, 0, 0, discardLogger())
	if poller.workers != 1 {
		t.Fatalf("expected 1 worker, got %d", poller.workers)
	}
	if poller.batchSize != 1 {
		t.Fatalf("expected batch size 1, got %d", poller.batchSize)
	}
}
