package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/usecase"
)

// MarketFacade exposes the subset of application functionality required by the poller.
type MarketFacade interface {
	StalePendingOrders(ctx context.Context, limit int) ([]model.Order, error)
	Reconcile(ctx context.Context, txnID string) (*usecase.ReconcileResult, error)
}

// SettlementPoller drives orders stuck in pending payment through
// reconciliation with a pool of workers. It is the safety net behind the
// redirect and callback paths: a user who never comes back still gets their
// order settled.
type SettlementPoller struct {
	facade       MarketFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSettlementPoller constructs the settlement worker pool.
func NewSettlementPoller(facade MarketFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *SettlementPoller {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &SettlementPoller{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (p *SettlementPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *SettlementPoller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *SettlementPoller) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *SettlementPoller) fetchAndDispatch(ctx context.Context) {
	orders, err := p.facade.StalePendingOrders(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch stale pending orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *SettlementPoller) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleOrder(ctx, order)
		}
	}
}

func (p *SettlementPoller) handleOrder(ctx context.Context, order model.Order) {
	result, err := p.facade.Reconcile(ctx, order.GatewayTxnID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUnknownTxn) {
			// The order disappeared between the poll and now; nothing to do.
			return
		}
		p.logger.Error("settlement reconcile failed",
			slog.String("order", order.Number),
			slog.String("error", err.Error()),
		)
		return
	}
	if result.Applied {
		p.logger.Info("settled stale order",
			slog.String("order", order.Number),
			slog.String("payment_status", string(result.Order.PaymentStatus)),
		)
	}
}
