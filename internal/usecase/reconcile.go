package usecase

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/domain/repository"
)

// ReconcileResult reports what a reconciliation attempt did. Applied is true
// only for the caller that actually moved the order out of pending; every
// other caller observes the stored outcome.
type ReconcileResult struct {
	Order   *model.Order
	Applied bool
}

// ReconcileUseCase applies verified gateway verdicts to orders.
type ReconcileUseCase struct {
	orders repository.OrderRepository
}

// NewReconcileUseCase constructs ReconcileUseCase.
func NewReconcileUseCase(orders repository.OrderRepository) *ReconcileUseCase {
	return &ReconcileUseCase{orders: orders}
}

// Lookup returns the order behind a transaction id.
func (u *ReconcileUseCase) Lookup(ctx context.Context, txnID string) (*model.Order, error) {
	order, err := u.orders.GetByTxnID(ctx, txnID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrUnknownTxn
		}
		return nil, err
	}
	return order, nil
}

// Apply settles the order behind the verdict's transaction id. A pending
// verdict leaves the order untouched; a terminal one is applied through a
// conditional update so concurrent reconcilers settle exactly once.
func (u *ReconcileUseCase) Apply(ctx context.Context, result *model.PaymentResult) (*ReconcileResult, error) {
	outcome := result.Outcome()
	if outcome == model.PaymentStatusPending {
		order, err := u.Lookup(ctx, result.TxnID)
		if err != nil {
			return nil, err
		}
		return &ReconcileResult{Order: order, Applied: false}, nil
	}

	order, applied, err := u.orders.SettlePayment(ctx, result.TxnID, outcome)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrUnknownTxn
		}
		return nil, err
	}
	return &ReconcileResult{Order: order, Applied: applied}, nil
}

// StalePending returns orders stuck in pending payment since before the
// cutoff, for the background poller.
func (u *ReconcileUseCase) StalePending(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	return u.orders.SelectStalePending(ctx, olderThan, limit)
}
