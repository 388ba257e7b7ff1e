package repository

import (
	"context"
	"time"

	"github.com/printmart/printmart/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
//
// SettlePayment and TransitionStatus are conditional single-statement updates:
// they succeed only when the stored state still matches the expected one, so
// concurrent writers race on the database row, never on process memory.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByTxnID(ctx context.Context, txnID string) (*model.Order, error)
	GetByUserAndTxnID(ctx context.Context, userID int64, txnID string) (*model.Order, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]model.Order, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Order, int64, error)
	ListSettledByStore(ctx context.Context, storeID int64, from, to time.Time) ([]model.Order, error)

	// SettlePayment applies the terminal payment outcome if and only if the
	// stored payment status is still pending. The boolean reports whether this
	// caller won the compare-and-set; the returned order reflects the row
	// after the call either way.
	SettlePayment(ctx context.Context, txnID string, outcome model.PaymentStatus) (*model.Order, bool, error)

	// TransitionStatus moves the order from one fulfillment status to another,
	// requiring settled payment. It returns ErrStatusConflict when the stored
	// status no longer matches from.
	TransitionStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) (*model.Order, error)

	// SelectStalePending returns orders whose payment has been pending for
	// longer than the grace interval, for the settlement poller.
	SelectStalePending(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error)

	StoreSummary(ctx context.Context, storeID int64) (*model.StoreOrderSummary, error)
}
