package usecase

import (
	"context"
	"time"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/domain/repository"
)

// allowedTransitions is the fulfillment state machine. Anything not listed is
// a conflict; the payment gate is enforced separately by the repository.
var allowedTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:    {model.OrderStatusProcessing, model.OrderStatusRejected, model.OrderStatusCancelled},
	model.OrderStatusProcessing: {model.OrderStatusPrinted, model.OrderStatusRejected, model.OrderStatusCancelled, model.OrderStatusDelivered},
	model.OrderStatusPrinted:    {model.OrderStatusProcessing, model.OrderStatusRejected, model.OrderStatusCancelled, model.OrderStatusDelivered},
}

// TransitionAllowed reports whether the state machine permits from→to.
func TransitionAllowed(from, to model.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// StatusUseCase drives merchant-side fulfillment transitions.
type StatusUseCase struct {
	orders repository.OrderRepository
	stores repository.StoreRepository
}

// NewStatusUseCase constructs StatusUseCase.
func NewStatusUseCase(orders repository.OrderRepository, stores repository.StoreRepository) *StatusUseCase {
	return &StatusUseCase{orders: orders, stores: stores}
}

// load fetches the order and hides it from merchants of other stores.
func (u *StatusUseCase) load(ctx context.Context, storeID, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.StoreID != storeID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// Advance moves the order to the target status, validating the transition
// against the state machine before racing on the row.
func (u *StatusUseCase) Advance(ctx context.Context, storeID, orderID int64, to model.OrderStatus) (*model.Order, error) {
	order, err := u.load(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != model.PaymentStatusSuccess {
		return nil, domainErrors.ErrPaymentNotSettled
	}
	if !TransitionAllowed(order.OrderStatus, to) {
		return nil, domainErrors.ErrStatusConflict
	}
	return u.orders.TransitionStatus(ctx, orderID, order.OrderStatus, to)
}

// MarkViewed acknowledges a fresh order, moving it into processing. Repeated
// calls after acknowledgement return the order unchanged.
func (u *StatusUseCase) MarkViewed(ctx context.Context, storeID, orderID int64) (*model.Order, error) {
	order, err := u.load(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsViewedByMerchant {
		return order, nil
	}
	return u.Advance(ctx, storeID, orderID, model.OrderStatusProcessing)
}

// Toggle flips processing↔printed.
func (u *StatusUseCase) Toggle(ctx context.Context, storeID, orderID int64) (*model.Order, error) {
	order, err := u.load(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}

	var to model.OrderStatus
	switch order.OrderStatus {
	case model.OrderStatusProcessing:
		to = model.OrderStatusPrinted
	case model.OrderStatusPrinted:
		to = model.OrderStatusProcessing
	default:
		return nil, domainErrors.ErrStatusConflict
	}
	return u.Advance(ctx, storeID, orderID, to)
}

// Cancel withdraws the order from fulfillment.
func (u *StatusUseCase) Cancel(ctx context.Context, storeID, orderID int64) (*model.Order, error) {
	return u.Advance(ctx, storeID, orderID, model.OrderStatusCancelled)
}

// ListForStore returns settled orders of a store, optionally narrowed to one
// calendar day.
func (u *StatusUseCase) ListForStore(ctx context.Context, storeID int64, day *time.Time) ([]model.Order, error) {
	if _, err := u.stores.GetByID(ctx, storeID); err != nil {
		return nil, err
	}

	var from, to time.Time
	if day != nil {
		from = day.Truncate(24 * time.Hour)
		to = from.Add(24 * time.Hour)
	} else {
		from = time.Unix(0, 0)
		to = time.Now().Add(24 * time.Hour)
	}
	return u.orders.ListSettledByStore(ctx, storeID, from, to)
}

// Dashboard aggregates settled orders of a store.
func (u *StatusUseCase) Dashboard(ctx context.Context, storeID int64) (*model.StoreOrderSummary, error) {
	if _, err := u.stores.GetByID(ctx, storeID); err != nil {
		return nil, err
	}
	return u.orders.StoreSummary(ctx, storeID)
}
