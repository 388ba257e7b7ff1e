// Package webtest holds application-facade stubs for HTTP layer tests. It is
// split from the sibling test package because it depends on the app package,
// which the lower layers' tests must not.
package webtest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/printmart/printmart/internal/app"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/realtime"
	"github.com/printmart/printmart/internal/usecase"
)

// MarketFacadeStub provides controllable behaviour for HTTP handler tests.
// Unset functions fall back to benign defaults.
type MarketFacadeStub struct {
	CheckoutFn         func(context.Context, int64, int64, float64, string) (*app.CheckoutResult, error)
	ReconcileFn        func(context.Context, string) (*usecase.ReconcileResult, error)
	ReconcileVerdictFn func(context.Context, *model.PaymentResult) (*usecase.ReconcileResult, error)
	VerifyCallbackFn   func(string, []byte) (*model.PaymentResult, error)
	VerifyPaymentFn    func(context.Context, int64, string) (*model.Order, error)

	ActiveOrdersFn func(context.Context, int64) ([]model.Order, error)
	OrderHistoryFn func(context.Context, int64, int, int) ([]model.Order, int64, error)

	CartFn       func(context.Context, int64) (*model.Cart, error)
	CartPutFn    func(context.Context, int64, model.CartItem) (*model.Cart, error)
	CartRemoveFn func(context.Context, int64, string) error
	CartClearFn  func(context.Context, int64) error

	StoreOrdersFn       func(context.Context, int64, *time.Time) ([]model.Order, error)
	MarkOrderViewedFn   func(context.Context, int64, int64) (*model.Order, error)
	ChangeOrderStatusFn func(context.Context, int64, int64, model.OrderStatus) (*model.Order, error)
	ToggleOrderStatusFn func(context.Context, int64, int64) (*model.Order, error)
	CancelOrderFn       func(context.Context, int64, int64) (*model.Order, error)
	StoreDashboardFn    func(context.Context, int64) (*model.StoreOrderSummary, error)
}

// Checkout delegates to the override or returns a settled default session.
func (s MarketFacadeStub) Checkout(ctx context.Context, userID, storeID int64, amount float64, txnID string) (*app.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, userID, storeID, amount, txnID)
	}
	return &app.CheckoutResult{
		Order:       &model.Order{ID: 1, Number: "#Order_000001", UserID: userID, StoreID: storeID, TotalPrice: amount, GatewayTxnID: "TXN-1"},
		RedirectURL: "https://gateway.example/pay/TXN-1",
	}, nil
}

// Reconcile delegates to the override or reports a settled order.
func (s MarketFacadeStub) Reconcile(ctx context.Context, txnID string) (*usecase.ReconcileResult, error) {
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, txnID)
	}
	return &usecase.ReconcileResult{
		Order: &model.Order{ID: 1, GatewayTxnID: txnID, PaymentStatus: model.PaymentStatusSuccess},
	}, nil
}

// ReconcileVerdict delegates to the override or applies the verdict verbatim.
func (s MarketFacadeStub) ReconcileVerdict(ctx context.Context, verdict *model.PaymentResult) (*usecase.ReconcileResult, error) {
	if s.ReconcileVerdictFn != nil {
		return s.ReconcileVerdictFn(ctx, verdict)
	}
	return &usecase.ReconcileResult{
		Order:   &model.Order{ID: 1, GatewayTxnID: verdict.TxnID, PaymentStatus: verdict.Outcome()},
		Applied: true,
	}, nil
}

// VerifyCallback delegates to the override or accepts the callback.
func (s MarketFacadeStub) VerifyCallback(verifyHeader string, body []byte) (*model.PaymentResult, error) {
	if s.VerifyCallbackFn != nil {
		return s.VerifyCallbackFn(verifyHeader, body)
	}
	return &model.PaymentResult{TxnID: "TXN-1", State: model.GatewayStateCompleted}, nil
}

// VerifyPayment delegates to the override or returns a settled order.
func (s MarketFacadeStub) VerifyPayment(ctx context.Context, userID int64, txnID string) (*model.Order, error) {
	if s.VerifyPaymentFn != nil {
		return s.VerifyPaymentFn(ctx, userID, txnID)
	}
	return &model.Order{ID: 1, UserID: userID, GatewayTxnID: txnID, PaymentStatus: model.PaymentStatusSuccess}, nil
}

// ActiveOrders delegates to the override or returns one active order.
func (s MarketFacadeStub) ActiveOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ActiveOrdersFn != nil {
		return s.ActiveOrdersFn(ctx, userID)
	}
	return []model.Order{{ID: 1, UserID: userID, IsActive: true}}, nil
}

// OrderHistory delegates to the override or returns one page.
func (s MarketFacadeStub) OrderHistory(ctx context.Context, userID int64, page, limit int) ([]model.Order, int64, error) {
	if s.OrderHistoryFn != nil {
		return s.OrderHistoryFn(ctx, userID, page, limit)
	}
	return []model.Order{{ID: 1, UserID: userID}}, 1, nil
}

// Cart delegates to the override or returns an empty cart.
func (s MarketFacadeStub) Cart(ctx context.Context, userID int64) (*model.Cart, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, userID)
	}
	return &model.Cart{UserID: userID}, nil
}

// CartPut delegates to the override or echoes the item back.
func (s MarketFacadeStub) CartPut(ctx context.Context, userID int64, item model.CartItem) (*model.Cart, error) {
	if s.CartPutFn != nil {
		return s.CartPutFn(ctx, userID, item)
	}
	return &model.Cart{UserID: userID, Items: []model.CartItem{item}}, nil
}

// CartRemove delegates to the override or succeeds.
func (s MarketFacadeStub) CartRemove(ctx context.Context, userID int64, itemID string) error {
	if s.CartRemoveFn != nil {
		return s.CartRemoveFn(ctx, userID, itemID)
	}
	return nil
}

// CartClear delegates to the override or succeeds.
func (s MarketFacadeStub) CartClear(ctx context.Context, userID int64) error {
	if s.CartClearFn != nil {
		return s.CartClearFn(ctx, userID)
	}
	return nil
}

// StoreOrders delegates to the override or returns one settled order.
func (s MarketFacadeStub) StoreOrders(ctx context.Context, storeID int64, day *time.Time) ([]model.Order, error) {
	if s.StoreOrdersFn != nil {
		return s.StoreOrdersFn(ctx, storeID, day)
	}
	return []model.Order{{ID: 1, StoreID: storeID, PaymentStatus: model.PaymentStatusSuccess}}, nil
}

// MarkOrderViewed delegates to the override or returns a viewed order.
func (s MarketFacadeStub) MarkOrderViewed(ctx context.Context, storeID, orderID int64) (*model.Order, error) {
	if s.MarkOrderViewedFn != nil {
		return s.MarkOrderViewedFn(ctx, storeID, orderID)
	}
	return &model.Order{ID: orderID, StoreID: storeID, IsViewedByMerchant: true}, nil
}

// ChangeOrderStatus delegates to the override or applies the transition.
func (s MarketFacadeStub) ChangeOrderStatus(ctx context.Context, storeID, orderID int64, to model.OrderStatus) (*model.Order, error) {
	if s.ChangeOrderStatusFn != nil {
		return s.ChangeOrderStatusFn(ctx, storeID, orderID, to)
	}
	return &model.Order{ID: orderID, StoreID: storeID, OrderStatus: to}, nil
}

// ToggleOrderStatus delegates to the override or flips to printed.
func (s MarketFacadeStub) ToggleOrderStatus(ctx context.Context, storeID, orderID int64) (*model.Order, error) {
	if s.ToggleOrderStatusFn != nil {
		return s.ToggleOrderStatusFn(ctx, storeID, orderID)
	}
	return &model.Order{ID: orderID, StoreID: storeID, OrderStatus: model.OrderStatusPrinted}, nil
}

// CancelOrder delegates to the override or cancels the order.
func (s MarketFacadeStub) CancelOrder(ctx context.Context, storeID, orderID int64) (*model.Order, error) {
	if s.CancelOrderFn != nil {
		return s.CancelOrderFn(ctx, storeID, orderID)
	}
	return &model.Order{ID: orderID, StoreID: storeID, OrderStatus: model.OrderStatusCancelled}, nil
}

// StoreDashboard delegates to the override or returns fixed totals.
func (s MarketFacadeStub) StoreDashboard(ctx context.Context, storeID int64) (*model.StoreOrderSummary, error) {
	if s.StoreDashboardFn != nil {
		return s.StoreDashboardFn(ctx, storeID)
	}
	return &model.StoreOrderSummary{Orders: 2, FilesReceived: 3, Revenue: 120}, nil
}

// EventSourceStub hands out a pre-filled event channel.
type EventSourceStub struct {
	Events    []realtime.Event
	Cancelled int32
}

// Subscribe returns a channel preloaded with the configured events. The
// channel is closed so streaming handlers terminate on their own.
func (s *EventSourceStub) Subscribe(userID int64) (<-chan realtime.Event, func()) {
	ch := make(chan realtime.Event, len(s.Events)+1)
	for _, e := range s.Events {
		ch <- e
	}
	close(ch)
	return ch, func() { atomic.AddInt32(&s.Cancelled, 1) }
}
