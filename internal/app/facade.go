package app

import (
	"context"
	"log/slog"
	"math"
	"net/url"
	"time"

	"github.com/printmart/printmart/internal/adapter/gateway"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/usecase"
)

// PaymentGateway is the subset of the gateway adapter the facade relies on.
type PaymentGateway interface {
	Initiate(ctx context.Context, req gateway.InitiateRequest) (*gateway.InitiateResponse, error)
	QueryStatus(ctx context.Context, txnID string) (*model.PaymentResult, error)
	VerifyCallback(verifyHeader string, body []byte) (*model.PaymentResult, error)
}

// CheckoutResult is what the checkout endpoint returns: the created order and
// where to send the payer.
type CheckoutResult struct {
	Order       *model.Order
	RedirectURL string
}

// MarketFacade is the application service handlers and the settlement poller
// talk to.
type MarketFacade struct {
	checkout  *usecase.CheckoutUseCase
	reconcile *usecase.ReconcileUseCase
	status    *usecase.StatusUseCase
	orders    *usecase.OrdersUseCase
	cart      *usecase.CartUseCase
	payments  PaymentGateway
	fanout    *FanOut
	logger    *slog.Logger

	statusCallbackURL string
	pollGrace         time.Duration
}

// NewMarketFacade wires use cases, the gateway and the side-effect runner.
func NewMarketFacade(
	checkout *usecase.CheckoutUseCase,
	reconcile *usecase.ReconcileUseCase,
	status *usecase.StatusUseCase,
	orders *usecase.OrdersUseCase,
	cart *usecase.CartUseCase,
	payments PaymentGateway,
	fanout *FanOut,
	statusCallbackURL string,
	pollGrace time.Duration,
	logger *slog.Logger,
) *MarketFacade {
	return &MarketFacade{
		checkout:          checkout,
		reconcile:         reconcile,
		status:            status,
		orders:            orders,
		cart:              cart,
		payments:          payments,
		fanout:            fanout,
		statusCallbackURL: statusCallbackURL,
		pollGrace:         pollGrace,
		logger:            logger,
	}
}

func (f *MarketFacade) redirectFor(txnID string) string {
	if f.statusCallbackURL == "" {
		return ""
	}
	parsed, err := url.Parse(f.statusCallbackURL)
	if err != nil {
		return f.statusCallbackURL
	}
	query := parsed.Query()
	query.Set("id", txnID)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// Checkout creates a pending order from the user's cart and opens a payment
// session at the gateway.
func (f *MarketFacade) Checkout(ctx context.Context, userID, storeID int64, amount float64, txnID string) (*CheckoutResult, error) {
	order, err := f.checkout.Checkout(ctx, userID, storeID, amount, txnID)
	if err != nil {
		return nil, err
	}

	session, err := f.payments.Initiate(ctx, gateway.InitiateRequest{
		TxnID:       order.GatewayTxnID,
		UserID:      userID,
		AmountPaise: int64(math.Round(order.TotalPrice * 100)),
		RedirectURL: f.redirectFor(order.GatewayTxnID),
	})
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{Order: order, RedirectURL: session.RedirectURL}, nil
}

// Reconcile settles the order behind txnID by asking the gateway for its
// verdict. Already-settled orders are returned as-is without touching the
// gateway; this is the method the redirect handler, the verify endpoint's
// clients and the background poller all converge on.
func (f *MarketFacade) Reconcile(ctx context.Context, txnID string) (*usecase.ReconcileResult, error) {
	order, err := f.reconcile.Lookup(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus.Terminal() {
		return &usecase.ReconcileResult{Order: order, Applied: false}, nil
	}

	verdict, err := f.payments.QueryStatus(ctx, txnID)
	if err != nil {
		// Gateway unreachable: the order stays pending and a later poll
		// retries.
		return nil, err
	}
	return f.ReconcileVerdict(ctx, verdict)
}

// ReconcileVerdict applies an already-verified gateway verdict. The winner of
// the settlement race triggers the success fan-out exactly once.
func (f *MarketFacade) ReconcileVerdict(ctx context.Context, verdict *model.PaymentResult) (*usecase.ReconcileResult, error) {
	result, err := f.reconcile.Apply(ctx, verdict)
	if err != nil {
		return nil, err
	}
	if result.Applied && result.Order.PaymentStatus == model.PaymentStatusSuccess {
		f.fanout.OnPaymentSuccess(ctx, result.Order)
	}
	return result, nil
}

// VerifyCallback authenticates a gateway callback body.
func (f *MarketFacade) VerifyCallback(verifyHeader string, body []byte) (*model.PaymentResult, error) {
	return f.payments.VerifyCallback(verifyHeader, body)
}

// VerifyPayment reports the user's order behind a transaction id, read-only.
func (f *MarketFacade) VerifyPayment(ctx context.Context, userID int64, txnID string) (*model.Order, error) {
	return f.orders.VerifyPayment(ctx, userID, txnID)
}

// ActiveOrders lists the user's orders still in fulfillment.
func (f *MarketFacade) ActiveOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.Active(ctx, userID)
}

// OrderHistory lists one page of the user's orders.
func (f *MarketFacade) OrderHistory(ctx context.Context, userID int64, page, limit int) ([]model.Order, int64, error) {
	return f.orders.History(ctx, userID, page, limit)
}

// Cart returns the user's cart.
func (f *MarketFacade) Cart(ctx context.Context, userID int64) (*model.Cart, error) {
	return f.cart.Get(ctx, userID)
}

// CartPut adds or replaces a cart item.
func (f *MarketFacade) CartPut(ctx context.Context, userID int64, item model.CartItem) (*model.Cart, error) {
	return f.cart.Put(ctx, userID, item)
}

// CartRemove deletes a cart item.
func (f *MarketFacade) CartRemove(ctx context.Context, userID int64, itemID string) error {
	return f.cart.Remove(ctx, userID, itemID)
}

// CartClear drops the whole cart.
func (f *MarketFacade) CartClear(ctx context.Context, userID int64) error {
	return f.cart.Clear(ctx, userID)
}

// StoreOrders lists settled orders of a store, optionally for one day.
func (f *MarketFacade) StoreOrders(ctx context.Context, storeID int64, day *time.Time) ([]model.Order, error) {
	return f.status.ListForStore(ctx, storeID, day)
}

// MarkOrderViewed acknowledges a fresh order.
func (f *MarketFacade) MarkOrderViewed(ctx context.Context, storeID, orderID int64) (*model.Order, error) {
	order, err := f.status.MarkViewed(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	f.fanout.OnStatusChange(ctx, order)
	return order, nil
}

// ChangeOrderStatus applies one fulfillment transition.
func (f *MarketFacade) ChangeOrderStatus(ctx context.Context, storeID, orderID int64, to model.OrderStatus) (*model.Order, error) {
	order, err := f.status.Advance(ctx, storeID, orderID, to)
	if err != nil {
		return nil, err
	}
	f.fanout.OnStatusChange(ctx, order)
	return order, nil
}

// ToggleOrderStatus flips processing↔printed.
func (f *MarketFacade) ToggleOrderStatus(ctx context.Context, storeID, orderID int64) (*model.Order, error) {
	order, err := f.status.Toggle(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	f.fanout.OnStatusChange(ctx, order)
	return order, nil
}

// CancelOrder withdraws the order from fulfillment.
func (f *MarketFacade) CancelOrder(ctx context.Context, storeID, orderID int64) (*model.Order, error) {
	order, err := f.status.Cancel(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	f.fanout.OnStatusChange(ctx, order)
	return order, nil
}

// StoreDashboard aggregates settled orders of a store.
func (f *MarketFacade) StoreDashboard(ctx context.Context, storeID int64) (*model.StoreOrderSummary, error) {
	return f.status.Dashboard(ctx, storeID)
}

// StalePendingOrders returns orders whose payment has been pending longer
// than the grace interval.
func (f *MarketFacade) StalePendingOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return f.reconcile.StalePending(ctx, time.Now().Add(-f.pollGrace), limit)
}
