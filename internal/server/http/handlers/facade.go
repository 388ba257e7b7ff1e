package handlers

import (
	"context"
	"time"

	"github.com/printmart/printmart/internal/app"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/realtime"
	"github.com/printmart/printmart/internal/usecase"
)

// PaymentFacade covers checkout and settlement operations exposed via HTTP.
type PaymentFacade interface {
	Checkout(ctx context.Context, userID, storeID int64, amount float64, txnID string) (*app.CheckoutResult, error)
	Reconcile(ctx context.Context, txnID string) (*usecase.ReconcileResult, error)
	ReconcileVerdict(ctx context.Context, verdict *model.PaymentResult) (*usecase.ReconcileResult, error)
	VerifyCallback(verifyHeader string, body []byte) (*model.PaymentResult, error)
	VerifyPayment(ctx context.Context, userID int64, txnID string) (*model.Order, error)
}

// OrderFacade covers the user-facing order views.
type OrderFacade interface {
	ActiveOrders(ctx context.Context, userID int64) ([]model.Order, error)
	OrderHistory(ctx context.Context, userID int64, page, limit int) ([]model.Order, int64, error)
}

// CartFacade covers cart manipulation.
type CartFacade interface {
	Cart(ctx context.Context, userID int64) (*model.Cart, error)
	CartPut(ctx context.Context, userID int64, item model.CartItem) (*model.Cart, error)
	CartRemove(ctx context.Context, userID int64, itemID string) error
	CartClear(ctx context.Context, userID int64) error
}

// MerchantFacade covers the store-side order controls.
type MerchantFacade interface {
	StoreOrders(ctx context.Context, storeID int64, day *time.Time) ([]model.Order, error)
	MarkOrderViewed(ctx context.Context, storeID, orderID int64) (*model.Order, error)
	ChangeOrderStatus(ctx context.Context, storeID, orderID int64, to model.OrderStatus) (*model.Order, error)
	ToggleOrderStatus(ctx context.Context, storeID, orderID int64) (*model.Order, error)
	CancelOrder(ctx context.Context, storeID, orderID int64) (*model.Order, error)
	StoreDashboard(ctx context.Context, storeID int64) (*model.StoreOrderSummary, error)
}

// EventSource registers live connections for server-sent events.
type EventSource interface {
	Subscribe(userID int64) (<-chan realtime.Event, func())
}

// MarketFacade aggregates the full set of operations used across handlers.
type MarketFacade interface {
	PaymentFacade
	OrderFacade
	CartFacade
	MerchantFacade
}
