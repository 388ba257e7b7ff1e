package app

import (
	"context"
	"log/slog"

	"github.com/printmart/printmart/internal/adapter/ledger"
	"github.com/printmart/printmart/internal/adapter/messaging"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/domain/repository"
	"github.com/printmart/printmart/internal/pkg/retry"
	"github.com/printmart/printmart/internal/realtime"
)

const (
	eventNewOrder    = "new-order"
	eventOrderStatus = "order-status"
)

// orderEvent is the payload pushed over realtime connections.
type orderEvent struct {
	OrderID     int64  `json:"orderId"`
	Number      string `json:"number"`
	OrderStatus string `json:"orderStatus"`
}

// FanOut runs the side effects of settlement and fulfillment changes. Every
// step is independent and best effort: a failure is logged and the rest of
// the steps still run. Nothing here ever touches payment state.
type FanOut struct {
	carts         repository.CartRepository
	stores        repository.StoreRepository
	users         repository.UserRepository
	hub           realtime.Publisher
	ledger        ledger.Client
	sender        messaging.Sender
	retryPolicy   retry.Policy
	ownerTemplate string
	userTemplate  string
	logger        *slog.Logger
}

// NewFanOut constructs the side-effect runner.
func NewFanOut(
	carts repository.CartRepository,
	stores repository.StoreRepository,
	users repository.UserRepository,
	hub realtime.Publisher,
	ledgerClient ledger.Client,
	sender messaging.Sender,
	retryPolicy retry.Policy,
	ownerTemplate, userTemplate string,
	logger *slog.Logger,
) *FanOut {
	return &FanOut{
		carts:         carts,
		stores:        stores,
		users:         users,
		hub:           hub,
		ledger:        ledgerClient,
		sender:        sender,
		retryPolicy:   retryPolicy,
		ownerTemplate: ownerTemplate,
		userTemplate:  userTemplate,
		logger:        logger,
	}
}

func eventFor(order *model.Order) orderEvent {
	return orderEvent{OrderID: order.ID, Number: order.Number, OrderStatus: string(order.OrderStatus)}
}

// OnPaymentSuccess runs after a reconciler confirms payment. The caller must
// be the one that won the settlement, so this runs exactly once per order.
func (f *FanOut) OnPaymentSuccess(ctx context.Context, order *model.Order) {
	if err := f.carts.Clear(ctx, order.UserID); err != nil {
		f.logger.Error("cart clear failed",
			slog.String("order", order.Number),
			slog.String("error", err.Error()),
		)
	}

	store, err := f.stores.GetByID(ctx, order.StoreID)
	if err != nil {
		f.logger.Error("store lookup failed",
			slog.String("order", order.Number),
			slog.String("error", err.Error()),
		)
	} else {
		f.hub.Publish(store.OwnerUserID, realtime.Event{Name: eventNewOrder, Data: eventFor(order)})
	}

	if err := retry.Do(ctx, f.retryPolicy, func(ctx context.Context) error {
		return f.ledger.AppendOrder(ctx, order)
	}); err != nil {
		f.logger.Error("ledger append failed",
			slog.String("order", order.Number),
			slog.String("error", err.Error()),
		)
	}

	if store != nil && store.Phone != "" {
		f.send(ctx, order, store.Phone, f.ownerTemplate, []string{order.Number, store.Name})
	}
	if user, err := f.users.GetByID(ctx, order.UserID); err == nil && user.Phone != "" {
		f.send(ctx, order, user.Phone, f.userTemplate, []string{order.Number, string(order.OrderStatus)})
	}
}

// notifiedStatuses are the fulfillment states worth a message to the user.
var notifiedStatuses = map[model.OrderStatus]struct{}{
	model.OrderStatusPrinted:   {},
	model.OrderStatusRejected:  {},
	model.OrderStatusDelivered: {},
	model.OrderStatusCancelled: {},
}

// OnStatusChange runs after a merchant transition was applied.
func (f *FanOut) OnStatusChange(ctx context.Context, order *model.Order) {
	f.hub.Publish(order.UserID, realtime.Event{Name: eventOrderStatus, Data: eventFor(order)})

	if _, notify := notifiedStatuses[order.OrderStatus]; !notify {
		return
	}
	if user, err := f.users.GetByID(ctx, order.UserID); err == nil && user.Phone != "" {
		f.send(ctx, order, user.Phone, f.userTemplate, []string{order.Number, string(order.OrderStatus)})
	}
}

func (f *FanOut) send(ctx context.Context, order *model.Order, phone, template string, params []string) {
	err := f.sender.Send(ctx, messaging.Message{Phone: phone, Template: template, Params: params})
	if err != nil {
		f.logger.Error("notification send failed",
			slog.String("order", order.Number),
			slog.String("template", template),
			slog.String("error", err.Error()),
		)
	}
}
