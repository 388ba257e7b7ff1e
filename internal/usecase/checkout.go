package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/domain/repository"
)

const orderSequenceName = "order_number"

// CheckoutUseCase turns a user's cart into a pending order awaiting payment.
type CheckoutUseCase struct {
	orders    repository.OrderRepository
	carts     repository.CartRepository
	sequences repository.SequenceRepository
	stores    repository.StoreRepository
	cartTTL   time.Duration
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	sequences repository.SequenceRepository,
	stores repository.StoreRepository,
	cartTTL time.Duration,
) *CheckoutUseCase {
	return &CheckoutUseCase{orders: orders, carts: carts, sequences: sequences, stores: stores, cartTTL: cartTTL}
}

// Checkout snapshots the user's cart into a new inactive order with pending
// payment. The cart itself is kept until payment succeeds. txnID may be empty,
// in which case one is generated.
func (u *CheckoutUseCase) Checkout(ctx context.Context, userID, storeID int64, amount float64, txnID string) (*model.Order, error) {
	if !ValidID(userID) || !ValidID(storeID) {
		return nil, domainErrors.ErrInvalidID
	}
	if amount < 1 {
		return nil, domainErrors.ErrInvalidAmount
	}

	if _, err := u.stores.GetByID(ctx, storeID); err != nil {
		return nil, err
	}

	cart, err := u.carts.Get(ctx, userID, time.Now().Add(-u.cartTTL))
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}

	if txnID == "" {
		txnID = "TXN-" + uuid.NewString()
	}

	seq, err := u.sequences.Next(ctx, orderSequenceName)
	if err != nil {
		return nil, err
	}

	var itemsTotal float64
	for _, item := range cart.Items {
		itemsTotal += item.Price
	}
	platformFee := amount - itemsTotal
	if platformFee < 0 {
		platformFee = 0
	}

	order := &model.Order{
		Number:        model.FormatOrderNumber(seq),
		UserID:        userID,
		StoreID:       storeID,
		Items:         cart.Items,
		TotalPrice:    amount,
		PlatformFee:   platformFee,
		PaymentStatus: model.PaymentStatusPending,
		OrderStatus:   model.OrderStatusIncomplete,
		GatewayTxnID:  txnID,
	}

	return u.orders.Create(ctx, order)
}
