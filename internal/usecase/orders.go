package usecase

import (
	"context"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/domain/repository"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// OrdersUseCase serves user-facing order queries.
type OrdersUseCase struct {
	orders repository.OrderRepository
}

// NewOrdersUseCase constructs OrdersUseCase.
func NewOrdersUseCase(orders repository.OrderRepository) *OrdersUseCase {
	return &OrdersUseCase{orders: orders}
}

// Active returns the user's orders still in fulfillment.
func (u *OrdersUseCase) Active(ctx context.Context, userID int64) ([]model.Order, error) {
	if !ValidID(userID) {
		return nil, domainErrors.ErrInvalidID
	}
	return u.orders.ListActiveByUser(ctx, userID)
}

// History returns one page of the user's orders, newest first, along with the
// total count.
func (u *OrdersUseCase) History(ctx context.Context, userID int64, page, limit int) ([]model.Order, int64, error) {
	if !ValidID(userID) {
		return nil, 0, domainErrors.ErrInvalidID
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return u.orders.ListByUser(ctx, userID, limit, (page-1)*limit)
}

// VerifyPayment returns the user's order behind a transaction id without
// touching its state.
func (u *OrdersUseCase) VerifyPayment(ctx context.Context, userID int64, txnID string) (*model.Order, error) {
	if !ValidID(userID) {
		return nil, domainErrors.ErrInvalidID
	}
	if txnID == "" {
		return nil, domainErrors.ErrUnknownTxn
	}
	order, err := u.orders.GetByUserAndTxnID(ctx, userID, txnID)
	if err != nil {
		return nil, err
	}
	return order, nil
}
