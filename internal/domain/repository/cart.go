package repository

import (
	"context"
	"time"

	"github.com/printmart/printmart/internal/domain/model"
)

// CartRepository describes persistence operations with per-user carts.
// Items older than pruneBefore are dropped on read; the live cart is disposable
// once its contents are snapshotted into an order.
type CartRepository interface {
	Get(ctx context.Context, userID int64, pruneBefore time.Time) (*model.Cart, error)
	UpsertItem(ctx context.Context, userID int64, item model.CartItem) (*model.Cart, error)
	RemoveItem(ctx context.Context, userID int64, itemID string) error
	Clear(ctx context.Context, userID int64) error
}
