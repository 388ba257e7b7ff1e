package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/domain/repository"
)

// CartUseCase manages the per-user working set of print jobs.
type CartUseCase struct {
	carts repository.CartRepository
	ttl   time.Duration
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository, ttl time.Duration) *CartUseCase {
	return &CartUseCase{carts: carts, ttl: ttl}
}

// Get returns the cart with stale items pruned.
func (u *CartUseCase) Get(ctx context.Context, userID int64) (*model.Cart, error) {
	if !ValidID(userID) {
		return nil, domainErrors.ErrInvalidID
	}
	return u.carts.Get(ctx, userID, time.Now().Add(-u.ttl))
}

// Put adds or replaces one item. A missing item id is generated; a missing
// timestamp is stamped now.
func (u *CartUseCase) Put(ctx context.Context, userID int64, item model.CartItem) (*model.Cart, error) {
	if !ValidID(userID) {
		return nil, domainErrors.ErrInvalidID
	}
	if item.FileName == "" || item.Price < 0 {
		return nil, domainErrors.ErrInvalidAmount
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CopiesCount < 1 {
		item.CopiesCount = 1
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	return u.carts.UpsertItem(ctx, userID, item)
}

// Remove deletes one item.
func (u *CartUseCase) Remove(ctx context.Context, userID int64, itemID string) error {
	if !ValidID(userID) {
		return domainErrors.ErrInvalidID
	}
	if itemID == "" {
		return domainErrors.ErrNotFound
	}
	return u.carts.RemoveItem(ctx, userID, itemID)
}

// Clear drops the whole cart.
func (u *CartUseCase) Clear(ctx context.Context, userID int64) error {
	if !ValidID(userID) {
		return domainErrors.ErrInvalidID
	}
	return u.carts.Clear(ctx, userID)
}
