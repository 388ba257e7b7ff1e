package repository

import (
	"context"

	"github.com/printmart/printmart/internal/domain/model"
)

// StoreRepository resolves print shops referenced by orders.
type StoreRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Store, error)
}

// UserRepository resolves marketplace accounts referenced by orders.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}
