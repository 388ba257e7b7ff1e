package usecase

import (
	"go.uber.org/fx"

	"github.com/printmart/printmart/internal/config"
	"github.com/printmart/printmart/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newCheckoutUseCase,
	NewReconcileUseCase,
	NewStatusUseCase,
	NewOrdersUseCase,
	newCartUseCase,
)

type checkoutParams struct {
	fx.In

	Orders    repository.OrderRepository
	Carts     repository.CartRepository
	Sequences repository.SequenceRepository
	Stores    repository.StoreRepository
	Config    *config.Config
}

func newCheckoutUseCase(p checkoutParams) *CheckoutUseCase {
	return NewCheckoutUseCase(p.Orders, p.Carts, p.Sequences, p.Stores, p.Config.CartItemTTL)
}

type cartParams struct {
	fx.In

	Carts  repository.CartRepository
	Config *config.Config
}

func newCartUseCase(p cartParams) *CartUseCase {
	return NewCartUseCase(p.Carts, p.Config.CartItemTTL)
}
