package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/printmart/printmart/internal/adapter/gateway"
	"github.com/printmart/printmart/internal/adapter/ledger"
	"github.com/printmart/printmart/internal/adapter/messaging"
	"github.com/printmart/printmart/internal/config"
	"github.com/printmart/printmart/internal/domain/repository"
	"github.com/printmart/printmart/internal/pkg/retry"
	"github.com/printmart/printmart/internal/realtime"
	"github.com/printmart/printmart/internal/usecase"
	"github.com/printmart/printmart/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		func(c gateway.Client) PaymentGateway { return c },
		newFanOut,
		newMarketFacade,
		newHTTPServer,
		newSettlementPoller,
	),
	fx.Invoke(registerLifecycle),
)

type fanOutParams struct {
	fx.In

	Carts  repository.CartRepository
	Stores repository.StoreRepository
	Users  repository.UserRepository
	Hub    realtime.Publisher
	Ledger ledger.Client
	Sender messaging.Sender
	Config *config.Config
	Logger *slog.Logger
}

func newFanOut(p fanOutParams) *FanOut {
	return NewFanOut(
		p.Carts, p.Stores, p.Users,
		p.Hub, p.Ledger, p.Sender,
		retry.Policy{MaxAttempts: p.Config.SideEffectRetryCount, BaseDelay: p.Config.SideEffectRetryDelay},
		p.Config.MessagingOwnerTemplate,
		p.Config.MessagingUserTemplate,
		p.Logger,
	)
}

type facadeParams struct {
	fx.In

	Checkout  *usecase.CheckoutUseCase
	Reconcile *usecase.ReconcileUseCase
	Status    *usecase.StatusUseCase
	Orders    *usecase.OrdersUseCase
	Cart      *usecase.CartUseCase
	Payments  PaymentGateway
	FanOut    *FanOut
	Config    *config.Config
	Logger    *slog.Logger
}

func newMarketFacade(p facadeParams) *MarketFacade {
	return NewMarketFacade(
		p.Checkout, p.Reconcile, p.Status, p.Orders, p.Cart,
		p.Payments, p.FanOut,
		p.Config.GatewayCallbackURL,
		p.Config.PaymentPollGrace,
		p.Logger,
	)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *MarketFacade
	Config *config.Config
	Logger *slog.Logger
}

func newSettlementPoller(p workerParams) *worker.SettlementPoller {
	return worker.NewSettlementPoller(
		p.Facade,
		p.Config.PaymentPollInterval,
		p.Config.MaxOrdersBatch,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.SettlementPoller
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting printmart", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("printmart stopped")
			return nil
		},
	})
}
