package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/printmart/printmart/internal/app"
	"github.com/printmart/printmart/internal/config"
	"github.com/printmart/printmart/internal/domain/repository"
	"github.com/printmart/printmart/internal/storage/postgres"
	"github.com/printmart/printmart/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:           ":0",
		DatabaseURI:          "postgres://stub",
		AuthSecret:           "secret",
		GatewayBaseURL:       "http://localhost:8081",
		GatewayMerchantID:    "M1",
		GatewaySaltKey:       "salt",
		GatewaySaltIndex:     1,
		GatewayTimeout:       time.Second,
		CartItemTTL:          time.Hour,
		PaymentPollInterval:  time.Millisecond,
		PaymentPollGrace:     time.Millisecond,
		WorkerPoolSize:       1,
		MaxOrdersBatch:       1,
		SideEffectRetryCount: 1,
		SideEffectRetryDelay: time.Millisecond,
		ShutdownTimeout:      time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var facade *app.MarketFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.OrderRepository(&test.OrderRepositoryStub{})),
			fx.Replace(repository.CartRepository(&test.CartRepositoryStub{})),
			fx.Replace(repository.SequenceRepository(&test.SequenceRepositoryStub{})),
			fx.Replace(repository.StoreRepository(&test.StoreRepositoryStub{})),
			fx.Replace(repository.UserRepository(&test.UserRepositoryStub{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected market facade instance")
	}
}
