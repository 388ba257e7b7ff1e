package di

import (
	"go.uber.org/fx"

	"github.com/printmart/printmart/internal/adapter/gateway"
	"github.com/printmart/printmart/internal/adapter/ledger"
	"github.com/printmart/printmart/internal/adapter/messaging"
	"github.com/printmart/printmart/internal/app"
	"github.com/printmart/printmart/internal/config"
	"github.com/printmart/printmart/internal/logger"
	"github.com/printmart/printmart/internal/pkg/auth"
	"github.com/printmart/printmart/internal/realtime"
	"github.com/printmart/printmart/internal/server/http/router"
	"github.com/printmart/printmart/internal/storage/postgres"
	"github.com/printmart/printmart/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		gateway.Module,
		ledger.Module,
		messaging.Module,
		realtime.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
