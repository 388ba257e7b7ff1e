package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/printmart/printmart/internal/app"
	"github.com/printmart/printmart/internal/config"
	pkgAuth "github.com/printmart/printmart/internal/pkg/auth"
	"github.com/printmart/printmart/internal/realtime"
)

type setupParams struct {
	fx.In

	Facade   *app.MarketFacade
	Hub      *realtime.Hub
	Strategy pkgAuth.Strategy
	Config   *config.Config
	Logger   *slog.Logger
}

func newRouter(p setupParams) *gin.Engine {
	return Setup(Options{
		Facade:      p.Facade,
		Events:      p.Hub,
		TokenParser: p.Strategy,
		SuccessURL:  p.Config.PaymentSuccessURL,
		FailureURL:  p.Config.PaymentFailureURL,
		Logger:      p.Logger,
	})
}

// Module registers HTTP router construction for the fx runtime.
var Module = fx.Provide(newRouter)
