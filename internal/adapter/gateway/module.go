package gateway

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/printmart/printmart/internal/config"
)

// Module exposes gateway client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(Options{
		BaseURL:     p.Config.GatewayBaseURL,
		MerchantID:  p.Config.GatewayMerchantID,
		SaltKey:     p.Config.GatewaySaltKey,
		SaltIndex:   p.Config.GatewaySaltIndex,
		CallbackURL: p.Config.GatewayCallbackURL,
		Timeout:     p.Config.GatewayTimeout,
	}, p.Logger)
}
