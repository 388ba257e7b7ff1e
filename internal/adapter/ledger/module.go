package ledger

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/printmart/printmart/internal/config"
)

// Module exposes ledger client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	if p.Config.LedgerBaseURL == "" {
		p.Logger.Info("ledger not configured, order rows will not be recorded")
		return NoopClient{}, nil
	}
	return NewHTTPClient(p.Config.LedgerBaseURL, p.Config.LedgerSheetID, p.Config.LedgerToken, p.Logger)
}
