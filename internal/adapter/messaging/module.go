package messaging

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/printmart/printmart/internal/config"
)

// Module exposes messaging sender implementation to fx graph.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSender(p senderParams) (Sender, error) {
	if p.Config.MessagingBaseURL == "" {
		p.Logger.Info("messaging not configured, notifications will not be sent")
		return NoopSender{}, nil
	}
	return NewHTTPSender(p.Config.MessagingBaseURL, p.Config.MessagingToken, p.Logger)
}
