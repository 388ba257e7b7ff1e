package realtime

import "go.uber.org/fx"

// Module exposes the realtime hub to fx graph.
var Module = fx.Provide(
	NewHub,
	func(h *Hub) Publisher { return h },
)
