package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const defaultBuffer = 16

// Event is one notification pushed to connected clients of a user.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Publisher pushes events to whoever is currently connected for a user.
// Delivery is best effort: no subscriber, no event.
type Publisher interface {
	Publish(userID int64, event Event)
}

type subscriber struct {
	id string
	ch chan Event
}

// Hub tracks live subscriptions keyed by user id. A user may hold several
// concurrent connections; each gets its own buffered channel and a slow
// consumer loses events rather than blocking the publisher.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int64][]subscriber
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[int64][]subscriber),
		logger: logger,
	}
}

// Subscribe registers a connection for the user and returns its event channel
// together with a cancel function that must be called when the connection
// closes.
func (h *Hub) Subscribe(userID int64) (<-chan Event, func()) {
	sub := subscriber{
		id: uuid.NewString(),
		ch: make(chan Event, defaultBuffer),
	}

	h.mu.Lock()
	h.subs[userID] = append(h.subs[userID], sub)
	h.mu.Unlock()

	h.logger.Debug("realtime subscriber connected",
		slog.Int64("user_id", userID),
		slog.String("conn_id", sub.id),
	)

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		list := h.subs[userID]
		for i, s := range list {
			if s.id == sub.id {
				h.subs[userID] = append(list[:i], list[i+1:]...)
				close(s.ch)
				break
			}
		}
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
	}
	return sub.ch, cancel
}

// Publish delivers the event to every live connection of the user.
func (h *Hub) Publish(userID int64, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs[userID] {
		select {
		case sub.ch <- event:
		default:
			h.logger.Warn("realtime subscriber too slow, event dropped",
				slog.Int64("user_id", userID),
				slog.String("conn_id", sub.id),
				slog.String("event", event.Name),
			)
		}
	}
}

// Subscribers reports the number of live connections for the user.
func (h *Hub) Subscribers(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
