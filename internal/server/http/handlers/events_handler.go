package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
)

// EventsHandler streams order notifications over server-sent events.
type EventsHandler struct {
	source EventSource
}

// NewEventsHandler constructs EventsHandler.
func NewEventsHandler(source EventSource) *EventsHandler {
	return &EventsHandler{source: source}
}

// Stream handles GET /api/v1/user/events. The connection stays open until the
// client goes away; events published for the user are flushed as they arrive.
func (h *EventsHandler) Stream(c *gin.Context) {
	userID := CurrentUserID(c)

	events, cancel := h.source.Subscribe(userID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.Flush()

	done := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, open := <-events:
			if !open {
				return false
			}
			c.SSEvent(event.Name, event.Data)
			return true
		case <-done:
			return false
		}
	})
}
