package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/fashly/internal/event"
)

const defaultHeartbeat = 15 * time.Second

// EventsHandler streams store changes of the caller's session as
// server-sent events.
type EventsHandler struct {
	hub       *event.Hub
	heartbeat time.Duration
	logger    *slog.Logger
}

// NewEventsHandler creates a new event stream handler.
func NewEventsHandler(hub *event.Hub, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, heartbeat: defaultHeartbeat, logger: logger}
}

// Stream handles GET /api/v1/events. Each change is one frame named after
// the store topic with an empty JSON object as data. The stream ends when
// the client disconnects or the hub is closed.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	id := sessionID(r)

	changes, unsubscribe := h.hub.Subscribe(id)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.logger.ErrorContext(r.Context(), "event stream not supported", slog.String("error", err.Error()))
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		var err error
		select {
		case <-r.Context().Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			_, err = fmt.Fprintf(w, "event: %s\ndata: {}\n\n", c.Topic)
		case <-ticker.C:
			_, err = fmt.Fprint(w, ": ping\n\n")
		}
		if err == nil {
			err = rc.Flush()
		}
		if err != nil {
			h.logger.DebugContext(r.Context(), "event stream closed",
				slog.String("session_id", id),
				slog.String("error", err.Error()),
			)
			return
		}
	}
}
