package event

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// streamBuffer is how many undelivered changes a stream holds before new
// ones are dropped.
const streamBuffer = 16

var hubDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "fashly_event_stream_dropped_total",
	Help: "Changes dropped because a stream subscriber was not keeping up.",
})

// Hub fans changes out to per-session streams, one per open event-stream
// connection.
type Hub struct {
	mu      sync.RWMutex
	streams map[string]map[chan Change]struct{}
	closed  bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{streams: make(map[string]map[chan Change]struct{})}
}

// Subscribe opens a stream of changes for sessionID. The caller must call
// cancel when done; the channel is closed by cancel or by Close. After
// Close the returned channel is already closed.
func (h *Hub) Subscribe(sessionID string) (<-chan Change, func()) {
	ch := make(chan Change, streamBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	set, ok := h.streams[sessionID]
	if !ok {
		set = make(map[chan Change]struct{})
		h.streams[sessionID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := set[ch]; !ok {
				return
			}
			delete(set, ch)
			if len(set) == 0 {
				delete(h.streams, sessionID)
			}
			close(ch)
		})
	}
}

// Publish delivers c to every stream of c.SessionID without blocking.
func (h *Hub) Publish(c Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.streams[c.SessionID] {
		select {
		case ch <- c:
		default:
			hubDroppedTotal.Inc()
		}
	}
}

// Close ends every open stream and makes later subscriptions end at once.
// It is called when the server shuts down so long-lived streams do not hold
// the shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for _, set := range h.streams {
		for ch := range set {
			delete(set, ch)
			close(ch)
		}
	}
	h.streams = make(map[string]map[chan Change]struct{})
}

// Streams reports how many streams are open for sessionID.
func (h *Hub) Streams(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams[sessionID])
}
