package event

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/fashly/pkg/kafka"
)

const (
	// EventTypeStoreChanged is the Kafka event type of a relayed Change.
	EventTypeStoreChanged = "store.changed"

	// SourceStorefront identifies events published by this service.
	SourceStorefront = "fashly-storefront"

	// MetadataInstance carries the publishing instance's ID.
	MetadataInstance = "instance"

	relayQueueSize      = 256
	relayPublishTimeout = 5 * time.Second
)

// StoreChangedTopic is the Kafka topic changes are relayed on.
var StoreChangedTopic = kafka.Topic("store", "changed")

var relayDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "fashly_event_relay_dropped_total",
	Help: "Changes not relayed because the relay queue was full.",
})

// StoreChangedData is the payload of a store.changed event.
type StoreChangedData struct {
	SessionID string `json:"session_id"`
	Topic     Topic  `json:"topic"`
}

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Relay forwards local changes to Kafka so other instances can reload the
// affected session. Listen enqueues; Run publishes.
type Relay struct {
	publisher  Publisher
	instanceID string
	queue      chan Change
	logger     *slog.Logger
}

// NewRelay creates a relay that tags events with instanceID.
func NewRelay(publisher Publisher, instanceID string, logger *slog.Logger) *Relay {
	return &Relay{
		publisher:  publisher,
		instanceID: instanceID,
		queue:      make(chan Change, relayQueueSize),
		logger:     logger,
	}
}

// Listen is a Listener. It never blocks; changes are dropped when the
// queue is full. Remote changes are ignored.
func (r *Relay) Listen(c Change) {
	if c.Remote {
		return
	}
	select {
	case r.queue <- c:
	default:
		relayDroppedTotal.Inc()
		r.logger.Warn("relay queue full, change dropped",
			slog.String("session_id", c.SessionID),
			slog.String("topic", string(c.Topic)),
		)
	}
}

// Run publishes queued changes until ctx is cancelled, then publishes
// whatever is still queued.
func (r *Relay) Run(ctx context.Context) error {
	for {
		select {
		case c := <-r.queue:
			r.publish(ctx, c)
		case <-ctx.Done():
			r.drain()
			return nil
		}
	}
}

func (r *Relay) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), relayPublishTimeout)
	defer cancel()
	for {
		select {
		case c := <-r.queue:
			r.publish(ctx, c)
		default:
			return
		}
	}
}

func (r *Relay) publish(ctx context.Context, c Change) {
	ev, err := kafka.NewEvent(EventTypeStoreChanged, c.SessionID, SourceStorefront,
		StoreChangedData{SessionID: c.SessionID, Topic: c.Topic})
	if err != nil {
		r.logger.Error("failed to build store.changed event", slog.String("error", err.Error()))
		return
	}
	ev.WithMetadata(MetadataInstance, r.instanceID)

	pctx, cancel := context.WithTimeout(ctx, relayPublishTimeout)
	defer cancel()
	if err := r.publisher.Publish(pctx, StoreChangedTopic, ev); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Error("failed to relay store change",
			slog.String("session_id", c.SessionID),
			slog.String("topic", string(c.Topic)),
			slog.String("error", err.Error()),
		)
	}
}
