package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/fashly/pkg/kafka"
)

// Invalidator reloads a session's store after another instance changed it.
type Invalidator interface {
	Invalidate(ctx context.Context, sessionID string, topic Topic) error
}

// InvalidationHandler returns a kafka.Handler that applies store.changed
// events from other instances to inv. Events this instance published are
// skipped.
func InvalidationHandler(instanceID string, inv Invalidator, logger *slog.Logger) kafka.Handler {
	return func(ctx context.Context, ev *kafka.Event) error {
		if ev.EventType != EventTypeStoreChanged {
			return nil
		}
		if ev.Metadata[MetadataInstance] == instanceID {
			return nil
		}

		var data StoreChangedData
		if err := ev.UnmarshalData(&data); err != nil {
			logger.WarnContext(ctx, "dropping malformed store.changed event",
				slog.String("event_id", ev.EventID),
				slog.String("error", err.Error()),
			)
			return nil
		}
		if data.SessionID == "" || !data.Topic.Valid() {
			logger.WarnContext(ctx, "dropping incomplete store.changed event", slog.String("event_id", ev.EventID))
			return nil
		}

		if err := inv.Invalidate(ctx, data.SessionID, data.Topic); err != nil {
			return fmt.Errorf("invalidate %s of session %s: %w", data.Topic, data.SessionID, err)
		}
		return nil
	}
}
