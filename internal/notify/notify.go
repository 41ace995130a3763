package notify

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-lingua/internal/events"
	"github.com/noah-isme/backend-lingua/internal/obs"
)

// LogNotifier renders domain events as structured logs. It stands in for the
// transient banner the site shows the user after an action.
type LogNotifier struct {
	Logger zerolog.Logger
}

// Notify implements events.Notifier.
func (n LogNotifier) Notify(_ context.Context, event events.Event) error {
	evt := n.Logger.Info().
		Str("event_id", event.ID.String()).
		Str("topic", event.Topic).
		RawJSON("payload", event.Payload)
	if event.AggregateID != 0 {
		evt = evt.Int64("order_id", event.AggregateID)
	}
	evt.Msg(messageFor(event.Topic))
	return nil
}

func messageFor(topic string) string {
	switch topic {
	case events.TopicOrderCreated:
		return "order placed"
	case events.TopicOrderUpdated:
		return "order updated"
	case events.TopicOrderDeleted:
		return "order cancelled"
	case events.TopicCatalogLoaded:
		return "catalog refreshed"
	default:
		return strings.ReplaceAll(topic, ".", "_")
	}
}

// MetricsNotifier bumps domain counters for order lifecycle events.
type MetricsNotifier struct{}

// Notify implements events.Notifier.
func (MetricsNotifier) Notify(_ context.Context, event events.Event) error {
	if obs.OrderEventsTotal != nil && strings.HasPrefix(event.Topic, "order.") {
		obs.OrderEventsTotal.WithLabelValues(event.Topic).Inc()
	}
	return nil
}
