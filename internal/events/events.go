// Package events fans order changes out to live subscribers and, when
// configured, to a RabbitMQ exchange.
package events

import (
	"context"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
)

// Type names an order change.
type Type string

const (
	OrderCreated Type = "order.created"
	OrderUpdated Type = "order.updated"
	OrderDeleted Type = "order.deleted"
)

// Event describes one order change.
type Event struct {
	Type       Type        `json:"type"`
	OrderID    string      `json:"orderId"`
	Status     string      `json:"status,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
	Order      interface{} `json:"order,omitempty"`
}

// Publisher delivers events to some audience.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Multi publishes to every wrapped publisher. A failing publisher is logged
// and never stops the others.
type Multi struct {
	publishers []Publisher
	log        *logger.Logger
}

func NewMulti(log *logger.Logger, publishers ...Publisher) *Multi {
	return &Multi{publishers: publishers, log: log.WithComponent("events")}
}

// Publish always returns nil; failures are logged.
func (m *Multi) Publish(ctx context.Context, ev Event) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	for _, p := range m.publishers {
		if err := p.Publish(ctx, ev); err != nil {
			m.log.Warn("event publish failed", "type", ev.Type, "order_id", ev.OrderID, "error", err)
		}
	}
	return nil
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
