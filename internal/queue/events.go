package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Routing keys for order lifecycle events.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status.updated"
	EventItemStatusUpdated  = "order.item.status.updated"
	EventOrderDeleted       = "order.deleted"
)

type OrderEvent struct {
	Type        string         `json:"type"`
	OrderID     int64          `json:"orderId"`
	OrderNumber string         `json:"orderNumber"`
	Payload     map[string]any `json:"payload,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
}

// ProcessOrderEvent persists a consumed lifecycle event into the
// order_events audit table. The order row may already be gone for
// order.deleted events, so there is no FK back to orders.
func ProcessOrderEvent(ctx context.Context, db *pgxpool.Pool, body []byte) error {
	var event OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}
	if event.Type == "" {
		return errors.New("event type is required")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `
		insert into order_events (event_type, order_id, order_number, payload, occurred_at)
		values ($1, $2, $3, $4, $5)
	`, event.Type, event.OrderID, event.OrderNumber, payload, event.OccurredAt)
	return err
}
