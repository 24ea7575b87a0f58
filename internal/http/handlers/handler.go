package handlers

import (
	"context"
	"time"

	"restro-pos-service/internal/config"
	"restro-pos-service/internal/queue"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *pgxpool.Pool
	Logger *zap.Logger
	Config config.Config
	Queue  *queue.Client
}

// publishOrderEvent is best-effort: the mutation has already committed and a
// broker outage must not fail the request.
func (h *Handler) publishOrderEvent(ctx context.Context, eventType string, orderID int64, orderNumber string, payload map[string]any) {
	if h.Queue == nil {
		return
	}
	event := queue.OrderEvent{
		Type:        eventType,
		OrderID:     orderID,
		OrderNumber: orderNumber,
		Payload:     payload,
		OccurredAt:  time.Now(),
	}
	if err := h.Queue.PublishJSON(ctx, queue.EventsExchange, eventType, event); err != nil {
		h.Logger.Warn("order event publish failed",
			zap.String("event", eventType),
			zap.Int64("orderId", orderID),
			zap.Error(err))
	}
}
