package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"restro-pos-service/internal/order"
	"restro-pos-service/pkg/response"

	"go.uber.org/zap"
)

type streamItem struct {
	ID         int64  `json:"id"`
	MenuItemID int64  `json:"menuItemId"`
	Name       string `json:"name"`
	IsCook     bool   `json:"isCook"`
	Quantity   int32  `json:"quantity"`
	Status     string `json:"status"`
	Eligible   *bool  `json:"eligible,omitempty"`
}

type streamOrder struct {
	ID           int64        `json:"id"`
	OrderNumber  string       `json:"orderNumber"`
	TableNumber  *string      `json:"tableNumber"`
	CustomerName *string      `json:"customerName"`
	CreatedAt    time.Time    `json:"createdAt"`
	Items        []streamItem `json:"items"`
}

// ChefStream feeds the kitchen dashboard: cook items still in the pending or
// preparing stage, grouped by order.
func (h *Handler) ChefStream(w http.ResponseWriter, r *http.Request) {
	h.streamOrders(w, r, func(ctx context.Context) ([]streamOrder, error) {
		return h.fetchStreamOrders(ctx, `
			mi.is_cook = true and oi.status in ('pending', 'preparing')
		`, false)
	})
}

// DeliveryStream feeds the serving dashboard: every undelivered item, with
// an eligibility flag so cook items only light up once the kitchen marks
// them ready.
func (h *Handler) DeliveryStream(w http.ResponseWriter, r *http.Request) {
	h.streamOrders(w, r, func(ctx context.Context) ([]streamOrder, error) {
		return h.fetchStreamOrders(ctx, `
			oi.status in ('pending', 'preparing', 'ready')
		`, true)
	})
}

// streamOrders is polling pushed over a long-lived response: re-run the
// query on a fixed interval and emit a frame only when the serialized
// payload differs from the last one sent. Reconnecting clients just get a
// fresh snapshot; there is no cursor or resume.
func (h *Handler) streamOrders(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context) ([]streamOrder, error)) {
	ctx := r.Context()

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sendFrame := func(payload []byte) {
		_, _ = fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}

	buildPayload := func() ([]byte, error) {
		orders, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]any{"items": orders})
	}

	var lastPayload string
	if payload, err := buildPayload(); err == nil {
		lastPayload = string(payload)
		sendFrame(payload)
	} else {
		h.Logger.Warn("stream snapshot failed", zap.Error(err))
		errPayload, _ := json.Marshal(map[string]any{"error": "failed to load orders"})
		sendFrame(errPayload)
	}

	pollTicker := time.NewTicker(h.Config.StreamPollInterval)
	keepAliveTicker := time.NewTicker(h.Config.StreamKeepAlive)
	defer pollTicker.Stop()
	defer keepAliveTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAliveTicker.C:
			_, _ = fmt.Fprintf(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			payload, err := buildPayload()
			if err != nil {
				continue
			}
			if string(payload) != lastPayload {
				lastPayload = string(payload)
				sendFrame(payload)
			}
		}
	}
}

func (h *Handler) fetchStreamOrders(ctx context.Context, itemFilter string, withEligibility bool) ([]streamOrder, error) {
	rows, err := h.DB.Query(ctx, `
		select o.id, o.order_number, t.number, o.customer_name, o.created_at,
		       oi.id, oi.menu_item_id, mi.name, mi.is_cook, oi.quantity, oi.status
		from orders o
		join order_items oi on oi.order_id = o.id
		join menu_items mi on mi.id = oi.menu_item_id
		left join tables t on t.id = o.table_id
		where o.status <> 'done' and `+itemFilter+`
		order by o.created_at, o.id, oi.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]streamOrder, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var (
			entry streamOrder
			item  streamItem
		)
		if err := rows.Scan(&entry.ID, &entry.OrderNumber, &entry.TableNumber, &entry.CustomerName, &entry.CreatedAt,
			&item.ID, &item.MenuItemID, &item.Name, &item.IsCook, &item.Quantity, &item.Status); err != nil {
			return nil, err
		}

		if withEligibility {
			eligible := order.DeliveryEligible(item.IsCook, item.Status)
			item.Eligible = &eligible
		}

		pos, ok := index[entry.ID]
		if !ok {
			pos = len(orders)
			index[entry.ID] = pos
			orders = append(orders, entry)
		}
		orders[pos].Items = append(orders[pos].Items, item)
	}

	return orders, rows.Err()
}
