package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"restro-pos-service/internal/auth"
	"restro-pos-service/internal/config"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	DB     *pgxpool.Pool
	Logger *zap.Logger
	Config config.Config
}

func New(db *pgxpool.Pool, logger *zap.Logger, cfg config.Config) *Server {
	return &Server{DB: db, Logger: logger, Config: cfg}
}

// wsClient serializes writes. Poll loop and read pump both touch the
// connection, and gorilla connections allow only one concurrent writer.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(value)
}

type activeOrder struct {
	ID           int64     `json:"id"`
	OrderNumber  string    `json:"orderNumber"`
	Status       string    `json:"status"`
	TableNumber  *string   `json:"tableNumber"`
	CustomerName *string   `json:"customerName"`
	Subtotal     float64   `json:"subtotal"`
	Total        float64   `json:"total"`
	ItemCount    int64     `json:"itemCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OrdersWS streams the active order board to the admin dashboard. The
// browser WebSocket API cannot set headers, so the token rides in the
// query string. Each connection runs its own poll loop and only pushes
// a frame when the board changed.
func (s *Server) OrdersWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	token := auth.ParseBearerToken(r.URL.Query().Get("token"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	claims, err := auth.VerifyAccessToken(token, s.Config.JWTSecret)
	if err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}
	if claims.Role != auth.RoleAdmin && claims.Role != auth.RoleWaiter && claims.Role != auth.RoleOrder {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "forbidden"})
		return
	}

	ctx := r.Context()
	client := &wsClient{conn: conn}

	var lastPayload string
	push := func() {
		orders, err := s.fetchActiveOrders(ctx)
		if err != nil {
			s.Logger.Warn("ws active orders fetch failed", zap.Error(err))
			return
		}
		payload, err := json.Marshal(orders)
		if err != nil {
			return
		}
		if string(payload) == lastPayload {
			return
		}
		lastPayload = string(payload)
		_ = client.writeJSON(map[string]any{"type": "orders.state", "data": json.RawMessage(payload)})
	}

	push()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.Config.WSPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			push()
		}
	}
}

func (s *Server) fetchActiveOrders(ctx context.Context) ([]activeOrder, error) {
	rows, err := s.DB.Query(ctx, `
		select o.id, o.order_number, o.status, t.number, o.customer_name,
		       o.subtotal, o.total,
		       (select count(*) from order_items oi where oi.order_id = o.id and oi.status <> 'cancelled'),
		       o.created_at
		from orders o
		left join tables t on t.id = o.table_id
		where o.status <> 'done'
		order by o.created_at desc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]activeOrder, 0)
	for rows.Next() {
		var o activeOrder
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.Status, &o.TableNumber, &o.CustomerName,
			&o.Subtotal, &o.Total, &o.ItemCount, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
