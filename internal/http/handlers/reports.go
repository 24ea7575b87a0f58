package handlers

import (
	"context"
	"net/http"
	"time"

	"restro-pos-service/pkg/response"
)

// SalesReport aggregates completed orders over a date range: one row per
// day plus the best-selling menu items across the whole range.
func (h *Handler) SalesReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	now := time.Now()
	from := now.AddDate(0, 0, -6)
	to := now
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "to must be YYYY-MM-DD")
			return
		}
		to = parsed
	}
	if to.Before(from) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "to must not be before from")
		return
	}

	rows, err := h.DB.Query(ctx, `
		select date(created_at) as day,
		       count(*),
		       coalesce(sum(subtotal), 0),
		       coalesce(sum(discount_amount), 0),
		       coalesce(sum(total), 0)
		from orders
		where status = 'done' and date(created_at) between $1 and $2
		group by day
		order by day
	`, from, to)
	if err != nil {
		writeDBError(w, err, "sales_report", false)
		return
	}
	defer rows.Close()

	daily := make([]map[string]any, 0)
	var totalOrders int64
	var grossTotal, discountTotal, netTotal float64
	for rows.Next() {
		var (
			day      time.Time
			orders   int64
			gross    float64
			discount float64
			net      float64
		)
		if err := rows.Scan(&day, &orders, &gross, &discount, &net); err != nil {
			writeDBError(w, err, "sales_report", false)
			return
		}
		daily = append(daily, map[string]any{
			"date":     day.Format("2006-01-02"),
			"orders":   orders,
			"gross":    gross,
			"discount": discount,
			"net":      net,
		})
		totalOrders += orders
		grossTotal += gross
		discountTotal += discount
		netTotal += net
	}
	if err := rows.Err(); err != nil {
		writeDBError(w, err, "sales_report", false)
		return
	}

	topItems, err := h.fetchTopItems(ctx, from, to)
	if err != nil {
		writeDBError(w, err, "sales_report", false)
		return
	}

	response.Success(w, map[string]any{
		"from":  from.Format("2006-01-02"),
		"to":    to.Format("2006-01-02"),
		"daily": daily,
		"summary": map[string]any{
			"orders":   totalOrders,
			"gross":    grossTotal,
			"discount": discountTotal,
			"net":      netTotal,
		},
		"topItems": topItems,
	})
}

func (h *Handler) fetchTopItems(ctx context.Context, from, to time.Time) ([]map[string]any, error) {
	rows, err := h.DB.Query(ctx, `
		select mi.id, mi.name, sum(oi.quantity), sum(oi.total_price)
		from order_items oi
		join orders o on o.id = oi.order_id
		join menu_items mi on mi.id = oi.menu_item_id
		where o.status = 'done'
		  and oi.status <> 'cancelled'
		  and date(o.created_at) between $1 and $2
		group by mi.id, mi.name
		order by sum(oi.quantity) desc
		limit 10
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id       int64
			name     string
			quantity int64
			total    float64
		)
		if err := rows.Scan(&id, &name, &quantity, &total); err != nil {
			return nil, err
		}
		items = append(items, map[string]any{
			"menuItemId": id,
			"name":       name,
			"quantity":   quantity,
			"total":      total,
		})
	}
	return items, rows.Err()
}
