package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"restro-pos-service/internal/order"
	"restro-pos-service/internal/queue"
	"restro-pos-service/pkg/response"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderNumberMaxAttempts = 5

type orderCreateRequest struct {
	TableID      *int64  `json:"tableId"`
	CustomerName *string `json:"customerName"`
}

func (h *Handler) OrdersCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body orderCreateRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		writeDBError(w, err, "order_create", false)
		return
	}
	defer tx.Rollback(ctx)

	if body.TableID != nil {
		var status string
		err := tx.QueryRow(ctx, `select status from tables where id = $1 for update`, *body.TableID).Scan(&status)
		if err != nil {
			if err == pgx.ErrNoRows {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Table not found")
				return
			}
			writeDBError(w, err, "order_create", false)
			return
		}
		if status == order.TableOccupied || status == order.TableMaintenance {
			response.Error(w, http.StatusConflict, "TABLE_UNAVAILABLE", "Table is not available for a new order")
			return
		}
	}

	// Two creations in the same instant can read the same last number; the
	// unique index on order_number turns the loser into a retry. Each
	// attempt runs inside a savepoint (pgx issues one for a nested Begin):
	// a failed insert would otherwise abort the surrounding transaction and
	// the next attempt's queries would fail with 25P02.
	var orderID int64
	var orderNumber string
	err = retryOnConflict(orderNumberMaxAttempts, func() error {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return err
		}

		number, err := order.GenerateNumber(ctx, sp, time.Now())
		if err != nil {
			_ = sp.Rollback(ctx)
			return err
		}

		var id int64
		err = sp.QueryRow(ctx, `
			insert into orders (order_number, table_id, customer_name, status, subtotal, discount_amount, total)
			values ($1, $2, $3, $4, 0, 0, 0)
			returning id
		`, number, body.TableID, nullIfEmptyPtr(body.CustomerName), order.StatusNew).Scan(&id)
		if err != nil {
			_ = sp.Rollback(ctx)
			return err
		}
		if err := sp.Commit(ctx); err != nil {
			return err
		}

		orderID, orderNumber = id, number
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			response.Error(w, http.StatusConflict, "DUPLICATE_ENTRY", "Could not allocate an order number, please retry")
			return
		}
		writeDBError(w, err, "order_create", false)
		return
	}

	if body.TableID != nil {
		if _, err := tx.Exec(ctx, `update tables set status = $1, updated_at = now() where id = $2`,
			order.TableOccupied, *body.TableID); err != nil {
			writeDBError(w, err, "order_create", false)
			return
		}
	}

	if err := tx.Commit(ctx); err != nil {
		writeDBError(w, err, "order_create", false)
		return
	}

	h.publishOrderEvent(ctx, queue.EventOrderCreated, orderID, orderNumber, map[string]any{
		"tableId": body.TableID,
	})

	detail, err := h.fetchOrderDetail(ctx, orderID)
	if err != nil {
		writeDBError(w, err, "order_create", false)
		return
	}
	response.Created(w, detail, "Order created successfully")
}

func (h *Handler) OrdersList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := `
		select o.id, o.order_number, o.status, o.table_id, t.number, o.customer_name,
		       o.subtotal, o.discount_amount, o.total, o.created_at,
		       (select count(*) from order_items oi where oi.order_id = o.id)
		from orders o
		left join tables t on t.id = o.table_id
	`
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 2)

	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		if !order.ValidStatus(status) {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order status filter")
			return
		}
		args = append(args, status)
		conditions = append(conditions, "o.status = $1")
	}
	if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Date filter must be YYYY-MM-DD")
			return
		}
		args = append(args, order.DayPrefix(day))
		if len(args) == 1 {
			conditions = append(conditions, "o.order_number like $1 || '%'")
		} else {
			conditions = append(conditions, "o.order_number like $2 || '%'")
		}
	}
	if len(conditions) > 0 {
		query += " where " + strings.Join(conditions, " and ")
	}
	query += " order by o.created_at desc"

	rows, err := h.DB.Query(ctx, query, args...)
	if err != nil {
		writeDBError(w, err, "order_list", false)
		return
	}
	defer rows.Close()

	list := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id             int64
			orderNumber    string
			status         string
			tableID        pgtype.Int8
			tableNumber    pgtype.Text
			customerName   pgtype.Text
			subtotal       float64
			discountAmount float64
			total          float64
			createdAt      time.Time
			itemCount      int64
		)
		if err := rows.Scan(&id, &orderNumber, &status, &tableID, &tableNumber, &customerName,
			&subtotal, &discountAmount, &total, &createdAt, &itemCount); err != nil {
			writeDBError(w, err, "order_list", false)
			return
		}
		list = append(list, map[string]any{
			"id":             id,
			"orderNumber":    orderNumber,
			"status":         status,
			"tableId":        int8Ptr(tableID),
			"tableNumber":    textPtr(tableNumber),
			"customerName":   textPtr(customerName),
			"subtotal":       subtotal,
			"discountAmount": discountAmount,
			"total":          total,
			"itemCount":      itemCount,
			"createdAt":      createdAt,
		})
	}

	response.Success(w, list)
}

func (h *Handler) OrdersDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}

	detail, err := h.fetchOrderDetail(ctx, id)
	if err != nil {
		writeDBError(w, err, "order_detail", false)
		return
	}
	response.Success(w, detail)
}

func (h *Handler) fetchOrderDetail(ctx context.Context, orderID int64) (map[string]any, error) {
	var (
		orderNumber    string
		status         string
		tableID        pgtype.Int8
		tableNumber    pgtype.Text
		customerName   pgtype.Text
		discountType   pgtype.Text
		discountValue  float64
		subtotal       float64
		discountAmount float64
		total          float64
		createdAt      time.Time
	)
	err := h.DB.QueryRow(ctx, `
		select o.order_number, o.status, o.table_id, t.number, o.customer_name,
		       o.discount_type, coalesce(o.discount_value, 0),
		       o.subtotal, o.discount_amount, o.total, o.created_at
		from orders o
		left join tables t on t.id = o.table_id
		where o.id = $1
	`, orderID).Scan(&orderNumber, &status, &tableID, &tableNumber, &customerName,
		&discountType, &discountValue, &subtotal, &discountAmount, &total, &createdAt)
	if err != nil {
		return nil, err
	}

	rows, err := h.DB.Query(ctx, `
		select oi.id, oi.menu_item_id, mi.name, mi.is_cook, oi.quantity, oi.unit_price, oi.total_price, oi.status
		from order_items oi
		join menu_items mi on mi.id = oi.menu_item_id
		where oi.order_id = $1
		order by oi.id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]map[string]any, 0)
	for rows.Next() {
		var (
			itemID     int64
			menuItemID int64
			name       string
			isCook     bool
			quantity   int32
			unitPrice  float64
			totalPrice float64
			itemStatus string
		)
		if err := rows.Scan(&itemID, &menuItemID, &name, &isCook, &quantity, &unitPrice, &totalPrice, &itemStatus); err != nil {
			return nil, err
		}
		items = append(items, map[string]any{
			"id":         itemID,
			"menuItemId": menuItemID,
			"name":       name,
			"isCook":     isCook,
			"quantity":   quantity,
			"unitPrice":  unitPrice,
			"totalPrice": totalPrice,
			"status":     itemStatus,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return map[string]any{
		"id":             orderID,
		"orderNumber":    orderNumber,
		"status":         status,
		"tableId":        int8Ptr(tableID),
		"tableNumber":    textPtr(tableNumber),
		"customerName":   textPtr(customerName),
		"discountType":   textPtr(discountType),
		"discountValue":  discountValue,
		"subtotal":       subtotal,
		"discountAmount": discountAmount,
		"total":          total,
		"items":          items,
		"createdAt":      createdAt,
	}, nil
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) OrdersUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}

	var body orderStatusRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if !order.ValidStatus(body.Status) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Status must be one of new, on_process, done")
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		writeDBError(w, err, "order_status", false)
		return
	}
	defer tx.Rollback(ctx)

	var current string
	var tableID pgtype.Int8
	var orderNumber string
	err = tx.QueryRow(ctx, `
		select status, table_id, order_number from orders where id = $1 for update
	`, id).Scan(&current, &tableID, &orderNumber)
	if err != nil {
		writeDBError(w, err, "order_status", false)
		return
	}

	if !order.CanTransition(current, body.Status) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Cannot change order status from "+current+" to "+body.Status)
		return
	}

	if _, err := tx.Exec(ctx, `update orders set status = $1, updated_at = now() where id = $2`, body.Status, id); err != nil {
		writeDBError(w, err, "order_status", false)
		return
	}

	// Closing the order hands its table back in the same transaction.
	if order.ReleasesTable(body.Status) && tableID.Valid {
		if _, err := tx.Exec(ctx, `update tables set status = $1, updated_at = now() where id = $2`,
			order.TableAvailable, tableID.Int64); err != nil {
			writeDBError(w, err, "order_status", false)
			return
		}
	}

	if err := tx.Commit(ctx); err != nil {
		writeDBError(w, err, "order_status", false)
		return
	}

	h.publishOrderEvent(ctx, queue.EventOrderStatusUpdated, id, orderNumber, map[string]any{
		"from": current,
		"to":   body.Status,
	})

	response.Message(w, "Order status updated successfully")
}

type orderDiscountRequest struct {
	DiscountType  *string `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
}

func (h *Handler) OrdersUpdateDiscount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}

	var body orderDiscountRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if body.DiscountType != nil && *body.DiscountType != order.DiscountPercentage && *body.DiscountType != order.DiscountAmount {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Discount type must be percentage or amount")
		return
	}
	if body.DiscountValue < 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Discount value cannot be negative")
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		writeDBError(w, err, "order_discount", false)
		return
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		update orders set discount_type = $1, discount_value = $2, updated_at = now() where id = $3
	`, body.DiscountType, body.DiscountValue, id)
	if err != nil {
		writeDBError(w, err, "order_discount", false)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Order not found")
		return
	}

	totals, err := order.RecalculateTotals(ctx, tx, id)
	if err != nil {
		writeDBError(w, err, "order_discount", false)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		writeDBError(w, err, "order_discount", false)
		return
	}

	response.Success(w, map[string]any{
		"subtotal":       totals.Subtotal,
		"discountAmount": totals.DiscountAmount,
		"total":          totals.Total,
	})
}

func (h *Handler) OrdersDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		writeDBError(w, err, "order_delete", false)
		return
	}
	defer tx.Rollback(ctx)

	var tableID pgtype.Int8
	var orderNumber string
	err = tx.QueryRow(ctx, `select table_id, order_number from orders where id = $1 for update`, id).
		Scan(&tableID, &orderNumber)
	if err != nil {
		writeDBError(w, err, "order_delete", false)
		return
	}

	// Items go with the order through the FK cascade.
	if _, err := tx.Exec(ctx, `delete from orders where id = $1`, id); err != nil {
		writeDBError(w, err, "order_delete", true)
		return
	}

	if tableID.Valid {
		if _, err := tx.Exec(ctx, `update tables set status = $1, updated_at = now() where id = $2`,
			order.TableAvailable, tableID.Int64); err != nil {
			writeDBError(w, err, "order_delete", false)
			return
		}
	}

	if err := tx.Commit(ctx); err != nil {
		writeDBError(w, err, "order_delete", false)
		return
	}

	h.publishOrderEvent(ctx, queue.EventOrderDeleted, id, orderNumber, nil)

	response.Message(w, "Order deleted successfully")
}
