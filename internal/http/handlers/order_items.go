package handlers

import (
	"net/http"

	"restro-pos-service/internal/order"
	"restro-pos-service/internal/queue"
	"restro-pos-service/pkg/response"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type orderItemAddRequest struct {
	MenuItemID int64 `json:"menuItemId"`
	Quantity   int32 `json:"quantity"`
}

func (h *Handler) OrderItemsAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}

	var body orderItemAddRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if body.MenuItemID == 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Menu item is required")
		return
	}
	if body.Quantity < 1 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Quantity must be at least 1")
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		writeDBError(w, err, "order_item_add", false)
		return
	}
	defer tx.Rollback(ctx)

	var orderStatus string
	var tableID pgtype.Int8
	err = tx.QueryRow(ctx, `select status, table_id from orders where id = $1 for update`, orderID).
		Scan(&orderStatus, &tableID)
	if err != nil {
		writeDBError(w, err, "order_item_add", false)
		return
	}
	if orderStatus == order.StatusDone {
		response.Error(w, http.StatusConflict, "ORDER_CLOSED", "Cannot add items to a completed order")
		return
	}

	// Re-adding the same menu item merges quantities. The original unit
	// price sticks; it is a snapshot from when the line was first added, so
	// the merge path never touches the current price rows. Prices are only
	// resolved when a new line is created.
	var existingID int64
	var existingQty int32
	var existingUnitPrice float64
	err = tx.QueryRow(ctx, `
		select id, quantity, unit_price from order_items
		where order_id = $1 and menu_item_id = $2 and status <> $3
		order by id
		limit 1
	`, orderID, body.MenuItemID, order.ItemStatusCancelled).Scan(&existingID, &existingQty, &existingUnitPrice)
	switch err {
	case nil:
		merged := order.MergeQuantity(existingQty, body.Quantity, existingUnitPrice)
		if _, err := tx.Exec(ctx, `
			update order_items
			set quantity = $1, total_price = $2, updated_at = now()
			where id = $3
		`, merged.Quantity, merged.TotalPrice, existingID); err != nil {
			writeDBError(w, err, "order_item_add", false)
			return
		}
	case pgx.ErrNoRows:
		var tableTypeID *int64
		if tableID.Valid {
			var tt int64
			if err := tx.QueryRow(ctx, `select table_type_id from tables where id = $1`, tableID.Int64).Scan(&tt); err != nil {
				writeDBError(w, err, "order_item_add", false)
				return
			}
			tableTypeID = &tt
		}

		prices, err := order.LoadMenuItemPrices(ctx, tx, body.MenuItemID)
		if err != nil {
			writeDBError(w, err, "order_item_add", false)
			return
		}
		unitPrice, ok := order.ResolveUnitPrice(prices, tableTypeID)
		if !ok {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "No price found for this menu item for this table type")
			return
		}

		if _, err := tx.Exec(ctx, `
			insert into order_items (order_id, menu_item_id, quantity, unit_price, total_price, status)
			values ($1, $2, $3, $4, $5, $6)
		`, orderID, body.MenuItemID, body.Quantity, unitPrice, float64(body.Quantity)*unitPrice, order.ItemStatusPending); err != nil {
			writeDBError(w, err, "order_item_add", false)
			return
		}
	default:
		writeDBError(w, err, "order_item_add", false)
		return
	}

	if _, err := order.RecalculateTotals(ctx, tx, orderID); err != nil {
		writeDBError(w, err, "order_item_add", false)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		writeDBError(w, err, "order_item_add", false)
		return
	}

	detail, err := h.fetchOrderDetail(ctx, orderID)
	if err != nil {
		writeDBError(w, err, "order_item_add", false)
		return
	}
	response.Success(w, detail)
}

type orderItemUpdateRequest struct {
	Quantity int32 `json:"quantity"`
}

func (h *Handler) OrderItemsUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}
	itemID, err := readPathInt64(r, "itemId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order item id")
		return
	}

	var body orderItemUpdateRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if body.Quantity < 1 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Quantity must be at least 1")
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		writeDBError(w, err, "order_item_update", false)
		return
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		update order_items
		set quantity = $1, total_price = $1 * unit_price, updated_at = now()
		where id = $2 and order_id = $3
	`, body.Quantity, itemID, orderID)
	if err != nil {
		writeDBError(w, err, "order_item_update", false)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Order item not found")
		return
	}

	if _, err := order.RecalculateTotals(ctx, tx, orderID); err != nil {
		writeDBError(w, err, "order_item_update", false)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		writeDBError(w, err, "order_item_update", false)
		return
	}

	detail, err := h.fetchOrderDetail(ctx, orderID)
	if err != nil {
		writeDBError(w, err, "order_item_update", false)
		return
	}
	response.Success(w, detail)
}

func (h *Handler) OrderItemsDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}
	itemID, err := readPathInt64(r, "itemId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order item id")
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		writeDBError(w, err, "order_item_delete", false)
		return
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `delete from order_items where id = $1 and order_id = $2`, itemID, orderID)
	if err != nil {
		writeDBError(w, err, "order_item_delete", true)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Order item not found")
		return
	}

	if _, err := order.RecalculateTotals(ctx, tx, orderID); err != nil {
		writeDBError(w, err, "order_item_delete", false)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		writeDBError(w, err, "order_item_delete", false)
		return
	}

	detail, err := h.fetchOrderDetail(ctx, orderID)
	if err != nil {
		writeDBError(w, err, "order_item_delete", false)
		return
	}
	response.Success(w, detail)
}

type orderItemStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) OrderItemsUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}
	itemID, err := readPathInt64(r, "itemId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order item id")
		return
	}

	var body orderItemStatusRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if !order.ValidItemStatus(body.Status) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Status must be one of pending, preparing, ready, served, cancelled")
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		writeDBError(w, err, "order_item_status", false)
		return
	}
	defer tx.Rollback(ctx)

	var current string
	var orderNumber string
	err = tx.QueryRow(ctx, `
		select oi.status, o.order_number
		from order_items oi
		join orders o on o.id = oi.order_id
		where oi.id = $1 and oi.order_id = $2
		for update of oi
	`, itemID, orderID).Scan(&current, &orderNumber)
	if err != nil {
		writeDBError(w, err, "order_item_status", false)
		return
	}

	if !order.CanTransitionItem(current, body.Status) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Cannot change item status from "+current+" to "+body.Status)
		return
	}

	if _, err := tx.Exec(ctx, `
		update order_items set status = $1, updated_at = now() where id = $2
	`, body.Status, itemID); err != nil {
		writeDBError(w, err, "order_item_status", false)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		writeDBError(w, err, "order_item_status", false)
		return
	}

	h.publishOrderEvent(ctx, queue.EventItemStatusUpdated, orderID, orderNumber, map[string]any{
		"itemId": itemID,
		"from":   current,
		"to":     body.Status,
	})

	response.Message(w, "Order item status updated successfully")
}
