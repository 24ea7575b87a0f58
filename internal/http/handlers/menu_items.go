package handlers

import (
	"context"
	"net/http"
	"strings"

	"restro-pos-service/pkg/response"

	"github.com/jackc/pgx/v5"
)

type menuItemPriceInput struct {
	TableTypeID int64   `json:"tableTypeId"`
	Price       float64 `json:"price"`
}

type menuItemRequest struct {
	Name       string               `json:"name"`
	CategoryID int64                `json:"categoryId"`
	IsCook     bool                 `json:"isCook"`
	IsActive   *bool                `json:"isActive"`
	Prices     []menuItemPriceInput `json:"prices"`
}

func validateMenuItemRequest(body *menuItemRequest) string {
	if strings.TrimSpace(body.Name) == "" {
		return "Menu item name is required"
	}
	if body.CategoryID == 0 {
		return "Category is required"
	}
	seen := make(map[int64]struct{}, len(body.Prices))
	for _, price := range body.Prices {
		if price.TableTypeID == 0 {
			return "Each price needs a table type"
		}
		if price.Price < 0 {
			return "Price cannot be negative"
		}
		if _, dup := seen[price.TableTypeID]; dup {
			return "Duplicate price for the same table type"
		}
		seen[price.TableTypeID] = struct{}{}
	}
	return ""
}

func (h *Handler) MenuItemsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.DB.Query(ctx, `
		select mi.id, mi.name, mi.category_id, c.name, mi.is_cook, mi.is_active
		from menu_items mi
		join categories c on c.id = mi.category_id
		order by c.name, mi.name
	`)
	if err != nil {
		writeDBError(w, err, "menu_item_list", false)
		return
	}
	defer rows.Close()

	list := make([]map[string]any, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var (
			id           int64
			name         string
			categoryID   int64
			categoryName string
			isCook       bool
			isActive     bool
		)
		if err := rows.Scan(&id, &name, &categoryID, &categoryName, &isCook, &isActive); err != nil {
			writeDBError(w, err, "menu_item_list", false)
			return
		}
		list = append(list, map[string]any{
			"id":           id,
			"name":         name,
			"categoryId":   categoryID,
			"categoryName": categoryName,
			"isCook":       isCook,
			"isActive":     isActive,
			"prices":       []map[string]any{},
		})
		ids = append(ids, id)
	}

	if len(ids) > 0 {
		prices, err := h.loadPricesByMenuItem(ctx, ids)
		if err != nil {
			writeDBError(w, err, "menu_item_list", false)
			return
		}
		for _, entry := range list {
			if rows, ok := prices[entry["id"].(int64)]; ok {
				entry["prices"] = rows
			}
		}
	}

	response.Success(w, list)
}

func (h *Handler) loadPricesByMenuItem(ctx context.Context, menuItemIDs []int64) (map[int64][]map[string]any, error) {
	rows, err := h.DB.Query(ctx, `
		select p.menu_item_id, p.table_type_id, tt.name, p.price
		from menu_item_prices p
		join table_types tt on tt.id = p.table_type_id
		where p.menu_item_id = any($1)
		order by p.id
	`, menuItemIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]map[string]any)
	for rows.Next() {
		var (
			menuItemID    int64
			tableTypeID   int64
			tableTypeName string
			price         float64
		)
		if err := rows.Scan(&menuItemID, &tableTypeID, &tableTypeName, &price); err != nil {
			return nil, err
		}
		out[menuItemID] = append(out[menuItemID], map[string]any{
			"tableTypeId":   tableTypeID,
			"tableTypeName": tableTypeName,
			"price":         price,
		})
	}
	return out, rows.Err()
}

func (h *Handler) MenuItemsCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body menuItemRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if msg := validateMenuItemRequest(&body); msg != "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	isActive := true
	if body.IsActive != nil {
		isActive = *body.IsActive
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		writeDBError(w, err, "menu_item_create", false)
		return
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		insert into menu_items (name, category_id, is_cook, is_active)
		values ($1, $2, $3, $4)
		returning id
	`, strings.TrimSpace(body.Name), body.CategoryID, body.IsCook, isActive).Scan(&id)
	if err != nil {
		writeDBError(w, err, "menu_item_create", false)
		return
	}

	if err := insertMenuItemPrices(ctx, tx, id, body.Prices); err != nil {
		writeDBError(w, err, "menu_item_create", false)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		writeDBError(w, err, "menu_item_create", false)
		return
	}

	response.Created(w, map[string]any{"id": id}, "Menu item created successfully")
}

// MenuItemsUpdate replaces the full price set in the same transaction as the
// item update so a concurrent price lookup never sees a half-written set.
func (h *Handler) MenuItemsUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid menu item id")
		return
	}

	var body menuItemRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if msg := validateMenuItemRequest(&body); msg != "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	isActive := true
	if body.IsActive != nil {
		isActive = *body.IsActive
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		writeDBError(w, err, "menu_item_update", false)
		return
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		update menu_items
		set name = $1, category_id = $2, is_cook = $3, is_active = $4, updated_at = now()
		where id = $5
	`, strings.TrimSpace(body.Name), body.CategoryID, body.IsCook, isActive, id)
	if err != nil {
		writeDBError(w, err, "menu_item_update", false)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Menu item not found")
		return
	}

	if _, err := tx.Exec(ctx, `delete from menu_item_prices where menu_item_id = $1`, id); err != nil {
		writeDBError(w, err, "menu_item_update", false)
		return
	}
	if err := insertMenuItemPrices(ctx, tx, id, body.Prices); err != nil {
		writeDBError(w, err, "menu_item_update", false)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		writeDBError(w, err, "menu_item_update", false)
		return
	}

	response.Message(w, "Menu item updated successfully")
}

func insertMenuItemPrices(ctx context.Context, tx pgx.Tx, menuItemID int64, prices []menuItemPriceInput) error {
	for _, price := range prices {
		if _, err := tx.Exec(ctx, `
			insert into menu_item_prices (menu_item_id, table_type_id, price)
			values ($1, $2, $3)
		`, menuItemID, price.TableTypeID, price.Price); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) MenuItemsDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid menu item id")
		return
	}

	tag, err := h.DB.Exec(ctx, `delete from menu_items where id = $1`, id)
	if err != nil {
		writeDBError(w, err, "menu_item_delete", true)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Menu item not found")
		return
	}

	response.Message(w, "Menu item deleted successfully")
}
