package handlers

import (
	"net/http"

	"restro-pos-service/pkg/response"
)

// Menu returns the active menu grouped by category for the order-taking
// views, with every table-type price attached so the client can show the
// right tier without another round trip.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.DB.Query(ctx, `
		select c.id, c.name, mi.id, mi.name, mi.is_cook
		from categories c
		join menu_items mi on mi.category_id = c.id and mi.is_active = true
		order by c.name, mi.name
	`)
	if err != nil {
		writeDBError(w, err, "menu", false)
		return
	}
	defer rows.Close()

	type category struct {
		entry map[string]any
		items []map[string]any
	}

	categoryOrder := make([]int64, 0)
	categories := make(map[int64]*category)
	itemIDs := make([]int64, 0)
	itemsByID := make(map[int64]map[string]any)

	for rows.Next() {
		var (
			categoryID   int64
			categoryName string
			itemID       int64
			itemName     string
			isCook       bool
		)
		if err := rows.Scan(&categoryID, &categoryName, &itemID, &itemName, &isCook); err != nil {
			writeDBError(w, err, "menu", false)
			return
		}

		cat, ok := categories[categoryID]
		if !ok {
			cat = &category{entry: map[string]any{"id": categoryID, "name": categoryName}}
			categories[categoryID] = cat
			categoryOrder = append(categoryOrder, categoryID)
		}

		item := map[string]any{
			"id":     itemID,
			"name":   itemName,
			"isCook": isCook,
			"prices": []map[string]any{},
		}
		cat.items = append(cat.items, item)
		itemIDs = append(itemIDs, itemID)
		itemsByID[itemID] = item
	}
	if err := rows.Err(); err != nil {
		writeDBError(w, err, "menu", false)
		return
	}

	if len(itemIDs) > 0 {
		prices, err := h.loadPricesByMenuItem(ctx, itemIDs)
		if err != nil {
			writeDBError(w, err, "menu", false)
			return
		}
		for itemID, priceRows := range prices {
			if item, ok := itemsByID[itemID]; ok {
				item["prices"] = priceRows
			}
		}
	}

	out := make([]map[string]any, 0, len(categoryOrder))
	for _, categoryID := range categoryOrder {
		cat := categories[categoryID]
		cat.entry["items"] = cat.items
		out = append(out, cat.entry)
	}

	response.Success(w, out)
}
