package handlers

import (
	"net/http"
	"strings"

	"restro-pos-service/pkg/response"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type shopInfoRequest struct {
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

// Shop info is a single row; the update upserts it.
func (h *Handler) ShopInfoGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		id      int64
		name    string
		address pgtype.Text
		phone   pgtype.Text
	)
	err := h.DB.QueryRow(ctx, `
		select id, name, address, phone from shop_info order by id limit 1
	`).Scan(&id, &name, &address, &phone)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Success(w, nil)
			return
		}
		writeDBError(w, err, "shop_info_get", false)
		return
	}

	response.Success(w, map[string]any{
		"id":      id,
		"name":    name,
		"address": textPtr(address),
		"phone":   textPtr(phone),
	})
}

func (h *Handler) ShopInfoUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body shopInfoRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Shop name is required")
		return
	}

	tag, err := h.DB.Exec(ctx, `
		update shop_info
		set name = $1, address = $2, phone = $3, updated_at = now()
		where id = (select id from shop_info order by id limit 1)
	`, name, nullIfEmptyPtr(body.Address), nullIfEmptyPtr(body.Phone))
	if err != nil {
		writeDBError(w, err, "shop_info_update", false)
		return
	}
	if tag.RowsAffected() == 0 {
		if _, err := h.DB.Exec(ctx, `
			insert into shop_info (name, address, phone) values ($1, $2, $3)
		`, name, nullIfEmptyPtr(body.Address), nullIfEmptyPtr(body.Phone)); err != nil {
			writeDBError(w, err, "shop_info_update", false)
			return
		}
	}

	response.Message(w, "Shop info updated successfully")
}
