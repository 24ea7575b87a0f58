package handlers

import (
	"net/http"
	"strings"

	"restro-pos-service/pkg/response"
)

type productRequest struct {
	Name   string `json:"name"`
	UnitID int64  `json:"unitId"`
}

func (h *Handler) ProductsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.DB.Query(ctx, `
		select p.id, p.name, p.unit_id, u.name
		from products p
		join units u on u.id = p.unit_id
		order by p.name
	`)
	if err != nil {
		writeDBError(w, err, "product_list", false)
		return
	}
	defer rows.Close()

	list := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id       int64
			name     string
			unitID   int64
			unitName string
		)
		if err := rows.Scan(&id, &name, &unitID, &unitName); err != nil {
			writeDBError(w, err, "product_list", false)
			return
		}
		list = append(list, map[string]any{
			"id":       id,
			"name":     name,
			"unitId":   unitID,
			"unitName": unitName,
		})
	}

	response.Success(w, list)
}

func (h *Handler) ProductsCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body productRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" || body.UnitID == 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Product name and unit are required")
		return
	}

	var id int64
	err := h.DB.QueryRow(ctx, `
		insert into products (name, unit_id) values ($1, $2) returning id
	`, name, body.UnitID).Scan(&id)
	if err != nil {
		writeDBError(w, err, "product_create", false)
		return
	}

	response.Created(w, map[string]any{"id": id, "name": name, "unitId": body.UnitID}, "Product created successfully")
}

func (h *Handler) ProductsUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid product id")
		return
	}

	var body productRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" || body.UnitID == 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Product name and unit are required")
		return
	}

	tag, err := h.DB.Exec(ctx, `
		update products set name = $1, unit_id = $2, updated_at = now() where id = $3
	`, name, body.UnitID, id)
	if err != nil {
		writeDBError(w, err, "product_update", false)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Product not found")
		return
	}

	response.Message(w, "Product updated successfully")
}

func (h *Handler) ProductsDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid product id")
		return
	}

	tag, err := h.DB.Exec(ctx, `delete from products where id = $1`, id)
	if err != nil {
		writeDBError(w, err, "product_delete", true)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Product not found")
		return
	}

	response.Message(w, "Product deleted successfully")
}
