package handlers

import (
	"net/http"
	"strings"

	"restro-pos-service/pkg/response"
)

type unitRequest struct {
	Name string `json:"name"`
}

func (h *Handler) UnitsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.DB.Query(ctx, `select id, name from units order by name`)
	if err != nil {
		writeDBError(w, err, "unit_list", false)
		return
	}
	defer rows.Close()

	list := make([]map[string]any, 0)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			writeDBError(w, err, "unit_list", false)
			return
		}
		list = append(list, map[string]any{"id": id, "name": name})
	}

	response.Success(w, list)
}

func (h *Handler) UnitsCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body unitRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unit name is required")
		return
	}

	var id int64
	if err := h.DB.QueryRow(ctx, `insert into units (name) values ($1) returning id`, name).Scan(&id); err != nil {
		writeDBError(w, err, "unit_create", false)
		return
	}

	response.Created(w, map[string]any{"id": id, "name": name}, "Unit created successfully")
}

func (h *Handler) UnitsUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid unit id")
		return
	}

	var body unitRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unit name is required")
		return
	}

	tag, err := h.DB.Exec(ctx, `update units set name = $1, updated_at = now() where id = $2`, name, id)
	if err != nil {
		writeDBError(w, err, "unit_update", false)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Unit not found")
		return
	}

	response.Message(w, "Unit updated successfully")
}

func (h *Handler) UnitsDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid unit id")
		return
	}

	tag, err := h.DB.Exec(ctx, `delete from units where id = $1`, id)
	if err != nil {
		writeDBError(w, err, "unit_delete", true)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Unit not found")
		return
	}

	response.Message(w, "Unit deleted successfully")
}
