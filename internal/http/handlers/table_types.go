package handlers

import (
	"net/http"
	"strings"

	"restro-pos-service/pkg/response"

	"github.com/jackc/pgx/v5/pgtype"
)

type tableTypeRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) TableTypesList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.DB.Query(ctx, `
		select tt.id, tt.name, tt.description, count(t.id) as table_count
		from table_types tt
		left join tables t on t.table_type_id = tt.id
		group by tt.id
		order by tt.name
	`)
	if err != nil {
		writeDBError(w, err, "table_type_list", false)
		return
	}
	defer rows.Close()

	list := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id          int64
			name        string
			description pgtype.Text
			tableCount  int64
		)
		if err := rows.Scan(&id, &name, &description, &tableCount); err != nil {
			writeDBError(w, err, "table_type_list", false)
			return
		}
		list = append(list, map[string]any{
			"id":          id,
			"name":        name,
			"description": textPtr(description),
			"tableCount":  tableCount,
		})
	}

	response.Success(w, list)
}

func (h *Handler) TableTypesCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body tableTypeRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Table type name is required")
		return
	}

	var id int64
	err := h.DB.QueryRow(ctx, `
		insert into table_types (name, description) values ($1, $2) returning id
	`, name, nullIfEmptyPtr(body.Description)).Scan(&id)
	if err != nil {
		writeDBError(w, err, "table_type_create", false)
		return
	}

	response.Created(w, map[string]any{"id": id, "name": name}, "Table type created successfully")
}

func (h *Handler) TableTypesUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid table type id")
		return
	}

	var body tableTypeRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Table type name is required")
		return
	}

	tag, err := h.DB.Exec(ctx, `
		update table_types set name = $1, description = $2, updated_at = now() where id = $3
	`, name, nullIfEmptyPtr(body.Description), id)
	if err != nil {
		writeDBError(w, err, "table_type_update", false)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Table type not found")
		return
	}

	response.Message(w, "Table type updated successfully")
}

func (h *Handler) TableTypesDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid table type id")
		return
	}

	tag, err := h.DB.Exec(ctx, `delete from table_types where id = $1`, id)
	if err != nil {
		writeDBError(w, err, "table_type_delete", true)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Table type not found")
		return
	}

	response.Message(w, "Table type deleted successfully")
}
