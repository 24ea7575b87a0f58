package handlers

import (
	"net/http"
	"strings"
	"time"

	"restro-pos-service/pkg/response"

	"github.com/jackc/pgx/v5/pgtype"
)

type categoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) CategoriesList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.DB.Query(ctx, `
		select c.id, c.name, c.description, c.created_at,
		       count(mi.id) as menu_item_count
		from categories c
		left join menu_items mi on mi.category_id = c.id
		group by c.id
		order by c.name
	`)
	if err != nil {
		writeDBError(w, err, "category_list", false)
		return
	}
	defer rows.Close()

	list := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id          int64
			name        string
			description pgtype.Text
			createdAt   time.Time
			itemCount   int64
		)
		if err := rows.Scan(&id, &name, &description, &createdAt, &itemCount); err != nil {
			writeDBError(w, err, "category_list", false)
			return
		}
		list = append(list, map[string]any{
			"id":            id,
			"name":          name,
			"description":   textPtr(description),
			"menuItemCount": itemCount,
			"createdAt":     createdAt,
		})
	}

	response.Success(w, list)
}

func (h *Handler) CategoriesCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body categoryRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Category name is required")
		return
	}

	var id int64
	err := h.DB.QueryRow(ctx, `
		insert into categories (name, description) values ($1, $2) returning id
	`, name, nullIfEmptyPtr(body.Description)).Scan(&id)
	if err != nil {
		writeDBError(w, err, "category_create", false)
		return
	}

	response.Created(w, map[string]any{"id": id, "name": name, "description": nullIfEmptyPtr(body.Description)}, "Category created successfully")
}

func (h *Handler) CategoriesUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid category id")
		return
	}

	var body categoryRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Category name is required")
		return
	}

	tag, err := h.DB.Exec(ctx, `
		update categories set name = $1, description = $2, updated_at = now() where id = $3
	`, name, nullIfEmptyPtr(body.Description), id)
	if err != nil {
		writeDBError(w, err, "category_update", false)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Category not found")
		return
	}

	response.Message(w, "Category updated successfully")
}

func (h *Handler) CategoriesDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid category id")
		return
	}

	tag, err := h.DB.Exec(ctx, `delete from categories where id = $1`, id)
	if err != nil {
		writeDBError(w, err, "category_delete", true)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Category not found")
		return
	}

	response.Message(w, "Category deleted successfully")
}
