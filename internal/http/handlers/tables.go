package handlers

import (
	"net/http"
	"strings"

	"restro-pos-service/internal/order"
	"restro-pos-service/pkg/response"

	"github.com/jackc/pgx/v5/pgtype"
)

type tableRequest struct {
	Number      string `json:"number"`
	TableTypeID int64  `json:"tableTypeId"`
	Status      string `json:"status"`
}

func validTableStatus(status string) bool {
	switch status {
	case order.TableAvailable, order.TableOccupied, order.TableReserved, order.TableMaintenance:
		return true
	}
	return false
}

// TablesList also joins the currently open order per table so the floor
// view can render occupancy in one request.
func (h *Handler) TablesList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.DB.Query(ctx, `
		select t.id, t.number, t.status, t.table_type_id, tt.name,
		       o.id, o.order_number
		from tables t
		join table_types tt on tt.id = t.table_type_id
		left join orders o on o.table_id = t.id and o.status <> 'done'
		order by t.number
	`)
	if err != nil {
		writeDBError(w, err, "table_list", false)
		return
	}
	defer rows.Close()

	list := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id            int64
			number        string
			status        string
			tableTypeID   int64
			tableTypeName string
			orderID       pgtype.Int8
			orderNumber   pgtype.Text
		)
		if err := rows.Scan(&id, &number, &status, &tableTypeID, &tableTypeName, &orderID, &orderNumber); err != nil {
			writeDBError(w, err, "table_list", false)
			return
		}
		entry := map[string]any{
			"id":            id,
			"number":        number,
			"status":        status,
			"tableTypeId":   tableTypeID,
			"tableTypeName": tableTypeName,
		}
		if orderID.Valid {
			entry["currentOrder"] = map[string]any{
				"id":          orderID.Int64,
				"orderNumber": orderNumber.String,
			}
		}
		list = append(list, entry)
	}

	response.Success(w, list)
}

func (h *Handler) TablesCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body tableRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	number := strings.TrimSpace(body.Number)
	if number == "" || body.TableTypeID == 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Table number and table type are required")
		return
	}
	status := body.Status
	if status == "" {
		status = order.TableAvailable
	}
	if !validTableStatus(status) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid table status")
		return
	}

	var id int64
	err := h.DB.QueryRow(ctx, `
		insert into tables (number, table_type_id, status) values ($1, $2, $3) returning id
	`, number, body.TableTypeID, status).Scan(&id)
	if err != nil {
		writeDBError(w, err, "table_create", false)
		return
	}

	response.Created(w, map[string]any{"id": id, "number": number, "status": status}, "Table created successfully")
}

func (h *Handler) TablesUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid table id")
		return
	}

	var body tableRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	number := strings.TrimSpace(body.Number)
	if number == "" || body.TableTypeID == 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Table number and table type are required")
		return
	}
	if body.Status != "" && !validTableStatus(body.Status) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid table status")
		return
	}

	tag, err := h.DB.Exec(ctx, `
		update tables
		set number = $1, table_type_id = $2,
		    status = coalesce(nullif($3, ''), status),
		    updated_at = now()
		where id = $4
	`, number, body.TableTypeID, body.Status, id)
	if err != nil {
		writeDBError(w, err, "table_update", false)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Table not found")
		return
	}

	response.Message(w, "Table updated successfully")
}

func (h *Handler) TablesDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid table id")
		return
	}

	tag, err := h.DB.Exec(ctx, `delete from tables where id = $1`, id)
	if err != nil {
		writeDBError(w, err, "table_delete", true)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Table not found")
		return
	}

	response.Message(w, "Table deleted successfully")
}
