package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"restro-pos-service/internal/expense"
	"restro-pos-service/pkg/response"
)

type expenseRequest struct {
	Name        string `json:"name"`
	ExpenseDate string `json:"expenseDate"`
}

type expenseItemRequest struct {
	Name      string  `json:"name"`
	Currency  string  `json:"currency"`
	Quantity  int32   `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

func (h *Handler) ExpensesList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.DB.Query(ctx, `
		select e.id, e.name, e.expense_date, e.amount_usd, e.amount_khr, e.amount,
		       (select count(*) from expense_items ei where ei.expense_id = e.id)
		from expenses e
		order by e.expense_date desc, e.id desc
	`)
	if err != nil {
		writeDBError(w, err, "expense_list", false)
		return
	}
	defer rows.Close()

	list := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id          int64
			name        string
			expenseDate time.Time
			amountUSD   float64
			amountKHR   float64
			amount      float64
			itemCount   int64
		)
		if err := rows.Scan(&id, &name, &expenseDate, &amountUSD, &amountKHR, &amount, &itemCount); err != nil {
			writeDBError(w, err, "expense_list", false)
			return
		}
		list = append(list, map[string]any{
			"id":          id,
			"name":        name,
			"expenseDate": expenseDate.Format("2006-01-02"),
			"amountUSD":   amountUSD,
			"amountKHR":   amountKHR,
			"amount":      amount,
			"itemCount":   itemCount,
		})
	}

	response.Success(w, list)
}

func (h *Handler) ExpensesCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body expenseRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Expense name is required")
		return
	}
	expenseDate := time.Now()
	if body.ExpenseDate != "" {
		parsed, err := time.Parse("2006-01-02", body.ExpenseDate)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Expense date must be YYYY-MM-DD")
			return
		}
		expenseDate = parsed
	}

	var id int64
	err := h.DB.QueryRow(ctx, `
		insert into expenses (name, expense_date, amount_usd, amount_khr, amount)
		values ($1, $2, 0, 0, 0)
		returning id
	`, name, expenseDate).Scan(&id)
	if err != nil {
		writeDBError(w, err, "expense_create", false)
		return
	}

	response.Created(w, map[string]any{"id": id, "name": name}, "Expense created successfully")
}

func (h *Handler) ExpensesDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid expense id")
		return
	}

	detail, err := h.fetchExpenseDetail(ctx, id)
	if err != nil {
		writeDBError(w, err, "expense_detail", false)
		return
	}
	response.Success(w, detail)
}

func (h *Handler) fetchExpenseDetail(ctx context.Context, expenseID int64) (map[string]any, error) {
	var (
		name        string
		expenseDate time.Time
		amountUSD   float64
		amountKHR   float64
		amount      float64
	)
	err := h.DB.QueryRow(ctx, `
		select name, expense_date, amount_usd, amount_khr, amount from expenses where id = $1
	`, expenseID).Scan(&name, &expenseDate, &amountUSD, &amountKHR, &amount)
	if err != nil {
		return nil, err
	}

	rows, err := h.DB.Query(ctx, `
		select id, name, currency, quantity, unit_price from expense_items
		where expense_id = $1
		order by id
	`, expenseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]map[string]any, 0)
	for rows.Next() {
		var (
			itemID    int64
			itemName  string
			currency  string
			quantity  int32
			unitPrice float64
		)
		if err := rows.Scan(&itemID, &itemName, &currency, &quantity, &unitPrice); err != nil {
			return nil, err
		}
		items = append(items, map[string]any{
			"id":         itemID,
			"name":       itemName,
			"currency":   currency,
			"quantity":   quantity,
			"unitPrice":  unitPrice,
			"totalPrice": float64(quantity) * unitPrice,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return map[string]any{
		"id":          expenseID,
		"name":        name,
		"expenseDate": expenseDate.Format("2006-01-02"),
		"amountUSD":   amountUSD,
		"amountKHR":   amountKHR,
		"amount":      amount,
		"items":       items,
	}, nil
}

func (h *Handler) ExpensesUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid expense id")
		return
	}

	var body expenseRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Expense name is required")
		return
	}

	var tagRows int64
	if body.ExpenseDate != "" {
		parsed, err := time.Parse("2006-01-02", body.ExpenseDate)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Expense date must be YYYY-MM-DD")
			return
		}
		tag, err := h.DB.Exec(ctx, `
			update expenses set name = $1, expense_date = $2, updated_at = now() where id = $3
		`, name, parsed, id)
		if err != nil {
			writeDBError(w, err, "expense_update", false)
			return
		}
		tagRows = tag.RowsAffected()
	} else {
		tag, err := h.DB.Exec(ctx, `update expenses set name = $1, updated_at = now() where id = $2`, name, id)
		if err != nil {
			writeDBError(w, err, "expense_update", false)
			return
		}
		tagRows = tag.RowsAffected()
	}

	if tagRows == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Expense not found")
		return
	}

	response.Message(w, "Expense updated successfully")
}

func (h *Handler) ExpensesDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid expense id")
		return
	}

	tag, err := h.DB.Exec(ctx, `delete from expenses where id = $1`, id)
	if err != nil {
		writeDBError(w, err, "expense_delete", true)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Expense not found")
		return
	}

	response.Message(w, "Expense deleted successfully")
}

func validateExpenseItem(body *expenseItemRequest) string {
	if strings.TrimSpace(body.Name) == "" {
		return "Expense item name is required"
	}
	if !expense.ValidCurrency(body.Currency) {
		return "Currency must be USD or KHR"
	}
	if body.Quantity < 1 {
		return "Quantity must be at least 1"
	}
	if body.UnitPrice < 0 {
		return "Unit price cannot be negative"
	}
	return ""
}

func (h *Handler) ExpenseItemsAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	expenseID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid expense id")
		return
	}

	var body expenseItemRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if msg := validateExpenseItem(&body); msg != "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		writeDBError(w, err, "expense_item_add", false)
		return
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		insert into expense_items (expense_id, name, currency, quantity, unit_price)
		values ($1, $2, $3, $4, $5)
	`, expenseID, strings.TrimSpace(body.Name), body.Currency, body.Quantity, body.UnitPrice); err != nil {
		writeDBError(w, err, "expense_item_add", false)
		return
	}

	if _, err := expense.Recalculate(ctx, tx, expenseID); err != nil {
		writeDBError(w, err, "expense_item_add", false)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		writeDBError(w, err, "expense_item_add", false)
		return
	}

	detail, err := h.fetchExpenseDetail(ctx, expenseID)
	if err != nil {
		writeDBError(w, err, "expense_item_add", false)
		return
	}
	response.Success(w, detail)
}

func (h *Handler) ExpenseItemsUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	expenseID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid expense id")
		return
	}
	itemID, err := readPathInt64(r, "itemId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid expense item id")
		return
	}

	var body expenseItemRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if msg := validateExpenseItem(&body); msg != "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		writeDBError(w, err, "expense_item_update", false)
		return
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		update expense_items
		set name = $1, currency = $2, quantity = $3, unit_price = $4, updated_at = now()
		where id = $5 and expense_id = $6
	`, strings.TrimSpace(body.Name), body.Currency, body.Quantity, body.UnitPrice, itemID, expenseID)
	if err != nil {
		writeDBError(w, err, "expense_item_update", false)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Expense item not found")
		return
	}

	if _, err := expense.Recalculate(ctx, tx, expenseID); err != nil {
		writeDBError(w, err, "expense_item_update", false)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		writeDBError(w, err, "expense_item_update", false)
		return
	}

	detail, err := h.fetchExpenseDetail(ctx, expenseID)
	if err != nil {
		writeDBError(w, err, "expense_item_update", false)
		return
	}
	response.Success(w, detail)
}

func (h *Handler) ExpenseItemsDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	expenseID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid expense id")
		return
	}
	itemID, err := readPathInt64(r, "itemId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid expense item id")
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		writeDBError(w, err, "expense_item_delete", false)
		return
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `delete from expense_items where id = $1 and expense_id = $2`, itemID, expenseID)
	if err != nil {
		writeDBError(w, err, "expense_item_delete", true)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Expense item not found")
		return
	}

	if _, err := expense.Recalculate(ctx, tx, expenseID); err != nil {
		writeDBError(w, err, "expense_item_delete", false)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		writeDBError(w, err, "expense_item_delete", false)
		return
	}

	detail, err := h.fetchExpenseDetail(ctx, expenseID)
	if err != nil {
		writeDBError(w, err, "expense_item_delete", false)
		return
	}
	response.Success(w, detail)
}
