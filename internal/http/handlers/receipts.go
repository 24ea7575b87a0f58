package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"restro-pos-service/pkg/response"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phpdave11/gofpdf"
)

type shopReceiptInfo struct {
	Name    string
	Address string
	Phone   string
}

func (h *Handler) fetchShopReceiptInfo(ctx context.Context) shopReceiptInfo {
	info := shopReceiptInfo{Name: "Restaurant"}
	var (
		name    string
		address pgtype.Text
		phone   pgtype.Text
	)
	err := h.DB.QueryRow(ctx, `
		select name, address, phone from shop_info order by id limit 1
	`).Scan(&name, &address, &phone)
	if err != nil {
		return info
	}
	info.Name = name
	if v := textPtr(address); v != nil {
		info.Address = *v
	}
	if v := textPtr(phone); v != nil {
		info.Phone = *v
	}
	return info
}

func sanitizeFilename(value string) string {
	re := regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	clean := re.ReplaceAllString(value, "_")
	return strings.Trim(clean, "_")
}

func writePDF(w http.ResponseWriter, pdf *gofpdf.Fpdf, filename string) {
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate receipt")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Bytes())
}

func receiptHeader(pdf *gofpdf.Fpdf, shop shopReceiptInfo) {
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, shop.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if shop.Address != "" {
		pdf.CellFormat(0, 5, shop.Address, "", 1, "C", false, 0, "")
	}
	if shop.Phone != "" {
		pdf.CellFormat(0, 5, shop.Phone, "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
}

// OrderReceipt renders an order as a printable PDF ticket: shop header,
// line items with quantities and prices, then subtotal, discount and total.
func (h *Handler) OrderReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}

	var (
		orderNumber    string
		customerName   pgtype.Text
		tableNumber    pgtype.Text
		discountType   pgtype.Text
		discountValue  float64
		subtotal       float64
		discountAmount float64
		total          float64
		createdAt      time.Time
	)
	err = h.DB.QueryRow(ctx, `
		select o.order_number, o.customer_name, t.number,
		       o.discount_type, coalesce(o.discount_value, 0),
		       o.subtotal, o.discount_amount, o.total, o.created_at
		from orders o
		left join tables t on t.id = o.table_id
		where o.id = $1
	`, orderID).Scan(&orderNumber, &customerName, &tableNumber,
		&discountType, &discountValue, &subtotal, &discountAmount, &total, &createdAt)
	if err != nil {
		writeDBError(w, err, "order_receipt", false)
		return
	}

	rows, err := h.DB.Query(ctx, `
		select mi.name, oi.quantity, oi.unit_price, oi.total_price
		from order_items oi
		join menu_items mi on mi.id = oi.menu_item_id
		where oi.order_id = $1 and oi.status <> 'cancelled'
		order by oi.id
	`, orderID)
	if err != nil {
		writeDBError(w, err, "order_receipt", false)
		return
	}
	defer rows.Close()

	type line struct {
		name      string
		quantity  int32
		unitPrice float64
		total     float64
	}
	lines := make([]line, 0)
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.name, &l.quantity, &l.unitPrice, &l.total); err != nil {
			writeDBError(w, err, "order_receipt", false)
			return
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		writeDBError(w, err, "order_receipt", false)
		return
	}

	shop := h.fetchShopReceiptInfo(ctx)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	receiptHeader(pdf, shop)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Order %s", orderNumber), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if v := textPtr(tableNumber); v != nil {
		pdf.CellFormat(0, 5, fmt.Sprintf("Table %s", *v), "", 1, "C", false, 0, "")
	}
	if v := textPtr(customerName); v != nil {
		pdf.CellFormat(0, 5, fmt.Sprintf("Customer: %s", *v), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 5, createdAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Items", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, l := range lines {
		pdf.CellFormat(120, 5, fmt.Sprintf("%dx %s", l.quantity, l.name), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("%.2f", l.total), "", 1, "R", false, 0, "")
		pdf.CellFormat(0, 4, fmt.Sprintf("  @ %.2f", l.unitPrice), "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Totals", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(120, 5, "Subtotal", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("%.2f", subtotal), "", 1, "R", false, 0, "")
	if dt := textPtr(discountType); dt != nil {
		label := "Discount"
		if *dt == "percentage" {
			label = fmt.Sprintf("Discount (%.0f%%)", discountValue)
		}
		pdf.CellFormat(120, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("-%.2f", discountAmount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 6, "Total", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%.2f", total), "", 1, "R", false, 0, "")

	writePDF(w, pdf, fmt.Sprintf("receipt_%s.pdf", sanitizeFilename(orderNumber)))
}

// ExpenseReceipt renders an expense with its items and both currency
// aggregates as a PDF.
func (h *Handler) ExpenseReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	expenseID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid expense id")
		return
	}

	var (
		name        string
		expenseDate time.Time
		amountUSD   float64
		amountKHR   float64
		amount      float64
	)
	err = h.DB.QueryRow(ctx, `
		select name, expense_date, amount_usd, amount_khr, amount from expenses where id = $1
	`, expenseID).Scan(&name, &expenseDate, &amountUSD, &amountKHR, &amount)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Expense not found")
			return
		}
		writeDBError(w, err, "expense_receipt", false)
		return
	}

	rows, err := h.DB.Query(ctx, `
		select name, currency, quantity, unit_price from expense_items
		where expense_id = $1
		order by id
	`, expenseID)
	if err != nil {
		writeDBError(w, err, "expense_receipt", false)
		return
	}
	defer rows.Close()

	type line struct {
		name      string
		currency  string
		quantity  int32
		unitPrice float64
	}
	lines := make([]line, 0)
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.name, &l.currency, &l.quantity, &l.unitPrice); err != nil {
			writeDBError(w, err, "expense_receipt", false)
			return
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		writeDBError(w, err, "expense_receipt", false)
		return
	}

	shop := h.fetchShopReceiptInfo(ctx)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	receiptHeader(pdf, shop)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Expense: %s", name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, expenseDate.Format("2006-01-02"), "", 1, "C", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Items", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, l := range lines {
		pdf.CellFormat(120, 5, fmt.Sprintf("%dx %s", l.quantity, l.name), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("%s %.2f", l.currency, float64(l.quantity)*l.unitPrice), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Totals", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(120, 5, "USD", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("%.2f", amountUSD), "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 5, "KHR", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("%.0f", amountKHR), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 6, "Total (KHR)", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%.0f", amount), "", 1, "R", false, 0, "")

	writePDF(w, pdf, fmt.Sprintf("expense_%d_%s.pdf", expenseID, expenseDate.Format("20060102")))
}
