package order

import "context"

type Totals struct {
	Subtotal       float64
	DiscountAmount float64
	Total          float64
}

// ComputeTotals derives an order's money fields from its line item totals
// and discount settings. A discount larger than the subtotal is not clamped;
// the total goes negative, matching the documented behavior of the system
// this replaces.
func ComputeTotals(itemTotals []float64, discountType *string, discountValue float64) Totals {
	var subtotal float64
	for _, t := range itemTotals {
		subtotal += t
	}

	var discountAmount float64
	if discountType != nil {
		switch *discountType {
		case DiscountPercentage:
			discountAmount = subtotal * discountValue / 100
		case DiscountAmount:
			discountAmount = discountValue
		}
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          subtotal - discountAmount,
	}
}

// RecalculateTotals re-reads every line item and rewrites the order's
// derived columns. It never trusts the previously stored subtotal, so it
// converges regardless of what state the order row was left in.
func RecalculateTotals(ctx context.Context, q Querier, orderID int64) (Totals, error) {
	rows, err := q.Query(ctx, `select total_price from order_items where order_id = $1`, orderID)
	if err != nil {
		return Totals{}, err
	}
	defer rows.Close()

	itemTotals := make([]float64, 0)
	for rows.Next() {
		var t float64
		if err := rows.Scan(&t); err != nil {
			return Totals{}, err
		}
		itemTotals = append(itemTotals, t)
	}
	if err := rows.Err(); err != nil {
		return Totals{}, err
	}

	var discountType *string
	var discountValue float64
	if err := q.QueryRow(ctx, `select discount_type, coalesce(discount_value, 0) from orders where id = $1`, orderID).
		Scan(&discountType, &discountValue); err != nil {
		return Totals{}, err
	}

	totals := ComputeTotals(itemTotals, discountType, discountValue)
	_, err = q.Exec(ctx, `
		update orders
		set subtotal = $1, discount_amount = $2, total = $3, updated_at = now()
		where id = $4
	`, totals.Subtotal, totals.DiscountAmount, totals.Total, orderID)
	return totals, err
}
