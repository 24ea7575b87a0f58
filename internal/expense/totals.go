package expense

import (
	"context"

	"restro-pos-service/internal/order"
)

// Fixed exchange rate used for the KHR grand total.
const KHRPerUSD = 4000

const (
	CurrencyUSD = "USD"
	CurrencyKHR = "KHR"
)

func ValidCurrency(value string) bool {
	return value == CurrencyUSD || value == CurrencyKHR
}

type Item struct {
	Currency  string
	Quantity  int32
	UnitPrice float64
}

type Amounts struct {
	AmountUSD float64
	AmountKHR float64
	Amount    float64
}

// ComputeAmounts sums an expense's items per currency. Amount is the grand
// total expressed in KHR: the KHR items plus the USD items converted at the
// fixed rate.
func ComputeAmounts(items []Item) Amounts {
	var amounts Amounts
	for _, item := range items {
		total := float64(item.Quantity) * item.UnitPrice
		switch item.Currency {
		case CurrencyUSD:
			amounts.AmountUSD += total
		case CurrencyKHR:
			amounts.AmountKHR += total
		}
	}
	amounts.Amount = amounts.AmountKHR + amounts.AmountUSD*KHRPerUSD
	return amounts
}

// Recalculate re-reads every item and rewrites the expense's derived
// columns, in the same transaction as the item mutation that triggered it.
func Recalculate(ctx context.Context, q order.Querier, expenseID int64) (Amounts, error) {
	rows, err := q.Query(ctx, `
		select currency, quantity, unit_price from expense_items
		where expense_id = $1
	`, expenseID)
	if err != nil {
		return Amounts{}, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.Currency, &item.Quantity, &item.UnitPrice); err != nil {
			return Amounts{}, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return Amounts{}, err
	}

	amounts := ComputeAmounts(items)
	_, err = q.Exec(ctx, `
		update expenses
		set amount_usd = $1, amount_khr = $2, amount = $3, updated_at = now()
		where id = $4
	`, amounts.AmountUSD, amounts.AmountKHR, amounts.Amount, expenseID)
	return amounts, err
}
