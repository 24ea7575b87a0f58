package order

import "context"

type PriceRow struct {
	TableTypeID int64
	Price       float64
}

// ResolveUnitPrice picks the price row matching the order's table type. With
// no table on the order the first row wins; callers load rows ordered by id
// so the fallback is deterministic. A missing or non-positive price reports
// ok=false and the caller must refuse to create the line item.
func ResolveUnitPrice(prices []PriceRow, tableTypeID *int64) (float64, bool) {
	if tableTypeID != nil {
		for _, row := range prices {
			if row.TableTypeID == *tableTypeID {
				return row.Price, row.Price > 0
			}
		}
		return 0, false
	}

	if len(prices) == 0 {
		return 0, false
	}
	return prices[0].Price, prices[0].Price > 0
}

// LineMerge is the resolved quantity and total after folding an added
// quantity into an existing order line.
type LineMerge struct {
	Quantity   int32
	UnitPrice  float64
	TotalPrice float64
}

// MergeQuantity adds quantity to an existing line. The unit price is the
// snapshot taken when the line was first created; re-adding the same menu
// item never re-resolves it against the current price rows.
func MergeQuantity(existingQty, addedQty int32, unitPrice float64) LineMerge {
	qty := existingQty + addedQty
	return LineMerge{
		Quantity:   qty,
		UnitPrice:  unitPrice,
		TotalPrice: float64(qty) * unitPrice,
	}
}

// LoadMenuItemPrices returns a menu item's price rows ordered by id.
func LoadMenuItemPrices(ctx context.Context, q Querier, menuItemID int64) ([]PriceRow, error) {
	rows, err := q.Query(ctx, `
		select table_type_id, price from menu_item_prices
		where menu_item_id = $1
		order by id
	`, menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make([]PriceRow, 0)
	for rows.Next() {
		var row PriceRow
		if err := rows.Scan(&row.TableTypeID, &row.Price); err != nil {
			return nil, err
		}
		prices = append(prices, row)
	}
	return prices, rows.Err()
}
