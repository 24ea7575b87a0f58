package order

import "testing"

func int64Ptr(v int64) *int64 { return &v }

func TestResolveUnitPrice(t *testing.T) {
	prices := []PriceRow{
		{TableTypeID: 1, Price: 1000},
		{TableTypeID: 2, Price: 1500},
	}

	cases := []struct {
		name        string
		prices      []PriceRow
		tableTypeID *int64
		expected    float64
		ok          bool
	}{
		{name: "matching table type", prices: prices, tableTypeID: int64Ptr(2), expected: 1500, ok: true},
		{name: "no row for table type", prices: prices, tableTypeID: int64Ptr(9), expected: 0, ok: false},
		{name: "no table falls back to first row", prices: prices, expected: 1000, ok: true},
		{name: "no table and no prices", prices: nil, expected: 0, ok: false},
		{name: "zero price rejected", prices: []PriceRow{{TableTypeID: 1, Price: 0}}, tableTypeID: int64Ptr(1), expected: 0, ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ResolveUnitPrice(tc.prices, tc.tableTypeID)
			if got != tc.expected || ok != tc.ok {
				t.Fatalf("expected (%v, %v), got (%v, %v)", tc.expected, tc.ok, got, ok)
			}
		})
	}
}

func TestMergeQuantity(t *testing.T) {
	cases := []struct {
		name        string
		existingQty int32
		addedQty    int32
		unitPrice   float64
		wantQty     int32
		wantTotal   float64
	}{
		{name: "re-add increments quantity", existingQty: 2, addedQty: 3, unitPrice: 1000, wantQty: 5, wantTotal: 5000},
		{name: "single increment", existingQty: 1, addedQty: 1, unitPrice: 2.5, wantQty: 2, wantTotal: 5},
		{name: "new line from zero", existingQty: 0, addedQty: 3, unitPrice: 500, wantQty: 3, wantTotal: 1500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MergeQuantity(tc.existingQty, tc.addedQty, tc.unitPrice)
			if got.Quantity != tc.wantQty {
				t.Fatalf("expected quantity %d, got %d", tc.wantQty, got.Quantity)
			}
			// The snapshot price passed in is the one kept; merging must
			// never substitute a different price.
			if got.UnitPrice != tc.unitPrice {
				t.Fatalf("expected unit price %v to be kept, got %v", tc.unitPrice, got.UnitPrice)
			}
			if got.TotalPrice != tc.wantTotal {
				t.Fatalf("expected total %v, got %v", tc.wantTotal, got.TotalPrice)
			}
			if got.TotalPrice != float64(got.Quantity)*got.UnitPrice {
				t.Fatalf("total %v is not quantity x unit price", got.TotalPrice)
			}
		})
	}
}
