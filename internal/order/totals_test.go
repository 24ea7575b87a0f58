package order

import "testing"

func strPtr(s string) *string { return &s }

func TestComputeTotals(t *testing.T) {
	cases := []struct {
		name          string
		itemTotals    []float64
		discountType  *string
		discountValue float64
		expected      Totals
	}{
		{
			name:          "percentage discount",
			itemTotals:    []float64{2000, 500},
			discountType:  strPtr(DiscountPercentage),
			discountValue: 10,
			expected:      Totals{Subtotal: 2500, DiscountAmount: 250, Total: 2250},
		},
		{
			name:          "flat amount discount",
			itemTotals:    []float64{1500, 500},
			discountType:  strPtr(DiscountAmount),
			discountValue: 300,
			expected:      Totals{Subtotal: 2000, DiscountAmount: 300, Total: 1700},
		},
		{
			name:       "no discount",
			itemTotals: []float64{1200},
			expected:   Totals{Subtotal: 1200, DiscountAmount: 0, Total: 1200},
		},
		{
			name:          "unknown discount type treated as none",
			itemTotals:    []float64{1000},
			discountType:  strPtr("bogus"),
			discountValue: 50,
			expected:      Totals{Subtotal: 1000, DiscountAmount: 0, Total: 1000},
		},
		{
			name:          "discount exceeding subtotal goes negative",
			itemTotals:    []float64{100},
			discountType:  strPtr(DiscountAmount),
			discountValue: 150,
			expected:      Totals{Subtotal: 100, DiscountAmount: 150, Total: -50},
		},
		{
			name:     "empty order",
			expected: Totals{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeTotals(tc.itemTotals, tc.discountType, tc.discountValue)
			if got != tc.expected {
				t.Fatalf("expected %+v, got %+v", tc.expected, got)
			}
		})
	}
}
