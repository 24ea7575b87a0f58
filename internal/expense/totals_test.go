package expense

import "testing"

func TestComputeAmounts(t *testing.T) {
	cases := []struct {
		name     string
		items    []Item
		expected Amounts
	}{
		{
			name: "mixed currencies",
			items: []Item{
				{Currency: CurrencyUSD, Quantity: 2, UnitPrice: 5},
				{Currency: CurrencyKHR, Quantity: 1, UnitPrice: 4000},
			},
			expected: Amounts{AmountUSD: 10, AmountKHR: 4000, Amount: 44000},
		},
		{
			name: "usd only",
			items: []Item{
				{Currency: CurrencyUSD, Quantity: 3, UnitPrice: 1.5},
			},
			expected: Amounts{AmountUSD: 4.5, AmountKHR: 0, Amount: 18000},
		},
		{
			name: "khr only",
			items: []Item{
				{Currency: CurrencyKHR, Quantity: 4, UnitPrice: 2500},
			},
			expected: Amounts{AmountUSD: 0, AmountKHR: 10000, Amount: 10000},
		},
		{
			name:     "no items",
			expected: Amounts{},
		},
		{
			name: "unknown currency ignored",
			items: []Item{
				{Currency: "EUR", Quantity: 1, UnitPrice: 100},
				{Currency: CurrencyKHR, Quantity: 1, UnitPrice: 500},
			},
			expected: Amounts{AmountUSD: 0, AmountKHR: 500, Amount: 500},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeAmounts(tc.items); got != tc.expected {
				t.Fatalf("expected %+v, got %+v", tc.expected, got)
			}
		})
	}
}
