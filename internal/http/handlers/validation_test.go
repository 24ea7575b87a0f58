package handlers

import "testing"

func TestValidateMenuItemRequest(t *testing.T) {
	cases := []struct {
		name    string
		body    menuItemRequest
		wantMsg bool
	}{
		{
			name: "valid with two price tiers",
			body: menuItemRequest{
				Name:       "Beef Lok Lak",
				CategoryID: 1,
				Prices: []menuItemPriceInput{
					{TableTypeID: 1, Price: 5.5},
					{TableTypeID: 2, Price: 7},
				},
			},
		},
		{
			name:    "missing name",
			body:    menuItemRequest{CategoryID: 1},
			wantMsg: true,
		},
		{
			name:    "missing category",
			body:    menuItemRequest{Name: "Iced Coffee"},
			wantMsg: true,
		},
		{
			name: "duplicate table type",
			body: menuItemRequest{
				Name:       "Fried Rice",
				CategoryID: 2,
				Prices: []menuItemPriceInput{
					{TableTypeID: 1, Price: 3},
					{TableTypeID: 1, Price: 4},
				},
			},
			wantMsg: true,
		},
		{
			name: "negative price",
			body: menuItemRequest{
				Name:       "Spring Rolls",
				CategoryID: 2,
				Prices:     []menuItemPriceInput{{TableTypeID: 1, Price: -1}},
			},
			wantMsg: true,
		},
		{
			name: "price without table type",
			body: menuItemRequest{
				Name:       "Noodle Soup",
				CategoryID: 3,
				Prices:     []menuItemPriceInput{{Price: 2.5}},
			},
			wantMsg: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := validateMenuItemRequest(&tc.body)
			if tc.wantMsg && msg == "" {
				t.Fatalf("expected validation message, got none")
			}
			if !tc.wantMsg && msg != "" {
				t.Fatalf("expected no validation message, got %q", msg)
			}
		})
	}
}

func TestValidateExpenseItem(t *testing.T) {
	cases := []struct {
		name    string
		body    expenseItemRequest
		wantMsg bool
	}{
		{
			name: "valid usd item",
			body: expenseItemRequest{Name: "Rice sack", Currency: "USD", Quantity: 2, UnitPrice: 15},
		},
		{
			name: "valid khr item",
			body: expenseItemRequest{Name: "Vegetables", Currency: "KHR", Quantity: 1, UnitPrice: 4000},
		},
		{
			name:    "missing name",
			body:    expenseItemRequest{Currency: "USD", Quantity: 1, UnitPrice: 1},
			wantMsg: true,
		},
		{
			name:    "unknown currency",
			body:    expenseItemRequest{Name: "Gas", Currency: "EUR", Quantity: 1, UnitPrice: 1},
			wantMsg: true,
		},
		{
			name:    "zero quantity",
			body:    expenseItemRequest{Name: "Charcoal", Currency: "KHR", Quantity: 0, UnitPrice: 500},
			wantMsg: true,
		},
		{
			name:    "negative unit price",
			body:    expenseItemRequest{Name: "Ice", Currency: "USD", Quantity: 1, UnitPrice: -2},
			wantMsg: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := validateExpenseItem(&tc.body)
			if tc.wantMsg && msg == "" {
				t.Fatalf("expected validation message, got none")
			}
			if !tc.wantMsg && msg != "" {
				t.Fatalf("expected no validation message, got %q", msg)
			}
		})
	}
}
