package order

import (
	"testing"
	"time"
)

func TestDayPrefix(t *testing.T) {
	day := time.Date(2024, time.November, 15, 10, 30, 0, 0, time.UTC)
	if got := DayPrefix(day); got != "15112024" {
		t.Fatalf("expected 15112024, got %s", got)
	}
}

func TestNextNumber(t *testing.T) {
	day := time.Date(2024, time.November, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		last     string
		expected string
	}{
		{name: "first of the day", last: "", expected: "151120240001"},
		{name: "increments suffix", last: "151120240006", expected: "151120240007"},
		{name: "previous day resets", last: "141120240231", expected: "151120240001"},
		{name: "malformed suffix resets", last: "15112024abcd", expected: "151120240001"},
		{name: "rolls past padding width", last: "151120240999", expected: "151120241000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextNumber(tc.last, day); got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestNextNumberStrictlyIncreasesWithinDay(t *testing.T) {
	day := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	last := ""
	for i := 0; i < 50; i++ {
		next := NextNumber(last, day)
		if last != "" && next <= last {
			t.Fatalf("expected %s > %s", next, last)
		}
		last = next
	}
	if last != "020120250050" {
		t.Fatalf("expected 020120250050 after 50 orders, got %s", last)
	}
}
