package order

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{StatusNew, StatusOnProcess, true},
		{StatusNew, StatusDone, true},
		{StatusOnProcess, StatusDone, true},
		{StatusOnProcess, StatusNew, false},
		{StatusDone, StatusOnProcess, false},
		{StatusDone, StatusDone, false},
		{StatusNew, "bogus", false},
		{"bogus", StatusDone, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%s, %s) = %v, expected %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestCanTransitionItem(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{ItemStatusPending, ItemStatusPreparing, true},
		{ItemStatusPreparing, ItemStatusReady, true},
		{ItemStatusReady, ItemStatusServed, true},
		{ItemStatusPending, ItemStatusReady, true},
		{ItemStatusPending, ItemStatusCancelled, true},
		{ItemStatusPreparing, ItemStatusCancelled, true},
		{ItemStatusReady, ItemStatusCancelled, false},
		{ItemStatusServed, ItemStatusCancelled, false},
		{ItemStatusReady, ItemStatusPreparing, false},
		{ItemStatusServed, ItemStatusServed, false},
		{ItemStatusCancelled, ItemStatusPending, false},
		{ItemStatusPending, "bogus", false},
	}

	for _, tc := range cases {
		if got := CanTransitionItem(tc.from, tc.to); got != tc.allowed {
			t.Errorf("CanTransitionItem(%s, %s) = %v, expected %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestDeliveryEligible(t *testing.T) {
	cases := []struct {
		isCook   bool
		status   string
		eligible bool
	}{
		{false, ItemStatusPending, true},
		{false, ItemStatusPreparing, true},
		{false, ItemStatusReady, true},
		{false, ItemStatusServed, false},
		{false, ItemStatusCancelled, false},
		{true, ItemStatusPending, false},
		{true, ItemStatusPreparing, false},
		{true, ItemStatusReady, true},
		{true, ItemStatusServed, false},
	}

	for _, tc := range cases {
		if got := DeliveryEligible(tc.isCook, tc.status); got != tc.eligible {
			t.Errorf("DeliveryEligible(%v, %s) = %v, expected %v", tc.isCook, tc.status, got, tc.eligible)
		}
	}
}

func TestReleasesTable(t *testing.T) {
	cases := []struct {
		status   string
		releases bool
	}{
		{StatusNew, false},
		{StatusOnProcess, false},
		{StatusDone, true},
		{"bogus", false},
	}

	for _, tc := range cases {
		if got := ReleasesTable(tc.status); got != tc.releases {
			t.Errorf("ReleasesTable(%s) = %v, expected %v", tc.status, got, tc.releases)
		}
	}

	// Every path that can reach done releases the table; nothing else does.
	for _, from := range []string{StatusNew, StatusOnProcess} {
		if !CanTransition(from, StatusDone) || !ReleasesTable(StatusDone) {
			t.Errorf("expected closing from %s to release the table", from)
		}
		if ReleasesTable(from) {
			t.Errorf("expected %s not to release the table", from)
		}
	}
}

func TestValidItemStatus(t *testing.T) {
	for _, status := range []string{ItemStatusPending, ItemStatusPreparing, ItemStatusReady, ItemStatusServed, ItemStatusCancelled} {
		if !ValidItemStatus(status) {
			t.Errorf("expected %s to be a valid item status", status)
		}
	}
	if ValidItemStatus("cooking") {
		t.Errorf("expected cooking to be rejected")
	}
}
