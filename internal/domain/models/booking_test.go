package models

import "testing"

func TestTotalFare(t *testing.T) {
	if got := TotalFare(2, 895); got != 1790 {
		t.Fatalf("2 seats at 895 should cost 1790, got %d", got)
	}
	if got := TotalFare(0, 895); got != 0 {
		t.Fatalf("empty selection should cost 0, got %d", got)
	}
	if got := TotalFare(3, 0); got != 3*DefaultFarePerSeat {
		t.Fatalf("fallback fare not applied, got %d", got)
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusRejected, true},
		{StatusConfirmed, StatusPaid, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusPaid, StatusCancelled, false},
		{StatusPaid, StatusPending, false},
		{StatusCancelled, StatusPaid, false},
		{StatusRejected, StatusConfirmed, false},
		{StatusPending, StatusPending, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.ok {
			t.Fatalf("%s -> %s: got %v want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestStatusFlags(t *testing.T) {
	if !StatusCancelled.Terminal() || !StatusRejected.Terminal() {
		t.Fatalf("cancelled/rejected must be terminal")
	}
	if StatusPaid.Terminal() {
		t.Fatalf("paid is final but not terminal for seat ownership")
	}
	if !StatusPaid.Live() {
		t.Fatalf("paid bookings still hold their seats")
	}
	if StatusPaid.Editable() {
		t.Fatalf("paid bookings must not be editable")
	}
	if !StatusPending.Editable() || !StatusConfirmed.Editable() {
		t.Fatalf("pending/confirmed should be editable")
	}
}

func TestValidateSeats(t *testing.T) {
	if bad, dup := ValidateSeats([]int{5, 6}); bad != 0 || dup != 0 {
		t.Fatalf("valid seats rejected: bad=%d dup=%d", bad, dup)
	}
	if bad, _ := ValidateSeats([]int{5, 46}); bad != 46 {
		t.Fatalf("seat outside layout not flagged, got %d", bad)
	}
	if bad, _ := ValidateSeats([]int{0}); bad != 0 {
		t.Fatalf("seat 0 is the aisle marker, must be flagged")
	}
	if _, dup := ValidateSeats([]int{5, 5}); dup != 5 {
		t.Fatalf("duplicate seat not flagged, got %d", dup)
	}
}

func TestSeatLayoutCoversAllSeats(t *testing.T) {
	seen := map[int]bool{}
	for _, row := range SeatLayout {
		for _, n := range row {
			if n == 0 {
				continue
			}
			if seen[n] {
				t.Fatalf("seat %d appears twice in layout", n)
			}
			seen[n] = true
		}
	}
	if len(seen) != TotalSeats {
		t.Fatalf("layout has %d seats, want %d", len(seen), TotalSeats)
	}
	for n := 1; n <= TotalSeats; n++ {
		if !seen[n] {
			t.Fatalf("seat %d missing from layout", n)
		}
	}
}
