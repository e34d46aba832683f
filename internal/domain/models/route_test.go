package models

import "testing"

func testRoute(dir Direction) Route {
	return Route{
		ID:        1,
		Direction: dir,
		Stops:     []string{"Colombo", "Kadawatha", "Warakapola", "Kegalle", "Mawanella", "Kandy"},
	}
}

func TestDropoffOptionsOutbound(t *testing.T) {
	r := testRoute(DirectionOutbound)
	opts := r.DropoffOptions("Warakapola")
	want := []string{"Kegalle", "Mawanella", "Kandy"}
	if len(opts) != len(want) {
		t.Fatalf("got %v want %v", opts, want)
	}
	bi := r.StopIndex("Warakapola")
	for _, o := range opts {
		if r.StopIndex(o) <= bi {
			t.Fatalf("dropoff %q not strictly after boarding", o)
		}
	}
}

func TestDropoffOptionsInbound(t *testing.T) {
	r := testRoute(DirectionInbound)
	opts := r.DropoffOptions("Warakapola")
	want := []string{"Colombo", "Kadawatha"}
	if len(opts) != len(want) {
		t.Fatalf("got %v want %v", opts, want)
	}
	bi := r.StopIndex("Warakapola")
	for _, o := range opts {
		if r.StopIndex(o) >= bi {
			t.Fatalf("dropoff %q not strictly before boarding", o)
		}
	}
}

func TestDropoffOptionsUnknownBoarding(t *testing.T) {
	r := testRoute(DirectionOutbound)
	if opts := r.DropoffOptions("Galle"); opts != nil {
		t.Fatalf("unknown boarding stop should yield nil, got %v", opts)
	}
}

func TestValidBoardingDropoff(t *testing.T) {
	out := testRoute(DirectionOutbound)
	if !out.ValidBoardingDropoff("Colombo", "Kandy") {
		t.Fatalf("forward pair rejected on outbound route")
	}
	if out.ValidBoardingDropoff("Kandy", "Colombo") {
		t.Fatalf("backward pair accepted on outbound route")
	}
	if out.ValidBoardingDropoff("Kegalle", "Kegalle") {
		t.Fatalf("same-stop pair must be rejected")
	}

	in := testRoute(DirectionInbound)
	if !in.ValidBoardingDropoff("Kandy", "Colombo") {
		t.Fatalf("backward pair rejected on inbound route")
	}
	if in.ValidBoardingDropoff("Colombo", "Kandy") {
		t.Fatalf("forward pair accepted on inbound route")
	}

	noStops := Route{ID: 2}
	if !noStops.ValidBoardingDropoff("Anywhere", "Elsewhere") {
		t.Fatalf("routes without stop lists accept any pair")
	}
}

func TestParseDirection(t *testing.T) {
	if d, ok := ParseDirection(" Outbound "); !ok || d != DirectionOutbound {
		t.Fatalf("got %q ok=%v", d, ok)
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Fatalf("bogus direction accepted")
	}
}
