package utils

import "testing"

func TestFormatRupees(t *testing.T) {
	cases := map[int64]string{
		0:       "Rs 0",
		895:     "Rs 895",
		1790:    "Rs 1,790",
		1250000: "Rs 1,250,000",
		-500:    "-Rs 500",
	}
	for in, want := range cases {
		if got := FormatRupees(in); got != want {
			t.Fatalf("FormatRupees(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestJoinSeats(t *testing.T) {
	if s := JoinSeats([]int{6, 5}); s != "5,6" {
		t.Fatalf("JoinSeats = %q, want \"5,6\"", s)
	}
	if s := JoinSeats(nil); s != "" {
		t.Fatalf("JoinSeats(nil) = %q, want empty", s)
	}
}
