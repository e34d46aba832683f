package models

// SeatLayout is the fixed coach layout: ten 2+2 rows with an aisle (0) and a
// rear bench of five. Seats are numbered 1..45 row-major.
var SeatLayout = [][]int{
	{1, 2, 0, 3, 4},
	{5, 6, 0, 7, 8},
	{9, 10, 0, 11, 12},
	{13, 14, 0, 15, 16},
	{17, 18, 0, 19, 20},
	{21, 22, 0, 23, 24},
	{25, 26, 0, 27, 28},
	{29, 30, 0, 31, 32},
	{33, 34, 0, 35, 36},
	{37, 38, 0, 39, 40},
	{41, 42, 43, 44, 45},
}

// TotalSeats is the number of bookable seats in the layout.
const TotalSeats = 45

// SeatExists reports whether n is a real seat in the layout.
func SeatExists(n int) bool {
	return n >= 1 && n <= TotalSeats
}

// ValidateSeats checks every requested seat against the layout and rejects
// duplicates. Returns the first offending seat number, or 0.
func ValidateSeats(seats []int) (bad int, dup int) {
	seen := make(map[int]bool, len(seats))
	for _, n := range seats {
		if !SeatExists(n) {
			return n, 0
		}
		if seen[n] {
			return 0, n
		}
		seen[n] = true
	}
	return 0, 0
}
