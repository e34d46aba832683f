package services

import (
	"context"
	"errors"
	"testing"

	"mahindaexpress/internal/domain"
	"mahindaexpress/internal/domain/models"
	"mahindaexpress/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newBookingService(t *testing.T) (BookingService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := BookingService{
		BookingRepo: repositories.BookingRepo{DB: db},
		SeatRepo:    repositories.BookingSeatRepo{DB: db},
		RouteRepo:   repositories.RouteRepo{DB: db},
		DB:          db,
	}
	return svc, mock, func() { db.Close() }
}

func expectRouteLookup(mock sqlmock.Sqlmock, fare int64) {
	mock.ExpectQuery("SELECT id, route_number").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "route_number", "start_location", "end_location",
			"distance_km", "estimated_minutes", "fare", "direction",
		}).AddRow(7, "EX-01", "Colombo", "Kandy", 115.5, 180, fare, "outbound"))
	mock.ExpectQuery("SELECT stop_name FROM route_stops").
		WillReturnRows(sqlmock.NewRows([]string{"stop_name"}).
			AddRow("Colombo").AddRow("Warakapola").AddRow("Kegalle").AddRow("Kandy"))
}

func expectBookedSeats(mock sqlmock.Sqlmock, seats ...int) {
	rows := sqlmock.NewRows([]string{"seat_no"})
	for _, n := range seats {
		rows.AddRow(n)
	}
	mock.ExpectQuery("SELECT seat_no").WillReturnRows(rows)
}

func checkoutReq() CheckoutRequest {
	return CheckoutRequest{
		RouteID:        7,
		JourneyDate:    "2026-09-15",
		PassengerName:  "Nimal Perera",
		PassengerPhone: "0771234567",
		BoardingStop:   "Colombo",
		DropoffStop:    "Kandy",
		Seats:          []int{5, 6},
	}
}

func TestCheckoutTwoSeatsAt895(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	expectRouteLookup(mock, 895)
	expectBookedSeats(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO booking_seats").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO booking_seats").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	b, err := svc.Checkout(context.Background(), checkoutReq())
	if err != nil {
		t.Fatalf("checkout error: %v", err)
	}
	if b.ID != 42 {
		t.Fatalf("got id %d, want 42", b.ID)
	}
	if b.TotalFare != 1790 {
		t.Fatalf("2 seats at 895 should cost 1790, got %d", b.TotalFare)
	}
	if b.Status != models.StatusPending {
		t.Fatalf("new booking must be pending, got %s", b.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCheckoutFallbackFare(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	expectRouteLookup(mock, 0)
	expectBookedSeats(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectExec("INSERT INTO booking_seats").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO booking_seats").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	b, err := svc.Checkout(context.Background(), checkoutReq())
	if err != nil {
		t.Fatalf("checkout error: %v", err)
	}
	if b.FarePerSeat != models.DefaultFarePerSeat {
		t.Fatalf("fallback fare not applied, got %d", b.FarePerSeat)
	}
}

func TestCheckoutRejectsBookedSeat(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	expectRouteLookup(mock, 895)
	expectBookedSeats(mock, 6)

	_, err := svc.Checkout(context.Background(), checkoutReq())
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError for already-booked seat, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no booking insert should have happened: %v", err)
	}
}

func TestCheckoutRejectsBackwardDropoff(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	expectRouteLookup(mock, 895)

	req := checkoutReq()
	req.BoardingStop = "Kandy"
	req.DropoffStop = "Colombo"
	_, err := svc.Checkout(context.Background(), req)
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for backward dropoff, got %v", err)
	}
}

func TestCheckoutRejectsUnknownSeat(t *testing.T) {
	svc, _, done := newBookingService(t)
	defer done()

	req := checkoutReq()
	req.Seats = []int{5, 99}
	_, err := svc.Checkout(context.Background(), req)
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for seat outside layout, got %v", err)
	}
}

func TestCheckoutRejectsEmptySelection(t *testing.T) {
	svc, _, done := newBookingService(t)
	defer done()

	req := checkoutReq()
	req.Seats = nil
	_, err := svc.Checkout(context.Background(), req)
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for empty selection, got %v", err)
	}
}

func TestAvailabilityDegradesWhenHoldsDown(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()
	svc.Holds = HoldService{Redis: &fakeHoldStore{err: errors.New("dial tcp: connection refused")}}

	expectRouteLookup(mock, 895)
	expectBookedSeats(mock, 5)

	avail, err := svc.Availability(context.Background(), 7, "2026-09-15")
	if err != nil {
		t.Fatalf("availability should degrade without holds, got error: %v", err)
	}
	if len(avail.BookedSeats) != 1 || avail.BookedSeats[0] != 5 {
		t.Fatalf("booked seats = %v, want [5]", avail.BookedSeats)
	}
	if len(avail.HeldSeats) != 0 {
		t.Fatalf("held seats must be empty when holds are down, got %v", avail.HeldSeats)
	}
}

func TestCheckoutSucceedsWhenHoldsDown(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()
	svc.Holds = HoldService{Redis: &fakeHoldStore{err: errors.New("dial tcp: connection refused")}}

	expectRouteLookup(mock, 895)
	expectBookedSeats(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(44, 1))
	mock.ExpectExec("INSERT INTO booking_seats").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO booking_seats").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	b, err := svc.Checkout(context.Background(), checkoutReq())
	if err != nil {
		t.Fatalf("checkout must not depend on the hold layer, got %v", err)
	}
	if b.Status != models.StatusPending {
		t.Fatalf("got status %s, want pending", b.Status)
	}
}

func bookingRows(id int64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "route_id", "journey_date", "passenger_name", "passenger_phone",
		"passenger_email", "gender", "boarding_stop", "dropoff_stop",
		"fare_per_seat", "total_fare", "status", "created_at",
	}).AddRow(id, 7, "2026-09-15", "Nimal Perera", "0771234567",
		"", "", "Colombo", "Kandy", 895, 1790, status, "2026-09-01 10:00:00")
}

func TestTransitionPendingToPaid(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("SELECT id, route_id").WillReturnRows(bookingRows(42, "pending"))
	mock.ExpectQuery("SELECT seat_no").
		WillReturnRows(sqlmock.NewRows([]string{"seat_no"}).AddRow(5).AddRow(6))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("paid", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := svc.Transition(42, models.StatusPaid)
	if err != nil {
		t.Fatalf("transition error: %v", err)
	}
	if b.Status != models.StatusPaid {
		t.Fatalf("got status %s, want paid", b.Status)
	}
	if b.TotalFare != 1790 || b.PassengerName != "Nimal Perera" {
		t.Fatalf("payment must not change other booking fields: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionPaidToCancelledRefused(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("SELECT id, route_id").WillReturnRows(bookingRows(42, "paid"))
	mock.ExpectQuery("SELECT seat_no").
		WillReturnRows(sqlmock.NewRows([]string{"seat_no"}).AddRow(5).AddRow(6))

	_, err := svc.Transition(42, models.StatusCancelled)
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestUpdateRefusedOncePaid(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("SELECT id, route_id").WillReturnRows(bookingRows(42, "paid"))
	mock.ExpectQuery("SELECT seat_no").
		WillReturnRows(sqlmock.NewRows([]string{"seat_no"}).AddRow(5))

	name := "Someone Else"
	_, err := svc.Update(42, models.BookingUpdate{PassengerName: &name})
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError for paid booking edit, got %v", err)
	}
}
