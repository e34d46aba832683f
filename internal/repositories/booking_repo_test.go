package repositories

import (
	"testing"

	"mahindaexpress/internal/domain"
	"mahindaexpress/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func pendingBooking() models.Booking {
	return models.Booking{
		RouteID:        7,
		JourneyDate:    "2026-09-15",
		PassengerName:  "Nimal Perera",
		PassengerPhone: "0771234567",
		BoardingStop:   "Colombo",
		DropoffStop:    "Kandy",
		Seats:          []int{5, 6},
		FarePerSeat:    895,
		TotalFare:      1790,
		Status:         models.StatusPending,
	}
}

func TestBookingCreateInsertsSeatsInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO booking_seats").
		WithArgs(int64(42), int64(7), "2026-09-15", 5).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO booking_seats").
		WithArgs(int64(42), int64(7), "2026-09-15", 6).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	repo := BookingRepo{DB: db}
	id, err := repo.Create(pendingBooking())
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if id != 42 {
		t.Fatalf("got booking id %d, want 42", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingCreateSeatConflictRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO booking_seats").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	repo := BookingRepo{DB: db}
	if _, err := repo.Create(pendingBooking()); !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookedSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT seat_no").
		WithArgs(int64(7), "2026-09-15").
		WillReturnRows(sqlmock.NewRows([]string{"seat_no"}).AddRow(5).AddRow(6))

	repo := BookingSeatRepo{DB: db}
	seats, err := repo.BookedSeats(7, "2026-09-15")
	if err != nil {
		t.Fatalf("booked seats error: %v", err)
	}
	if len(seats) != 2 || seats[0] != 5 || seats[1] != 6 {
		t.Fatalf("got %v, want [5 6]", seats)
	}
}

func TestUpdateStatusTerminalReleasesSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("cancelled", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM booking_seats").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	repo := BookingRepo{DB: db}
	if err := repo.UpdateStatus(42, models.StatusCancelled); err != nil {
		t.Fatalf("update status error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusNonTerminalKeepsSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("paid", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := BookingRepo{DB: db}
	if err := repo.UpdateStatus(42, models.StatusPaid); err != nil {
		t.Fatalf("update status error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
