package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/domain"
	"mahindaexpress/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingSelect = `
	SELECT id, route_id, DATE_FORMAT(journey_date, '%Y-%m-%d'),
	       passenger_name, passenger_phone, COALESCE(passenger_email, ''),
	       COALESCE(gender, ''), boarding_stop, dropoff_stop,
	       fare_per_seat, total_fare, status,
	       DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s')
	FROM bookings
`

func scanBooking(row interface{ Scan(dest ...any) error }) (models.Booking, error) {
	var b models.Booking
	var status string
	err := row.Scan(&b.ID, &b.RouteID, &b.JourneyDate,
		&b.PassengerName, &b.PassengerPhone, &b.PassengerEmail,
		&b.Gender, &b.BoardingStop, &b.DropoffStop,
		&b.FarePerSeat, &b.TotalFare, &status, &b.CreatedAt)
	b.Status = models.BookingStatus(status)
	return b, err
}

// Create inserts the booking and one row per seat inside a transaction. The
// UNIQUE key on booking_seats (route_id, journey_date, seat_no) is the
// authoritative double-booking guard; a 1062 surfaces as ConflictError and
// nothing is written.
func (r BookingRepo) Create(b models.Booking) (int64, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO bookings
		(route_id, journey_date, passenger_name, passenger_phone, passenger_email,
		 gender, boarding_stop, dropoff_stop, fare_per_seat, total_fare, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`, b.RouteID, b.JourneyDate, b.PassengerName, b.PassengerPhone, b.PassengerEmail,
		b.Gender, b.BoardingStop, b.DropoffStop, b.FarePerSeat, b.TotalFare, string(b.Status))
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()

	if err := insertSeats(tx, id, b.RouteID, b.JourneyDate, b.Seats); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID fetches a booking with its seats.
func (r BookingRepo) GetByID(id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	db := r.db()

	b, err := scanBooking(db.QueryRow(bookingSelect+` WHERE id=? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return b, err
	}

	seats, err := r.seats(id)
	if err != nil {
		return b, err
	}
	b.Seats = seats
	return b, nil
}

func (r BookingRepo) seats(bookingID int64) ([]int, error) {
	rows, err := r.db().Query(`
		SELECT seat_no FROM booking_seats
		WHERE booking_id=?
		ORDER BY seat_no ASC
	`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return out, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ListByContact returns a passenger's bookings by email or phone, newest first.
func (r BookingRepo) ListByContact(email, phone string) ([]models.Booking, error) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return nil, domain.ValidationError{Field: "contact", Msg: "email or phone required"}
	}

	where := []string{}
	args := []any{}
	if email != "" {
		where = append(where, "passenger_email=?")
		args = append(args, email)
	}
	if phone != "" {
		where = append(where, "passenger_phone=?")
		args = append(args, phone)
	}

	rows, err := r.db().Query(bookingSelect+` WHERE `+strings.Join(where, " OR ")+` ORDER BY id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(r, rows)
}

// List returns bookings for the admin table, optionally filtered by status.
func (r BookingRepo) List(status string, page, limit int) ([]models.Booking, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	query := bookingSelect
	args := []any{}
	if status = strings.TrimSpace(status); status != "" {
		query += ` WHERE status=?`
		args = append(args, status)
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(r, rows)
}

func collectBookings(r BookingRepo, rows *sql.Rows) ([]models.Booking, error) {
	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}
	for i := range out {
		seats, err := r.seats(out[i].ID)
		if err != nil {
			return out, err
		}
		out[i].Seats = seats
	}
	return out, nil
}

// Update applies PATCH-style field updates and, when seats change, replaces
// the seat rows in the same transaction so the UNIQUE key still arbitrates.
func (r BookingRepo) Update(id int64, upd models.BookingUpdate) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "invalid id"}
	}

	tx, err := r.db().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sets := []string{}
	args := []any{}
	if upd.PassengerName != nil {
		sets = append(sets, "passenger_name=?")
		args = append(args, strings.TrimSpace(*upd.PassengerName))
	}
	if upd.PassengerPhone != nil {
		sets = append(sets, "passenger_phone=?")
		args = append(args, strings.TrimSpace(*upd.PassengerPhone))
	}
	if upd.PassengerEmail != nil {
		sets = append(sets, "passenger_email=?")
		args = append(args, strings.TrimSpace(*upd.PassengerEmail))
	}
	if upd.Gender != nil {
		sets = append(sets, "gender=?")
		args = append(args, strings.TrimSpace(*upd.Gender))
	}
	if upd.BoardingStop != nil {
		sets = append(sets, "boarding_stop=?")
		args = append(args, strings.TrimSpace(*upd.BoardingStop))
	}
	if upd.DropoffStop != nil {
		sets = append(sets, "dropoff_stop=?")
		args = append(args, strings.TrimSpace(*upd.DropoffStop))
	}

	if len(upd.Seats) > 0 {
		var routeID int64
		var journeyDate string
		var farePerSeat int64
		err := tx.QueryRow(`
			SELECT route_id, DATE_FORMAT(journey_date, '%Y-%m-%d'), fare_per_seat
			FROM bookings WHERE id=? LIMIT 1
		`, id).Scan(&routeID, &journeyDate, &farePerSeat)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFoundError{Resource: "booking", Err: err}
			}
			return err
		}

		if _, err := tx.Exec(`DELETE FROM booking_seats WHERE booking_id=?`, id); err != nil {
			return err
		}
		if err := insertSeats(tx, id, routeID, journeyDate, upd.Seats); err != nil {
			return err
		}
		sets = append(sets, "total_fare=?")
		args = append(args, models.TotalFare(len(upd.Seats), farePerSeat))
	}

	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)

	res, err := tx.Exec(`UPDATE bookings SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 && len(upd.Seats) == 0 {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM bookings WHERE id=?`, id).Scan(&exists); err == nil && exists == 0 {
			return domain.NotFoundError{Resource: "booking"}
		}
	}
	return tx.Commit()
}

// UpdateStatus moves a booking to a new status. Terminal transitions release
// the booking's seats in the same transaction, which is what keeps the seat
// uniqueness invariant scoped to live bookings.
func (r BookingRepo) UpdateStatus(id int64, to models.BookingStatus) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "invalid id"}
	}

	tx, err := r.db().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE bookings SET status=?, updated_at=NOW() WHERE id=?`, string(to), id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM bookings WHERE id=?`, id).Scan(&exists); err == nil && exists == 0 {
			return domain.NotFoundError{Resource: "booking"}
		}
	}

	if to.Terminal() {
		if _, err := tx.Exec(`DELETE FROM booking_seats WHERE booking_id=?`, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertSeats(tx *sql.Tx, bookingID, routeID int64, journeyDate string, seats []int) error {
	for _, n := range seats {
		if _, err := tx.Exec(`
			INSERT INTO booking_seats (booking_id, route_id, journey_date, seat_no, created_at)
			VALUES (?, ?, ?, ?, NOW())
		`, bookingID, routeID, journeyDate, n); err != nil {
			if isDuplicateKey(err) {
				return domain.ConflictError{Resource: "seat", Msg: "seat already booked for this journey"}
			}
			return err
		}
	}
	return nil
}
