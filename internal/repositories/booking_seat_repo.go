package repositories

import (
	"database/sql"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/domain"
)

type BookingSeatRepo struct {
	DB *sql.DB
}

func (r BookingSeatRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// BookedSeats returns the seat numbers taken for a route and journey date.
// Terminal bookings have no seat rows, so this reads live bookings only.
func (r BookingSeatRepo) BookedSeats(routeID int64, journeyDate string) ([]int, error) {
	if routeID <= 0 {
		return nil, domain.ValidationError{Field: "routeId", Msg: "invalid id"}
	}
	if journeyDate == "" {
		return nil, domain.ValidationError{Field: "journeyDate", Msg: "required"}
	}

	rows, err := r.db().Query(`
		SELECT seat_no
		FROM booking_seats
		WHERE route_id=? AND journey_date=?
		ORDER BY seat_no ASC
	`, routeID, journeyDate)
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
