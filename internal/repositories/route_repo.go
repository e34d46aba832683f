package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/domain"
	"mahindaexpress/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

type RouteRepo struct {
	DB *sql.DB
}

func (r RouteRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// List returns routes matching an optional search term on route number or
// terminal names. Stops are not loaded here; use GetByID.
func (r RouteRepo) List(q string) ([]models.Route, error) {
	db := r.db()

	base := `
		SELECT id, route_number, start_location, end_location,
		       COALESCE(distance_km, 0), COALESCE(estimated_minutes, 0),
		       COALESCE(fare, 0), COALESCE(direction, 'outbound')
		FROM routes
	`
	args := []any{}
	if q = strings.TrimSpace(q); q != "" {
		base += ` WHERE route_number LIKE ? OR start_location LIKE ? OR end_location LIKE ?`
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}
	base += ` ORDER BY route_number ASC`

	rows, err := db.Query(base, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		var rt models.Route
		var dir string
		if err := rows.Scan(&rt.ID, &rt.RouteNumber, &rt.StartLocation, &rt.EndLocation,
			&rt.DistanceKm, &rt.EstimatedMinutes, &rt.Fare, &dir); err != nil {
			return out, err
		}
		rt.Direction = models.Direction(dir)
		out = append(out, rt)
	}
	return out, rows.Err()
}

// GetByID fetches a route with its ordered stop list.
func (r RouteRepo) GetByID(id int64) (models.Route, error) {
	var rt models.Route
	if id <= 0 {
		return rt, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	db := r.db()

	var dir string
	err := db.QueryRow(`
		SELECT id, route_number, start_location, end_location,
		       COALESCE(distance_km, 0), COALESCE(estimated_minutes, 0),
		       COALESCE(fare, 0), COALESCE(direction, 'outbound')
		FROM routes
		WHERE id=? LIMIT 1
	`, id).Scan(&rt.ID, &rt.RouteNumber, &rt.StartLocation, &rt.EndLocation,
		&rt.DistanceKm, &rt.EstimatedMinutes, &rt.Fare, &dir)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rt, domain.NotFoundError{Resource: "route", Err: err}
		}
		return rt, err
	}
	rt.Direction = models.Direction(dir)

	stops, err := r.stops(id)
	if err != nil {
		return rt, err
	}
	rt.Stops = stops
	return rt, nil
}

func (r RouteRepo) stops(routeID int64) ([]string, error) {
	rows, err := r.db().Query(`
		SELECT stop_name FROM route_stops
		WHERE route_id=?
		ORDER BY position ASC
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create inserts the route and its stops in one transaction.
func (r RouteRepo) Create(rt models.Route) (int64, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO routes (route_number, start_location, end_location, distance_km, estimated_minutes, fare, direction, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW())
	`, rt.RouteNumber, rt.StartLocation, rt.EndLocation, rt.DistanceKm, rt.EstimatedMinutes, rt.Fare, string(rt.Direction))
	if err != nil {
		if isDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "route", Msg: "route number already exists"}
		}
		return 0, err
	}
	id, _ := res.LastInsertId()

	if err := insertStops(tx, id, rt.Stops); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites the route row and replaces its stop list.
func (r RouteRepo) Update(id int64, rt models.Route) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	tx, err := r.db().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE routes
		SET route_number=?, start_location=?, end_location=?, distance_km=?, estimated_minutes=?, fare=?, direction=?, updated_at=NOW()
		WHERE id=?
	`, rt.RouteNumber, rt.StartLocation, rt.EndLocation, rt.DistanceKm, rt.EstimatedMinutes, rt.Fare, string(rt.Direction), id)
	if err != nil {
		if isDuplicateKey(err) {
			return domain.ConflictError{Resource: "route", Msg: "route number already exists"}
		}
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM routes WHERE id=?`, id).Scan(&exists); err == nil && exists == 0 {
			return domain.NotFoundError{Resource: "route"}
		}
	}

	if _, err := tx.Exec(`DELETE FROM route_stops WHERE route_id=?`, id); err != nil {
		return err
	}
	if err := insertStops(tx, id, rt.Stops); err != nil {
		return err
	}
	return tx.Commit()
}

func (r RouteRepo) Delete(id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	tx, err := r.db().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM route_stops WHERE route_id=?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM routes WHERE id=?`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.NotFoundError{Resource: "route"}
	}
	return tx.Commit()
}

func insertStops(tx *sql.Tx, routeID int64, stops []string) error {
	for i, s := range stops {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO route_stops (route_id, position, stop_name)
			VALUES (?, ?, ?)
		`, routeID, i, s); err != nil {
			return err
		}
	}
	return nil
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
