package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/db"
	"mahindaexpress/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

type vehiclePayload struct {
	VehicleCode string `json:"vehicleCode" binding:"required"`
	PlateNumber string `json:"plateNumber" binding:"required"`
	Model       string `json:"model"`
	Capacity    *int   `json:"capacity"`
	Status      string `json:"status"`
	RouteID     *int64 `json:"routeId"`
	LastService string `json:"lastService"`
}

const vehicleSelect = `
	SELECT
		id,
		vehicle_code,
		plate_number,
		COALESCE(model,'') AS model,
		capacity,
		COALESCE(status,'') AS status,
		route_id,
		CASE
			WHEN last_service IS NULL THEN NULL
			ELSE DATE_FORMAT(last_service, '%Y-%m-%d')
		END AS last_service
	FROM vehicles
`

// plateRe matches plates like NB-1234 or ABC-1234.
var plateRe = regexp.MustCompile(`^[A-Z]{1,3}-[0-9]{4}$`)

func scanVehicle(row interface{ Scan(dest ...any) error }) (models.Vehicle, error) {
	var (
		v        models.Vehicle
		capacity sql.NullInt64
		routeID  sql.NullInt64
		last     sql.NullString
	)
	err := row.Scan(&v.ID, &v.VehicleCode, &v.PlateNumber, &v.Model, &capacity, &v.Status, &routeID, &last)
	if err != nil {
		return v, err
	}
	if capacity.Valid {
		x := int(capacity.Int64)
		v.Capacity = &x
	}
	if routeID.Valid {
		x := routeID.Int64
		v.RouteID = &x
	}
	if last.Valid {
		v.LastService = last.String
	}
	return v, nil
}

// GET /api/vehicles?q=NB&page=1&limit=50 (admin)
func GetVehicles(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))

	where := ""
	args := []any{}
	if q != "" {
		where = " WHERE (vehicle_code LIKE ? OR plate_number LIKE ?) "
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	query := vehicleSelect + where + " ORDER BY id DESC "
	if pageStr, limitStr := c.Query("page"), c.Query("limit"); pageStr != "" && limitStr != "" {
		page, _ := strconv.Atoi(pageStr)
		limit, _ := strconv.Atoi(limitStr)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 50
		}
		if limit > 200 {
			limit = 200
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := intconfig.DB.Query(query, args...)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list vehicles", err)
		return
	}
	defer rows.Close()

	list := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to scan vehicle", err)
			return
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		RespondError(c, http.StatusInternalServerError, "row iteration error", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/vehicles/:id (admin)
func GetVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid vehicle id", err)
		return
	}
	v, err := scanVehicle(intconfig.DB.QueryRow(vehicleSelect+" WHERE id = ? LIMIT 1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "vehicle not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to fetch vehicle", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// POST /api/vehicles (admin)
func CreateVehicle(c *gin.Context) {
	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	code := strings.TrimSpace(payload.VehicleCode)
	plate := strings.ToUpper(strings.TrimSpace(payload.PlateNumber))
	if code == "" || plate == "" {
		RespondError(c, http.StatusBadRequest, "vehicleCode and plateNumber are required", nil)
		return
	}
	if !plateRe.MatchString(plate) {
		RespondError(c, http.StatusBadRequest, "plateNumber must look like NB-1234", nil)
		return
	}

	lastService := db.NullIfEmpty(strings.TrimSpace(payload.LastService))

	res, err := intconfig.DB.Exec(`
		INSERT INTO vehicles (vehicle_code, plate_number, model, capacity, status, route_id, last_service, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, code, plate, strings.TrimSpace(payload.Model), payload.Capacity, strings.TrimSpace(payload.Status), payload.RouteID, lastService)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			RespondError(c, http.StatusConflict, "vehicle code or plate number already exists", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to save vehicle", err)
		return
	}
	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "vehicle created", "id": id})
}

// PUT /api/vehicles/:id (admin)
func UpdateVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid vehicle id", err)
		return
	}
	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	plate := strings.ToUpper(strings.TrimSpace(payload.PlateNumber))
	if !plateRe.MatchString(plate) {
		RespondError(c, http.StatusBadRequest, "plateNumber must look like NB-1234", nil)
		return
	}

	lastService := db.NullIfEmpty(strings.TrimSpace(payload.LastService))

	res, err := intconfig.DB.Exec(`
		UPDATE vehicles
		SET vehicle_code=?, plate_number=?, model=?, capacity=?, status=?, route_id=?, last_service=?, updated_at=NOW()
		WHERE id=?
	`, strings.TrimSpace(payload.VehicleCode), plate,
		strings.TrimSpace(payload.Model), payload.Capacity, strings.TrimSpace(payload.Status),
		payload.RouteID, lastService, id)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			RespondError(c, http.StatusConflict, "vehicle code or plate number already exists", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to update vehicle", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists int
		if intconfig.DB.QueryRow("SELECT COUNT(*) FROM vehicles WHERE id=?", id).Scan(&exists) == nil && exists == 0 {
			RespondError(c, http.StatusNotFound, "vehicle not found", nil)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle updated"})
}

// DELETE /api/vehicles/:id (admin)
func DeleteVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid vehicle id", err)
		return
	}
	res, err := intconfig.DB.Exec("DELETE FROM vehicles WHERE id=?", id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete vehicle", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		RespondError(c, http.StatusNotFound, "vehicle not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}
