package handlers

import (
	"net/http"
	"strconv"
	"strings"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/domain/models"
	"mahindaexpress/internal/utils"

	"github.com/gin-gonic/gin"
)

type fuelPayload struct {
	VehicleID int64   `json:"vehicleId" binding:"required"`
	FillDate  string  `json:"fillDate" binding:"required"`
	Litres    float64 `json:"litres" binding:"required"`
	Cost      int64   `json:"cost"`
	Odometer  int64   `json:"odometer"`
}

// GET /api/fuel?vehicleId= (admin)
func GetFuelRecords(c *gin.Context) {
	query := `
		SELECT id, vehicle_id, DATE_FORMAT(fill_date, '%Y-%m-%d'), litres, cost, COALESCE(odometer, 0)
		FROM fuel_records
	`
	args := []any{}
	if v := strings.TrimSpace(c.Query("vehicleId")); v != "" {
		vehicleID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || vehicleID <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid vehicleId", err)
			return
		}
		query += " WHERE vehicle_id = ?"
		args = append(args, vehicleID)
	}
	query += " ORDER BY fill_date DESC, id DESC"

	rows, err := intconfig.DB.Query(query, args...)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list fuel records", err)
		return
	}
	defer rows.Close()

	list := []models.FuelRecord{}
	for rows.Next() {
		var f models.FuelRecord
		if err := rows.Scan(&f.ID, &f.VehicleID, &f.FillDate, &f.Litres, &f.Cost, &f.Odometer); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to scan fuel record", err)
			return
		}
		list = append(list, f)
	}
	if err := rows.Err(); err != nil {
		RespondError(c, http.StatusInternalServerError, "row iteration error", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/fuel (admin)
func CreateFuelRecord(c *gin.Context) {
	var payload fuelPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if _, err := utils.ParseDate(payload.FillDate); err != nil {
		RespondError(c, http.StatusBadRequest, "fillDate must be YYYY-MM-DD", nil)
		return
	}
	if payload.Litres <= 0 {
		RespondError(c, http.StatusBadRequest, "litres must be positive", nil)
		return
	}
	if payload.Cost < 0 || payload.Odometer < 0 {
		RespondError(c, http.StatusBadRequest, "cost and odometer must not be negative", nil)
		return
	}

	var odometer any
	if payload.Odometer > 0 {
		odometer = payload.Odometer
	}
	res, err := intconfig.DB.Exec(`
		INSERT INTO fuel_records (vehicle_id, fill_date, litres, cost, odometer, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())
	`, payload.VehicleID, payload.FillDate, payload.Litres, payload.Cost, odometer)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to save fuel record", err)
		return
	}
	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "fuel record created", "id": id})
}

// DELETE /api/fuel/:id (admin)
func DeleteFuelRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid fuel record id", err)
		return
	}
	res, err := intconfig.DB.Exec("DELETE FROM fuel_records WHERE id=?", id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete fuel record", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		RespondError(c, http.StatusNotFound, "fuel record not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "fuel record deleted"})
}
