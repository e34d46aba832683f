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

type maintenancePayload struct {
	VehicleID   int64                    `json:"vehicleId" binding:"required"`
	Description string                   `json:"description" binding:"required"`
	ServiceDate string                   `json:"serviceDate" binding:"required"`
	Cost        int64                    `json:"cost"`
	Parts       []models.MaintenancePart `json:"parts"`
}

// GET /api/maintenance?vehicleId= (admin)
func GetMaintenanceRecords(c *gin.Context) {
	query := `
		SELECT id, vehicle_id, description, DATE_FORMAT(service_date, '%Y-%m-%d'), cost
		FROM maintenance_records
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
	query += " ORDER BY service_date DESC, id DESC"

	rows, err := intconfig.DB.Query(query, args...)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list maintenance records", err)
		return
	}
	defer rows.Close()

	list := []models.MaintenanceRecord{}
	for rows.Next() {
		var m models.MaintenanceRecord
		if err := rows.Scan(&m.ID, &m.VehicleID, &m.Description, &m.ServiceDate, &m.Cost); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to scan maintenance record", err)
			return
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		RespondError(c, http.StatusInternalServerError, "row iteration error", err)
		return
	}

	for i := range list {
		parts, err := maintenanceParts(list[i].ID)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to load parts usage", err)
			return
		}
		list[i].Parts = parts
	}
	c.JSON(http.StatusOK, list)
}

func maintenanceParts(recordID int64) ([]models.MaintenancePart, error) {
	rows, err := intconfig.DB.Query(`
		SELECT part_id, quantity FROM maintenance_parts WHERE maintenance_id = ? ORDER BY part_id
	`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MaintenancePart{}
	for rows.Next() {
		var p models.MaintenancePart
		if err := rows.Scan(&p.PartID, &p.Quantity); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// POST /api/maintenance (admin)
//
// Parts used are decremented from stock in the same transaction. A part
// without enough stock fails the whole record.
func CreateMaintenanceRecord(c *gin.Context) {
	var payload maintenancePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if _, err := utils.ParseDate(payload.ServiceDate); err != nil {
		RespondError(c, http.StatusBadRequest, "serviceDate must be YYYY-MM-DD", nil)
		return
	}
	if payload.Cost < 0 {
		RespondError(c, http.StatusBadRequest, "cost must not be negative", nil)
		return
	}
	for _, p := range payload.Parts {
		if p.PartID <= 0 || p.Quantity <= 0 {
			RespondError(c, http.StatusBadRequest, "each part needs a valid partId and a positive quantity", nil)
			return
		}
	}

	tx, err := intconfig.DB.Begin()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to start transaction", err)
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO maintenance_records (vehicle_id, description, service_date, cost, created_at)
		VALUES (?, ?, ?, ?, NOW())
	`, payload.VehicleID, strings.TrimSpace(payload.Description), payload.ServiceDate, payload.Cost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to save maintenance record", err)
		return
	}
	recordID, _ := res.LastInsertId()

	for _, p := range payload.Parts {
		upd, err := tx.Exec(`
			UPDATE parts SET stock = stock - ?, updated_at = NOW()
			WHERE id = ? AND stock >= ?
		`, p.Quantity, p.PartID, p.Quantity)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to update part stock", err)
			return
		}
		if affected, _ := upd.RowsAffected(); affected == 0 {
			RespondError(c, http.StatusConflict, "insufficient stock for part "+strconv.FormatInt(p.PartID, 10), nil)
			return
		}
		if _, err := tx.Exec(`
			INSERT INTO maintenance_parts (maintenance_id, part_id, quantity)
			VALUES (?, ?, ?)
		`, recordID, p.PartID, p.Quantity); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to record part usage", err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to commit maintenance record", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "maintenance record created", "id": recordID})
}

// DELETE /api/maintenance/:id (admin)
//
// Parts used by the record go back into stock.
func DeleteMaintenanceRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid maintenance id", err)
		return
	}

	tx, err := intconfig.DB.Begin()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to start transaction", err)
		return
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT part_id, quantity FROM maintenance_parts WHERE maintenance_id = ?", id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load parts usage", err)
		return
	}
	parts := []models.MaintenancePart{}
	for rows.Next() {
		var p models.MaintenancePart
		if err := rows.Scan(&p.PartID, &p.Quantity); err != nil {
			rows.Close()
			RespondError(c, http.StatusInternalServerError, "failed to scan parts usage", err)
			return
		}
		parts = append(parts, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		RespondError(c, http.StatusInternalServerError, "row iteration error", err)
		return
	}

	for _, p := range parts {
		if _, err := tx.Exec("UPDATE parts SET stock = stock + ?, updated_at = NOW() WHERE id = ?", p.Quantity, p.PartID); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to restore part stock", err)
			return
		}
	}
	if _, err := tx.Exec("DELETE FROM maintenance_parts WHERE maintenance_id = ?", id); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete parts usage", err)
		return
	}
	res, err := tx.Exec("DELETE FROM maintenance_records WHERE id = ?", id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete maintenance record", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		RespondError(c, http.StatusNotFound, "maintenance record not found", nil)
		return
	}
	if err := tx.Commit(); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to commit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "maintenance record deleted"})
}
