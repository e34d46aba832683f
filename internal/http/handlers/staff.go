package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

type staffPayload struct {
	Name        string `json:"name" binding:"required"`
	NIC         string `json:"nic" binding:"required"`
	Role        string `json:"role" binding:"required"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	BasicSalary int64  `json:"basicSalary"`
	VehicleID   *int64 `json:"vehicleId"`
}

const staffSelect = `
	SELECT
		id,
		name,
		nic,
		role,
		COALESCE(phone,'') AS phone,
		COALESCE(email,'') AS email,
		basic_salary,
		vehicle_id,
		COALESCE(attendance_days, 0),
		COALESCE(overtime_hours, 0),
		CASE WHEN checked_in_at IS NULL THEN '' ELSE DATE_FORMAT(checked_in_at, '%Y-%m-%d %H:%i:%s') END,
		CASE WHEN checked_out_at IS NULL THEN '' ELSE DATE_FORMAT(checked_out_at, '%Y-%m-%d %H:%i:%s') END
	FROM staff
`

func scanStaff(row interface{ Scan(dest ...any) error }) (models.Staff, error) {
	var (
		s         models.Staff
		vehicleID sql.NullInt64
	)
	err := row.Scan(&s.ID, &s.Name, &s.NIC, &s.Role, &s.Phone, &s.Email,
		&s.BasicSalary, &vehicleID, &s.AttendanceDays, &s.OvertimeHours,
		&s.CheckedInAt, &s.CheckedOutAt)
	if err != nil {
		return s, err
	}
	if vehicleID.Valid {
		x := vehicleID.Int64
		s.VehicleID = &x
	}
	return s, nil
}

// GET /api/staff?q=&role= (admin)
func GetStaff(c *gin.Context) {
	where := []string{}
	args := []any{}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		where = append(where, "(name LIKE ? OR nic LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		where = append(where, "role = ?")
		args = append(args, role)
	}

	query := staffSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name ASC"

	rows, err := intconfig.DB.Query(query, args...)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list staff", err)
		return
	}
	defer rows.Close()

	list := []models.Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to scan staff", err)
			return
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		RespondError(c, http.StatusInternalServerError, "row iteration error", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/staff/:id (admin)
func GetStaffMember(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid staff id", err)
		return
	}
	s, err := scanStaff(intconfig.DB.QueryRow(staffSelect+" WHERE id = ? LIMIT 1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "staff member not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to fetch staff member", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// POST /api/staff (admin)
func CreateStaff(c *gin.Context) {
	var payload staffPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if payload.BasicSalary < 0 {
		RespondError(c, http.StatusBadRequest, "basicSalary must not be negative", nil)
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO staff (name, nic, role, phone, email, basic_salary, vehicle_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, strings.TrimSpace(payload.Name), strings.TrimSpace(payload.NIC), strings.TrimSpace(payload.Role),
		strings.TrimSpace(payload.Phone), strings.TrimSpace(payload.Email), payload.BasicSalary, payload.VehicleID)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			RespondError(c, http.StatusConflict, "a staff member with this NIC already exists", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to save staff member", err)
		return
	}
	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "staff member created", "id": id})
}

// PUT /api/staff/:id (admin)
func UpdateStaff(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid staff id", err)
		return
	}
	var payload staffPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if payload.BasicSalary < 0 {
		RespondError(c, http.StatusBadRequest, "basicSalary must not be negative", nil)
		return
	}

	res, err := intconfig.DB.Exec(`
		UPDATE staff
		SET name=?, nic=?, role=?, phone=?, email=?, basic_salary=?, vehicle_id=?, updated_at=NOW()
		WHERE id=?
	`, strings.TrimSpace(payload.Name), strings.TrimSpace(payload.NIC), strings.TrimSpace(payload.Role),
		strings.TrimSpace(payload.Phone), strings.TrimSpace(payload.Email), payload.BasicSalary, payload.VehicleID, id)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			RespondError(c, http.StatusConflict, "a staff member with this NIC already exists", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to update staff member", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists int
		if intconfig.DB.QueryRow("SELECT COUNT(*) FROM staff WHERE id=?", id).Scan(&exists) == nil && exists == 0 {
			RespondError(c, http.StatusNotFound, "staff member not found", nil)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "staff member updated"})
}

// DELETE /api/staff/:id (admin)
func DeleteStaff(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid staff id", err)
		return
	}
	res, err := intconfig.DB.Exec("DELETE FROM staff WHERE id=?", id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete staff member", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		RespondError(c, http.StatusNotFound, "staff member not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "staff member deleted"})
}

// PUT /api/staff/checkin/:id (admin)
func StaffCheckIn(c *gin.Context) {
	staffClock(c, "checked_in_at", "checked in")
}

// PUT /api/staff/checkout/:id (admin)
func StaffCheckOut(c *gin.Context) {
	staffClock(c, "checked_out_at", "checked out")
}

func staffClock(c *gin.Context, column, verb string) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid staff id", err)
		return
	}
	res, err := intconfig.DB.Exec("UPDATE staff SET "+column+"=NOW(), updated_at=NOW() WHERE id=?", id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to record time", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		RespondError(c, http.StatusNotFound, "staff member not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "staff member " + verb})
}

type attendancePayload struct {
	AttendanceDays *int `json:"attendanceDays" binding:"required"`
}

// PUT /api/staff/attendance/:id (admin)
func UpdateStaffAttendance(c *gin.Context) {
	var payload attendancePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	staffCounter(c, "attendance_days", *payload.AttendanceDays, "attendance updated")
}

type overtimePayload struct {
	OvertimeHours *int `json:"overtimeHours" binding:"required"`
}

// PUT /api/staff/overtime/:id (admin)
func UpdateStaffOvertime(c *gin.Context) {
	var payload overtimePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	staffCounter(c, "overtime_hours", *payload.OvertimeHours, "overtime updated")
}

func staffCounter(c *gin.Context, column string, value int, okMsg string) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid staff id", err)
		return
	}
	if value < 0 {
		RespondError(c, http.StatusBadRequest, "value must not be negative", nil)
		return
	}

	res, err := intconfig.DB.Exec("UPDATE staff SET "+column+"=?, updated_at=NOW() WHERE id=?", value, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to update staff member", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists int
		if intconfig.DB.QueryRow("SELECT COUNT(*) FROM staff WHERE id=?", id).Scan(&exists) == nil && exists == 0 {
			RespondError(c, http.StatusNotFound, "staff member not found", nil)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": okMsg})
}

type assignPayload struct {
	VehicleID *int64 `json:"vehicleId"`
}

// PUT /api/staff/assign/:id (admin)
func AssignStaffVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid staff id", err)
		return
	}
	var payload assignPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if payload.VehicleID != nil {
		var exists int
		if err := intconfig.DB.QueryRow("SELECT COUNT(*) FROM vehicles WHERE id=?", *payload.VehicleID).Scan(&exists); err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to check vehicle", err)
			return
		}
		if exists == 0 {
			RespondError(c, http.StatusNotFound, "vehicle not found", nil)
			return
		}
	}

	res, err := intconfig.DB.Exec("UPDATE staff SET vehicle_id=?, updated_at=NOW() WHERE id=?", payload.VehicleID, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to assign vehicle", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists int
		if intconfig.DB.QueryRow("SELECT COUNT(*) FROM staff WHERE id=?", id).Scan(&exists) == nil && exists == 0 {
			RespondError(c, http.StatusNotFound, "staff member not found", nil)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle assignment updated"})
}
