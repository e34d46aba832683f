package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/domain"
	"mahindaexpress/internal/domain/models"
	"mahindaexpress/internal/services"

	"github.com/gin-gonic/gin"
)

const payrollSelect = `
	SELECT id, staff_id, month, basic_salary, allowances, bonus, reimbursements,
	       ot_pay, attendance_deduction, salary_advance, loan, net_pay
	FROM payrolls
`

func scanPayroll(row interface{ Scan(dest ...any) error }) (models.Payroll, error) {
	var p models.Payroll
	err := row.Scan(&p.ID, &p.StaffID, &p.Month, &p.BasicSalary, &p.Allowances,
		&p.Bonus, &p.Reimbursements, &p.OTPay, &p.AttendanceDeduction,
		&p.SalaryAdvance, &p.Loan, &p.NetPay)
	return p, err
}

// POST /api/payroll/compute (admin)
//
// Validates and computes net pay without persisting anything; the UI uses it
// for live previews.
func ComputePayroll(c *gin.Context) {
	var p models.Payroll
	if !BindJSONOrError(c, &p) {
		return
	}
	computed, err := services.PayrollService{}.Compute(p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, computed)
}

// GET /api/payroll?month=2026-08 (admin)
func GetPayrolls(c *gin.Context) {
	query := payrollSelect
	args := []any{}
	if month := strings.TrimSpace(c.Query("month")); month != "" {
		query += " WHERE month = ?"
		args = append(args, month)
	}
	query += " ORDER BY month DESC, staff_id ASC"

	rows, err := intconfig.DB.Query(query, args...)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list payrolls", err)
		return
	}
	defer rows.Close()

	list := []models.Payroll{}
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to scan payroll", err)
			return
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		RespondError(c, http.StatusInternalServerError, "row iteration error", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/payroll (admin)
//
// Upserts the staff member's payroll for the month. Net pay is always
// recomputed server side.
func SavePayroll(c *gin.Context) {
	var p models.Payroll
	if !BindJSONOrError(c, &p) {
		return
	}
	if p.StaffID <= 0 {
		RespondError(c, http.StatusBadRequest, "staffId is required", nil)
		return
	}
	if strings.TrimSpace(p.Month) == "" {
		RespondError(c, http.StatusBadRequest, "month is required", nil)
		return
	}

	computed, err := services.PayrollService{}.Compute(p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	var staffExists int
	if err := intconfig.DB.QueryRow("SELECT COUNT(*) FROM staff WHERE id=?", p.StaffID).Scan(&staffExists); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to check staff member", err)
		return
	}
	if staffExists == 0 {
		RespondError(c, http.StatusNotFound, "staff member not found", nil)
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO payrolls (staff_id, month, basic_salary, allowances, bonus, reimbursements,
		                      ot_pay, attendance_deduction, salary_advance, loan, net_pay, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			basic_salary=VALUES(basic_salary),
			allowances=VALUES(allowances),
			bonus=VALUES(bonus),
			reimbursements=VALUES(reimbursements),
			ot_pay=VALUES(ot_pay),
			attendance_deduction=VALUES(attendance_deduction),
			salary_advance=VALUES(salary_advance),
			loan=VALUES(loan),
			net_pay=VALUES(net_pay),
			updated_at=NOW()
	`, computed.StaffID, computed.Month, computed.BasicSalary, computed.Allowances, computed.Bonus,
		computed.Reimbursements, computed.OTPay, computed.AttendanceDeduction,
		computed.SalaryAdvance, computed.Loan, computed.NetPay)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to save payroll", err)
		return
	}
	if id, _ := res.LastInsertId(); id > 0 {
		computed.ID = id
	}
	c.JSON(http.StatusOK, computed)
}

// DELETE /api/payroll/:id (admin)
func DeletePayroll(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid payroll id", err)
		return
	}
	res, err := intconfig.DB.Exec("DELETE FROM payrolls WHERE id=?", id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to delete payroll", err)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		RespondError(c, http.StatusNotFound, "payroll not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payroll deleted"})
}

func payrollFor(staffID int64, month string) (models.Payroll, error) {
	p, err := scanPayroll(intconfig.DB.QueryRow(payrollSelect+" WHERE staff_id=? AND month=? LIMIT 1", staffID, month))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, domain.NotFoundError{Resource: "payroll"}
		}
		return p, err
	}
	return p, nil
}
