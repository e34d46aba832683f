package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/services"
	"mahindaexpress/internal/utils"

	"github.com/gin-gonic/gin"
)

func sendAttachment(c *gin.Context, data []byte, filename, contentType string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// GET /api/reports/payroll?employee_id=&month=2026-08 (admin)
func DownloadPayslip(c *gin.Context) {
	staffID, err := strconv.ParseInt(c.Query("employee_id"), 10, 64)
	if err != nil || staffID <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid employee_id", err)
		return
	}
	month := strings.TrimSpace(c.Query("month"))
	if _, err := utils.ParseMonth(month); err != nil {
		RespondError(c, http.StatusBadRequest, "month must be YYYY-MM", nil)
		return
	}

	staff, err := scanStaff(intconfig.DB.QueryRow(staffSelect+" WHERE id = ? LIMIT 1", staffID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusNotFound, "staff member not found", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to fetch staff member", err)
		return
	}
	payroll, err := payrollFor(staffID, month)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	data, filename, err := (services.ReportService{}).BuildPayslipPDF(services.PayslipRow{Staff: staff, Payroll: payroll})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to render payslip", err)
		return
	}
	sendAttachment(c, data, filename, "application/pdf")
}

// GET /api/reports/all-employees?month=2026-08 (admin)
func DownloadPayrollReport(c *gin.Context) {
	month := strings.TrimSpace(c.Query("month"))
	if _, err := utils.ParseMonth(month); err != nil {
		RespondError(c, http.StatusBadRequest, "month must be YYYY-MM", nil)
		return
	}

	rows, err := intconfig.DB.Query(payrollSelect+" WHERE month = ? ORDER BY staff_id ASC", month)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list payrolls", err)
		return
	}
	defer rows.Close()

	report := []services.PayslipRow{}
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "failed to scan payroll", err)
			return
		}
		report = append(report, services.PayslipRow{Payroll: p})
	}
	if err := rows.Err(); err != nil {
		RespondError(c, http.StatusInternalServerError, "row iteration error", err)
		return
	}

	for i := range report {
		staff, err := scanStaff(intconfig.DB.QueryRow(staffSelect+" WHERE id = ? LIMIT 1", report[i].Payroll.StaffID))
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			RespondError(c, http.StatusInternalServerError, "failed to fetch staff member", err)
			return
		}
		report[i].Staff = staff
	}

	data, filename, err := (services.ReportService{}).BuildAllEmployeesPDF(month, report)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to render payroll report", err)
		return
	}
	sendAttachment(c, data, filename, "application/pdf")
}

// GET /api/reports/budgets.xlsx?period=2026-08 (admin)
func DownloadBudgetsWorkbook(c *gin.Context) {
	list, err := listBudgets(strings.TrimSpace(c.Query("period")))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list budgets", err)
		return
	}
	data, filename, err := (services.ReportService{}).BuildBudgetsXLSX(list)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to render budgets workbook", err)
		return
	}
	sendAttachment(c, data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}
