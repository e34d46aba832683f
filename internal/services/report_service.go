package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"mahindaexpress/internal/domain/models"
	"mahindaexpress/internal/utils"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ReportService renders payroll PDFs and the budgets workbook.
type ReportService struct {
	Payroll PayrollService
	Budgets BudgetService
}

// PayslipRow pairs an employee with their payroll for a month.
type PayslipRow struct {
	Staff   models.Staff
	Payroll models.Payroll
}

// BuildPayslipPDF renders one employee's payslip.
func (s ReportService) BuildPayslipPDF(row PayslipRow) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "MAHINDA EXPRESS - PAYSLIP")
	pdf.Ln(12)

	p := row.Payroll
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Employee : %s", safe(row.Staff.Name, "-")),
		fmt.Sprintf("NIC      : %s", safe(row.Staff.NIC, "-")),
		fmt.Sprintf("Role     : %s", safe(row.Staff.Role, "-")),
		fmt.Sprintf("Month    : %s", safe(p.Month, "-")),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	earnings := []struct {
		label string
		value int64
	}{
		{"Basic Salary", p.BasicSalary},
		{"Allowances", p.Allowances},
		{"Bonus", p.Bonus},
		{"Reimbursements", p.Reimbursements},
		{"Overtime Pay", p.OTPay},
	}
	for _, e := range earnings {
		pdf.Cell(0, 6, fmt.Sprintf("%-16s %s", e.label, utils.FormatRupees(e.value)))
		pdf.Ln(6)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	deductions := []struct {
		label string
		value int64
	}{
		{"Attendance", p.AttendanceDeduction},
		{"Salary Advance", p.SalaryAdvance},
		{"Loan", p.Loan},
	}
	for _, d := range deductions {
		pdf.Cell(0, 6, fmt.Sprintf("%-16s %s", d.label, utils.FormatRupees(d.value)))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Net Pay: "+utils.FormatRupees(s.Payroll.NetPay(p)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Generated "+utils.FormatDateTime(time.Now())+". This payslip is system generated.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("PAYSLIP_%d_%s.pdf", row.Staff.ID, safeFilenamePart(p.Month))
	return buf.Bytes(), filename, nil
}

// BuildAllEmployeesPDF renders the month's payroll as one table.
func (s ReportService) BuildAllEmployeesPDF(month string, rows []PayslipRow) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Payroll Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "MAHINDA EXPRESS - PAYROLL "+safe(month, "-"))
	pdf.Ln(12)

	headers := []string{"Employee", "Role", "Earnings", "Deductions", "Net Pay"}
	widths := []float64{70, 40, 50, 50, 50}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	var total int64
	for _, row := range rows {
		net := s.Payroll.NetPay(row.Payroll)
		total += net
		cells := []string{
			safe(row.Staff.Name, "-"),
			safe(row.Staff.Role, "-"),
			utils.FormatRupees(s.Payroll.Earnings(row.Payroll)),
			utils.FormatRupees(s.Payroll.Deductions(row.Payroll)),
			utils.FormatRupees(net),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 8, utils.FormatRupees(total), "1", 0, "L", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("PAYROLL_ALL_%s.pdf", safeFilenamePart(month))
	return buf.Bytes(), filename, nil
}

// BuildBudgetsXLSX renders the budget summary as a styled workbook.
func (s ReportService) BuildBudgetsXLSX(budgets []models.Budget) ([]byte, string, error) {
	f := excelize.NewFile()
	sheet := "Budgets"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Category", "Period", "Target", "Actual", "Usage %", "Status"}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, "", err
	}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", err
		}
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	breachedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", err
	}

	for i, st := range s.Budgets.Summarize(budgets) {
		row := i + 2
		values := []any{
			st.Category,
			st.Period,
			st.TargetAmount,
			st.ActualAmount,
			fmt.Sprintf("%.1f", st.UsagePercent),
			string(st.Band),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
		if st.Band == BandBreached {
			start, _ := excelize.CoordinatesToCellName(1, row)
			end, _ := excelize.CoordinatesToCellName(len(values), row)
			_ = f.SetCellStyle(sheet, start, end, breachedStyle)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}
	filename := "BUDGETS_" + utils.FormatDate(time.Now()) + ".xlsx"
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
