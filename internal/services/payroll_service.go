package services

import (
	"mahindaexpress/internal/domain"
	"mahindaexpress/internal/domain/models"
	"mahindaexpress/internal/utils"
)

// PayrollService holds the pay arithmetic so handlers and reports agree on
// one formula.
type PayrollService struct{}

// Earnings sums the additive pay components.
func (PayrollService) Earnings(p models.Payroll) int64 {
	return p.BasicSalary + p.Allowances + p.Bonus + p.Reimbursements + p.OTPay
}

// Deductions sums the subtractive pay components.
func (PayrollService) Deductions(p models.Payroll) int64 {
	return p.AttendanceDeduction + p.SalaryAdvance + p.Loan
}

// NetPay is earnings minus deductions, clamped at zero.
func (s PayrollService) NetPay(p models.Payroll) int64 {
	net := s.Earnings(p) - s.Deductions(p)
	if net < 0 {
		return 0
	}
	return net
}

// Compute validates the components and fills NetPay.
func (s PayrollService) Compute(p models.Payroll) (models.Payroll, error) {
	for _, v := range []struct {
		field string
		val   int64
	}{
		{"basicSalary", p.BasicSalary},
		{"allowances", p.Allowances},
		{"bonus", p.Bonus},
		{"reimbursements", p.Reimbursements},
		{"otPay", p.OTPay},
		{"attendanceDeduction", p.AttendanceDeduction},
		{"salaryAdvance", p.SalaryAdvance},
		{"loan", p.Loan},
	} {
		if v.val < 0 {
			return p, domain.ValidationError{Field: v.field, Msg: "must not be negative"}
		}
	}
	if p.Month != "" {
		if _, err := utils.ParseMonth(p.Month); err != nil {
			return p, domain.ValidationError{Field: "month", Msg: "must be YYYY-MM"}
		}
	}
	p.NetPay = s.NetPay(p)
	return p, nil
}
