package services

import (
	"testing"

	"mahindaexpress/internal/domain"
	"mahindaexpress/internal/domain/models"
)

func TestNetPay(t *testing.T) {
	var svc PayrollService

	p := models.Payroll{
		BasicSalary:         90000,
		Allowances:          5000,
		Bonus:               10000,
		Reimbursements:      2500,
		OTPay:               7500,
		AttendanceDeduction: 3000,
		SalaryAdvance:       10000,
		Loan:                5000,
	}
	if got := svc.Earnings(p); got != 115000 {
		t.Fatalf("earnings = %d, want 115000", got)
	}
	if got := svc.Deductions(p); got != 18000 {
		t.Fatalf("deductions = %d, want 18000", got)
	}
	if got := svc.NetPay(p); got != 97000 {
		t.Fatalf("net pay = %d, want 97000", got)
	}
}

func TestNetPayClampsAtZero(t *testing.T) {
	var svc PayrollService

	p := models.Payroll{BasicSalary: 10000, SalaryAdvance: 15000}
	if got := svc.NetPay(p); got != 0 {
		t.Fatalf("net pay must clamp at zero, got %d", got)
	}
}

func TestComputeRejectsNegativeComponents(t *testing.T) {
	var svc PayrollService

	_, err := svc.Compute(models.Payroll{BasicSalary: 90000, Loan: -1})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for negative loan, got %v", err)
	}
}

func TestComputeRejectsBadMonth(t *testing.T) {
	var svc PayrollService

	_, err := svc.Compute(models.Payroll{BasicSalary: 90000, Month: "August 2026"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for bad month, got %v", err)
	}

	p, err := svc.Compute(models.Payroll{BasicSalary: 90000, Month: "2026-08"})
	if err != nil {
		t.Fatalf("compute error: %v", err)
	}
	if p.NetPay != 90000 {
		t.Fatalf("net pay = %d, want 90000", p.NetPay)
	}
}
