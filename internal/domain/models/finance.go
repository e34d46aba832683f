package models

// Payroll holds one employee's pay components for a month (YYYY-MM).
type Payroll struct {
	ID                  int64  `json:"id"`
	StaffID             int64  `json:"staffId"`
	Month               string `json:"month"`
	BasicSalary         int64  `json:"basicSalary"`
	Allowances          int64  `json:"allowances"`
	Bonus               int64  `json:"bonus"`
	Reimbursements      int64  `json:"reimbursements"`
	OTPay               int64  `json:"otPay"`
	AttendanceDeduction int64  `json:"attendanceDeduction"`
	SalaryAdvance       int64  `json:"salaryAdvance"`
	Loan                int64  `json:"loan"`
	NetPay              int64  `json:"netPay"`
}

// Budget tracks target vs actual spend for a category in a period (YYYY-MM).
type Budget struct {
	ID           int64  `json:"id"`
	Category     string `json:"category"`
	Period       string `json:"period"`
	TargetAmount int64  `json:"targetAmount"`
	ActualAmount int64  `json:"actualAmount"`
}

// PaymentMethod distinguishes gateway card payments from manual transfers.
type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// PaymentRecord tracks a payment attempt against a booking.
type PaymentRecord struct {
	ID          int64         `json:"id"`
	BookingID   int64         `json:"bookingId"`
	Reference   string        `json:"reference"`
	Amount      int64         `json:"amount"`
	Method      PaymentMethod `json:"method"`
	Status      string        `json:"status"`
	ReceiptPath string        `json:"receiptPath,omitempty"`
	CreatedAt   string        `json:"createdAt,omitempty"`
}
