package models

// Staff is an employee record. NIC is the national identity number.
type Staff struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	NIC            string `json:"nic"`
	Role           string `json:"role"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	BasicSalary    int64  `json:"basicSalary"`
	VehicleID      *int64 `json:"vehicleId,omitempty"`
	AttendanceDays int    `json:"attendanceDays"`
	OvertimeHours  int    `json:"overtimeHours"`
	CheckedInAt    string `json:"checkedInAt,omitempty"`
	CheckedOutAt   string `json:"checkedOutAt,omitempty"`
}
