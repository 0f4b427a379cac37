package domain

import "time"

// PayrollRow is the joined read model behind the monthly hours view: one
// approved signup with its shift and person context.
type PayrollRow struct {
	SignupID             int64      `json:"signupID"`
	WorkStart            *string    `json:"workStart"`
	WorkEnd              *string    `json:"workEnd"`
	WorkHours            *float64   `json:"workHours"`
	ApprovedWorkHours    *float64   `json:"approvedWorkHours"`
	HoursApprovedByAdmin bool       `json:"hoursApprovedByAdmin"`
	PayrollPaid          bool       `json:"payrollPaid"`
	PayrollPaidAt        *time.Time `json:"payrollPaidAt"`
	ShiftDate            string     `json:"shiftDate"`
	Location             string     `json:"location"`
	Description          string     `json:"description"`
	PersonName           string     `json:"personName"`
	Phone                string     `json:"phone"`
}
