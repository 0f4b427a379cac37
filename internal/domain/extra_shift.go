package domain

import "time"

type ExtraShiftStatus string

const (
	ExtraRequested ExtraShiftStatus = "REQUESTED"
	ExtraApproved  ExtraShiftStatus = "APPROVED"
	ExtraRejected  ExtraShiftStatus = "REJECTED"
)

// ExtraShift is an ad-hoc block of worked hours that is not tied to a posted
// shift. It has its own approve/reject/pay flow.
type ExtraShift struct {
	ID                   int64            `json:"id"`
	PersonID             int64            `json:"personID"`
	Date                 string           `json:"date"`      // ISO YYYY-MM-DD
	WorkStart            string           `json:"workStart"` // HH:MM
	WorkEnd              string           `json:"workEnd"`   // HH:MM
	WorkHours            float64          `json:"workHours"`
	Note                 *string          `json:"note"`
	Status               ExtraShiftStatus `json:"status"`
	ApprovedWorkHours    *float64         `json:"approvedWorkHours"`
	HoursApprovedByAdmin bool             `json:"hoursApprovedByAdmin"`
	PayrollPaid          bool             `json:"payrollPaid"`
	PayrollPaidAt        *time.Time       `json:"payrollPaidAt"`
	CreatedAt            time.Time        `json:"createdAt"`
}

type ExtraShiftDetail struct {
	ExtraShift
	PersonName string `json:"personName"`
	Phone      string `json:"phone"`
}
