package domain

import "time"

type SignupStatus string

const (
	StatusRequested        SignupStatus = "REQUESTED"
	StatusApproved         SignupStatus = "APPROVED"
	StatusReleaseRequested SignupStatus = "RELEASE_REQUESTED"
	// StatusCancelledByAdmin is never written by any current operation, but
	// old rows may still carry it, so every read path has to filter it out.
	StatusCancelledByAdmin SignupStatus = "CANCELLED_BY_ADMIN"
)

type Signup struct {
	ID                   int64        `json:"id"`
	PersonID             int64        `json:"personID"`
	ShiftID              int64        `json:"shiftID"`
	Status               SignupStatus `json:"status"`
	AvailableFrom        *string      `json:"availableFrom"`
	AvailableUntil       *string      `json:"availableUntil"`
	FreelancerNote       *string      `json:"freelancerNote"`
	MeetTime             *string      `json:"meetTime"`
	WorkStart            *string      `json:"workStart"`
	WorkEnd              *string      `json:"workEnd"`
	WorkHours            *float64     `json:"workHours"`
	ApprovedWorkHours    *float64     `json:"approvedWorkHours"`
	HoursApprovedByAdmin bool         `json:"hoursApprovedByAdmin"`
	PayrollPaid          bool         `json:"payrollPaid"`
	PayrollPaidAt        *time.Time   `json:"payrollPaidAt"`
	CreatedAt            time.Time    `json:"createdAt"`
}

// SignupDetail joins a signup with the person who made it.
type SignupDetail struct {
	Signup
	PersonName string `json:"personName"`
	Phone      string `json:"phone"`
}

// SignupWithShift joins a signup with the shift it belongs to. Used for the
// freelancer-facing views.
type SignupWithShift struct {
	Signup
	Shift Shift `json:"shift"`
}
