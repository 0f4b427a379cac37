package domain

import "time"

// ShiftState is the three-state lifecycle flag of a shift.
type ShiftState int

const (
	ShiftActive   ShiftState = 1
	ShiftArchived ShiftState = 0
	ShiftHistoric ShiftState = -1
)

func ValidShiftState(s int) bool {
	return s == int(ShiftActive) || s == int(ShiftArchived) || s == int(ShiftHistoric)
}

type Shift struct {
	ID            int64      `json:"id"`
	Date          string     `json:"date"`      // ISO YYYY-MM-DD
	StartTime     string     `json:"startTime"` // HH:MM
	Location      string     `json:"location"`
	Description   string     `json:"description"`
	Customer      *string    `json:"customer"`
	EventType     *string    `json:"eventType"`
	GuestCount    *int32     `json:"guestCount"`
	RequiredStaff int32      `json:"requiredStaff"`
	AdminNote     *string    `json:"adminNote"`
	State         ShiftState `json:"state"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ShiftWithCounts carries a shift together with signup counts computed fresh
// from the ledger. Counts are never persisted.
type ShiftWithCounts struct {
	Shift
	ApprovedCount         int `json:"approvedCount"`
	RequestedCount        int `json:"requestedCount"`
	ReleaseRequestedCount int `json:"releaseRequestedCount"`
	PendingCount          int `json:"pendingCount"`

	Urgency string `json:"urgency,omitempty"`
}
