package staffing

import "time"

// Dashboard urgency bands for a shift row.
const (
	UrgencyCovered  = "covered"
	UrgencyCritical = "critical"
	UrgencyWarning  = "warning"
	UrgencyMild     = "mild"
	UrgencyNone     = ""
)

// Urgency classifies a shift row for the admin dashboard. It is a pure
// function of staffing coverage and how close the shift date is. A date that
// does not parse yields UrgencyNone, never an error: display must fail open.
func Urgency(approved, required int, shiftDate string, today time.Time) string {
	if required > 0 && approved >= required {
		return UrgencyCovered
	}

	d, err := time.Parse("2006-01-02", shiftDate)
	if err != nil {
		return UrgencyNone
	}

	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	daysUntil := int(d.Sub(midnight).Hours() / 24)

	if daysUntil < 0 || approved >= required {
		return UrgencyNone
	}

	switch {
	case daysUntil < 3:
		return UrgencyCritical
	case daysUntil < 7:
		return UrgencyWarning
	case daysUntil < 14:
		return UrgencyMild
	default:
		return UrgencyNone
	}
}
