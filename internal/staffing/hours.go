package staffing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseClock returns minutes since midnight for a "HH:MM" string.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("time %q must be in HH:MM format", value)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("time %q must be in HH:MM format", value)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("time %q must be in HH:MM format", value)
	}

	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q is out of range", value)
	}

	return h*60 + m, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WorkedHours computes the duration between two clock times in hours, rounded
// to 2 decimals. A negative delta means the shift crossed midnight, so a full
// day is added before rounding.
func WorkedHours(workStart, workEnd string) (float64, error) {
	start, err := ParseClock(workStart)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(workEnd)
	if err != nil {
		return 0, err
	}

	delta := end - start
	if delta < 0 {
		delta += minutesPerDay
	}

	return round2(float64(delta) / 60.0), nil
}

// ExtraShiftHours computes the hours of an ad-hoc extra shift. Unlike
// WorkedHours there is no midnight rollover: the end must be strictly after
// the start, and the result must land in (0, 24].
func ExtraShiftHours(workStart, workEnd string) (float64, error) {
	start, err := ParseClock(workStart)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(workEnd)
	if err != nil {
		return 0, err
	}

	if end <= start {
		return 0, errors.New("end time must be after start time")
	}

	hours := round2(float64(end-start) / 60.0)
	if hours <= 0 || hours > 24 {
		return 0, errors.New("worked hours look wrong")
	}

	return hours, nil
}

// ValidApprovedHours bounds-checks an admin-approved hour value.
func ValidApprovedHours(hours float64) bool {
	return hours >= 0 && hours <= 24
}

// ResolveHours is the single place that decides which hour value counts for
// payroll and totals: the admin-approved value wins once approval has
// happened, otherwise the raw logged value, otherwise zero. Every view that
// sums hours must go through this function.
func ResolveHours(workHours *float64, approvedWorkHours *float64, approvedByAdmin bool) float64 {
	if approvedByAdmin && approvedWorkHours != nil {
		return *approvedWorkHours
	}
	if workHours != nil {
		return *workHours
	}
	return 0
}
