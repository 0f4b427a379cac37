package staffing

import "time"

// Period is a closed date range used by the history views.
type Period struct {
	From time.Time
	To   time.Time
}

// ClampPeriod normalizes a user-supplied from/to range: a missing side falls
// back to earliest/today, the end is clamped so the range never reaches into
// the future, and an inverted range is swapped instead of rejected.
func ClampPeriod(from, to *time.Time, earliest, today time.Time) Period {
	p := Period{From: earliest, To: today}
	if from != nil {
		p.From = *from
	}
	if to != nil {
		p.To = *to
	}

	if p.To.After(today) {
		p.To = today
	}
	if p.From.After(p.To) {
		p.From, p.To = p.To, p.From
	}

	return p
}

// Contains reports whether d falls inside the period (inclusive on both ends).
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.From) && !d.After(p.To)
}

// MonthOf extracts (year, month) from an ISO date string. Unparsable dates
// group under (0, 0) rather than failing.
func MonthOf(isoDate string) (int, int) {
	d, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return 0, 0
	}
	return d.Year(), int(d.Month())
}
