package staffing

import "errors"

// Availability window types a freelancer can pick when signing up.
const (
	AvailabilityAny   = "any"
	AvailabilityFrom  = "from"
	AvailabilityUntil = "until"
	AvailabilityRange = "range"
)

// NormalizeAvailability validates an availability window against its type and
// returns the from/until values to store (nil means unrestricted). An unknown
// type falls back to unrestricted.
func NormalizeAvailability(availabilityType, from, until string) (*string, *string, error) {
	switch availabilityType {
	case AvailabilityFrom:
		if from == "" {
			return nil, nil, errors.New("pick a time if you cannot work the whole day")
		}
		if _, err := ParseClock(from); err != nil {
			return nil, nil, err
		}
		return &from, nil, nil

	case AvailabilityUntil:
		if until == "" {
			return nil, nil, errors.New("pick a time if you can only work until a certain point")
		}
		if _, err := ParseClock(until); err != nil {
			return nil, nil, err
		}
		return nil, &until, nil

	case AvailabilityRange:
		if from == "" || until == "" {
			return nil, nil, errors.New("pick both a start and an end for a time range")
		}
		start, err := ParseClock(from)
		if err != nil {
			return nil, nil, err
		}
		end, err := ParseClock(until)
		if err != nil {
			return nil, nil, err
		}
		if start >= end {
			return nil, nil, errors.New("end time must be after start time")
		}
		return &from, &until, nil

	default:
		// AvailabilityAny and anything unrecognized
		return nil, nil, nil
	}
}
