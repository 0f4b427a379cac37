package utils

import (
	"errors"
	"strings"
	"time"
)

// ParseFlexibleDate accepts Danish-style dates ("21-12-2025", "21/12/2025",
// "21.12.2025") as well as ISO ("2025-12-21") and returns the ISO form.
// ISO is the only format that is ever stored.
func ParseFlexibleDate(value string) (string, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.ReplaceAll(cleaned, "/", "-")
	cleaned = strings.ReplaceAll(cleaned, ".", "-")

	if cleaned == "" {
		return "", errors.New("date is missing")
	}

	if d, err := time.Parse("02-01-2006", cleaned); err == nil {
		return d.Format("2006-01-02"), nil
	}
	if d, err := time.Parse("2006-01-02", cleaned); err == nil {
		return d.Format("2006-01-02"), nil
	}

	return "", errors.New("date must be DD-MM-YYYY or YYYY-MM-DD")
}

// NormalizePhone strips spaces from a phone number.
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}

// ValidPhone reports whether a normalized phone number looks usable: digits
// only and at least 6 of them.
func ValidPhone(phone string) bool {
	if len(phone) < 6 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
