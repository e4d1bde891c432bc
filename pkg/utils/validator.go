package utils

import (
	"fmt"
	"regexp"
	"time"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateBookingWindow checks that both ends lie in the future and start < end
func ValidateBookingWindow(start, end, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("start and end are required")
	}
	if !start.After(now) {
		return fmt.Errorf("start must be in the future: %s", start.Format(time.RFC3339))
	}
	if !end.After(now) {
		return fmt.Errorf("end must be in the future: %s", end.Format(time.RFC3339))
	}
	if !start.Before(end) {
		return fmt.Errorf("start %s must be before end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

// ValidatePage checks an offset page request: from >= 0, size >= 1
func ValidatePage(from int64, size int) error {
	if from < 0 {
		return fmt.Errorf("from must not be negative: %d", from)
	}
	if size < 1 {
		return fmt.Errorf("size must be positive: %d", size)
	}
	return nil
}

// SanitizeString removes control characters
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
