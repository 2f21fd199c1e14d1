package domain

import (
	"fmt"
	"time"
)

// Date is a civil date in YYYY-MM-DD form, the granularity at which
// habit completion is tracked. It is a plain string so it can be used
// as a map key and marshals without a custom codec.
type Date string

const dateLayout = "2006-01-02"

// Today returns the current date in local time.
func Today() Date {
	return DateOf(time.Now())
}

// DateOf truncates t to its civil date.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(s), nil
}

func (d Date) String() string {
	return string(d)
}
