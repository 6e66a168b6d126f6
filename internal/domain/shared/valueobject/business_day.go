package valueobject

import (
	"time"

	"github.com/livesale/backend/internal/domain/shared"
)

const businessDayLayout = "2006-01-02"

// ErrInvalidBusinessDay is returned for dates not in YYYY-MM-DD form
var ErrInvalidBusinessDay = shared.NewValidationError("INVALID_BUSINESS_DAY", "Business day must be a YYYY-MM-DD date")

// BusinessDay is a local calendar date used as the order aggregation partition key.
// It is stored as a plain "YYYY-MM-DD" string, never as a timestamp.
type BusinessDay string

// BusinessDayOf returns the calendar date of t in loc
func BusinessDayOf(t time.Time, loc *time.Location) BusinessDay {
	if loc == nil {
		loc = time.Local
	}
	return BusinessDay(t.In(loc).Format(businessDayLayout))
}

// ParseBusinessDay validates a "YYYY-MM-DD" string
func ParseBusinessDay(s string) (BusinessDay, error) {
	if _, err := time.Parse(businessDayLayout, s); err != nil {
		return "", ErrInvalidBusinessDay.Wrap(err)
	}
	return BusinessDay(s), nil
}

// String returns the date string
func (d BusinessDay) String() string {
	return string(d)
}
