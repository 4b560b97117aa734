package clock

import (
	"time"

	"cloud.google.com/go/civil"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// Local reports wall-clock time in the given location. Calendar-day math
// (streaks, cycle position) follows the user's local midnight, not UTC.
type Local struct {
	Location *time.Location
}

func (l Local) Now() time.Time {
	if l.Location == nil {
		return time.Now()
	}
	return time.Now().In(l.Location)
}

// Today returns the calendar date of c.Now() in the clock's own location.
func Today(c Clock) civil.Date {
	return civil.DateOf(c.Now())
}
