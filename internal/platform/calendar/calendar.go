// Package calendar holds date-only helpers shared by the progress and journal
// modules. Dates are civil.Date values: no time of day, no location.
package calendar

import (
	"fmt"

	"cloud.google.com/go/civil"
)

const Layout = "2006-01-02"

// Parse accepts an ISO 8601 full date.
func Parse(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// MustParse is Parse for literals in tests and defaults.
func MustParse(s string) civil.Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsYesterday reports whether d is exactly one calendar day before today.
func IsYesterday(d, today civil.Date) bool {
	return today.DaysSince(d) == 1
}

// Ptr returns a pointer to a copy of d, for optional date fields.
func Ptr(d civil.Date) *civil.Date {
	return &d
}

// Equal compares an optional date against a concrete one.
func Equal(d *civil.Date, other civil.Date) bool {
	return d != nil && *d == other
}

// Mod is the non-negative remainder of a modulo n, for n > 0.
func Mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
