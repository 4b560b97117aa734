package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// CycleLength is the rotation the journal is keyed on: entries line up with
// the 365-day curriculum.
const CycleLength = 365

// Entry is the text written for one day of the cycle in one calendar year.
type Entry struct {
	Day       int        `json:"day"`
	Date      civil.Date `json:"date"`
	Year      int        `json:"year"`
	Content   string     `json:"content"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type Key struct {
	Day  int
	Year int
}

func (e Entry) Key() Key {
	return Key{Day: e.Day, Year: e.Year}
}

// ClampDay pins day into 1..CycleLength, the same rule the curriculum
// cycle applies to navigation.
func ClampDay(day int) int {
	return min(max(day, 1), CycleLength)
}

// Blank reports whether the entry has no text worth keeping. Saving a blank
// entry clears it.
func (e Entry) Blank() bool {
	return strings.TrimSpace(e.Content) == ""
}

func (e Entry) Validate() error {
	if e.Day < 1 || e.Day > CycleLength {
		return fmt.Errorf("day %d outside 1..%d", e.Day, CycleLength)
	}
	if e.Year <= 0 {
		return fmt.Errorf("year is required")
	}
	return nil
}

// Archive holds at most one entry per (day, year), in insertion order.
type Archive []Entry

func (a Archive) index(k Key) int {
	for i, e := range a {
		if e.Key() == k {
			return i
		}
	}
	return -1
}

func (a Archive) Get(day, year int) (Entry, bool) {
	i := a.index(Key{Day: day, Year: year})
	if i < 0 {
		return Entry{}, false
	}
	return a[i], true
}

// Save overwrites the entry with the same key in place or appends a new one,
// stamping UpdatedAt with now.
func (a Archive) Save(e Entry, now time.Time) Archive {
	e.UpdatedAt = now
	out := make(Archive, len(a), len(a)+1)
	copy(out, a)
	if i := out.index(e.Key()); i >= 0 {
		out[i] = e
		return out
	}
	return append(out, e)
}

func (a Archive) Delete(day, year int) (Archive, bool) {
	i := a.index(Key{Day: day, Year: year})
	if i < 0 {
		return a, false
	}
	out := make(Archive, 0, len(a)-1)
	out = append(out, a[:i]...)
	out = append(out, a[i+1:]...)
	return out, true
}

// History lists every year's entry for day, most recent year first.
func (a Archive) History(day int) []Entry {
	out := make([]Entry, 0)
	for _, e := range a {
		if e.Day == day {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

func (a Archive) PreviousYears(day, currentYear int) []Entry {
	history := a.History(day)
	out := history[:0]
	for _, e := range history {
		if e.Year != currentYear {
			out = append(out, e)
		}
	}
	return out
}

// Dedupe keeps the last stored entry for each key. Stored archives written by
// Save never hold duplicates; hand-edited ones may.
func (a Archive) Dedupe() Archive {
	last := make(map[Key]int, len(a))
	for i, e := range a {
		last[e.Key()] = i
	}
	if len(last) == len(a) {
		return a
	}
	out := make(Archive, 0, len(last))
	for i, e := range a {
		if last[e.Key()] == i {
			out = append(out, e)
		}
	}
	return out
}

// Sorted returns a copy ordered by year then day, the order notes are
// exported in.
func (a Archive) Sorted() []Entry {
	out := make([]Entry, len(a))
	copy(out, a)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Day < out[j].Day
	})
	return out
}
