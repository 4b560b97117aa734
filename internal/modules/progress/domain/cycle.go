package domain

import (
	"sort"

	"cloud.google.com/go/civil"

	"stillpoint/internal/platform/calendar"
)

// Cycle is a fixed-length rotation of days. Day numbers are 1-based.
type Cycle struct {
	Length int
}

var (
	TeachingCycle   = Cycle{Length: 21}
	CurriculumCycle = Cycle{Length: 365}
)

// DayOf maps a calendar date to its position in the cycle started at start.
// Dates before start wrap around instead of going out of range.
func (c Cycle) DayOf(start, today civil.Date) int {
	return calendar.Mod(today.DaysSince(start), c.Length) + 1
}

func (c Cycle) Clamp(day int) int {
	if day < 1 {
		return 1
	}
	if day > c.Length {
		return c.Length
	}
	return day
}

func (c Cycle) NewTracker(today civil.Date) CycleTracker {
	return CycleTracker{
		CurrentDay:     1,
		CycleStartDate: today,
		CompletedDays:  []int{},
	}
}

// Today is the derived position for today, independent of manual navigation.
func (c Cycle) Today(t CycleTracker, today civil.Date) int {
	return c.DayOf(t.CycleStartDate, today)
}

// SyncToday moves the tracker to today's derived day and stamps the view.
func (c Cycle) SyncToday(t CycleTracker, today civil.Date) CycleTracker {
	t.CurrentDay = c.Today(t, today)
	t.LastViewedDate = calendar.Ptr(today)
	return t
}

// GoToDay navigates manually. The cycle start date is left alone, so the
// derived position for today does not move.
func (c Cycle) GoToDay(t CycleTracker, day int) CycleTracker {
	t.CurrentDay = c.Clamp(day)
	return t
}

func (c Cycle) CompleteDay(t CycleTracker, day int) CycleTracker {
	t.CompletedDays = insertDay(t.CompletedDays, c.Clamp(day))
	return t
}

func (c Cycle) Restart(t CycleTracker, today civil.Date) CycleTracker {
	next := c.NewTracker(today)
	next.LastViewedDate = calendar.Ptr(today)
	return next
}

func (t CycleTracker) IsCompleted(day int) bool {
	i := sort.SearchInts(t.CompletedDays, day)
	return i < len(t.CompletedDays) && t.CompletedDays[i] == day
}

// Block is an inclusive range of day numbers.
type Block struct {
	Start int
	End   int
}

func (b Block) Len() int { return b.End - b.Start + 1 }

func (b Block) Contains(day int) bool { return day >= b.Start && day <= b.End }

// Block returns the size-day window of the cycle that contains day. The last
// window is cut short when size does not divide the cycle length.
func (c Cycle) Block(day, size int) Block {
	if size <= 0 || size > c.Length {
		size = c.Length
	}
	day = c.Clamp(day)
	start := ((day-1)/size)*size + 1
	end := start + size - 1
	if end > c.Length {
		end = c.Length
	}
	return Block{Start: start, End: end}
}

var monthLengths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// MonthBlock splits the 365-day curriculum along a non-leap calendar and
// returns the month that holds day, numbered 1..12.
func MonthBlock(day int) (int, Block) {
	day = CurriculumCycle.Clamp(day)
	start := 1
	for i, n := range monthLengths {
		end := start + n - 1
		if day <= end {
			return i + 1, Block{Start: start, End: end}
		}
		start = end + 1
	}
	return 12, Block{Start: 335, End: 365}
}

// CompletedIn counts completed days falling inside b.
func (t CycleTracker) CompletedIn(b Block) int {
	count := 0
	for _, d := range t.CompletedDays {
		if b.Contains(d) {
			count++
		}
	}
	return count
}

func (c Cycle) normalize(t CycleTracker) CycleTracker {
	t.CurrentDay = c.Clamp(t.CurrentDay)
	kept := make([]int, 0, len(t.CompletedDays))
	for _, d := range t.CompletedDays {
		if d >= 1 && d <= c.Length {
			kept = insertDay(kept, d)
		}
	}
	t.CompletedDays = kept
	return t
}

// insertDay adds day to a sorted set, returning a new slice.
func insertDay(days []int, day int) []int {
	i := sort.SearchInts(days, day)
	if i < len(days) && days[i] == day {
		return append([]int(nil), days...)
	}
	out := make([]int, 0, len(days)+1)
	out = append(out, days[:i]...)
	out = append(out, day)
	out = append(out, days[i:]...)
	return out
}
