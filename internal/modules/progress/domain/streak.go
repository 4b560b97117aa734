package domain

import (
	"slices"
	"sort"

	"cloud.google.com/go/civil"

	"stillpoint/internal/platform/calendar"
)

type StreakStatus string

const (
	StreakActive StreakStatus = "active"
	StreakAtRisk StreakStatus = "at-risk"
	StreakBroken StreakStatus = "broken"
)

// RecordActivity marks today as active. Calling it again on the same day
// returns the streak unchanged.
func (s Streak) RecordActivity(today civil.Date) Streak {
	if calendar.Equal(s.LastActiveDate, today) {
		return s
	}
	next := s
	if s.LastActiveDate != nil && calendar.IsYesterday(*s.LastActiveDate, today) {
		next.Current = s.Current + 1
	} else {
		next.Current = 1
	}
	if next.Current > next.Longest {
		next.Longest = next.Current
	}
	next.LastActiveDate = calendar.Ptr(today)
	next.History = appendHistory(s.History, today)
	return next
}

// Status uses the same branch conditions as RecordActivity.
func (s Streak) Status(today civil.Date) StreakStatus {
	switch {
	case calendar.Equal(s.LastActiveDate, today):
		return StreakActive
	case s.LastActiveDate != nil && calendar.IsYesterday(*s.LastActiveDate, today):
		return StreakAtRisk
	default:
		return StreakBroken
	}
}

// DaysUntilBreak is 2 when today is already recorded, 1 when the streak must
// be extended today, 0 once it is broken.
func (s Streak) DaysUntilBreak(today civil.Date) int {
	switch s.Status(today) {
	case StreakActive:
		return 2
	case StreakAtRisk:
		return 1
	default:
		return 0
	}
}

// EffectiveCurrent is the streak length as it stands today: a broken streak
// reads as zero even though Current keeps its last value until the next
// recorded activity.
func (s Streak) EffectiveCurrent(today civil.Date) uint {
	if s.Status(today) == StreakBroken {
		return 0
	}
	return s.Current
}

func (s Streak) normalize() Streak {
	if s.Longest < s.Current {
		s.Longest = s.Current
	}
	if s.LastActiveDate != nil {
		s.History = appendHistory(s.History, *s.LastActiveDate)
	} else {
		s.History = appendHistory(s.History)
	}
	return s
}

// appendHistory returns a new sorted, de-duplicated slice of history plus
// extra, capped at StreakHistoryLimit. Dates in extra always survive the cap
// so a day recorded after the clock moved backwards still shows as active;
// the remaining room goes to the newest history dates.
func appendHistory(history []civil.Date, extra ...civil.Date) []civil.Date {
	pinned := make(map[civil.Date]struct{}, len(extra))
	for _, d := range extra {
		if d.IsValid() {
			pinned[d] = struct{}{}
		}
	}
	seen := make(map[civil.Date]struct{}, len(history)+len(extra))
	out := make([]civil.Date, 0, len(history)+len(extra))
	for _, d := range append(append([]civil.Date{}, history...), extra...) {
		if !d.IsValid() {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	if len(out) <= StreakHistoryLimit {
		return out
	}
	room := StreakHistoryLimit - min(len(pinned), StreakHistoryLimit)
	kept := make([]civil.Date, 0, StreakHistoryLimit)
	for i := len(out) - 1; i >= 0; i-- {
		if _, ok := pinned[out[i]]; ok {
			kept = append(kept, out[i])
			continue
		}
		if room > 0 {
			kept = append(kept, out[i])
			room--
		}
	}
	slices.Reverse(kept)
	return kept
}

type DayActivity struct {
	Date   civil.Date
	Active bool
}

// RecentActivity lists the last days calendar dates ending today, oldest
// first, flagging those present in history.
func RecentActivity(history []civil.Date, days int, today civil.Date) []DayActivity {
	if days <= 0 {
		return []DayActivity{}
	}
	active := make(map[civil.Date]struct{}, len(history))
	for _, d := range history {
		active[d] = struct{}{}
	}
	out := make([]DayActivity, 0, days)
	for offset := days - 1; offset >= 0; offset-- {
		d := today.AddDays(-offset)
		_, ok := active[d]
		out = append(out, DayActivity{Date: d, Active: ok})
	}
	return out
}
