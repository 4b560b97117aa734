package dto

import "time"

type WriteInput struct {
	// Day defaults to today's curriculum day when nil. Any other value is
	// clamped into the cycle.
	Day *int
	// Year defaults to the current year when zero.
	Year    int
	Content string
}

type EntryOutput struct {
	Day       int
	Year      int
	Date      string
	Content   string
	UpdatedAt time.Time
}

type TodayOutput struct {
	Day           int
	Year          int
	Entry         *EntryOutput
	PreviousYears []EntryOutput
}

type SearchHitOutput struct {
	Day     int
	Year    int
	Date    string
	Snippet string
}

type ExportOutput struct {
	Dir   string
	Paths []string
}
