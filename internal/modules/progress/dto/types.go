package dto

import "time"

// Track names one of the two rotating curricula.
type Track string

const (
	TrackTeaching   Track = "teaching"
	TrackCurriculum Track = "curriculum"
)

type StreakOutput struct {
	Current        uint
	Longest        uint
	Status         string
	DaysUntilBreak int
	LastActiveDate string
}

type CycleOutput struct {
	Track          Track
	Length         int
	CurrentDay     int
	CycleStartDate string
	CompletedDays  []int
	CompletedToday bool
	LastViewedDate string
}

type BlockOutput struct {
	Track     Track
	Index     int
	Start     int
	End       int
	Completed int
}

type DayActivityOutput struct {
	Date   string
	Active bool
}

type ConceptViewInput struct {
	ConceptID string
	Lens      string
	Seconds   uint
	// Revisit adds reading time without counting a new view.
	Revisit bool
}

type ConceptOutput struct {
	ID               string
	ViewCount        uint
	TotalTimeSeconds uint
	LensesExplored   []string
	FirstViewed      time.Time
	LastViewed       time.Time
}

type SessionInput struct {
	DurationMinutes uint
	FocusRating     int
	Notes           string
}

type SessionOutput struct {
	Date            string
	DurationMinutes uint
	FocusRating     int
	Notes           string
}

type PracticeOutput struct {
	Stage          int
	PreviousStage  int
	TotalSessions  uint
	TotalMinutes   uint
	CompletionRate float64
	AverageMinutes float64
	DistinctDays   int
	Recent         []SessionOutput
}

type PreferencesOutput struct {
	Theme           string
	TextSize        string
	ShowSanskrit    bool
	ReminderEnabled bool
	ReminderTime    string
	DefaultLens     string
	SessionMinutes  uint
}

// PreferencesInput is a partial update; nil fields are left untouched.
type PreferencesInput struct {
	Theme           *string
	TextSize        *string
	ShowSanskrit    *bool
	ReminderEnabled *bool
	ReminderTime    *string
	DefaultLens     *string
	SessionMinutes  *uint
}

type DashboardOutput struct {
	UserID     string
	Today      string
	Streak     StreakOutput
	Teaching   CycleOutput
	Curriculum CycleOutput
	Month      BlockOutput
	Practice   PracticeOutput
	Week       []DayActivityOutput
}
