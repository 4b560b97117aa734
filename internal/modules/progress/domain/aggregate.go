package domain

import (
	"cloud.google.com/go/civil"
)

// SchemaVersion is the document version this build writes.
const SchemaVersion = 2

const (
	StreakHistoryLimit  = 30
	SessionHistoryLimit = 100
)

// Aggregate is the single persisted progress document for the local user.
type Aggregate struct {
	Version           int                          `json:"version"`
	UserID            string                       `json:"userId"`
	Streak            Streak                       `json:"streak"`
	DailyTeaching     CycleTracker                 `json:"dailyTeaching"`
	Curriculum        CycleTracker                 `json:"curriculum"`
	ConceptEngagement map[string]ConceptEngagement `json:"conceptEngagement"`
	Shamatha          ShamathaTracker              `json:"shamatha"`
	Preferences       Preferences                  `json:"preferences"`
}

type Streak struct {
	Current        uint         `json:"current"`
	Longest        uint         `json:"longest"`
	LastActiveDate *civil.Date  `json:"lastActiveDate,omitempty"`
	History        []civil.Date `json:"history"`
}

// CycleTracker is the position within one rotating curriculum.
type CycleTracker struct {
	CurrentDay     int         `json:"currentDay"`
	CycleStartDate civil.Date  `json:"cycleStartDate"`
	CompletedDays  []int       `json:"completedDays"`
	LastViewedDate *civil.Date `json:"lastViewedDate,omitempty"`
}

// ShamathaTracker follows meditation practice and the estimated stage.
type ShamathaTracker struct {
	CurrentStage   int       `json:"currentStage"`
	TotalSessions  uint      `json:"totalSessions"`
	TotalMinutes   uint      `json:"totalMinutes"`
	SessionHistory []Session `json:"sessionHistory"`
}

type Session struct {
	Date            civil.Date `json:"date"`
	DurationMinutes uint       `json:"durationMinutes"`
	FocusRating     int        `json:"focusRating"`
	Notes           string     `json:"notes,omitempty"`
}

// NewAggregate builds the document handed out on first use.
func NewAggregate(userID string, today civil.Date) Aggregate {
	return Aggregate{
		Version:           SchemaVersion,
		UserID:            userID,
		Streak:            Streak{History: []civil.Date{}},
		DailyTeaching:     TeachingCycle.NewTracker(today),
		Curriculum:        CurriculumCycle.NewTracker(today),
		ConceptEngagement: map[string]ConceptEngagement{},
		Shamatha: ShamathaTracker{
			CurrentStage:   MinStage,
			SessionHistory: []Session{},
		},
		Preferences: DefaultPreferences(),
	}
}

// Normalize repairs invariants a hand-edited or migrated document may break.
// It never invents progress: out-of-range completions are dropped, not
// clamped.
func (a Aggregate) Normalize() Aggregate {
	if a.ConceptEngagement == nil {
		a.ConceptEngagement = map[string]ConceptEngagement{}
	}
	a.Streak = a.Streak.normalize()
	a.DailyTeaching = TeachingCycle.normalize(a.DailyTeaching)
	a.Curriculum = CurriculumCycle.normalize(a.Curriculum)
	a.Shamatha = a.Shamatha.normalize()
	a.Preferences = a.Preferences.normalize()
	return a
}
