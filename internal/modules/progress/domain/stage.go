package domain

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
)

const (
	MinStage = 1
	MaxStage = 9
	// MaxEstimatedStage is the ceiling of the automatic estimator. Stage 9
	// is reachable only through SetStage.
	MaxEstimatedStage = 8
)

// StageRule unlocks Stage when all three thresholds are met.
type StageRule struct {
	Stage          int
	CompletionRate float64
	AverageMinutes float64
	DistinctDays   int
}

// StagePolicy is the threshold ladder of the estimator.
type StagePolicy struct {
	MinSessions             int
	MinCompletionRate       float64
	CompletedSessionMinutes uint
	Ladder                  []StageRule
}

func DefaultStagePolicy() StagePolicy {
	return StagePolicy{
		MinSessions:             10,
		MinCompletionRate:       0.5,
		CompletedSessionMinutes: 5,
		Ladder: []StageRule{
			{Stage: 8, CompletionRate: 0.90, AverageMinutes: 60, DistinctDays: 90},
			{Stage: 7, CompletionRate: 0.85, AverageMinutes: 45, DistinctDays: 60},
			{Stage: 6, CompletionRate: 0.80, AverageMinutes: 40, DistinctDays: 45},
			{Stage: 5, CompletionRate: 0.75, AverageMinutes: 30, DistinctDays: 30},
			{Stage: 4, CompletionRate: 0.65, AverageMinutes: 20, DistinctDays: 7},
			{Stage: 3, CompletionRate: 0.60, AverageMinutes: 15, DistinctDays: 5},
			{Stage: 2, CompletionRate: 0.50, AverageMinutes: 10, DistinctDays: 3},
		},
	}
}

// Validate checks that the ladder is a monotonic staircase: every stage is
// unique, within [2, MaxEstimatedStage], and no threshold drops as the stage
// rises.
func (p StagePolicy) Validate() error {
	if p.MinSessions < 0 {
		return fmt.Errorf("min sessions must be non-negative")
	}
	if p.MinCompletionRate < 0 || p.MinCompletionRate > 1 {
		return fmt.Errorf("min completion rate must be within [0,1]")
	}
	rules := p.ascending()
	for i, r := range rules {
		if r.Stage <= MinStage || r.Stage > MaxEstimatedStage {
			return fmt.Errorf("ladder stage %d outside [%d,%d]", r.Stage, MinStage+1, MaxEstimatedStage)
		}
		if r.CompletionRate < 0 || r.CompletionRate > 1 {
			return fmt.Errorf("stage %d completion rate must be within [0,1]", r.Stage)
		}
		if i == 0 {
			continue
		}
		prev := rules[i-1]
		if prev.Stage == r.Stage {
			return fmt.Errorf("stage %d listed twice", r.Stage)
		}
		if r.CompletionRate < prev.CompletionRate || r.AverageMinutes < prev.AverageMinutes || r.DistinctDays < prev.DistinctDays {
			return fmt.Errorf("stage %d thresholds fall below stage %d", r.Stage, prev.Stage)
		}
	}
	return nil
}

func (p StagePolicy) ascending() []StageRule {
	rules := append([]StageRule(nil), p.Ladder...)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Stage < rules[j].Stage })
	return rules
}

// SessionStats summarise a session history for the estimator.
type SessionStats struct {
	TotalSessions  int
	CompletionRate float64
	AverageMinutes float64
	DistinctDays   int
}

// Stats computes estimator inputs; a session counts as completed when it
// lasted at least CompletedSessionMinutes.
func (p StagePolicy) Stats(history []Session) SessionStats {
	if len(history) == 0 {
		return SessionStats{}
	}
	var completed int
	var minutes uint
	days := make(map[civil.Date]struct{}, len(history))
	for _, s := range history {
		if s.DurationMinutes >= p.CompletedSessionMinutes {
			completed++
		}
		minutes += s.DurationMinutes
		days[s.Date] = struct{}{}
	}
	n := float64(len(history))
	return SessionStats{
		TotalSessions:  len(history),
		CompletionRate: float64(completed) / n,
		AverageMinutes: float64(minutes) / n,
		DistinctDays:   len(days),
	}
}

// Estimate walks the ladder from the highest stage down; the first rule
// whose thresholds are all met wins.
func (p StagePolicy) Estimate(stats SessionStats) int {
	if stats.TotalSessions < p.MinSessions || stats.CompletionRate < p.MinCompletionRate {
		return MinStage
	}
	rules := p.ascending()
	for i := len(rules) - 1; i >= 0; i-- {
		r := rules[i]
		if stats.CompletionRate >= r.CompletionRate && stats.AverageMinutes >= r.AverageMinutes && stats.DistinctDays >= r.DistinctDays {
			if r.Stage > MaxEstimatedStage {
				return MaxEstimatedStage
			}
			return r.Stage
		}
	}
	return MinStage
}

// RecordSession appends s, trims the history and ratchets the stage forward.
// The estimate can raise the stage but never lower it.
func (p StagePolicy) RecordSession(t ShamathaTracker, s Session) ShamathaTracker {
	history := make([]Session, 0, len(t.SessionHistory)+1)
	history = append(history, t.SessionHistory...)
	history = append(history, s)
	if len(history) > SessionHistoryLimit {
		history = history[len(history)-SessionHistoryLimit:]
	}
	t.SessionHistory = history
	t.TotalSessions++
	t.TotalMinutes += s.DurationMinutes

	estimated := p.Estimate(p.Stats(history))
	if estimated > t.CurrentStage {
		t.CurrentStage = estimated
	}
	return t
}

// SetStage is the manual override. It clamps to [MinStage, MaxStage] and may
// lower the stage.
func (t ShamathaTracker) SetStage(stage int) ShamathaTracker {
	t.CurrentStage = ClampStage(stage)
	return t
}

func ClampStage(stage int) int {
	if stage < MinStage {
		return MinStage
	}
	if stage > MaxStage {
		return MaxStage
	}
	return stage
}

func (t ShamathaTracker) normalize() ShamathaTracker {
	t.CurrentStage = ClampStage(t.CurrentStage)
	if t.SessionHistory == nil {
		t.SessionHistory = []Session{}
	}
	if len(t.SessionHistory) > SessionHistoryLimit {
		t.SessionHistory = append([]Session(nil), t.SessionHistory[len(t.SessionHistory)-SessionHistoryLimit:]...)
	}
	return t
}
