package usecase

import (
	"cloud.google.com/go/civil"

	"stillpoint/internal/modules/progress/domain"
	"stillpoint/internal/modules/progress/dto"
)

func dateString(d *civil.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func toStreakOutput(s domain.Streak, today civil.Date) dto.StreakOutput {
	return dto.StreakOutput{
		Current:        s.EffectiveCurrent(today),
		Longest:        s.Longest,
		Status:         string(s.Status(today)),
		DaysUntilBreak: s.DaysUntilBreak(today),
		LastActiveDate: dateString(s.LastActiveDate),
	}
}

func toCycleOutput(track dto.Track, c domain.Cycle, t domain.CycleTracker) dto.CycleOutput {
	completed := make([]int, len(t.CompletedDays))
	copy(completed, t.CompletedDays)
	return dto.CycleOutput{
		Track:          track,
		Length:         c.Length,
		CurrentDay:     t.CurrentDay,
		CycleStartDate: t.CycleStartDate.String(),
		CompletedDays:  completed,
		CompletedToday: t.IsCompleted(t.CurrentDay),
		LastViewedDate: dateString(t.LastViewedDate),
	}
}

func toBlockOutput(track dto.Track, index int, b domain.Block, t domain.CycleTracker) dto.BlockOutput {
	return dto.BlockOutput{
		Track:     track,
		Index:     index,
		Start:     b.Start,
		End:       b.End,
		Completed: t.CompletedIn(b),
	}
}

func toActivityOutput(days []domain.DayActivity) []dto.DayActivityOutput {
	out := make([]dto.DayActivityOutput, 0, len(days))
	for _, d := range days {
		out = append(out, dto.DayActivityOutput{Date: d.Date.String(), Active: d.Active})
	}
	return out
}

func toConceptOutput(c domain.ConceptSummary) dto.ConceptOutput {
	lenses := make([]string, len(c.LensesExplored))
	copy(lenses, c.LensesExplored)
	return dto.ConceptOutput{
		ID:               c.ID,
		ViewCount:        c.ViewCount,
		TotalTimeSeconds: c.TotalTimeSeconds,
		LensesExplored:   lenses,
		FirstViewed:      c.FirstViewed,
		LastViewed:       c.LastViewed,
	}
}

func (i *Interactor) toPracticeOutput(t domain.ShamathaTracker, previous int) dto.PracticeOutput {
	stats := i.svc.Policy().Stats(t.SessionHistory)
	recent := make([]dto.SessionOutput, 0, recentSessions)
	for j := len(t.SessionHistory) - 1; j >= 0 && len(recent) < recentSessions; j-- {
		s := t.SessionHistory[j]
		recent = append(recent, dto.SessionOutput{
			Date:            s.Date.String(),
			DurationMinutes: s.DurationMinutes,
			FocusRating:     s.FocusRating,
			Notes:           s.Notes,
		})
	}
	return dto.PracticeOutput{
		Stage:          t.CurrentStage,
		PreviousStage:  previous,
		TotalSessions:  t.TotalSessions,
		TotalMinutes:   t.TotalMinutes,
		CompletionRate: stats.CompletionRate,
		AverageMinutes: stats.AverageMinutes,
		DistinctDays:   stats.DistinctDays,
		Recent:         recent,
	}
}

func toPreferencesOutput(p domain.Preferences) dto.PreferencesOutput {
	return dto.PreferencesOutput{
		Theme:           string(p.Theme),
		TextSize:        string(p.TextSize),
		ShowSanskrit:    p.ShowSanskrit,
		ReminderEnabled: p.ReminderEnabled,
		ReminderTime:    p.ReminderTime,
		DefaultLens:     p.DefaultLens,
		SessionMinutes:  p.SessionMinutes,
	}
}
