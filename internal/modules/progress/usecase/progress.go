package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"stillpoint/internal/modules/progress/domain"
	"stillpoint/internal/modules/progress/dto"
	progressin "stillpoint/internal/modules/progress/port/in"
	"stillpoint/internal/modules/progress/service"
	"stillpoint/internal/platform/clock"
	apperrors "stillpoint/internal/platform/errors"
)

const (
	weekDays       = 7
	recentSessions = 5
	minFocus       = 1
	maxFocus       = 5
)

type Interactor struct {
	svc   *service.ProgressService
	clock clock.Clock
}

func NewInteractor(svc *service.ProgressService, clk clock.Clock) progressin.Usecase {
	return &Interactor{svc: svc, clock: clk}
}

func (i *Interactor) Dashboard(ctx context.Context) (dto.DashboardOutput, error) {
	today := clock.Today(i.clock)
	agg := i.svc.Snapshot(ctx)

	teaching := toCycleOutput(dto.TrackTeaching, domain.TeachingCycle, agg.DailyTeaching)
	teaching.CurrentDay = domain.TeachingCycle.Today(agg.DailyTeaching, today)
	teaching.CompletedToday = agg.DailyTeaching.IsCompleted(teaching.CurrentDay)
	curriculum := toCycleOutput(dto.TrackCurriculum, domain.CurriculumCycle, agg.Curriculum)
	curriculum.CurrentDay = domain.CurriculumCycle.Today(agg.Curriculum, today)
	curriculum.CompletedToday = agg.Curriculum.IsCompleted(curriculum.CurrentDay)

	month, block := domain.MonthBlock(curriculum.CurrentDay)
	return dto.DashboardOutput{
		UserID:     agg.UserID,
		Today:      today.String(),
		Streak:     toStreakOutput(agg.Streak, today),
		Teaching:   teaching,
		Curriculum: curriculum,
		Month:      toBlockOutput(dto.TrackCurriculum, month, block, agg.Curriculum),
		Practice:   i.toPracticeOutput(agg.Shamatha, agg.Shamatha.CurrentStage),
		Week:       toActivityOutput(domain.RecentActivity(agg.Streak.History, weekDays, today)),
	}, nil
}

func (i *Interactor) CheckIn(ctx context.Context) (dto.StreakOutput, error) {
	today := clock.Today(i.clock)
	streak, err := i.svc.CheckIn(ctx, today)
	if err != nil {
		return dto.StreakOutput{}, err
	}
	return toStreakOutput(streak, today), nil
}

func (i *Interactor) Streak(ctx context.Context) (dto.StreakOutput, error) {
	today := clock.Today(i.clock)
	return toStreakOutput(i.svc.Snapshot(ctx).Streak, today), nil
}

func (i *Interactor) RecentActivity(ctx context.Context, days int) ([]dto.DayActivityOutput, error) {
	if days <= 0 {
		days = weekDays
	}
	if days > domain.StreakHistoryLimit {
		days = domain.StreakHistoryLimit
	}
	today := clock.Today(i.clock)
	return toActivityOutput(domain.RecentActivity(i.svc.Snapshot(ctx).Streak.History, days, today)), nil
}

func (i *Interactor) CycleToday(ctx context.Context, track dto.Track) (dto.CycleOutput, error) {
	cycle, err := service.CycleOf(track)
	if err != nil {
		return dto.CycleOutput{}, err
	}
	tracker, err := i.svc.SyncCycle(ctx, track, clock.Today(i.clock))
	if err != nil {
		return dto.CycleOutput{}, err
	}
	return toCycleOutput(track, cycle, tracker), nil
}

func (i *Interactor) GoToDay(ctx context.Context, track dto.Track, day int) (dto.CycleOutput, error) {
	cycle, err := service.CycleOf(track)
	if err != nil {
		return dto.CycleOutput{}, err
	}
	tracker, err := i.svc.GoToDay(ctx, track, day)
	if err != nil {
		return dto.CycleOutput{}, err
	}
	return toCycleOutput(track, cycle, tracker), nil
}

// CompleteDay marks day done; nil means the tracker's current day. Explicit
// days are clamped into the cycle.
func (i *Interactor) CompleteDay(ctx context.Context, track dto.Track, day *int) (dto.CycleOutput, error) {
	cycle, err := service.CycleOf(track)
	if err != nil {
		return dto.CycleOutput{}, err
	}
	var tracker domain.CycleTracker
	if day == nil {
		tracker, err = i.svc.CompleteCurrentDay(ctx, track, clock.Today(i.clock))
	} else {
		tracker, err = i.svc.CompleteDay(ctx, track, *day, clock.Today(i.clock))
	}
	if err != nil {
		return dto.CycleOutput{}, err
	}
	return toCycleOutput(track, cycle, tracker), nil
}

func (i *Interactor) RestartCycle(ctx context.Context, track dto.Track) (dto.CycleOutput, error) {
	cycle, err := service.CycleOf(track)
	if err != nil {
		return dto.CycleOutput{}, err
	}
	tracker, err := i.svc.RestartCycle(ctx, track, clock.Today(i.clock))
	if err != nil {
		return dto.CycleOutput{}, err
	}
	return toCycleOutput(track, cycle, tracker), nil
}

// Block returns the size-day window holding day; zero means the current day.
func (i *Interactor) Block(ctx context.Context, track dto.Track, day, size int) (dto.BlockOutput, error) {
	cycle, err := service.CycleOf(track)
	if err != nil {
		return dto.BlockOutput{}, err
	}
	tracker := trackerFor(i.svc.Snapshot(ctx), track)
	if day == 0 {
		day = tracker.CurrentDay
	}
	b := cycle.Block(day, size)
	index := 1
	if size > 0 && size <= cycle.Length {
		index = (b.Start-1)/size + 1
	}
	return toBlockOutput(track, index, b, tracker), nil
}

func (i *Interactor) MonthBlock(ctx context.Context, day int) (dto.BlockOutput, error) {
	tracker := i.svc.Snapshot(ctx).Curriculum
	if day == 0 {
		day = tracker.CurrentDay
	}
	month, b := domain.MonthBlock(day)
	return toBlockOutput(dto.TrackCurriculum, month, b, tracker), nil
}

func (i *Interactor) RecordConceptView(ctx context.Context, input dto.ConceptViewInput) (dto.ConceptOutput, error) {
	id := strings.TrimSpace(input.ConceptID)
	if id == "" {
		return dto.ConceptOutput{}, fmt.Errorf("%w: concept id is required", apperrors.ErrInvalidInput)
	}
	view := domain.ConceptView{ConceptID: id, Lens: input.Lens, Seconds: input.Seconds, CountView: !input.Revisit}
	engagement, err := i.svc.RecordConceptView(ctx, view, i.clock.Now().UTC())
	if err != nil {
		return dto.ConceptOutput{}, err
	}
	return toConceptOutput(domain.ConceptSummary{ID: id, ConceptEngagement: engagement}), nil
}

func (i *Interactor) TopConcepts(ctx context.Context, limit int) ([]dto.ConceptOutput, error) {
	top := domain.TopConcepts(i.svc.Snapshot(ctx).ConceptEngagement, limit)
	out := make([]dto.ConceptOutput, 0, len(top))
	for _, c := range top {
		out = append(out, toConceptOutput(c))
	}
	return out, nil
}

func (i *Interactor) RecordSession(ctx context.Context, input dto.SessionInput) (dto.PracticeOutput, error) {
	if input.DurationMinutes == 0 {
		return dto.PracticeOutput{}, fmt.Errorf("%w: duration must be positive", apperrors.ErrInvalidInput)
	}
	if input.FocusRating < minFocus || input.FocusRating > maxFocus {
		return dto.PracticeOutput{}, fmt.Errorf("%w: focus rating must be within %d..%d", apperrors.ErrInvalidInput, minFocus, maxFocus)
	}
	session := domain.Session{
		Date:            clock.Today(i.clock),
		DurationMinutes: input.DurationMinutes,
		FocusRating:     input.FocusRating,
		Notes:           strings.TrimSpace(input.Notes),
	}
	tracker, previous, err := i.svc.RecordSession(ctx, session)
	if err != nil {
		return dto.PracticeOutput{}, err
	}
	return i.toPracticeOutput(tracker, previous), nil
}

func (i *Interactor) Practice(ctx context.Context) (dto.PracticeOutput, error) {
	tracker := i.svc.Snapshot(ctx).Shamatha
	return i.toPracticeOutput(tracker, tracker.CurrentStage), nil
}

func (i *Interactor) SetStage(ctx context.Context, stage int) (dto.PracticeOutput, error) {
	tracker, previous, err := i.svc.SetStage(ctx, stage)
	if err != nil {
		return dto.PracticeOutput{}, err
	}
	return i.toPracticeOutput(tracker, previous), nil
}

func (i *Interactor) Preferences(ctx context.Context) (dto.PreferencesOutput, error) {
	return toPreferencesOutput(i.svc.Snapshot(ctx).Preferences), nil
}

func (i *Interactor) UpdatePreferences(ctx context.Context, input dto.PreferencesInput) (dto.PreferencesOutput, error) {
	patch := domain.PreferencesPatch{
		ShowSanskrit:    input.ShowSanskrit,
		ReminderEnabled: input.ReminderEnabled,
		ReminderTime:    input.ReminderTime,
		DefaultLens:     input.DefaultLens,
		SessionMinutes:  input.SessionMinutes,
	}
	if input.Theme != nil {
		theme := domain.Theme(*input.Theme)
		patch.Theme = &theme
	}
	if input.TextSize != nil {
		size := domain.TextSize(*input.TextSize)
		patch.TextSize = &size
	}
	prefs, err := i.svc.UpdatePreferences(ctx, patch)
	if err != nil {
		return dto.PreferencesOutput{}, err
	}
	return toPreferencesOutput(prefs), nil
}

// Export renders the whole document as indented JSON.
func (i *Interactor) Export(ctx context.Context) ([]byte, error) {
	raw, err := json.MarshalIndent(i.svc.Snapshot(ctx), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return append(raw, '\n'), nil
}

func (i *Interactor) Wipe(ctx context.Context) error {
	return i.svc.Wipe(ctx)
}

func trackerFor(agg domain.Aggregate, track dto.Track) domain.CycleTracker {
	if track == dto.TrackCurriculum {
		return agg.Curriculum
	}
	return agg.DailyTeaching
}
