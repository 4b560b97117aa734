package service

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"stillpoint/internal/modules/progress/domain"
	"stillpoint/internal/modules/progress/dto"
	progressout "stillpoint/internal/modules/progress/port/out"
	apperrors "stillpoint/internal/platform/errors"
	"stillpoint/internal/platform/tx"
)

// ProgressService applies domain transforms to the stored document. Every
// mutation reads the whole document, changes it and writes it back.
type ProgressService struct {
	store  progressout.DocumentStore
	policy domain.StagePolicy
	tx     tx.Manager
}

func NewProgressService(store progressout.DocumentStore, policy domain.StagePolicy, txManager tx.Manager) *ProgressService {
	if txManager == nil {
		txManager = tx.NoopManager{}
	}
	return &ProgressService{store: store, policy: policy, tx: txManager}
}

func (s *ProgressService) Policy() domain.StagePolicy {
	return s.policy
}

// Snapshot reads the document without changing it.
func (s *ProgressService) Snapshot(ctx context.Context) domain.Aggregate {
	return s.store.Read(ctx)
}

func (s *ProgressService) mutate(ctx context.Context, fn func(*domain.Aggregate) error) (domain.Aggregate, error) {
	var out domain.Aggregate
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		agg := s.store.Read(ctx)
		if err := fn(&agg); err != nil {
			return err
		}
		s.store.Write(ctx, agg)
		out = agg
		return nil
	})
	return out, err
}

func (s *ProgressService) CheckIn(ctx context.Context, today civil.Date) (domain.Streak, error) {
	agg, err := s.mutate(ctx, func(a *domain.Aggregate) error {
		a.Streak = a.Streak.RecordActivity(today)
		return nil
	})
	return agg.Streak, err
}

// SyncCycle moves the tracker to the day the calendar says it is and marks
// it viewed.
func (s *ProgressService) SyncCycle(ctx context.Context, track dto.Track, today civil.Date) (domain.CycleTracker, error) {
	return s.mutateTrack(ctx, track, func(c domain.Cycle, t domain.CycleTracker) domain.CycleTracker {
		return c.SyncToday(t, today)
	}, nil)
}

func (s *ProgressService) GoToDay(ctx context.Context, track dto.Track, day int) (domain.CycleTracker, error) {
	return s.mutateTrack(ctx, track, func(c domain.Cycle, t domain.CycleTracker) domain.CycleTracker {
		return c.GoToDay(t, day)
	}, nil)
}

// CompleteDay marks day done and counts as activity for today.
func (s *ProgressService) CompleteDay(ctx context.Context, track dto.Track, day int, today civil.Date) (domain.CycleTracker, error) {
	return s.mutateTrack(ctx, track, func(c domain.Cycle, t domain.CycleTracker) domain.CycleTracker {
		return c.CompleteDay(t, day)
	}, &today)
}

// CompleteCurrentDay completes whatever day the tracker is on when the
// mutation runs.
func (s *ProgressService) CompleteCurrentDay(ctx context.Context, track dto.Track, today civil.Date) (domain.CycleTracker, error) {
	return s.mutateTrack(ctx, track, func(c domain.Cycle, t domain.CycleTracker) domain.CycleTracker {
		return c.CompleteDay(t, t.CurrentDay)
	}, &today)
}

func (s *ProgressService) RestartCycle(ctx context.Context, track dto.Track, today civil.Date) (domain.CycleTracker, error) {
	return s.mutateTrack(ctx, track, func(c domain.Cycle, t domain.CycleTracker) domain.CycleTracker {
		return c.Restart(t, today)
	}, nil)
}

func (s *ProgressService) mutateTrack(ctx context.Context, track dto.Track, fn func(domain.Cycle, domain.CycleTracker) domain.CycleTracker, activity *civil.Date) (domain.CycleTracker, error) {
	cycle, err := CycleOf(track)
	if err != nil {
		return domain.CycleTracker{}, err
	}
	agg, err := s.mutate(ctx, func(a *domain.Aggregate) error {
		tracker := trackerOf(a, track)
		*tracker = fn(cycle, *tracker)
		if activity != nil {
			a.Streak = a.Streak.RecordActivity(*activity)
		}
		return nil
	})
	if err != nil {
		return domain.CycleTracker{}, err
	}
	return *trackerOf(&agg, track), nil
}

func (s *ProgressService) RecordConceptView(ctx context.Context, view domain.ConceptView, now time.Time) (domain.ConceptEngagement, error) {
	agg, err := s.mutate(ctx, func(a *domain.Aggregate) error {
		next, err := domain.RecordConceptView(a.ConceptEngagement, view, now)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		a.ConceptEngagement = next
		return nil
	})
	if err != nil {
		return domain.ConceptEngagement{}, err
	}
	return agg.ConceptEngagement[view.ConceptID], nil
}

// RecordSession appends a practice session, lets the estimator ratchet the
// stage and counts the session day as activity. It returns the tracker and
// the stage held before the session.
func (s *ProgressService) RecordSession(ctx context.Context, session domain.Session) (domain.ShamathaTracker, int, error) {
	var previous int
	agg, err := s.mutate(ctx, func(a *domain.Aggregate) error {
		previous = a.Shamatha.CurrentStage
		a.Shamatha = s.policy.RecordSession(a.Shamatha, session)
		a.Streak = a.Streak.RecordActivity(session.Date)
		return nil
	})
	if err != nil {
		return domain.ShamathaTracker{}, 0, err
	}
	return agg.Shamatha, previous, nil
}

func (s *ProgressService) SetStage(ctx context.Context, stage int) (domain.ShamathaTracker, int, error) {
	var previous int
	agg, err := s.mutate(ctx, func(a *domain.Aggregate) error {
		previous = a.Shamatha.CurrentStage
		a.Shamatha = a.Shamatha.SetStage(stage)
		return nil
	})
	if err != nil {
		return domain.ShamathaTracker{}, 0, err
	}
	return agg.Shamatha, previous, nil
}

func (s *ProgressService) UpdatePreferences(ctx context.Context, patch domain.PreferencesPatch) (domain.Preferences, error) {
	agg, err := s.mutate(ctx, func(a *domain.Aggregate) error {
		next, err := a.Preferences.Apply(patch)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		a.Preferences = next
		return nil
	})
	if err != nil {
		return domain.Preferences{}, err
	}
	return agg.Preferences, nil
}

func (s *ProgressService) Wipe(ctx context.Context) error {
	return s.store.Wipe(ctx)
}

// CycleOf maps a track name to its cycle length.
func CycleOf(track dto.Track) (domain.Cycle, error) {
	switch track {
	case dto.TrackTeaching:
		return domain.TeachingCycle, nil
	case dto.TrackCurriculum:
		return domain.CurriculumCycle, nil
	default:
		return domain.Cycle{}, fmt.Errorf("%w: unknown track %q", apperrors.ErrInvalidInput, track)
	}
}

func trackerOf(a *domain.Aggregate, track dto.Track) *domain.CycleTracker {
	if track == dto.TrackCurriculum {
		return &a.Curriculum
	}
	return &a.DailyTeaching
}
