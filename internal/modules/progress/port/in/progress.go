package in

import (
	"context"

	"stillpoint/internal/modules/progress/dto"
)

type Usecase interface {
	Dashboard(ctx context.Context) (dto.DashboardOutput, error)
	CheckIn(ctx context.Context) (dto.StreakOutput, error)
	Streak(ctx context.Context) (dto.StreakOutput, error)
	RecentActivity(ctx context.Context, days int) ([]dto.DayActivityOutput, error)

	CycleToday(ctx context.Context, track dto.Track) (dto.CycleOutput, error)
	GoToDay(ctx context.Context, track dto.Track, day int) (dto.CycleOutput, error)
	CompleteDay(ctx context.Context, track dto.Track, day *int) (dto.CycleOutput, error)
	RestartCycle(ctx context.Context, track dto.Track) (dto.CycleOutput, error)
	Block(ctx context.Context, track dto.Track, day, size int) (dto.BlockOutput, error)
	MonthBlock(ctx context.Context, day int) (dto.BlockOutput, error)

	RecordConceptView(ctx context.Context, input dto.ConceptViewInput) (dto.ConceptOutput, error)
	TopConcepts(ctx context.Context, limit int) ([]dto.ConceptOutput, error)

	RecordSession(ctx context.Context, input dto.SessionInput) (dto.PracticeOutput, error)
	Practice(ctx context.Context) (dto.PracticeOutput, error)
	SetStage(ctx context.Context, stage int) (dto.PracticeOutput, error)

	Preferences(ctx context.Context) (dto.PreferencesOutput, error)
	UpdatePreferences(ctx context.Context, input dto.PreferencesInput) (dto.PreferencesOutput, error)

	Export(ctx context.Context) ([]byte, error)
	Wipe(ctx context.Context) error
}
