package in

import (
	"context"

	"stillpoint/internal/modules/progress/dto"
	progressin "stillpoint/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) (dto.DashboardOutput, error) {
	return h.usecase.Dashboard(ctx)
}

func (h CLIHandler) CheckIn(ctx context.Context) (dto.StreakOutput, error) {
	return h.usecase.CheckIn(ctx)
}

func (h CLIHandler) Activity(ctx context.Context, days int) ([]dto.DayActivityOutput, error) {
	return h.usecase.RecentActivity(ctx, days)
}

func (h CLIHandler) Today(ctx context.Context, track string) (dto.CycleOutput, error) {
	return h.usecase.CycleToday(ctx, dto.Track(track))
}

func (h CLIHandler) GoTo(ctx context.Context, track string, day int) (dto.CycleOutput, error) {
	return h.usecase.GoToDay(ctx, dto.Track(track), day)
}

func (h CLIHandler) Complete(ctx context.Context, track string, day int) (dto.CycleOutput, error) {
	return h.usecase.CompleteDay(ctx, dto.Track(track), &day)
}

func (h CLIHandler) CompleteToday(ctx context.Context, track string) (dto.CycleOutput, error) {
	return h.usecase.CompleteDay(ctx, dto.Track(track), nil)
}

func (h CLIHandler) Restart(ctx context.Context, track string) (dto.CycleOutput, error) {
	return h.usecase.RestartCycle(ctx, dto.Track(track))
}

func (h CLIHandler) Week(ctx context.Context, day int) (dto.BlockOutput, error) {
	return h.usecase.Block(ctx, dto.TrackTeaching, day, 7)
}

func (h CLIHandler) Month(ctx context.Context, day int) (dto.BlockOutput, error) {
	return h.usecase.MonthBlock(ctx, day)
}

func (h CLIHandler) ViewConcept(ctx context.Context, conceptID, lens string, seconds uint, revisit bool) (dto.ConceptOutput, error) {
	return h.usecase.RecordConceptView(ctx, dto.ConceptViewInput{ConceptID: conceptID, Lens: lens, Seconds: seconds, Revisit: revisit})
}

func (h CLIHandler) TopConcepts(ctx context.Context, limit int) ([]dto.ConceptOutput, error) {
	return h.usecase.TopConcepts(ctx, limit)
}

func (h CLIHandler) LogSession(ctx context.Context, minutes uint, focus int, notes string) (dto.PracticeOutput, error) {
	return h.usecase.RecordSession(ctx, dto.SessionInput{DurationMinutes: minutes, FocusRating: focus, Notes: notes})
}

func (h CLIHandler) Practice(ctx context.Context) (dto.PracticeOutput, error) {
	return h.usecase.Practice(ctx)
}

func (h CLIHandler) SetStage(ctx context.Context, stage int) (dto.PracticeOutput, error) {
	return h.usecase.SetStage(ctx, stage)
}

func (h CLIHandler) Preferences(ctx context.Context) (dto.PreferencesOutput, error) {
	return h.usecase.Preferences(ctx)
}

func (h CLIHandler) UpdatePreferences(ctx context.Context, input dto.PreferencesInput) (dto.PreferencesOutput, error) {
	return h.usecase.UpdatePreferences(ctx, input)
}

func (h CLIHandler) Export(ctx context.Context) ([]byte, error) {
	return h.usecase.Export(ctx)
}

func (h CLIHandler) Wipe(ctx context.Context) error {
	return h.usecase.Wipe(ctx)
}
