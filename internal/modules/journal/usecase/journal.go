package usecase

import (
	"context"
	"fmt"

	"stillpoint/internal/modules/journal/domain"
	"stillpoint/internal/modules/journal/dto"
	journalin "stillpoint/internal/modules/journal/port/in"
	"stillpoint/internal/modules/journal/service"
	progressin "stillpoint/internal/modules/progress/port/in"
	"stillpoint/internal/platform/clock"
)

type Interactor struct {
	svc       *service.JournalService
	progress  progressin.Usecase
	clock     clock.Clock
	exportDir string
}

func NewInteractor(svc *service.JournalService, progress progressin.Usecase, clk clock.Clock, exportDir string) journalin.Usecase {
	return &Interactor{svc: svc, progress: progress, clock: clk, exportDir: exportDir}
}

// currentDay is today's position in the 365-day curriculum. Without a
// progress usecase it falls back to the day of the calendar year.
func (i *Interactor) currentDay(ctx context.Context) (int, error) {
	if i.progress == nil {
		return min(i.clock.Now().YearDay(), domain.CycleLength), nil
	}
	dash, err := i.progress.Dashboard(ctx)
	if err != nil {
		return 0, fmt.Errorf("resolve curriculum day: %w", err)
	}
	return dash.Curriculum.CurrentDay, nil
}

func (i *Interactor) Write(ctx context.Context, input dto.WriteInput) (dto.EntryOutput, error) {
	today := clock.Today(i.clock)
	var day int
	if input.Day != nil {
		day = *input.Day
	} else {
		current, err := i.currentDay(ctx)
		if err != nil {
			return dto.EntryOutput{}, err
		}
		day = current
	}
	year := input.Year
	if year == 0 {
		year = today.Year
	}
	entry := domain.Entry{Day: day, Year: year, Date: today, Content: input.Content}
	saved, err := i.svc.Save(ctx, entry, i.clock.Now().UTC())
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toEntryOutput(saved), nil
}

func (i *Interactor) Get(ctx context.Context, day, year int) (dto.EntryOutput, error) {
	if year == 0 {
		year = clock.Today(i.clock).Year
	}
	e, err := i.svc.Get(ctx, day, year)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toEntryOutput(e), nil
}

// Today gathers the entry for today's curriculum day along with what was
// written on the same day in earlier years.
func (i *Interactor) Today(ctx context.Context) (dto.TodayOutput, error) {
	day, err := i.currentDay(ctx)
	if err != nil {
		return dto.TodayOutput{}, err
	}
	year := clock.Today(i.clock).Year
	out := dto.TodayOutput{Day: day, Year: year}
	archive := i.svc.Archive(ctx)
	if e, ok := archive.Get(day, year); ok {
		entry := toEntryOutput(e)
		out.Entry = &entry
	}
	out.PreviousYears = toEntryOutputs(archive.PreviousYears(day, year))
	return out, nil
}

func (i *Interactor) History(ctx context.Context, day int) ([]dto.EntryOutput, error) {
	if day == 0 {
		current, err := i.currentDay(ctx)
		if err != nil {
			return nil, err
		}
		day = current
	}
	return toEntryOutputs(i.svc.History(ctx, day)), nil
}

func (i *Interactor) PreviousYears(ctx context.Context, day int) ([]dto.EntryOutput, error) {
	if day == 0 {
		current, err := i.currentDay(ctx)
		if err != nil {
			return nil, err
		}
		day = current
	}
	return toEntryOutputs(i.svc.PreviousYears(ctx, day, clock.Today(i.clock).Year)), nil
}

func (i *Interactor) Delete(ctx context.Context, day, year int) error {
	if year == 0 {
		year = clock.Today(i.clock).Year
	}
	return i.svc.Delete(ctx, day, year)
}

func (i *Interactor) Search(ctx context.Context, query string, limit int) ([]dto.SearchHitOutput, error) {
	hits, err := i.svc.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SearchHitOutput, 0, len(hits))
	for _, h := range hits {
		out = append(out, dto.SearchHitOutput{Day: h.Day, Year: h.Year, Date: h.Date, Snippet: h.Snippet})
	}
	return out, nil
}

func (i *Interactor) Export(ctx context.Context) (dto.ExportOutput, error) {
	paths, err := i.svc.Export(ctx)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Dir: i.exportDir, Paths: paths}, nil
}

func toEntryOutput(e domain.Entry) dto.EntryOutput {
	return dto.EntryOutput{
		Day:       e.Day,
		Year:      e.Year,
		Date:      e.Date.String(),
		Content:   e.Content,
		UpdatedAt: e.UpdatedAt,
	}
}

func toEntryOutputs(entries []domain.Entry) []dto.EntryOutput {
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryOutput(e))
	}
	return out
}
