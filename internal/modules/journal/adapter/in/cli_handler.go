package in

import (
	"context"

	"stillpoint/internal/modules/journal/dto"
	journalin "stillpoint/internal/modules/journal/port/in"
)

type CLIHandler struct {
	usecase journalin.Usecase
}

func NewCLIHandler(usecase journalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Write stores content under an explicit day, clamped into the cycle.
func (h CLIHandler) Write(ctx context.Context, day, year int, content string) (dto.EntryOutput, error) {
	return h.usecase.Write(ctx, dto.WriteInput{Day: &day, Year: year, Content: content})
}

// WriteToday stores content under today's curriculum day.
func (h CLIHandler) WriteToday(ctx context.Context, year int, content string) (dto.EntryOutput, error) {
	return h.usecase.Write(ctx, dto.WriteInput{Year: year, Content: content})
}

func (h CLIHandler) Show(ctx context.Context, day, year int) (dto.EntryOutput, error) {
	return h.usecase.Get(ctx, day, year)
}

func (h CLIHandler) Today(ctx context.Context) (dto.TodayOutput, error) {
	return h.usecase.Today(ctx)
}

func (h CLIHandler) History(ctx context.Context, day int) ([]dto.EntryOutput, error) {
	return h.usecase.History(ctx, day)
}

func (h CLIHandler) Delete(ctx context.Context, day, year int) error {
	return h.usecase.Delete(ctx, day, year)
}

func (h CLIHandler) Search(ctx context.Context, query string, limit int) ([]dto.SearchHitOutput, error) {
	return h.usecase.Search(ctx, query, limit)
}

func (h CLIHandler) Export(ctx context.Context) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx)
}
