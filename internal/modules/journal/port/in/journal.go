package in

import (
	"context"

	"stillpoint/internal/modules/journal/dto"
)

type Usecase interface {
	Write(ctx context.Context, input dto.WriteInput) (dto.EntryOutput, error)
	Get(ctx context.Context, day, year int) (dto.EntryOutput, error)
	Today(ctx context.Context) (dto.TodayOutput, error)
	History(ctx context.Context, day int) ([]dto.EntryOutput, error)
	PreviousYears(ctx context.Context, day int) ([]dto.EntryOutput, error)
	Delete(ctx context.Context, day, year int) error
	Search(ctx context.Context, query string, limit int) ([]dto.SearchHitOutput, error)
	Export(ctx context.Context) (dto.ExportOutput, error)
}
