package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	journalout "stillpoint/internal/modules/journal/adapter/out"
	journaldto "stillpoint/internal/modules/journal/dto"
	journalin "stillpoint/internal/modules/journal/port/in"
	"stillpoint/internal/modules/journal/service"
	"stillpoint/internal/modules/journal/usecase"
	progressout "stillpoint/internal/modules/progress/adapter/out"
	progressdomain "stillpoint/internal/modules/progress/domain"
	progressservice "stillpoint/internal/modules/progress/service"
	progressusecase "stillpoint/internal/modules/progress/usecase"
	apperrors "stillpoint/internal/platform/errors"
	"stillpoint/internal/platform/kv"
	"stillpoint/internal/platform/logger"
	"stillpoint/internal/platform/tx"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

type fakeID struct{}

func (fakeID) New() string { return "user-1" }

func dayPtr(d int) *int { return &d }

func newJournal(t *testing.T) (journalin.Usecase, *fakeClock, string) {
	t.Helper()
	dir := t.TempDir()
	clk := &fakeClock{now: time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)}
	backend := kv.NewMemoryBackend()

	progressStore := progressout.NewKVDocumentStore(backend, clk, fakeID{}, logger.Nop())
	progress := progressusecase.NewInteractor(progressservice.NewProgressService(progressStore, progressdomain.DefaultStagePolicy(), tx.NoopManager{}), clk)

	db, err := kv.OpenSQLite(filepath.Join(dir, "stillpoint.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	index, err := journalout.NewSQLiteSearchIndex(db)
	if err != nil {
		t.Fatalf("create index: %v", err)
	}
	exportDir := filepath.Join(dir, "journal")
	svc := service.NewJournalService(journalout.NewKVArchiveStore(backend, logger.Nop()), index, journalout.NewVaultNoteExporter(exportDir), tx.NoopManager{})
	return usecase.NewInteractor(svc, progress, clk, exportDir), clk, exportDir
}

func TestWriteDefaultsToCurriculumDayAndUpserts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, clk, _ := newJournal(t)

	// The curriculum starts on first use, 2024-01-01; ten days later is day 11.
	if _, err := uc.Today(ctx); err != nil {
		t.Fatalf("today: %v", err)
	}
	clk.now = clk.now.AddDate(0, 0, 10)

	first, err := uc.Write(ctx, journaldto.WriteInput{Content: "first draft"})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if first.Day != 11 || first.Year != 2024 || first.Date != "2024-01-11" {
		t.Fatalf("unexpected entry key %+v", first)
	}

	clk.now = clk.now.Add(2 * time.Hour)
	second, err := uc.Write(ctx, journaldto.WriteInput{Content: "second draft"})
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("expected updatedAt to move forward, got %v then %v", first.UpdatedAt, second.UpdatedAt)
	}

	history, err := uc.History(ctx, 11)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Content != "second draft" {
		t.Fatalf("expected exactly one entry with second content, got %+v", history)
	}
}

func TestTodaySurfacesPreviousYears(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _, _ := newJournal(t)

	for _, year := range []int{2022, 2023} {
		if _, err := uc.Write(ctx, journaldto.WriteInput{Day: dayPtr(1), Year: year, Content: "earlier year"}); err != nil {
			t.Fatalf("write %d: %v", year, err)
		}
	}
	if _, err := uc.Write(ctx, journaldto.WriteInput{Content: "this year"}); err != nil {
		t.Fatalf("write current: %v", err)
	}

	today, err := uc.Today(ctx)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if today.Day != 1 || today.Year != 2024 || today.Entry == nil || today.Entry.Content != "this year" {
		t.Fatalf("unexpected today view %+v", today)
	}
	if len(today.PreviousYears) != 2 || today.PreviousYears[0].Year != 2023 || today.PreviousYears[1].Year != 2022 {
		t.Fatalf("expected previous years newest first, got %+v", today.PreviousYears)
	}
}

func TestGetAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _, _ := newJournal(t)

	if _, err := uc.Get(ctx, 5, 2024); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := uc.Write(ctx, journaldto.WriteInput{Day: dayPtr(5), Content: "kept"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := uc.Get(ctx, 5, 0)
	if err != nil || got.Content != "kept" {
		t.Fatalf("expected stored entry, got %+v err=%v", got, err)
	}
	if err := uc.Delete(ctx, 5, 2024); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := uc.Delete(ctx, 5, 2024); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestWriteClampsOutOfRangeDays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _, _ := newJournal(t)

	cases := []struct {
		in, want int
	}{
		{in: 400, want: 365},
		{in: 0, want: 1},
		{in: -3, want: 1},
	}
	for _, tc := range cases {
		out, err := uc.Write(ctx, journaldto.WriteInput{Day: dayPtr(tc.in), Content: "clamped"})
		if err != nil {
			t.Fatalf("write day %d: %v", tc.in, err)
		}
		if out.Day != tc.want {
			t.Fatalf("day %d: expected clamp to %d, got %d", tc.in, tc.want, out.Day)
		}
	}
	if got, err := uc.Get(ctx, 365, 2024); err != nil || got.Content != "clamped" {
		t.Fatalf("expected entry on day 365, got %+v err=%v", got, err)
	}
}

func TestBlankWriteClearsEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _, _ := newJournal(t)

	if _, err := uc.Write(ctx, journaldto.WriteInput{Day: dayPtr(5), Content: "first thoughts"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := uc.Write(ctx, journaldto.WriteInput{Day: dayPtr(5), Content: "  \n "})
	if err != nil {
		t.Fatalf("blank write: %v", err)
	}
	if out.Day != 5 || out.Content != "" {
		t.Fatalf("unexpected blank write result %+v", out)
	}
	if _, err := uc.Get(ctx, 5, 2024); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected entry cleared, got %v", err)
	}
	if _, err := uc.Write(ctx, journaldto.WriteInput{Day: dayPtr(6), Content: ""}); err != nil {
		t.Fatalf("blank write on empty day: %v", err)
	}
	if history, err := uc.History(ctx, 6); err != nil || len(history) != 0 {
		t.Fatalf("expected no entries on day 6, got %+v err=%v", history, err)
	}
}

func TestSearchAndExport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _, exportDir := newJournal(t)

	if _, err := uc.Write(ctx, journaldto.WriteInput{Day: dayPtr(3), Content: "Sat with the breath for twenty minutes."}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := uc.Write(ctx, journaldto.WriteInput{Day: dayPtr(4), Content: "Restless, skipped practice."}); err != nil {
		t.Fatalf("write: %v", err)
	}

	hits, err := uc.Search(ctx, "breath", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Day != 3 {
		t.Fatalf("expected one hit on day 3, got %+v", hits)
	}

	out, err := uc.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out.Dir != exportDir || len(out.Paths) != 2 {
		t.Fatalf("unexpected export %+v", out)
	}
	if want := filepath.Join(exportDir, "2024", "day-003.md"); out.Paths[0] != want {
		t.Fatalf("expected %s, got %s", want, out.Paths[0])
	}
}
