package service

import (
	"context"
	"fmt"
	"time"

	"stillpoint/internal/modules/journal/domain"
	journalout "stillpoint/internal/modules/journal/port/out"
	apperrors "stillpoint/internal/platform/errors"
	"stillpoint/internal/platform/tx"
)

type JournalService struct {
	store    journalout.ArchiveStore
	index    journalout.SearchIndex
	exporter journalout.NoteExporter
	tx       tx.Manager
}

func NewJournalService(store journalout.ArchiveStore, index journalout.SearchIndex, exporter journalout.NoteExporter, txManager tx.Manager) *JournalService {
	if txManager == nil {
		txManager = tx.NoopManager{}
	}
	return &JournalService{store: store, index: index, exporter: exporter, tx: txManager}
}

func (s *JournalService) Archive(ctx context.Context) domain.Archive {
	return s.store.Load(ctx)
}

// Save upserts e by (day, year) and stamps it with now. The day is clamped
// into the cycle. A blank entry removes whatever was stored under its key
// and is returned with empty content.
func (s *JournalService) Save(ctx context.Context, e domain.Entry, now time.Time) (domain.Entry, error) {
	e.Day = domain.ClampDay(e.Day)
	if err := e.Validate(); err != nil {
		return domain.Entry{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	var saved domain.Entry
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		if e.Blank() {
			if next, removed := s.store.Load(ctx).Delete(e.Day, e.Year); removed {
				s.store.Save(ctx, next)
			}
			saved = domain.Entry{Day: e.Day, Year: e.Year, Date: e.Date, UpdatedAt: now}
			return nil
		}
		archive := s.store.Load(ctx).Save(e, now)
		s.store.Save(ctx, archive)
		saved, _ = archive.Get(e.Day, e.Year)
		return nil
	})
	return saved, err
}

func (s *JournalService) Get(ctx context.Context, day, year int) (domain.Entry, error) {
	day = domain.ClampDay(day)
	e, ok := s.store.Load(ctx).Get(day, year)
	if !ok {
		return domain.Entry{}, fmt.Errorf("journal day %d of %d: %w", day, year, apperrors.ErrNotFound)
	}
	return e, nil
}

func (s *JournalService) History(ctx context.Context, day int) []domain.Entry {
	return s.store.Load(ctx).History(domain.ClampDay(day))
}

func (s *JournalService) PreviousYears(ctx context.Context, day, currentYear int) []domain.Entry {
	return s.store.Load(ctx).PreviousYears(domain.ClampDay(day), currentYear)
}

func (s *JournalService) Delete(ctx context.Context, day, year int) error {
	day = domain.ClampDay(day)
	return s.tx.Within(ctx, func(ctx context.Context) error {
		next, ok := s.store.Load(ctx).Delete(day, year)
		if !ok {
			return fmt.Errorf("journal day %d of %d: %w", day, year, apperrors.ErrNotFound)
		}
		s.store.Save(ctx, next)
		return nil
	})
}

// Search refreshes the projection from the archive before querying it.
func (s *JournalService) Search(ctx context.Context, query string, limit int) ([]journalout.SearchHit, error) {
	if s.index == nil {
		return nil, fmt.Errorf("journal search index is not configured")
	}
	if err := s.index.Rebuild(ctx, s.store.Load(ctx)); err != nil {
		return nil, err
	}
	return s.index.Search(ctx, query, limit)
}

func (s *JournalService) Export(ctx context.Context) ([]string, error) {
	if s.exporter == nil {
		return nil, fmt.Errorf("journal exporter is not configured")
	}
	return s.exporter.Export(ctx, s.store.Load(ctx).Sorted())
}
