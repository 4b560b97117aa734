package out

import (
	"context"

	"stillpoint/internal/modules/journal/domain"
)

// ArchiveStore persists the archive as one value. Load never fails; an
// unreadable archive comes back empty.
type ArchiveStore interface {
	Load(ctx context.Context) domain.Archive
	Save(ctx context.Context, archive domain.Archive)
}

type SearchHit struct {
	Day     int
	Year    int
	Date    string
	Snippet string
}

// SearchIndex is a rebuildable projection of the archive.
type SearchIndex interface {
	Rebuild(ctx context.Context, archive domain.Archive) error
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)
}

type NoteExporter interface {
	Export(ctx context.Context, entries []domain.Entry) ([]string, error)
}
