package out

import (
	"context"

	"stillpoint/internal/modules/progress/domain"
)

// DocumentStore persists the progress aggregate as one document.
type DocumentStore interface {
	// Read never fails: missing, corrupt or unreachable storage yields a
	// fresh default document.
	Read(ctx context.Context) domain.Aggregate
	// Write is best-effort; failures are logged by the store.
	Write(ctx context.Context, agg domain.Aggregate)
	// Wipe removes the aggregate, its schema-version marker and the journal.
	Wipe(ctx context.Context) error
}
