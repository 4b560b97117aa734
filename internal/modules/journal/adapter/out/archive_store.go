package out

import (
	"context"
	"encoding/json"
	"errors"

	"stillpoint/internal/modules/journal/domain"
	journalout "stillpoint/internal/modules/journal/port/out"
	"stillpoint/internal/platform/kv"
	"stillpoint/internal/platform/logger"
)

// KVArchiveStore keeps the archive as a JSON array under its own key,
// independent of the progress document.
type KVArchiveStore struct {
	backend kv.Backend
	log     *logger.Logger
}

func NewKVArchiveStore(backend kv.Backend, log *logger.Logger) journalout.ArchiveStore {
	if log == nil {
		log = logger.Nop()
	}
	return &KVArchiveStore{backend: backend, log: log.With("component", "journal.store")}
}

func (s *KVArchiveStore) Load(ctx context.Context) domain.Archive {
	raw, ok, err := s.backend.Get(ctx, kv.KeyJournal)
	if err != nil {
		if !errors.Is(err, kv.ErrUnavailable) {
			s.log.Warn("read journal failed", "error", err)
		}
		return domain.Archive{}
	}
	if !ok {
		return domain.Archive{}
	}
	archive := domain.Archive{}
	if err := json.Unmarshal(raw, &archive); err != nil {
		// The corrupt value is left in place until the next save replaces it.
		s.log.Warn("journal archive unreadable, starting empty", "error", err)
		return domain.Archive{}
	}
	if archive == nil {
		return domain.Archive{}
	}
	return archive.Dedupe()
}

func (s *KVArchiveStore) Save(ctx context.Context, archive domain.Archive) {
	if archive == nil {
		archive = domain.Archive{}
	}
	payload, err := json.Marshal(archive)
	if err != nil {
		s.log.Error("encode journal failed", "error", err)
		return
	}
	if err := s.backend.Set(ctx, kv.KeyJournal, payload); err != nil {
		if errors.Is(err, kv.ErrUnavailable) {
			s.log.Debug("storage unavailable, journal write skipped")
			return
		}
		s.log.Warn("write journal failed", "error", err)
	}
}
