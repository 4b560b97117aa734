package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/civil"

	"stillpoint/internal/modules/progress/domain"
	progressout "stillpoint/internal/modules/progress/port/out"
	"stillpoint/internal/platform/clock"
	"stillpoint/internal/platform/id"
	"stillpoint/internal/platform/kv"
	"stillpoint/internal/platform/logger"
)

// KVDocumentStore keeps the aggregate as one JSON value in a kv.Backend.
type KVDocumentStore struct {
	backend kv.Backend
	clock   clock.Clock
	idGen   id.Generator
	log     *logger.Logger
}

func NewKVDocumentStore(backend kv.Backend, clk clock.Clock, idGen id.Generator, log *logger.Logger) progressout.DocumentStore {
	if log == nil {
		log = logger.Nop()
	}
	return &KVDocumentStore{backend: backend, clock: clk, idGen: idGen, log: log.With("component", "progress.store")}
}

func (s *KVDocumentStore) Read(ctx context.Context) domain.Aggregate {
	today := clock.Today(s.clock)
	raw, ok, err := s.backend.Get(ctx, kv.KeyProgress)
	if err != nil {
		if errors.Is(err, kv.ErrUnavailable) {
			s.log.Debug("storage unavailable, serving defaults")
		} else {
			s.log.Warn("read progress failed, serving defaults", "error", err)
		}
		return s.fresh(today)
	}
	if !ok {
		agg := s.fresh(today)
		s.log.Info("created progress document", "user_id", agg.UserID)
		s.Write(ctx, agg)
		return agg
	}

	agg, migrated, err := s.decode(raw, today)
	if err != nil {
		agg = s.fresh(today)
		s.log.Warn("progress document unreadable, replaced with defaults", "error", err, "user_id", agg.UserID)
		s.Write(ctx, agg)
		return agg
	}
	if migrated {
		s.log.Info("migrated progress document", "version", agg.Version)
		s.Write(ctx, agg)
	}
	return agg
}

func (s *KVDocumentStore) decode(raw []byte, today civil.Date) (domain.Aggregate, bool, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Aggregate{}, false, fmt.Errorf("decode progress: %w", err)
	}
	if doc == nil {
		return domain.Aggregate{}, false, fmt.Errorf("decode progress: document is null")
	}
	doc, migrated, err := migrate(doc, migrationEnv{today: today, newUserID: s.idGen.New})
	if err != nil {
		return domain.Aggregate{}, false, err
	}
	if scrubEmptyDates(doc, today) {
		migrated = true
	}
	typed, err := json.Marshal(doc)
	if err != nil {
		return domain.Aggregate{}, false, fmt.Errorf("encode migrated progress: %w", err)
	}
	agg := domain.Aggregate{}
	if err := json.Unmarshal(typed, &agg); err != nil {
		return domain.Aggregate{}, false, fmt.Errorf("decode migrated progress: %w", err)
	}
	if agg.UserID == "" {
		agg.UserID = s.idGen.New()
		migrated = true
	}
	return agg.Normalize(), migrated, nil
}

func (s *KVDocumentStore) fresh(today civil.Date) domain.Aggregate {
	return domain.NewAggregate(s.idGen.New(), today)
}

func (s *KVDocumentStore) Write(ctx context.Context, agg domain.Aggregate) {
	payload, err := json.Marshal(agg)
	if err != nil {
		s.log.Error("encode progress failed", "error", err)
		return
	}
	if err := s.backend.Set(ctx, kv.KeyProgress, payload); err != nil {
		s.logWriteFailure(kv.KeyProgress, err)
		return
	}
	if err := s.backend.Set(ctx, kv.KeySchemaVersion, []byte(strconv.Itoa(agg.Version))); err != nil {
		s.logWriteFailure(kv.KeySchemaVersion, err)
	}
}

func (s *KVDocumentStore) logWriteFailure(key string, err error) {
	if errors.Is(err, kv.ErrUnavailable) {
		s.log.Debug("storage unavailable, write skipped", "key", key)
		return
	}
	s.log.Warn("write failed", "key", key, "error", err)
}

func (s *KVDocumentStore) Wipe(ctx context.Context) error {
	var errs []error
	for _, key := range kv.AllKeys {
		if err := s.backend.Remove(ctx, key); err != nil {
			if errors.Is(err, kv.ErrUnavailable) {
				return nil
			}
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("wipe progress: %w", err)
	}
	s.log.Info("wiped local progress")
	return nil
}
