package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	journalout "stillpoint/internal/modules/journal/adapter/out"
	"stillpoint/internal/modules/journal/domain"
	"stillpoint/internal/platform/calendar"
	"stillpoint/internal/platform/kv"
	"stillpoint/internal/platform/logger"
	"stillpoint/internal/platform/markdown"
)

func sample() domain.Archive {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return domain.Archive{}.
		Save(domain.Entry{Day: 40, Year: 2024, Date: calendar.MustParse("2024-02-09"), Content: "Breath was steady, mind wandered to work."}, now).
		Save(domain.Entry{Day: 40, Year: 2023, Date: calendar.MustParse("2023-02-09"), Content: "Noticed impatience during walking practice."}, now).
		Save(domain.Entry{Day: 41, Year: 2024, Date: calendar.MustParse("2024-02-10"), Content: "100% present for ten_minutes."}, now)
}

func TestArchiveStoreRoundTripAndCorruptFallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	store := journalout.NewKVArchiveStore(backend, logger.Nop())

	assert.Empty(t, store.Load(ctx))
	store.Save(ctx, sample())
	loaded := store.Load(ctx)
	require.Len(t, loaded, 3)
	got, ok := loaded.Get(40, 2023)
	require.True(t, ok)
	assert.Equal(t, "Noticed impatience during walking practice.", got.Content)

	require.NoError(t, backend.Set(ctx, kv.KeyJournal, []byte("{oops")))
	assert.Empty(t, store.Load(ctx))

	unavailable := journalout.NewKVArchiveStore(kv.Unavailable{}, nil)
	assert.NotPanics(t, func() { unavailable.Save(ctx, sample()) })
	assert.Empty(t, unavailable.Load(ctx))
}

func TestArchiveStoreWarnsAndKeepsCorruptValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	backend := kv.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, kv.KeyJournal, []byte("not json")))
	store := journalout.NewKVArchiveStore(backend, log)

	assert.Empty(t, store.Load(ctx))
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())

	raw, ok, err := backend.Get(ctx, kv.KeyJournal)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "not json", string(raw), "a failed read never rewrites the stored value")
}

func TestSQLiteSearchIndex(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "stillpoint.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	index, err := journalout.NewSQLiteSearchIndex(db)
	require.NoError(t, err)
	require.NoError(t, index.Rebuild(ctx, sample()))

	hits, err := index.Search(ctx, "PRACTICE", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 40, hits[0].Day)
	assert.Equal(t, 2023, hits[0].Year)
	assert.Contains(t, hits[0].Snippet, "practice")

	hits, err = index.Search(ctx, "100%", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1, "wildcards in the query are literal")
	assert.Equal(t, 41, hits[0].Day)

	hits, err = index.Search(ctx, "mind", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	require.NoError(t, index.Rebuild(ctx, domain.Archive{}))
	hits, err = index.Search(ctx, "mind", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = index.Search(ctx, "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVaultNoteExporterKeepsUserText(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	exporter := journalout.NewVaultNoteExporter(dir)
	entries := sample().Sorted()

	paths, err := exporter.Export(ctx, entries)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "2023", "day-040.md"), paths[0])

	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	note, err := markdown.Parse(string(raw))
	require.NoError(t, err)
	assert.Equal(t, 40, note.Meta["day"])
	assert.Equal(t, 2023, note.Meta["year"])
	assert.Equal(t, "2023-02-09", note.Meta["date"])

	edited := strings.Replace(string(raw), "# Day 40, 2023\n", "# Day 40, 2023\n\nReflection added later.\n", 1)
	require.NoError(t, os.WriteFile(paths[0], []byte(edited), 0o644))

	entries[0].Content = "Rewritten entry."
	_, err = exporter.Export(ctx, entries[:1])
	require.NoError(t, err)
	raw, err = os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Reflection added later.")
	assert.Contains(t, string(raw), "Rewritten entry.")
	assert.NotContains(t, string(raw), "Noticed impatience")
}
