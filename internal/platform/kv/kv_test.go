package kv_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"stillpoint/internal/platform/kv"
)

func backends(t *testing.T) map[string]kv.Backend {
	t.Helper()
	dir := t.TempDir()
	file, err := kv.NewFileBackend(filepath.Join(dir, "store"))
	require.NoError(t, err)
	db, err := kv.NewSQLiteBackend(filepath.Join(dir, "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return map[string]kv.Backend{
		"memory": kv.NewMemoryBackend(),
		"file":   file,
		"sqlite": db,
	}
}

func TestBackendsRoundTripAndReportMissingKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := backend.Get(ctx, kv.KeyProgress)
			require.NoError(t, err)
			require.False(t, ok, "fresh backend must not report a value")

			require.NoError(t, backend.Set(ctx, kv.KeyProgress, []byte(`{"version":1}`)))
			require.NoError(t, backend.Set(ctx, kv.KeyProgress, []byte(`{"version":2}`)))
			got, ok, err := backend.Get(ctx, kv.KeyProgress)
			require.NoError(t, err)
			require.True(t, ok)
			require.JSONEq(t, `{"version":2}`, string(got))

			require.NoError(t, backend.Remove(ctx, kv.KeyProgress))
			require.NoError(t, backend.Remove(ctx, kv.KeyProgress), "removing a missing key is not an error")
			_, ok, err = backend.Get(ctx, kv.KeyProgress)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestFileBackendSurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "store")
	first, err := kv.NewFileBackend(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, kv.KeyJournal, []byte(`[]`)))

	second, err := kv.NewFileBackend(dir)
	require.NoError(t, err)
	got, ok, err := second.Get(ctx, kv.KeyJournal)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "[]", string(got))
	require.NoFileExists(t, filepath.Join(dir, kv.KeyJournal+".json.tmp"))
}

func TestUnavailableBackendRefusesEverything(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	var backend kv.Backend = kv.Unavailable{}
	_, ok, err := backend.Get(ctx, kv.KeyProgress)
	require.ErrorIs(t, err, kv.ErrUnavailable)
	require.False(t, ok)
	require.ErrorIs(t, backend.Set(ctx, kv.KeyProgress, nil), kv.ErrUnavailable)
	require.ErrorIs(t, backend.Remove(ctx, kv.KeyProgress), kv.ErrUnavailable)
}
