package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stillpoint/internal/modules/progress/domain"
	"stillpoint/internal/platform/config"
	"stillpoint/internal/platform/logger"
)

func TestStagePolicyOverlaysConfig(t *testing.T) {
	t.Parallel()

	policy, err := StagePolicy(config.StageConfig{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultStagePolicy(), policy)

	policy, err = StagePolicy(config.StageConfig{
		MinSessions: 3,
		Ladder: []config.StageRuleEntry{
			{Stage: 2, CompletionRate: 0.4, AverageMinutes: 5, DistinctDays: 2},
			{Stage: 3, CompletionRate: 0.5, AverageMinutes: 10, DistinctDays: 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, policy.MinSessions)
	assert.Equal(t, domain.DefaultStagePolicy().MinCompletionRate, policy.MinCompletionRate)
	assert.Len(t, policy.Ladder, 2)
}

func TestStagePolicyRejectsBrokenLadder(t *testing.T) {
	t.Parallel()
	_, err := StagePolicy(config.StageConfig{
		Ladder: []config.StageRuleEntry{
			{Stage: 2, CompletionRate: 0.6, AverageMinutes: 10, DistinctDays: 3},
			{Stage: 3, CompletionRate: 0.5, AverageMinutes: 10, DistinctDays: 3},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage_policy")

	_, err = StagePolicy(config.StageConfig{Ladder: []config.StageRuleEntry{{Stage: 9}}})
	require.Error(t, err)
}

func TestNewClockRejectsUnknownZone(t *testing.T) {
	t.Parallel()
	_, err := newClock("Mars/Olympus_Mons")
	require.Error(t, err)

	clk, err := newClock("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", clk.Now().Location().String())
}

func TestNewWiresMemoryBackendAndSearch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := config.Default(t.TempDir())
	cfg.Backend = config.BackendMemory

	app, err := New(cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	streak, err := app.ProgressCLI.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), streak.Current)

	_, err = app.JournalCLI.Write(ctx, 12, 2024, "sat by the river")
	require.NoError(t, err)
	hits, err := app.JournalCLI.Search(ctx, "river", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 12, hits[0].Day)
}

func TestFileBackendSurvivesRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := config.Default(t.TempDir())

	first, err := New(cfg, nil)
	require.NoError(t, err)
	_, err = first.ProgressCLI.SetStage(ctx, 5)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	practice, err := second.ProgressCLI.Practice(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, practice.Stage)
}

func TestSQLiteBackendSharesHandleWithSearch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := config.Default(t.TempDir())
	cfg.Backend = config.BackendSQLite

	app, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, app.closers, 1)

	_, err = app.JournalCLI.Write(ctx, 3, 2025, "quiet morning")
	require.NoError(t, err)
	hits, err := app.JournalCLI.Search(ctx, "QUIET", 5)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
	require.NoError(t, app.Close())
}
