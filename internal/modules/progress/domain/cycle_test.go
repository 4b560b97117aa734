package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stillpoint/internal/modules/progress/domain"
	"stillpoint/internal/platform/calendar"
)

func TestTeachingCycleScenario(t *testing.T) {
	t.Parallel()
	start := calendar.MustParse("2024-01-01")
	c := domain.TeachingCycle
	assert.Equal(t, 1, c.DayOf(start, calendar.MustParse("2024-01-01")))
	assert.Equal(t, 21, c.DayOf(start, calendar.MustParse("2024-01-21")))
	assert.Equal(t, 1, c.DayOf(start, calendar.MustParse("2024-01-22")))
}

func TestCycleIsPeriodicAndAlwaysInRange(t *testing.T) {
	t.Parallel()
	start := calendar.MustParse("2024-01-01")
	c := domain.TeachingCycle
	assert.Equal(t, c.DayOf(start, start), c.DayOf(start, start.AddDays(21)))
	assert.Equal(t, c.DayOf(start, start), c.DayOf(start, start.AddDays(42)))

	for offset := -100; offset <= 100; offset++ {
		day := c.DayOf(start, start.AddDays(offset))
		require.GreaterOrEqual(t, day, 1, "offset %d", offset)
		require.LessOrEqual(t, day, 21, "offset %d", offset)
	}
	assert.Equal(t, 21, c.DayOf(start, start.AddDays(-1)), "the day before the start wraps to the last day")
}

func TestCurriculumCycleSpansLeapYears(t *testing.T) {
	t.Parallel()
	start := calendar.MustParse("2024-01-01")
	c := domain.CurriculumCycle
	assert.Equal(t, 365, c.DayOf(start, calendar.MustParse("2024-12-30")))
	assert.Equal(t, 1, c.DayOf(start, calendar.MustParse("2024-12-31")))
}

func TestGoToDayClampsAndLeavesDerivedDayAlone(t *testing.T) {
	t.Parallel()
	today := calendar.MustParse("2024-01-05")
	c := domain.TeachingCycle
	tracker := c.NewTracker(calendar.MustParse("2024-01-01"))

	moved := c.GoToDay(tracker, 99)
	assert.Equal(t, 21, moved.CurrentDay)
	assert.Equal(t, 1, c.GoToDay(tracker, -4).CurrentDay)
	assert.Equal(t, 5, c.Today(moved, today))
	assert.Equal(t, tracker.CycleStartDate, moved.CycleStartDate)

	synced := c.SyncToday(moved, today)
	assert.Equal(t, 5, synced.CurrentDay)
	assert.Equal(t, today, *synced.LastViewedDate)
}

func TestCompleteDayHasSetSemantics(t *testing.T) {
	t.Parallel()
	c := domain.TeachingCycle
	tracker := c.NewTracker(calendar.MustParse("2024-01-01"))
	for _, d := range []int{7, 3, 7, 50, 0, 3} {
		tracker = c.CompleteDay(tracker, d)
	}
	assert.Equal(t, []int{1, 3, 7, 21}, tracker.CompletedDays)
	assert.True(t, tracker.IsCompleted(7))
	assert.False(t, tracker.IsCompleted(8))
}

func TestRestartClearsCompletions(t *testing.T) {
	t.Parallel()
	c := domain.TeachingCycle
	tracker := c.CompleteDay(c.NewTracker(calendar.MustParse("2024-01-01")), 4)
	today := calendar.MustParse("2024-02-10")
	restarted := c.Restart(tracker, today)
	assert.Empty(t, restarted.CompletedDays)
	assert.Equal(t, today, restarted.CycleStartDate)
	assert.Equal(t, 1, restarted.CurrentDay)
}

func TestBlocksAndMonthBlocks(t *testing.T) {
	t.Parallel()
	assert.Equal(t, domain.Block{Start: 8, End: 14}, domain.TeachingCycle.Block(10, 7))
	assert.Equal(t, domain.Block{Start: 361, End: 365}, domain.CurriculumCycle.Block(363, 30))

	month, block := domain.MonthBlock(40)
	assert.Equal(t, 2, month)
	assert.Equal(t, domain.Block{Start: 32, End: 59}, block)

	month, block = domain.MonthBlock(365)
	assert.Equal(t, 12, month)
	assert.Equal(t, domain.Block{Start: 335, End: 365}, block)
	assert.Equal(t, 31, block.Len())

	tracker := domain.CurriculumCycle.NewTracker(calendar.MustParse("2024-01-01"))
	for _, d := range []int{31, 32, 40, 59, 60} {
		tracker = domain.CurriculumCycle.CompleteDay(tracker, d)
	}
	_, feb := domain.MonthBlock(45)
	assert.Equal(t, 3, tracker.CompletedIn(feb))
}
