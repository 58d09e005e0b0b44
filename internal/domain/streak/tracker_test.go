package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestUpdateFirstEverEvent(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2025, 6, 10, 18, 45, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		completed     int
		expectedCount int
	}{
		{
			name:          "meeting the threshold starts the streak",
			completed:     5,
			expectedCount: 1,
		},
		{
			name:          "falling short leaves the streak at zero",
			completed:     4,
			expectedCount: 0,
		},
		{
			name:          "zero completions leave the streak at zero",
			completed:     0,
			expectedCount: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Update(State{}, tc.completed, now)

			assert.Equal(t, tc.expectedCount, got.Count)
			assert.Equal(t, tc.completed, got.CompletedToday)
			require.NotNil(t, got.LastStreakDate)
			assert.True(t, got.LastStreakDate.Equal(*date(2025, 6, 10)),
				"last streak date should be midnight of today, got %v", got.LastStreakDate)
		})
	}
}

func TestUpdateSameDay(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2025, 6, 10, 18, 45, 0, 0, time.UTC)

	t.Run("counts accumulate across calls", func(t *testing.T) {
		prior := State{Count: 2, LastStreakDate: date(2025, 6, 10), CompletedToday: 2}
		got := Update(prior, 1, now)

		assert.Equal(t, 3, got.CompletedToday)
		assert.Equal(t, 2, got.Count, "streak unchanged below threshold")
	})

	t.Run("crossing the threshold increments exactly once", func(t *testing.T) {
		first := Update(State{Count: 2, LastStreakDate: date(2025, 6, 10), CompletedToday: 0}, 3, now)
		assert.Equal(t, 2, first.Count, "3 of 5 completed, no increment yet")

		second := Update(first, 3, now)
		assert.Equal(t, 6, second.CompletedToday)
		assert.Equal(t, 3, second.Count, "crossed threshold on this call")

		third := Update(second, 3, now)
		assert.Equal(t, 9, third.CompletedToday)
		assert.Equal(t, 3, third.Count, "already past threshold, no second increment")
	})

	t.Run("time of day within the same date is irrelevant", func(t *testing.T) {
		prior := State{Count: 1, LastStreakDate: date(2025, 6, 10), CompletedToday: 5}
		late := time.Date(2025, 6, 10, 23, 59, 59, 0, time.UTC)
		got := Update(prior, 2, late)

		assert.Equal(t, 1, got.Count)
		assert.Equal(t, 7, got.CompletedToday)
	})
}

func TestUpdateConsecutiveDay(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC)

	testCases := []struct {
		name              string
		prior             State
		completed         int
		expectedCount     int
		expectedCompleted int
	}{
		{
			name:              "met yesterday and today extends the streak",
			prior:             State{Count: 3, LastStreakDate: date(2025, 6, 10), CompletedToday: 5},
			completed:         5,
			expectedCount:     4,
			expectedCompleted: 5,
		},
		{
			name:              "met yesterday, short today, streak preserved pending",
			prior:             State{Count: 3, LastStreakDate: date(2025, 6, 10), CompletedToday: 7},
			completed:         2,
			expectedCount:     3,
			expectedCompleted: 2,
		},
		{
			name:              "missed yesterday, met today, streak restarts at one",
			prior:             State{Count: 3, LastStreakDate: date(2025, 6, 10), CompletedToday: 4},
			completed:         6,
			expectedCount:     1,
			expectedCompleted: 6,
		},
		{
			name:              "missed yesterday and today resets to zero",
			prior:             State{Count: 3, LastStreakDate: date(2025, 6, 10), CompletedToday: 4},
			completed:         1,
			expectedCount:     0,
			expectedCompleted: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Update(tc.prior, tc.completed, now)

			assert.Equal(t, tc.expectedCount, got.Count)
			assert.Equal(t, tc.expectedCompleted, got.CompletedToday)
			require.NotNil(t, got.LastStreakDate)
			assert.True(t, got.LastStreakDate.Equal(*date(2025, 6, 11)))
		})
	}
}

func TestUpdateGap(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		name          string
		now           time.Time
		completed     int
		expectedCount int
	}{
		{
			name:          "two day gap with enough completions restarts at one",
			now:           time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC),
			completed:     8,
			expectedCount: 1,
		},
		{
			name:          "two day gap with too few completions resets to zero",
			now:           time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC),
			completed:     3,
			expectedCount: 0,
		},
		{
			name:          "long gap ignores prior streak length entirely",
			now:           time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
			completed:     5,
			expectedCount: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prior := State{Count: 99, LastStreakDate: date(2025, 6, 10), CompletedToday: 12}
			got := Update(prior, tc.completed, tc.now)

			assert.Equal(t, tc.expectedCount, got.Count)
			assert.Equal(t, tc.completed, got.CompletedToday)
		})
	}
}

func TestUpdateEdgeCases(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2025, 6, 10, 18, 45, 0, 0, time.UTC)

	t.Run("negative completed count clamps to zero", func(t *testing.T) {
		prior := State{Count: 2, LastStreakDate: date(2025, 6, 10), CompletedToday: 4}
		got := Update(prior, -3, now)

		assert.Equal(t, 4, got.CompletedToday)
		assert.Equal(t, 2, got.Count)
	})

	t.Run("lesson-only session with zero count preserves a met day", func(t *testing.T) {
		prior := State{Count: 2, LastStreakDate: date(2025, 6, 10), CompletedToday: 6}
		got := Update(prior, 0, now)

		assert.Equal(t, 6, got.CompletedToday)
		assert.Equal(t, 2, got.Count)
	})

	t.Run("prior date with time of day is normalized before comparison", func(t *testing.T) {
		lastEvening := time.Date(2025, 6, 9, 23, 30, 0, 0, time.UTC)
		prior := State{Count: 1, LastStreakDate: &lastEvening, CompletedToday: 5}
		got := Update(prior, 5, now)

		assert.Equal(t, 2, got.Count, "evening timestamp still counts as yesterday")
	})

	t.Run("input state is not modified", func(t *testing.T) {
		last := *date(2025, 6, 10)
		prior := State{Count: 2, LastStreakDate: &last, CompletedToday: 4}
		_ = Update(prior, 3, now)

		assert.Equal(t, 2, prior.Count)
		assert.Equal(t, 4, prior.CompletedToday)
		assert.True(t, prior.LastStreakDate.Equal(last))
	})

	t.Run("deterministic for fixed inputs", func(t *testing.T) {
		prior := State{Count: 2, LastStreakDate: date(2025, 6, 9), CompletedToday: 5}
		first := Update(prior, 5, now)
		second := Update(prior, 5, now)

		assert.Equal(t, first.Count, second.Count)
		assert.Equal(t, first.CompletedToday, second.CompletedToday)
		assert.True(t, first.LastStreakDate.Equal(*second.LastStreakDate))
	})
}
