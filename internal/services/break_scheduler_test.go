package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBreakSchedule(t *testing.T) {
	tests := []struct {
		name        string
		hours       float64
		shortBreaks int
		dailyRests  int
		minutes     int
		description string
	}{
		{
			name:        "zero driving",
			hours:       0,
			description: "no break required",
		},
		{
			name:        "below continuous limit",
			hours:       4.0,
			description: "no break required",
		},
		{
			name:        "exactly at continuous limit",
			hours:       4.5,
			shortBreaks: 1,
			minutes:     45,
			description: "1 x 45-minute break (tachograph rules)",
		},
		{
			name:        "between limits",
			hours:       8.0,
			shortBreaks: 1,
			minutes:     45,
			description: "1 x 45-minute break (tachograph rules)",
		},
		{
			// The second continuous crossing coincides with the daily limit,
			// so it becomes a daily rest instead of a second short break.
			name:        "exactly at daily limit",
			hours:       9.0,
			shortBreaks: 1,
			dailyRests:  1,
			minutes:     705,
			description: "1 x 45-minute break + 1 x 11-hour rest (tachograph rules)",
		},
		{
			name:        "one hour past daily limit",
			hours:       10.0,
			shortBreaks: 1,
			dailyRests:  1,
			minutes:     705,
			description: "1 x 45-minute break + 1 x 11-hour rest (tachograph rules)",
		},
		{
			name:        "two duty days",
			hours:       20.0,
			shortBreaks: 2,
			dailyRests:  2,
			minutes:     1410,
			description: "2 x 45-minute break + 2 x 11-hour rest (tachograph rules)",
		},
		{
			name:        "continuous limit on second day",
			hours:       13.5,
			shortBreaks: 2,
			dailyRests:  1,
			minutes:     750,
			description: "2 x 45-minute break + 1 x 11-hour rest (tachograph rules)",
		},
		{
			name:        "tiny positive input",
			hours:       1e-9,
			description: "no break required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBreakSchedule(tt.hours)
			require.NoError(t, err)

			assert.Equal(t, tt.shortBreaks, got.ShortBreakCount, "short breaks")
			assert.Equal(t, tt.dailyRests, got.DailyRestCount, "daily rests")
			assert.Equal(t, tt.minutes, got.TotalBreakMinutes, "total break minutes")
			assert.Equal(t, tt.description, got.Description)
		})
	}
}

func TestComputeBreakSchedule_DailyRestMinutes(t *testing.T) {
	got, err := ComputeBreakSchedule(20.0)
	require.NoError(t, err)

	assert.Equal(t, 1320, got.DailyRestCount*660)
	assert.Equal(t, 4, got.TotalStops())
}

func TestComputeBreakSchedule_RejectsInvalidInput(t *testing.T) {
	inputs := []float64{-0.1, -100, math.NaN(), math.Inf(1), math.Inf(-1), MaxDrivingHours + 1}

	for _, in := range inputs {
		_, err := ComputeBreakSchedule(in)
		require.Error(t, err, "input %v", in)
		assert.ErrorIs(t, err, ErrInvalidDrivingHours)
	}
}

func TestComputeBreakSchedule_Invariants(t *testing.T) {
	prevMinutes := 0

	for i := 0; i <= 600; i++ {
		hours := float64(i) * 0.05

		got, err := ComputeBreakSchedule(hours)
		require.NoError(t, err)

		assert.Equal(t, 45*got.ShortBreakCount+660*got.DailyRestCount, got.TotalBreakMinutes, "hours=%v", hours)
		assert.GreaterOrEqual(t, got.TotalBreakMinutes, prevMinutes, "not monotonic at hours=%v", hours)
		prevMinutes = got.TotalBreakMinutes

		// A duty day never holds more than one short break before its rest.
		assert.LessOrEqual(t, got.ShortBreakCount, got.DailyRestCount+1, "hours=%v", hours)
	}
}

func TestComputeBreakSchedule_Idempotent(t *testing.T) {
	first, err := ComputeBreakSchedule(37.3)
	require.NoError(t, err)

	second, err := ComputeBreakSchedule(37.3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeBreakSchedule_ConcurrentCalls(t *testing.T) {
	want, err := ComputeBreakSchedule(25)
	require.NoError(t, err)

	results := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() {
			got, err := ComputeBreakSchedule(25)
			if err == nil && got != want {
				err = assert.AnError
			}
			results <- err
		}()
	}

	for i := 0; i < 16; i++ {
		assert.NoError(t, <-results)
	}
}
