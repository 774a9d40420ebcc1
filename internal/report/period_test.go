package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLastCompleteWeekBounds(t *testing.T) {
	// Wednesday 27 Aug 2025
	now := time.Date(2025, 8, 27, 14, 30, 0, 0, time.UTC)
	period := LastCompleteWeek(now)

	require.Equal(t, time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC), period.Start)
	require.Equal(t, time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC), period.End)
	require.Equal(t, time.Monday, period.Start.Weekday())
	require.Equal(t, time.Sunday, period.End.Weekday())
	require.Equal(t, period.Start.AddDate(0, 0, 6), period.End)
}

func TestLastCompleteWeekSundayResolvesToPreviousWeek(t *testing.T) {
	// A Sunday run still reports on the week that closed the Sunday before.
	now := time.Date(2025, 8, 31, 9, 0, 0, 0, time.UTC)
	period := LastCompleteWeek(now)

	require.Equal(t, time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC), period.End)
}

func TestLastCompleteWeekIdempotentAcrossTheWeek(t *testing.T) {
	// Every instant from Monday 25 Aug through Sunday 31 Aug resolves to the
	// same completed window.
	want := Period{
		Start: time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC),
	}
	for day := 25; day <= 31; day++ {
		for _, hour := range []int{0, 12, 23} {
			now := time.Date(2025, 8, day, hour, 59, 3, 0, time.UTC)
			require.Equal(t, want, LastCompleteWeek(now), "day %d hour %d", day, hour)
		}
	}
}

func TestPeriodLabel(t *testing.T) {
	period := Period{
		Start: time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC),
	}
	require.Equal(t, "18 aug - 24 aug 2025", period.Label())
}
