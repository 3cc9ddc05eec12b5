package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "callcast/internal/errors"
)

func assertRowNaN(t *testing.T, cols historicalColumns, i int) {
	t.Helper()
	for j, col := range cols.byColumn() {
		assert.True(t, math.IsNaN(col[i]), "row %d metric %s", i, histMetrics[j])
	}
}

func assertRow(t *testing.T, cols historicalColumns, i int, want summary) {
	t.Helper()
	assert.InDelta(t, want.Sum, cols.Sum[i], 1e-9, "sum[%d]", i)
	assert.InDelta(t, want.Mean, cols.Mean[i], 1e-9, "mean[%d]", i)
	assert.InDelta(t, want.Median, cols.Median[i], 1e-9, "median[%d]", i)
	assert.InDelta(t, want.Max, cols.Max[i], 1e-9, "max[%d]", i)
	assert.InDelta(t, want.Min, cols.Min[i], 1e-9, "min[%d]", i)
	assert.InDelta(t, want.Std, cols.Std[i], 1e-9, "std[%d]", i)
	assert.InDelta(t, want.Q25, cols.Q25[i], 1e-9, "q25[%d]", i)
	assert.InDelta(t, want.Q75, cols.Q75[i], 1e-9, "q75[%d]", i)
}

func TestPrevDayAggregates(t *testing.T) {
	times := []time.Time{
		ts(2024, time.January, 8, 0, 0, 0),
		ts(2024, time.January, 8, 6, 0, 0),
		ts(2024, time.January, 8, 18, 0, 0),
		ts(2024, time.January, 9, 0, 0, 0),
		ts(2024, time.January, 9, 6, 0, 0),
	}
	rawTimes := []time.Time{
		ts(2024, time.January, 8, 0, 0, 0),
		ts(2024, time.January, 8, 6, 0, 0),
		ts(2024, time.January, 8, 12, 0, 0),
		ts(2024, time.January, 9, 0, 0, 0),
	}
	rawValues := []float64{1, 2, 3, 4}

	cols, err := prevDayAggregates(times, rawTimes, rawValues)
	require.NoError(t, err)

	// January 8 rows look back at January 7, which has no data.
	assertRowNaN(t, cols, 0)
	assertRowNaN(t, cols, 1)
	assertRowNaN(t, cols, 2)

	// January 9 rows read the aggregates of January 8.
	wantJan8 := summary{
		Sum: 6, Mean: 2, Median: 2, Max: 3, Min: 1,
		Std: math.Sqrt(2.0 / 3.0), Q25: 1.5, Q75: 2.5,
	}
	assertRow(t, cols, 3, wantJan8)
	assertRow(t, cols, 4, wantJan8)
}

func TestPrevWeekAggregates(t *testing.T) {
	times := []time.Time{
		ts(2024, time.January, 2, 10, 0, 0), // week of Jan 1, no prior week data
		ts(2024, time.January, 8, 0, 0, 0),  // week of Jan 8
		ts(2024, time.January, 9, 6, 0, 0),  // week of Jan 8
	}
	rawTimes := []time.Time{
		ts(2024, time.January, 2, 10, 0, 0),
		ts(2024, time.January, 2, 14, 0, 0),
		ts(2024, time.January, 8, 0, 0, 0),
	}
	rawValues := []float64{10, 20, 5}

	cols, err := prevWeekAggregates(times, rawTimes, rawValues)
	require.NoError(t, err)

	assertRowNaN(t, cols, 0)

	wantWeekJan1 := summary{
		Sum: 30, Mean: 15, Median: 15, Max: 20, Min: 10,
		Std: 5, Q25: 12.5, Q75: 17.5,
	}
	assertRow(t, cols, 1, wantWeekJan1)
	assertRow(t, cols, 2, wantWeekJan1)
}

func TestPrevWeekSlotAggregates(t *testing.T) {
	times := []time.Time{
		ts(2024, time.January, 8, 6, 0, 0),
		ts(2024, time.January, 9, 6, 0, 0),
		ts(2024, time.January, 9, 12, 0, 0),
		ts(2024, time.January, 8, 18, 0, 0), // no raw data in this slot
		ts(2024, time.January, 15, 6, 0, 0), // next week, slot not populated
	}
	rawTimes := []time.Time{
		ts(2024, time.January, 8, 6, 0, 0),
		ts(2024, time.January, 9, 6, 0, 0),
		ts(2024, time.January, 8, 12, 0, 0),
	}
	rawValues := []float64{2, 6, 10}

	cols, err := prevWeekSlotAggregates(times, rawTimes, rawValues)
	require.NoError(t, err)

	// The 06:00 slot of the week of January 8 pools both raw points.
	want0600 := summary{
		Sum: 8, Mean: 4, Median: 4, Max: 6, Min: 2,
		Std: 2, Q25: 3, Q75: 5,
	}
	assertRow(t, cols, 0, want0600)
	assertRow(t, cols, 1, want0600)

	assertRow(t, cols, 2, summary{
		Sum: 10, Mean: 10, Median: 10, Max: 10, Min: 10,
		Std: 0, Q25: 10, Q75: 10,
	})

	assertRowNaN(t, cols, 3)
	assertRowNaN(t, cols, 4)
}

func TestPriorWeekdayAggregates(t *testing.T) {
	times := []time.Time{
		ts(2024, time.January, 29, 0, 0, 0), // Monday, pools Jan 8 and Jan 1
		ts(2024, time.January, 15, 8, 0, 0), // Monday, same pool
		ts(2024, time.January, 15, 9, 0, 0), // same date, cached pool
		ts(2024, time.January, 9, 0, 0, 0),  // Tuesday, no prior Tuesdays with data
		ts(2024, time.January, 16, 0, 0, 0), // Tuesday, pools Jan 9 only
	}
	rawTimes := []time.Time{
		ts(2024, time.January, 1, 9, 0, 0),
		ts(2024, time.January, 8, 0, 0, 0),
		ts(2024, time.January, 8, 6, 0, 0),
		ts(2024, time.January, 8, 12, 0, 0),
		ts(2024, time.January, 9, 0, 0, 0),
	}
	rawValues := []float64{5, 1, 2, 3, 7}

	cols, err := priorWeekdayAggregates(times, rawTimes, rawValues)
	require.NoError(t, err)

	wantMonday := summary{
		Sum: 11, Mean: 2.75, Median: 2.5, Max: 5, Min: 1,
		Std: math.Sqrt(2.1875), Q25: 1.75, Q75: 3.5,
	}
	assertRow(t, cols, 0, wantMonday)
	assertRow(t, cols, 1, wantMonday)
	assertRow(t, cols, 2, wantMonday)

	assertRowNaN(t, cols, 3)

	assertRow(t, cols, 4, summary{
		Sum: 7, Mean: 7, Median: 7, Max: 7, Min: 7,
		Std: 0, Q25: 7, Q75: 7,
	})
}

func TestHistoricalAggregates_MisalignedRawSeries(t *testing.T) {
	times := []time.Time{ts(2024, time.January, 8, 0, 0, 0)}
	rawTimes := []time.Time{ts(2024, time.January, 7, 0, 0, 0)}

	builders := []func(times, rawTimes []time.Time, rawValues []float64) (historicalColumns, error){
		prevDayAggregates,
		prevWeekAggregates,
		prevWeekSlotAggregates,
		priorWeekdayAggregates,
	}
	for _, build := range builders {
		cols, err := build(times, rawTimes, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeHistoricalAggregate))
		assertRowNaN(t, cols, 0)
	}
}
