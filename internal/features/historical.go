package features

import (
	"fmt"
	"math"
	"time"

	apperrors "callcast/internal/errors"
)

// histMetrics lists the historical aggregate metric suffixes in output
// order. Unlike the rolling columns, max precedes min here.
var histMetrics = []string{"sum", "mean", "median", "max", "min", "std", "q25", "q75"}

// historicalColumns holds one column per historical metric. Rows without a
// matching lookup group stay NaN and are resolved by the frame's final fill
// pass.
type historicalColumns struct {
	Sum    []float64
	Mean   []float64
	Median []float64
	Max    []float64
	Min    []float64
	Std    []float64
	Q25    []float64
	Q75    []float64
}

func newHistoricalColumns(n int) historicalColumns {
	nan := func() []float64 {
		col := make([]float64, n)
		for i := range col {
			col[i] = math.NaN()
		}
		return col
	}
	return historicalColumns{
		Sum: nan(), Mean: nan(), Median: nan(), Max: nan(),
		Min: nan(), Std: nan(), Q25: nan(), Q75: nan(),
	}
}

func (h historicalColumns) setRow(i int, s summary) {
	h.Sum[i] = s.Sum
	h.Mean[i] = s.Mean
	h.Median[i] = s.Median
	h.Max[i] = s.Max
	h.Min[i] = s.Min
	h.Std[i] = s.Std
	h.Q25[i] = s.Q25
	h.Q75[i] = s.Q75
}

// byColumn returns the columns keyed by metric suffix, in histMetrics order.
func (h historicalColumns) byColumn() [][]float64 {
	return [][]float64{h.Sum, h.Mean, h.Median, h.Max, h.Min, h.Std, h.Q25, h.Q75}
}

// checkRaw validates the raw observed points shared by all aggregate
// families.
func checkRaw(family string, rawTimes []time.Time, rawValues []float64) error {
	if len(rawTimes) != len(rawValues) {
		return apperrors.NewHistoricalAggregateError(family,
			fmt.Errorf("raw series misaligned: %d timestamps, %d values", len(rawTimes), len(rawValues)))
	}
	return nil
}

// prevDayAggregates computes the metric set over the full previous calendar
// day. Raw values are grouped by date; each grid timestamp then reads the
// group for its own date minus one day.
func prevDayAggregates(times, rawTimes []time.Time, rawValues []float64) (historicalColumns, error) {
	cols := newHistoricalColumns(len(times))
	if err := checkRaw("prev_dia_com", rawTimes, rawValues); err != nil {
		return cols, err
	}

	byDate := make(map[time.Time][]float64)
	for i, t := range rawTimes {
		d := dateOf(t)
		byDate[d] = append(byDate[d], rawValues[i])
	}
	agg := make(map[time.Time]summary, len(byDate))
	for d, vals := range byDate {
		agg[d] = summarize(vals)
	}

	for i, t := range times {
		if s, ok := agg[dateOf(t).AddDate(0, 0, -1)]; ok {
			cols.setRow(i, s)
		}
	}
	return cols, nil
}

// prevWeekAggregates computes the metric set over the full previous week.
// Raw values are grouped by the Monday of their own week; each grid
// timestamp reads the group for the Monday before its own week's Monday.
func prevWeekAggregates(times, rawTimes []time.Time, rawValues []float64) (historicalColumns, error) {
	cols := newHistoricalColumns(len(times))
	if err := checkRaw("prev_dow_com", rawTimes, rawValues); err != nil {
		return cols, err
	}

	byWeek := make(map[time.Time][]float64)
	for i, t := range rawTimes {
		m := mondayOf(t)
		byWeek[m] = append(byWeek[m], rawValues[i])
	}
	agg := make(map[time.Time]summary, len(byWeek))
	for m, vals := range byWeek {
		agg[m] = summarize(vals)
	}

	for i, t := range times {
		if s, ok := agg[mondayOf(t).AddDate(0, 0, -7)]; ok {
			cols.setRow(i, s)
		}
	}
	return cols, nil
}

// slotKey identifies a (previous-week Monday, time-of-day) aggregation
// group. The time of day is seconds since midnight.
type slotKey struct {
	monday time.Time
	tod    int
}

func slotOf(t time.Time) slotKey {
	return slotKey{
		monday: mondayOf(t).AddDate(0, 0, -7),
		tod:    t.Hour()*3600 + t.Minute()*60 + t.Second(),
	}
}

// prevWeekSlotAggregates computes the metric set for a timestamp's own
// time-of-day slot. Raw values are grouped by (previous-week Monday,
// time-of-day), and each grid timestamp reads the group under its own key.
func prevWeekSlotAggregates(times, rawTimes []time.Time, rawValues []float64) (historicalColumns, error) {
	cols := newHistoricalColumns(len(times))
	if err := checkRaw("prev_dow_interval", rawTimes, rawValues); err != nil {
		return cols, err
	}

	bySlot := make(map[slotKey][]float64)
	for i, t := range rawTimes {
		k := slotOf(t)
		bySlot[k] = append(bySlot[k], rawValues[i])
	}
	agg := make(map[slotKey]summary, len(bySlot))
	for k, vals := range bySlot {
		agg[k] = summarize(vals)
	}

	for i, t := range times {
		if s, ok := agg[slotOf(t)]; ok {
			cols.setRow(i, s)
		}
	}
	return cols, nil
}

// priorWeekdayAggregates pools the raw values of the four prior occurrences
// of each timestamp's weekday (7, 14, 21 and 28 days back) and computes the
// metric set over the pooled values. Timestamps where none of the four
// dates have data stay NaN.
func priorWeekdayAggregates(times, rawTimes []time.Time, rawValues []float64) (historicalColumns, error) {
	cols := newHistoricalColumns(len(times))
	if err := checkRaw("prev_dow_day", rawTimes, rawValues); err != nil {
		return cols, err
	}

	byDate := make(map[time.Time][]float64)
	for i, t := range rawTimes {
		d := dateOf(t)
		byDate[d] = append(byDate[d], rawValues[i])
	}

	// Dates repeat across a day's grid rows, so pooled metrics are cached
	// per date.
	cache := make(map[time.Time]*summary)
	for i, t := range times {
		d := dateOf(t)
		if s, ok := cache[d]; ok {
			if s != nil {
				cols.setRow(i, *s)
			}
			continue
		}
		var pool []float64
		for k := 1; k <= 4; k++ {
			pool = append(pool, byDate[d.AddDate(0, 0, -7*k)]...)
		}
		if len(pool) == 0 {
			cache[d] = nil
			continue
		}
		s := summarize(pool)
		cache[d] = &s
		cols.setRow(i, s)
	}
	return cols, nil
}
