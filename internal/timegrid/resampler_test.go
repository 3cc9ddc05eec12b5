package timegrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "callcast/internal/errors"
	"callcast/pkg/contracts/domain"
)

var testKey = domain.GroupKey{Entity: "api_pagos", Family: "pagos"}

func obsAt(t time.Time, count float64) domain.Observation {
	return domain.Observation{Time: t, Key: testKey, Count: count}
}

func TestResample_SumsBucketAndFillsGaps(t *testing.T) {
	base := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	obs := []domain.Observation{
		obsAt(base.Add(2*time.Minute), 5),
		obsAt(base.Add(3*time.Minute), 3),
		obsAt(base.Add(17*time.Minute), 2),
	}

	r := New(5 * time.Minute)
	series, observed, err := r.Resample(obs, testKey)
	require.NoError(t, err)

	wantTimes := []time.Time{
		base,
		base.Add(5 * time.Minute),
		base.Add(10 * time.Minute),
		base.Add(15 * time.Minute),
	}
	require.Equal(t, wantTimes, series.Times)
	assert.Equal(t, []float64{8, 8, 8, 2}, series.Values)

	assert.True(t, observed.Has(wantTimes[0]))
	assert.False(t, observed.Has(wantTimes[1]))
	assert.False(t, observed.Has(wantTimes[2]))
	assert.True(t, observed.Has(wantTimes[3]))

	assert.Equal(t, 5*time.Minute, series.Freq())
}

func TestResample_SingleBucket(t *testing.T) {
	at := time.Date(2024, time.March, 4, 10, 1, 0, 0, time.UTC)

	r := New(5 * time.Minute)
	series, observed, err := r.Resample([]domain.Observation{obsAt(at, 7)}, testKey)
	require.NoError(t, err)

	require.Equal(t, 1, series.Len())
	assert.Equal(t, time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC), series.Times[0])
	assert.Equal(t, []float64{7}, series.Values)
	assert.Len(t, observed, 1)
}

func TestResample_UnorderedInput(t *testing.T) {
	base := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	obs := []domain.Observation{
		obsAt(base.Add(10*time.Minute), 3),
		obsAt(base, 1),
	}

	r := New(5 * time.Minute)
	series, _, err := r.Resample(obs, testKey)
	require.NoError(t, err)

	require.Equal(t, 3, series.Len())
	assert.Equal(t, base, series.Times[0])
	assert.Equal(t, []float64{1, 1, 3}, series.Values)
}

func TestResample_Empty(t *testing.T) {
	r := New(5 * time.Minute)
	_, _, err := r.Resample(nil, testKey)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeEmptySeries))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "api_pagos", appErr.Context["entity"])
}

func TestResample_DailyGrid(t *testing.T) {
	day := 24 * time.Hour
	obs := []domain.Observation{
		obsAt(time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC), 4),
		obsAt(time.Date(2024, time.March, 4, 18, 0, 0, 0, time.UTC), 6),
		obsAt(time.Date(2024, time.March, 6, 1, 0, 0, 0, time.UTC), 5),
	}

	r := New(day)
	series, observed, err := r.Resample(obs, testKey)
	require.NoError(t, err)

	require.Equal(t, 3, series.Len())
	assert.Equal(t, []float64{10, 10, 5}, series.Values)
	assert.False(t, observed.Has(series.Times[1]))
}

func TestBuckets(t *testing.T) {
	base := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	obs := []domain.Observation{
		obsAt(base.Add(time.Minute), 1),
		obsAt(base.Add(4*time.Minute), 2),
		obsAt(base.Add(6*time.Minute), 10),
	}

	buckets := New(5 * time.Minute).Buckets(obs)

	require.Len(t, buckets, 2)
	assert.Equal(t, 3.0, buckets[base])
	assert.Equal(t, 10.0, buckets[base.Add(5*time.Minute)])
}

func TestAlignBuckets(t *testing.T) {
	base := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	buckets := map[time.Time]float64{
		base.Add(5 * time.Minute):  7,
		base.Add(15 * time.Minute): 9,
	}
	times := []time.Time{
		base, // before the first family bucket
		base.Add(5 * time.Minute),
		base.Add(10 * time.Minute), // gap, carries 7 forward
		base.Add(15 * time.Minute),
		base.Add(20 * time.Minute), // trailing gap, carries 9
	}

	got := AlignBuckets(buckets, times)

	assert.Equal(t, []float64{0, 7, 7, 9, 9}, got)
}

func TestAlignBuckets_NoMatches(t *testing.T) {
	times := []time.Time{
		time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 4, 10, 5, 0, 0, time.UTC),
	}

	got := AlignBuckets(map[time.Time]float64{}, times)

	assert.Equal(t, []float64{0, 0}, got)
}
