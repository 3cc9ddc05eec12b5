// Package features derives the forecasting feature table for one filled
// call-volume series: lags and their momentum, rolling statistics, trend
// slopes, exponential averages, calendar and holiday encodings, and the
// historical aggregate families that look back at whole previous periods.
package features

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"callcast/internal/config"
	apperrors "callcast/internal/errors"
	"callcast/internal/holidays"
	"callcast/pkg/contracts/domain"
)

// Builder derives the feature frame for filled series. It is stateless and
// safe for concurrent use across groups.
type Builder struct {
	cfg config.FeaturesConfig
	log *slog.Logger
}

// NewBuilder returns a Builder using the given feature parameters.
func NewBuilder(cfg config.FeaturesConfig, log *slog.Logger) *Builder {
	return &Builder{cfg: cfg, log: log}
}

// Build produces the feature frame for one filled series. The observed set
// marks which grid points carry raw data; the historical aggregate families
// run over those raw points only. The returned frame has one row per grid
// timestamp, a stable column order, and no missing values.
func (b *Builder) Build(ctx context.Context, series domain.Series, observed domain.ObservedSet) (*Frame, error) {
	if series.Len() == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrTypeEmptySeries,
			"cannot build features for an empty series", nil)
	}
	periodsPerDay, err := b.cfg.PeriodsPerDay()
	if err != nil {
		return nil, err
	}

	values := series.Values
	frame := NewFrame(series.Times)

	for _, k := range b.cfg.LagList {
		frame.Set(fmt.Sprintf("lag_%d", k), shift(values, k))
	}
	// Momentum of the lagged column itself, not of the raw series.
	for _, k := range b.cfg.LagList {
		lag := frame.Column(fmt.Sprintf("lag_%d", k))
		frame.Set(fmt.Sprintf("diff_lag_%d", k), diff1(lag))
		frame.Set(fmt.Sprintf("pct_chg_lag_%d", k), pctChange(lag))
	}

	for _, w := range b.cfg.RollingWindows {
		rc := rollingWindow(values, w)
		frame.Set(fmt.Sprintf("roll_sum_%d", w), rc.Sum)
		frame.Set(fmt.Sprintf("roll_mean_%d", w), rc.Mean)
		frame.Set(fmt.Sprintf("roll_median_%d", w), rc.Median)
		frame.Set(fmt.Sprintf("roll_min_%d", w), rc.Min)
		frame.Set(fmt.Sprintf("roll_max_%d", w), rc.Max)
		frame.Set(fmt.Sprintf("roll_std_%d", w), rc.Std)
		frame.Set(fmt.Sprintf("roll_q25_%d", w), rc.Q25)
		frame.Set(fmt.Sprintf("roll_q75_%d", w), rc.Q75)
		frame.Set(fmt.Sprintf("roll_slope_%d", w), rc.Slope)
	}

	for _, span := range b.cfg.EMASpans {
		frame.Set(fmt.Sprintf("ema_%d", span), ema(values, span))
	}

	frame.Set("prev_day", shift(values, periodsPerDay))
	frame.Set("prev_week", shift(values, periodsPerDay*7))

	cc := calendarFeatures(series.Times)
	frame.Set("hour", cc.Hour)
	frame.Set("dow", cc.Dow)
	frame.Set("hour_sin", cc.HourSin)
	frame.Set("hour_cos", cc.HourCos)
	frame.Set("dow_sin", cc.DowSin)
	frame.Set("dow_cos", cc.DowCos)
	frame.Set("is_weekend", cc.IsWeekend)
	frame.Set("month", cc.Month)
	frame.Set("day_of_month", cc.DayOfMonth)
	frame.Set("day_of_year", cc.DayOfYear)
	frame.Set("minute", cc.Minute)
	frame.Set("jornada", cc.Jornada)
	frame.Set("quincena_early", cc.QuincenaEarly)
	frame.Set("quincena_late", cc.QuincenaLate)

	b.setHoliday(ctx, frame)

	target := make([]float64, len(values))
	copy(target, values)
	frame.Set("llamados", target)

	b.setHistorical(ctx, frame, series, observed)

	frame.FillMissing()
	return frame, nil
}

// setHoliday flags public holidays over the frame's span. A calendar that
// cannot be resolved degrades to an all-zero column instead of failing the
// group.
func (b *Builder) setHoliday(ctx context.Context, frame *Frame) {
	times := frame.Times()
	years := holidays.YearsSpanned(times[0], times[len(times)-1])
	cal, err := holidays.ForYears(b.cfg.HolidayRegion, years)
	if err != nil {
		b.log.WarnContext(ctx, "holiday calendar unavailable, flag defaults to 0",
			slog.String("region", b.cfg.HolidayRegion),
			slog.String("error", err.Error()))
		frame.SetConst("holiday", 0)
		return
	}
	frame.Set("holiday", holidayColumn(times, cal))
}

// setHistorical attaches the four historical aggregate families. Each
// family runs over the raw observed points; a failing family degrades to
// missing columns, logged once, and continues.
func (b *Builder) setHistorical(ctx context.Context, frame *Frame, series domain.Series, observed domain.ObservedSet) {
	rawTimes := make([]time.Time, 0, len(observed))
	rawValues := make([]float64, 0, len(observed))
	for i, t := range series.Times {
		if observed.Has(t) {
			rawTimes = append(rawTimes, t)
			rawValues = append(rawValues, series.Values[i])
		}
	}

	families := []struct {
		prefix string
		build  func(times, rawTimes []time.Time, rawValues []float64) (historicalColumns, error)
	}{
		{"prev_dia_com", prevDayAggregates},
		{"prev_dow_com", prevWeekAggregates},
		{"prev_dow_interval", prevWeekSlotAggregates},
		{"prev_dow_day", priorWeekdayAggregates},
	}
	for _, fam := range families {
		cols, err := fam.build(series.Times, rawTimes, rawValues)
		if err != nil {
			b.log.WarnContext(ctx, "historical aggregate family degraded",
				slog.String("family", fam.prefix),
				slog.String("error", err.Error()))
		}
		for j, col := range cols.byColumn() {
			frame.Set(fam.prefix+"_"+histMetrics[j], col)
		}
	}
}
