package features

import (
	"math"
	"time"

	"callcast/internal/holidays"
)

// calendarColumns holds the calendar, cyclical and payroll-cycle encodings
// for a grid index, in output order.
type calendarColumns struct {
	Hour          []float64
	Dow           []float64
	HourSin       []float64
	HourCos       []float64
	DowSin        []float64
	DowCos        []float64
	IsWeekend     []float64
	Month         []float64
	DayOfMonth    []float64
	DayOfYear     []float64
	Minute        []float64
	Jornada       []float64
	QuincenaEarly []float64
	QuincenaLate  []float64
}

// calendarFeatures derives the calendar encodings for a grid index. Day of
// week is Monday-based (Monday = 0), and the weekend flag covers Saturday
// and Sunday.
func calendarFeatures(times []time.Time) calendarColumns {
	n := len(times)
	cc := calendarColumns{
		Hour:          make([]float64, n),
		Dow:           make([]float64, n),
		HourSin:       make([]float64, n),
		HourCos:       make([]float64, n),
		DowSin:        make([]float64, n),
		DowCos:        make([]float64, n),
		IsWeekend:     make([]float64, n),
		Month:         make([]float64, n),
		DayOfMonth:    make([]float64, n),
		DayOfYear:     make([]float64, n),
		Minute:        make([]float64, n),
		Jornada:       make([]float64, n),
		QuincenaEarly: make([]float64, n),
		QuincenaLate:  make([]float64, n),
	}
	for i, t := range times {
		hour := float64(t.Hour())
		dow := float64(mondayWeekday(t))
		cc.Hour[i] = hour
		cc.Dow[i] = dow
		cc.HourSin[i] = math.Sin(2 * math.Pi * hour / 24)
		cc.HourCos[i] = math.Cos(2 * math.Pi * hour / 24)
		cc.DowSin[i] = math.Sin(2 * math.Pi * dow / 7)
		cc.DowCos[i] = math.Cos(2 * math.Pi * dow / 7)
		if dow >= 5 {
			cc.IsWeekend[i] = 1
		}
		cc.Month[i] = float64(int(t.Month()))
		cc.DayOfMonth[i] = float64(t.Day())
		cc.DayOfYear[i] = float64(t.YearDay())
		cc.Minute[i] = float64(t.Minute())
		if !morning(t) {
			cc.Jornada[i] = 1
		}
		day := t.Day()
		if day >= 14 && day <= 16 {
			cc.QuincenaEarly[i] = 1
		}
		if day >= 29 || day == 1 {
			cc.QuincenaLate[i] = 1
		}
	}
	return cc
}

// morning reports whether t belongs to the morning jornada. Noon itself is
// still morning; one second past noon is not.
func morning(t time.Time) bool {
	if t.Hour() < 12 {
		return true
	}
	return t.Hour() == 12 && t.Minute() == 0 && t.Second() == 0
}

// mondayWeekday returns the day of week with Monday = 0 and Sunday = 6.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// holidayColumn flags the grid timestamps whose calendar date is a public
// holiday.
func holidayColumn(times []time.Time, cal holidays.Calendar) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		if cal.Contains(t) {
			out[i] = 1
		}
	}
	return out
}

// dateOf truncates t to midnight, keeping the location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mondayOf returns the Monday of t's week as a midnight timestamp.
func mondayOf(t time.Time) time.Time {
	return dateOf(t).AddDate(0, 0, -mondayWeekday(t))
}
