package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawRecord represents one logged call-volume observation as it appears in
// the historic input files. Calendar fields are kept separate because that
// is how the upstream logger emits them; Timestamp assembles them.
type RawRecord struct {
	Year   int     `json:"anio" validate:"required,min=2000"`
	Month  int     `json:"mes" validate:"required,min=1,max=12"`
	Day    int     `json:"dia" validate:"required,min=1,max=31"`
	Time   string  `json:"hora" validate:"required"`
	Entity string  `json:"api_name" validate:"required"`
	Family string  `json:"familia" validate:"required"`
	Count  float64 `json:"llamados" validate:"min=0"`
}

// Timestamp builds the record's wall-clock timestamp in UTC. The time-of-day
// field accepts "HH:MM:SS" or "HH:MM".
func (r RawRecord) Timestamp() (time.Time, error) {
	hour, minute, second, err := parseTimeOfDay(r.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("record %s/%s %04d-%02d-%02d: %w",
			r.Entity, r.Family, r.Year, r.Month, r.Day, err)
	}
	return time.Date(r.Year, time.Month(r.Month), r.Day, hour, minute, second, 0, time.UTC), nil
}

// Observation is a RawRecord whose timestamp has been resolved. All later
// pipeline stages work on observations so the calendar fields are parsed
// exactly once.
type Observation struct {
	Time  time.Time
	Key   GroupKey
	Count float64
}

// GroupKey identifies one (entity, family) processing group.
type GroupKey struct {
	Entity string `json:"api_name"`
	Family string `json:"familia"`
}

// String returns the key in "entity/family" form for logging.
func (k GroupKey) String() string {
	return k.Entity + "/" + k.Family
}

func parseTimeOfDay(s string) (hour, minute, second int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	fields := make([]int, 3)
	for i, p := range parts {
		v, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("invalid time of day %q", s)
		}
		fields[i] = v
	}
	hour, minute, second = fields[0], fields[1], fields[2]
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, 0, 0, fmt.Errorf("time of day %q out of range", s)
	}
	return hour, minute, second, nil
}
