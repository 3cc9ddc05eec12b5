package dataload

import (
	"fmt"
	"time"

	apperrors "callcast/internal/errors"
	"callcast/pkg/contracts/domain"
)

// Observations resolves raw records into observations, collapsing rows that
// are identical across every column (entity, family, timestamp and count).
// Rows sharing a timestamp but carrying different counts all survive; the
// resampler sums them into the same bucket. Input order is preserved, so
// group enumeration stays deterministic.
func Observations(records []domain.RawRecord) ([]domain.Observation, error) {
	type dedupeKey struct {
		key   domain.GroupKey
		ts    time.Time
		count float64
	}

	seen := make(map[dedupeKey]struct{}, len(records))
	out := make([]domain.Observation, 0, len(records))
	for i, rec := range records {
		ts, err := rec.Timestamp()
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("record %d has an invalid timestamp", i), err)
		}
		k := dedupeKey{
			key:   domain.GroupKey{Entity: rec.Entity, Family: rec.Family},
			ts:    ts,
			count: rec.Count,
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, domain.Observation{Time: ts, Key: k.key, Count: rec.Count})
	}
	return out, nil
}

// GroupKeys lists the distinct (entity, family) pairs in first-appearance
// order.
func GroupKeys(obs []domain.Observation) []domain.GroupKey {
	seen := make(map[domain.GroupKey]struct{})
	var keys []domain.GroupKey
	for _, o := range obs {
		if _, ok := seen[o.Key]; ok {
			continue
		}
		seen[o.Key] = struct{}{}
		keys = append(keys, o.Key)
	}
	return keys
}

// Families lists the distinct family identifiers in first-appearance order.
func Families(obs []domain.Observation) []string {
	seen := make(map[string]struct{})
	var families []string
	for _, o := range obs {
		if _, ok := seen[o.Key.Family]; ok {
			continue
		}
		seen[o.Key.Family] = struct{}{}
		families = append(families, o.Key.Family)
	}
	return families
}
