// Package pipeline orchestrates one feature build run: it loads the raw
// historic records, enumerates every (entity, family) group, drives the
// resampler and feature builder per group, attaches the family-level rolling
// aggregates, concatenates the group frames into one table, and writes the
// table plus a run manifest.
//
// # Run Flow
//
//	1. Load and deduplicate raw records (internal/dataload)
//	2. Precompute the per-family bucket series (one-time barrier)
//	3. Resample and build features per group (internal/timegrid,
//	   internal/features), bounded worker pool
//	4. Concatenate group frames in enumeration order
//	5. Write the output table (internal/exporter) and manifest.yaml
//
// Groups are independent; only the read-only family buckets are shared, and
// they are fully computed before the pool starts. A group without data is
// skipped and logged, never fatal. Frames land in preallocated per-group
// slots so the output row order does not depend on worker scheduling.
package pipeline
