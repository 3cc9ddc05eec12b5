package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"callcast/internal/config"
	"callcast/internal/dataload"
	apperrors "callcast/internal/errors"
	"callcast/internal/exporter"
	"callcast/internal/features"
	"callcast/internal/infrastructure"
	"callcast/internal/timegrid"
	"callcast/pkg/contracts/domain"
)

// Pipeline runs feature builds for one configuration. It is safe to reuse
// across runs; all per-run state lives on the stack of BuildAndSave.
type Pipeline struct {
	cfg     *config.Config
	log     *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// Result describes one completed run.
type Result struct {
	RunID        string
	OutputPath   string
	ManifestPath string
	Rows         int
	Cols         int
	Groups       []GroupOutcome
	Started      time.Time
	Finished     time.Time

	// Table is the in-memory feature table, kept for callers that feed a
	// downstream loader. It is not part of the manifest.
	Table *domain.FeatureTable
}

// GroupOutcome records how one (entity, family) group fared.
type GroupOutcome struct {
	Entity  string `yaml:"entity" json:"entity"`
	Family  string `yaml:"family" json:"family"`
	Rows    int    `yaml:"rows" json:"rows"`
	Skipped bool   `yaml:"skipped" json:"skipped"`
	Reason  string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// New returns a Pipeline for cfg that logs through log.
func New(cfg *config.Config, log *slog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: infrastructure.WithComponent(log, "pipeline")}
}

// WithMetrics attaches run metrics. A nil metrics set disables recording.
func (p *Pipeline) WithMetrics(m *infrastructure.PipelineMetrics) *Pipeline {
	p.metrics = m
	return p
}

// BuildAndSave executes one full run: load, build per group, concatenate,
// write table and manifest. It is the single entry point callers schedule;
// it performs no retries itself. Fatal errors return before anything is
// written; recoverable group errors shrink the output instead.
func (p *Pipeline) BuildAndSave(ctx context.Context) (*Result, error) {
	started := time.Now()
	runID := newRunID()
	log := p.log.With(slog.String("run_id", runID))

	log.InfoContext(ctx, "feature build started",
		slog.String("historic_path", p.cfg.HistoricPath),
		slog.String("output_dir", p.cfg.OutputDir),
		slog.Int("workers", p.cfg.Workers))

	res, err := p.run(ctx, log, runID, started)
	p.record(ctx, res, started, err == nil)
	if err != nil {
		log.ErrorContext(ctx, "feature build failed", slog.String("error", err.Error()))
		return nil, err
	}

	log.InfoContext(ctx, "feature build finished",
		slog.String("output", res.OutputPath),
		slog.Int("rows", res.Rows),
		slog.Int("cols", res.Cols),
		slog.Duration("elapsed", res.Finished.Sub(res.Started)))
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, log *slog.Logger, runID string, started time.Time) (*Result, error) {
	freq, err := p.cfg.Features.FreqDuration()
	if err != nil {
		return nil, apperrors.NewConfigError("invalid grid frequency", err)
	}

	loader := dataload.NewLoader(log)
	records, err := loader.Load(ctx, p.cfg.HistoricPath)
	if err != nil {
		return nil, err
	}
	obs, err := dataload.Observations(records)
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, apperrors.NewNoInputDataError(p.cfg.HistoricPath)
	}

	keys := dataload.GroupKeys(obs)
	byGroup := make(map[domain.GroupKey][]domain.Observation, len(keys))
	byFamily := make(map[string][]domain.Observation)
	for _, o := range obs {
		byGroup[o.Key] = append(byGroup[o.Key], o)
		byFamily[o.Key.Family] = append(byFamily[o.Key.Family], o)
	}

	resampler := timegrid.New(freq)

	// Family buckets must be complete before any group derives its
	// family-level columns.
	familyBuckets := make(map[string]map[time.Time]float64, len(byFamily))
	for family, famObs := range byFamily {
		familyBuckets[family] = resampler.Buckets(famObs)
	}

	builder := features.NewBuilder(p.cfg.Features, log)

	frames := make([]*features.Frame, len(keys))
	outcomes := make([]GroupOutcome, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			frame, err := p.buildGroup(gctx, resampler, builder, key, byGroup[key], familyBuckets[key.Family])
			if err != nil {
				if !apperrors.IsFatal(err) {
					log.WarnContext(gctx, "group skipped",
						slog.String("entity", key.Entity),
						slog.String("family", key.Family),
						slog.String("error", err.Error()))
					outcomes[i] = GroupOutcome{Entity: key.Entity, Family: key.Family, Skipped: true, Reason: err.Error()}
					return nil
				}
				return err
			}
			frames[i] = frame
			outcomes[i] = GroupOutcome{Entity: key.Entity, Family: key.Family, Rows: frame.Len()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := concatFrames(keys, frames)
	if table.Rows() == 0 {
		return nil, apperrors.NewNoInputDataError(p.cfg.HistoricPath)
	}

	writer, err := exporter.NewWriter(p.cfg.OutputFormat, log)
	if err != nil {
		return nil, err
	}
	outputPath := filepath.Join(p.cfg.OutputDir, "features"+writer.Ext())
	if err := writer.Write(ctx, table, outputPath); err != nil {
		return nil, err
	}

	finished := time.Now()
	manifest := NewManifest(runID, table, outputPath, p.cfg.OutputFormat, outcomes, started, finished)
	manifestPath, err := manifest.Save(p.cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:        runID,
		OutputPath:   outputPath,
		ManifestPath: manifestPath,
		Rows:         table.Rows(),
		Cols:         table.Cols(),
		Groups:       outcomes,
		Started:      started,
		Finished:     finished,
		Table:        table,
	}, nil
}

// buildGroup produces the finished frame for one (entity, family) group:
// resampled series, builder features, imputed flag and the family rolling
// means aligned onto the group's own grid.
func (p *Pipeline) buildGroup(ctx context.Context, resampler *timegrid.Resampler, builder *features.Builder,
	key domain.GroupKey, obs []domain.Observation, famBuckets map[time.Time]float64) (*features.Frame, error) {

	series, observed, err := resampler.Resample(obs, key)
	if err != nil {
		return nil, err
	}
	frame, err := builder.Build(ctx, series, observed)
	if err != nil {
		return nil, err
	}

	imputed := make([]float64, series.Len())
	for i, t := range series.Times {
		if !observed.Has(t) {
			imputed[i] = 1
		}
	}
	frame.Set(domain.ColImputed, imputed)

	famValues := timegrid.AlignBuckets(famBuckets, series.Times)
	for _, w := range p.cfg.Features.RollingWindows {
		frame.Set(fmt.Sprintf("family_roll_mean_%d", w), features.RollingMean(famValues, w))
	}
	return frame, nil
}

func (p *Pipeline) workers() int {
	if p.cfg.Workers < 1 {
		return 1
	}
	return p.cfg.Workers
}

func (p *Pipeline) record(ctx context.Context, res *Result, started time.Time, success bool) {
	if p.metrics == nil {
		return
	}
	var groups, skipped, rows int64
	if res != nil {
		rows = int64(res.Rows)
		for _, o := range res.Groups {
			if o.Skipped {
				skipped++
			} else {
				groups++
			}
		}
	}
	infrastructure.RecordRunMetrics(ctx, p.metrics, time.Since(started), groups, skipped, rows, success)
}

// concatFrames merges the per-group frames into one table. The column set is
// the union over all groups in enumeration order; a column absent from a
// group is zero for that group's rows, matching the final-fill contract.
func concatFrames(keys []domain.GroupKey, frames []*features.Frame) *domain.FeatureTable {
	order := []string{domain.ColTimestamp, domain.ColEntity, domain.ColFamily}
	seen := map[string]struct{}{
		domain.ColTimestamp: {},
		domain.ColEntity:    {},
		domain.ColFamily:    {},
	}
	total := 0
	for _, f := range frames {
		if f == nil {
			continue
		}
		total += f.Len()
		for _, name := range f.Columns() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			order = append(order, name)
		}
	}

	table := &domain.FeatureTable{
		ColumnOrder: order,
		Times:       make([]time.Time, 0, total),
		Entities:    make([]string, 0, total),
		Families:    make([]string, 0, total),
		Numeric:     make(map[string][]float64, len(order)-3),
	}
	for _, name := range order[3:] {
		table.Numeric[name] = make([]float64, 0, total)
	}

	for i, f := range frames {
		if f == nil {
			continue
		}
		n := f.Len()
		table.Times = append(table.Times, f.Times()...)
		for j := 0; j < n; j++ {
			table.Entities = append(table.Entities, keys[i].Entity)
			table.Families = append(table.Families, keys[i].Family)
		}
		for _, name := range order[3:] {
			if col := f.Column(name); col != nil {
				table.Numeric[name] = append(table.Numeric[name], col...)
			} else {
				table.Numeric[name] = append(table.Numeric[name], make([]float64, n)...)
			}
		}
	}
	return table
}
