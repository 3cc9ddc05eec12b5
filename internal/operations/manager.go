package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"callcast/internal/config"
	"callcast/internal/infrastructure"
	"callcast/internal/pipeline"
)

// ErrBuildInProgress is returned by StartBuild while another build runs.
var ErrBuildInProgress = fmt.Errorf("a build is already running")

// Runner executes one feature build. *pipeline.Pipeline satisfies it; tests
// substitute fakes.
type Runner interface {
	BuildAndSave(ctx context.Context) (*pipeline.Result, error)
}

// Manager runs builds one at a time and tracks them in a store. Builds run
// on their own goroutine with the manager's base context, so an HTTP
// request ending does not cancel the build it started.
type Manager struct {
	runner Runner
	store  *MemoryStore
	log    *slog.Logger
	tracer trace.Tracer

	mu      sync.Mutex
	running bool

	baseCtx context.Context
	wg      sync.WaitGroup
}

// NewManager returns a Manager executing builds through runner. baseCtx
// bounds every build; cancelling it stops in-flight work at shutdown.
func NewManager(baseCtx context.Context, runner Runner, log *slog.Logger) *Manager {
	return &Manager{
		runner:  runner,
		store:   NewMemoryStore(),
		log:     infrastructure.WithComponent(log, "operations"),
		tracer:  noop.NewTracerProvider().Tracer("operations"),
		baseCtx: baseCtx,
	}
}

// NewPipelineManager wires a Manager around the standard pipeline for cfg.
func NewPipelineManager(baseCtx context.Context, cfg *config.Config, log *slog.Logger,
	metrics *infrastructure.PipelineMetrics) *Manager {
	return NewManager(baseCtx, pipeline.New(cfg, log).WithMetrics(metrics), log)
}

// WithTracer replaces the no-op tracer.
func (m *Manager) WithTracer(tracer trace.Tracer) *Manager {
	m.tracer = tracer
	return m
}

// StartBuild launches a build job and returns its id. Only one build may
// run at a time; a second request fails with ErrBuildInProgress.
func (m *Manager) StartBuild(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return "", ErrBuildInProgress
	}
	m.running = true
	m.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}
	m.store.Put(job)

	m.log.InfoContext(ctx, "build job started", slog.String("job_id", job.ID))

	m.wg.Add(1)
	go m.execute(job)
	return job.ID, nil
}

func (m *Manager) execute(job *Job) {
	defer m.wg.Done()
	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	ctx, span := m.tracer.Start(m.baseCtx, "operations.build",
		trace.WithAttributes(attribute.String("job.id", job.ID)))
	defer span.End()

	result, err := m.runner.BuildAndSave(ctx)

	finished := time.Now().UTC()
	job.FinishedAt = &finished
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		infrastructure.RecordError(ctx, err)
		m.log.ErrorContext(ctx, "build job failed",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()))
	} else {
		job.Status = StatusCompleted
		job.Result = result
		m.log.InfoContext(ctx, "build job completed",
			slog.String("job_id", job.ID),
			slog.Int("rows", result.Rows),
			slog.String("output", result.OutputPath))
	}
	m.store.Put(job)
}

// GetJob returns a copy of the job with the given id.
func (m *Manager) GetJob(id string) (*Job, bool) {
	return m.store.Get(id)
}

// ListJobs returns all jobs, most recent first.
func (m *Manager) ListJobs() []*Job {
	return m.store.List()
}

// Wait blocks until every launched build has finished. Used at shutdown.
func (m *Manager) Wait() {
	m.wg.Wait()
}
