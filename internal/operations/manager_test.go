package operations

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callcast/internal/pipeline"
)

type fakeRunner struct {
	block  chan struct{} // closed to release BuildAndSave
	result *pipeline.Result
	err    error
}

func (f *fakeRunner) BuildAndSave(ctx context.Context) (*pipeline.Result, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.result, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitForStatus(t *testing.T, m *Manager, id string, want JobStatus) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if job, ok := m.GetJob(id); ok && job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", id, want)
	return nil
}

func TestManager_SuccessfulBuild(t *testing.T) {
	runner := &fakeRunner{result: &pipeline.Result{RunID: "r1", Rows: 10, OutputPath: "out/features.parquet"}}
	m := NewManager(context.Background(), runner, discardLogger())

	id, err := m.StartBuild(context.Background())
	require.NoError(t, err)

	job := waitForStatus(t, m, id, StatusCompleted)
	require.NotNil(t, job.Result)
	assert.Equal(t, 10, job.Result.Rows)
	assert.NotNil(t, job.FinishedAt)
	assert.Empty(t, job.Error)
}

func TestManager_FailedBuild(t *testing.T) {
	runner := &fakeRunner{err: assert.AnError}
	m := NewManager(context.Background(), runner, discardLogger())

	id, err := m.StartBuild(context.Background())
	require.NoError(t, err)

	job := waitForStatus(t, m, id, StatusFailed)
	assert.Contains(t, job.Error, assert.AnError.Error())
	assert.Nil(t, job.Result)
}

func TestManager_SecondBuildRejectedWhileRunning(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{}), result: &pipeline.Result{}}
	m := NewManager(context.Background(), runner, discardLogger())

	id, err := m.StartBuild(context.Background())
	require.NoError(t, err)

	_, err = m.StartBuild(context.Background())
	assert.ErrorIs(t, err, ErrBuildInProgress)

	close(runner.block)
	waitForStatus(t, m, id, StatusCompleted)

	// A finished build frees the slot.
	_, err = m.StartBuild(context.Background())
	assert.NoError(t, err)
	m.Wait()
}

func TestManager_ShutdownCancelsBuild(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &fakeRunner{block: make(chan struct{})}
	m := NewManager(ctx, runner, discardLogger())

	id, err := m.StartBuild(context.Background())
	require.NoError(t, err)

	cancel()
	job := waitForStatus(t, m, id, StatusFailed)
	assert.Contains(t, job.Error, context.Canceled.Error())
}

func TestMemoryStore_ListOrdersNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	t0 := time.Now()
	s.Put(&Job{ID: "old", StartedAt: t0.Add(-time.Hour)})
	s.Put(&Job{ID: "new", StartedAt: t0})

	jobs := s.List()
	require.Len(t, jobs, 2)
	assert.Equal(t, "new", jobs[0].ID)
	assert.Equal(t, "old", jobs[1].ID)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	s.Put(&Job{ID: "a", Status: StatusRunning})

	job, ok := s.Get("a")
	require.True(t, ok)
	job.Status = StatusFailed

	again, _ := s.Get("a")
	assert.Equal(t, StatusRunning, again.Status)
}
