package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callcast/internal/config"
	"callcast/internal/infrastructure"
	"callcast/internal/operations"
	transporthttp "callcast/internal/transport/http"
	apiv1 "callcast/pkg/contracts/api/v1"
)

func disabledTelemetry() *infrastructure.OTelConfig {
	return &infrastructure.OTelConfig{
		ServiceName:    "callcast-test",
		ServiceVersion: "test",
		Environment:    "test",
		TraceExporter:  "none",
		MetricExporter: "none",
		EnableTracing:  false,
		EnableMetrics:  false,
	}
}

func testApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	historic := filepath.Join(dir, "historic.csv")
	require.NoError(t, os.WriteFile(historic, []byte(
		"anio,mes,dia,hora,api_name,familia,llamados\n"+
			"2025,3,3,10:00:00,api_pagos,pagos,5\n"+
			"2025,3,3,10:05:00,api_pagos,pagos,9\n"), 0o644))

	cfg := config.Default()
	cfg.HistoricPath = historic
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.OutputFormat = "csv"
	cfg.Server.RateLimit.Enabled = false

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := NewWithTelemetry(cfg, log, disabledTelemetry())
	require.NoError(t, err)
	return a
}

func TestApp_BuildThroughHTTP(t *testing.T) {
	a := testApp(t)
	defer a.cancelBuilds()

	srv := httptest.NewServer(routerOf(a))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/builds", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var started apiv1.BuildResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&started))
	require.NotEmpty(t, started.JobID)

	var job apiv1.JobResponse
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		r, err := http.Get(srv.URL + "/api/builds/" + started.JobID)
		require.NoError(t, err)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&job))
		r.Body.Close()
		if job.Status == string(operations.StatusCompleted) || job.Status == string(operations.StatusFailed) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	require.Equal(t, string(operations.StatusCompleted), job.Status, "job error: %s", job.Error)
	require.NotNil(t, job.Manifest)
	assert.Equal(t, 2, job.Manifest.Rows)
	assert.FileExists(t, job.Manifest.OutputPath)
}

func TestApp_RunStopsOnContextCancel(t *testing.T) {
	a := testApp(t)
	a.server.Addr = "127.0.0.1:0" // never actually reached; Run exits via ctx

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestApp_RunReturnsListenError(t *testing.T) {
	a := testApp(t)

	// Occupy a port so ListenAndServe fails immediately.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	a.server.Addr = ln.Addr().String()

	jobID, err := a.manager.StartBuild(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after listen failure")
	}

	// The listen-error path drains in-flight builds before returning.
	job, ok := a.manager.GetJob(jobID)
	require.True(t, ok)
	assert.Contains(t, []operations.JobStatus{operations.StatusCompleted, operations.StatusFailed}, job.Status)
}

// routerOf rebuilds the app's router against its manager so tests can use
// httptest instead of binding the configured port.
func routerOf(a *App) http.Handler {
	return transporthttp.NewRouter(transporthttp.RouterDeps{
		Builds:    a.manager,
		Logger:    a.log,
		OutputDir: a.cfg.OutputDir,
		RateLimit: a.cfg.Server.RateLimit,
	})
}
