package pipeline

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callcast/pkg/contracts/domain"
)

func sampleTable() *domain.FeatureTable {
	t0 := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	return &domain.FeatureTable{
		ColumnOrder: []string{"fecha_hora", "api_name", "familia", "llamados"},
		Times:       []time.Time{t0, t0.Add(5 * time.Minute)},
		Entities:    []string{"api_pagos", "api_pagos"},
		Families:    []string{"pagos", "pagos"},
		Numeric:     map[string][]float64{"llamados": {3, 4}},
	}
}

func TestManifest_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	finished := started.Add(90 * time.Second)
	groups := []GroupOutcome{
		{Entity: "api_pagos", Family: "pagos", Rows: 2},
		{Entity: "api_saldo", Family: "consultas", Skipped: true, Reason: "no data"},
	}

	m := NewManifest("run-1", sampleTable(), filepath.Join(dir, "features.csv"), "csv",
		groups, started, finished)
	path, err := m.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ManifestFileName), path)

	loaded, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "run-1", loaded.RunID)
	assert.Equal(t, 2, loaded.Rows)
	assert.Equal(t, 4, loaded.Cols)
	assert.Equal(t, "csv", loaded.Format)
	assert.Equal(t, "1m30s", loaded.Duration)
	require.Len(t, loaded.Groups, 2)
	assert.True(t, loaded.Groups[1].Skipped)
	assert.Equal(t, "no data", loaded.Groups[1].Reason)
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestManifest_SaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	m := NewManifest("run-2", sampleTable(), "features.csv", "csv", nil,
		time.Now(), time.Now())

	path, err := m.Save(dir)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
