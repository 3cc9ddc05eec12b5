package exporter

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "callcast/internal/errors"
	"callcast/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleTable() *domain.FeatureTable {
	start := time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)
	return &domain.FeatureTable{
		ColumnOrder: []string{
			domain.ColTimestamp, domain.ColEntity, domain.ColFamily,
			"lag_1", domain.ColTarget,
		},
		Times:    []time.Time{start, start.Add(5 * time.Minute)},
		Entities: []string{"api_pagos", "api_pagos"},
		Families: []string{"pagos", "pagos"},
		Numeric: map[string][]float64{
			"lag_1":          {math.NaN(), 10},
			domain.ColTarget: {10, 12.5},
		},
	}
}

func TestNewWriter(t *testing.T) {
	w, err := NewWriter(FormatParquet, testLogger())
	require.NoError(t, err)
	assert.Equal(t, ".parquet", w.Ext())

	w, err = NewWriter(FormatCSV, testLogger())
	require.NoError(t, err)
	assert.Equal(t, ".csv", w.Ext())

	_, err = NewWriter("orc", testLogger())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestCSVWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "features.csv")

	err := NewCSVWriter(testLogger()).Write(context.Background(), sampleTable(), path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"fecha_hora", "api_name", "familia", "lag_1", "llamados"}, rows[0])
	assert.Equal(t, []string{"2025-03-03 08:00:00", "api_pagos", "pagos", "", "10"}, rows[1])
	assert.Equal(t, []string{"2025-03-03 08:05:00", "api_pagos", "pagos", "10", "12.5"}, rows[2])
}

func TestParquetWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.parquet")
	table := sampleTable()

	err := NewParquetWriter(testLogger()).Write(context.Background(), table, path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	info, err := f.Stat()
	require.NoError(t, err)

	pf, err := parquet.OpenFile(f, info.Size())
	require.NoError(t, err)
	assert.Equal(t, int64(table.Rows()), pf.NumRows())

	names := make([]string, 0, table.Cols())
	for _, field := range pf.Schema().Fields() {
		names = append(names, field.Name())
	}
	assert.ElementsMatch(t, table.ColumnOrder, names)
}

func TestWrite_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "features.csv")

	err := NewCSVWriter(testLogger()).Write(context.Background(), sampleTable(), path)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
