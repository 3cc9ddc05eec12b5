package warehouse

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callcast/internal/config"
	apperrors "callcast/internal/errors"
	"callcast/pkg/contracts/domain"
)

// fakeExecutor records every statement instead of touching a database.
type fakeExecutor struct {
	marker  string
	queries []string
	args    [][]interface{}
	failOn  int // 1-based statement index that fails, 0 = never
}

func (f *fakeExecutor) Exec(_ context.Context, query string, args ...interface{}) error {
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)
	if f.failOn > 0 && len(f.queries) == f.failOn {
		return apperrors.NewStorageError("boom", nil)
	}
	return nil
}

func (f *fakeExecutor) Placeholder(n int) string {
	if f.marker == "?" {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

func (f *fakeExecutor) Close(context.Context) error { return nil }

func testTable(rows int) *domain.FeatureTable {
	t0 := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	table := &domain.FeatureTable{
		ColumnOrder: []string{"fecha_hora", "api_name", "familia", "llamados", "lag_1"},
		Numeric: map[string][]float64{
			"llamados": make([]float64, rows),
			"lag_1":    make([]float64, rows),
		},
	}
	for i := 0; i < rows; i++ {
		table.Times = append(table.Times, t0.Add(time.Duration(i)*5*time.Minute))
		table.Entities = append(table.Entities, "api_pagos")
		table.Families = append(table.Families, "pagos")
		table.Numeric["llamados"][i] = float64(i)
		table.Numeric["lag_1"][i] = float64(i - 1)
	}
	return table
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoader_CreatesTableThenInserts(t *testing.T) {
	exec := &fakeExecutor{}
	loader := NewLoader(exec, "api_call_features", 2, discard())

	require.NoError(t, loader.Load(context.Background(), testTable(3)))

	// 1 DDL + 2 insert batches (2 rows, then 1).
	require.Len(t, exec.queries, 3)
	ddl := exec.queries[0]
	assert.True(t, strings.HasPrefix(ddl, "CREATE TABLE IF NOT EXISTS api_call_features ("))
	assert.Contains(t, ddl, "fecha_hora TIMESTAMP NOT NULL")
	assert.Contains(t, ddl, "api_name VARCHAR(255) NOT NULL")
	assert.Contains(t, ddl, "llamados DOUBLE PRECISION")

	assert.Contains(t, exec.queries[1], "INSERT INTO api_call_features (fecha_hora, api_name, familia, llamados, lag_1) VALUES ")
	assert.Len(t, exec.args[1], 2*5)
	assert.Len(t, exec.args[2], 1*5)
	assert.Equal(t, "api_pagos", exec.args[1][1])
	assert.Equal(t, 0.0, exec.args[1][3])
}

func TestLoader_PostgresPlaceholdersAreNumbered(t *testing.T) {
	exec := &fakeExecutor{}
	loader := NewLoader(exec, "t", 2, discard())

	require.NoError(t, loader.Load(context.Background(), testTable(2)))

	assert.Contains(t, exec.queries[1], "($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)")
}

func TestLoader_MySQLPlaceholders(t *testing.T) {
	exec := &fakeExecutor{marker: "?"}
	loader := NewLoader(exec, "t", 10, discard())

	require.NoError(t, loader.Load(context.Background(), testTable(1)))

	assert.Contains(t, exec.queries[1], "(?, ?, ?, ?, ?)")
}

func TestLoader_EmptyTable(t *testing.T) {
	loader := NewLoader(&fakeExecutor{}, "t", 10, discard())

	err := loader.Load(context.Background(), &domain.FeatureTable{})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestLoader_InsertFailureStops(t *testing.T) {
	exec := &fakeExecutor{failOn: 2}
	loader := NewLoader(exec, "t", 1, discard())

	err := loader.Load(context.Background(), testTable(3))

	require.Error(t, err)
	// DDL plus the failing first batch only.
	assert.Len(t, exec.queries, 2)
}

func TestNewExecutor_UnknownDriver(t *testing.T) {
	_, err := NewExecutor(context.Background(), config.WarehouseConfig{Driver: "oracle", DSN: "x"})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}
