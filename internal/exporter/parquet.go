package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parquet-go/parquet-go"

	apperrors "callcast/internal/errors"
	"callcast/pkg/contracts/domain"
)

// parquetWriteBatch is how many rows are buffered per WriteRows call.
const parquetWriteBatch = 512

// ParquetWriter writes the feature table as a flat Parquet file with one
// column per feature. Parquet groups order their fields by name, so the
// physical column order is alphabetical; consumers address columns by name.
type ParquetWriter struct {
	log *slog.Logger
}

// NewParquetWriter returns a ParquetWriter that logs through log.
func NewParquetWriter(log *slog.Logger) *ParquetWriter {
	return &ParquetWriter{log: log}
}

// Ext implements Writer.
func (w *ParquetWriter) Ext() string {
	return ".parquet"
}

// Write implements Writer.
func (w *ParquetWriter) Write(ctx context.Context, table *domain.FeatureTable, path string) error {
	f, err := createOutputFile(path)
	if err != nil {
		return apperrors.NewStorageError("cannot create Parquet output", err)
	}
	defer f.Close()

	w.log.InfoContext(ctx, "writing feature table",
		slog.String("format", FormatParquet),
		slog.String("path", path),
		slog.Int("rows", table.Rows()),
		slog.Int("cols", table.Cols()))

	schema := buildSchema(table)
	writer := parquet.NewWriter(f, schema)
	columns := schema.Columns()

	rows := make([]parquet.Row, 0, parquetWriteBatch)
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		if _, err := writer.WriteRows(rows); err != nil {
			return apperrors.NewStorageError("cannot write Parquet rows", err)
		}
		rows = rows[:0]
		return nil
	}

	for i := 0; i < table.Rows(); i++ {
		row := make(parquet.Row, 0, len(columns))
		for colIdx, col := range columns {
			row = append(row, parquetValue(table, col[0], i).Level(0, 0, colIdx))
		}
		rows = append(rows, row)
		if len(rows) == parquetWriteBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if err := writer.Close(); err != nil {
		return apperrors.NewStorageError("cannot finalize Parquet output", err)
	}
	return nil
}

// buildSchema maps the table columns onto a flat Parquet schema:
// fecha_hora as a millisecond timestamp, the identifiers as strings, and
// every feature as a double.
func buildSchema(table *domain.FeatureTable) *parquet.Schema {
	group := parquet.Group{}
	for _, name := range table.ColumnOrder {
		switch name {
		case domain.ColTimestamp:
			group[name] = parquet.Timestamp(parquet.Millisecond)
		case domain.ColEntity, domain.ColFamily:
			group[name] = parquet.String()
		default:
			group[name] = parquet.Leaf(parquet.DoubleType)
		}
	}
	return parquet.NewSchema("features", group)
}

func parquetValue(table *domain.FeatureTable, name string, row int) parquet.Value {
	switch name {
	case domain.ColTimestamp:
		return parquet.ValueOf(table.Times[row].UTC().UnixMilli())
	case domain.ColEntity:
		return parquet.ValueOf(table.Entities[row])
	case domain.ColFamily:
		return parquet.ValueOf(table.Families[row])
	default:
		col, ok := table.Numeric[name]
		if !ok {
			// Columns in ColumnOrder always resolve; guard stays for
			// malformed tables built by hand.
			panic(fmt.Sprintf("exporter: column %q missing from table", name))
		}
		return parquet.ValueOf(col[row])
	}
}
