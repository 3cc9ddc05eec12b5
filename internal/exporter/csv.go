package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	apperrors "callcast/internal/errors"
	"callcast/pkg/contracts/domain"
)

// timestampLayout is the wall-clock form of fecha_hora in CSV output.
const timestampLayout = "2006-01-02 15:04:05"

// CSVWriter writes the feature table as headered CSV. Missing values are
// written as empty cells.
type CSVWriter struct {
	log *slog.Logger
}

// NewCSVWriter returns a CSVWriter that logs through log.
func NewCSVWriter(log *slog.Logger) *CSVWriter {
	return &CSVWriter{log: log}
}

// Ext implements Writer.
func (w *CSVWriter) Ext() string {
	return ".csv"
}

// Write implements Writer.
func (w *CSVWriter) Write(ctx context.Context, table *domain.FeatureTable, path string) error {
	f, err := createOutputFile(path)
	if err != nil {
		return apperrors.NewStorageError("cannot create CSV output", err)
	}
	defer f.Close()

	w.log.InfoContext(ctx, "writing feature table",
		slog.String("format", FormatCSV),
		slog.String("path", path),
		slog.Int("rows", table.Rows()),
		slog.Int("cols", table.Cols()))

	writer := csv.NewWriter(f)
	if err := writer.Write(table.ColumnOrder); err != nil {
		return apperrors.NewStorageError("cannot write CSV header", err)
	}

	row := make([]string, len(table.ColumnOrder))
	for i := 0; i < table.Rows(); i++ {
		for j, name := range table.ColumnOrder {
			row[j] = cellString(table, name, i)
		}
		if err := writer.Write(row); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("cannot write CSV row %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("cannot flush CSV output", err)
	}
	return nil
}

func cellString(table *domain.FeatureTable, name string, row int) string {
	switch name {
	case domain.ColTimestamp:
		return table.Times[row].UTC().Format(timestampLayout)
	case domain.ColEntity:
		return table.Entities[row]
	case domain.ColFamily:
		return table.Families[row]
	default:
		return formatFloat(table.Numeric[name][row])
	}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
