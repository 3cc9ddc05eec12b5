// Package exporter persists the consolidated feature table and the run
// manifest. Parquet is the primary on-disk format; CSV is kept for ad-hoc
// inspection and smaller deployments.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "callcast/internal/errors"
	"callcast/pkg/contracts/domain"
)

// Formats accepted by NewWriter.
const (
	FormatParquet = "parquet"
	FormatCSV     = "csv"
)

// Writer persists a feature table to one file.
type Writer interface {
	// Write stores the table at path, creating parent directories as
	// needed.
	Write(ctx context.Context, table *domain.FeatureTable, path string) error

	// Ext returns the file extension of the format, including the dot.
	Ext() string
}

// NewWriter returns the Writer for the configured output format.
func NewWriter(format string, log *slog.Logger) (Writer, error) {
	switch format {
	case FormatParquet:
		return NewParquetWriter(log), nil
	case FormatCSV:
		return NewCSVWriter(log), nil
	default:
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("unsupported output format %q", format), nil)
	}
}

// createOutputFile ensures the parent directory exists and opens path for
// writing, truncating any previous run's output.
func createOutputFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return f, nil
}
