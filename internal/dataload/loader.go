// Package dataload reads historic call-volume records from CSV and Excel
// files and resolves them into deduplicated, time-ordered observations for
// the pipeline.
package dataload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	apperrors "callcast/internal/errors"
	"callcast/pkg/contracts/domain"
)

// requiredColumns are the header names every historic file must carry.
var requiredColumns = []string{"anio", "mes", "dia", "hora", "api_name", "familia", "llamados"}

// Loader reads raw historic records from disk.
type Loader struct {
	log *slog.Logger
}

// NewLoader returns a Loader that logs through log.
func NewLoader(log *slog.Logger) *Loader {
	return &Loader{log: log}
}

// Load reads raw records from path. A directory loads every supported file
// inside it in lexical order; a single file loads just that file. A
// directory without any supported files yields a NoInputDataError.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewNoInputDataError(path)
	}
	if info.IsDir() {
		return l.loadDir(ctx, path)
	}
	return l.loadFile(ctx, path)
}

func (l *Loader) loadDir(ctx context.Context, dir string) ([]domain.RawRecord, error) {
	files, err := FindInputFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apperrors.NewNoInputDataError(dir)
	}

	var records []domain.RawRecord
	for _, f := range files {
		recs, err := l.loadFile(ctx, f)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) ([]domain.RawRecord, error) {
	var (
		records []domain.RawRecord
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(path)
	case ".xls", ".xlsx":
		records, err = readExcel(path)
	default:
		return nil, apperrors.NewUnsupportedFormatError(path)
	}
	if err != nil {
		return nil, err
	}

	l.log.InfoContext(ctx, "loaded historic file",
		slog.String("file", path),
		slog.Int("records", len(records)))
	return records, nil
}

// FindInputFiles lists the supported historic files directly inside dir in
// lexical order. Files with other extensions are ignored.
func FindInputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xls", ".xlsx":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// columnIndex maps lower-cased, trimmed header names to their position.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

// checkColumns verifies that every required column is present.
func checkColumns(cols map[string]int, file string) error {
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return apperrors.NewParsingError(
				fmt.Sprintf("file %s is missing column %q", file, name), nil)
		}
	}
	return nil
}

// cell returns the trimmed value at idx, or the empty string for rows that
// end early.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// recordFromRow parses one data row into a RawRecord. line is 1-based and
// used only for error messages.
func recordFromRow(row []string, cols map[string]int, file string, line int) (domain.RawRecord, error) {
	fail := func(field string, err error) (domain.RawRecord, error) {
		return domain.RawRecord{}, apperrors.NewParsingError(
			fmt.Sprintf("file %s row %d: invalid %s", file, line, field), err)
	}

	year, err := strconv.Atoi(cell(row, cols["anio"]))
	if err != nil {
		return fail("anio", err)
	}
	month, err := strconv.Atoi(cell(row, cols["mes"]))
	if err != nil {
		return fail("mes", err)
	}
	day, err := strconv.Atoi(cell(row, cols["dia"]))
	if err != nil {
		return fail("dia", err)
	}
	count, err := strconv.ParseFloat(cell(row, cols["llamados"]), 64)
	if err != nil {
		return fail("llamados", err)
	}

	rec := domain.RawRecord{
		Year:   year,
		Month:  month,
		Day:    day,
		Time:   cell(row, cols["hora"]),
		Entity: cell(row, cols["api_name"]),
		Family: cell(row, cols["familia"]),
		Count:  count,
	}
	if rec.Time == "" {
		return fail("hora", nil)
	}
	if rec.Entity == "" {
		return fail("api_name", nil)
	}
	if rec.Family == "" {
		return fail("familia", nil)
	}
	if rec.Count < 0 {
		return fail("llamados", fmt.Errorf("negative count %v", rec.Count))
	}
	return rec, nil
}

// emptyRow reports whether every cell in the row is blank. Spreadsheets
// often carry trailing rows of empty cells.
func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
