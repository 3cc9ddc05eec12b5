package dataload

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	apperrors "callcast/internal/errors"
	"callcast/pkg/contracts/domain"
)

// readCSV loads raw records from a headered CSV file.
func readCSV(path string) ([]domain.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("file %s has no header row", path), err)
	}
	cols := columnIndex(header)
	if err := checkColumns(cols, path); err != nil {
		return nil, err
	}

	var records []domain.RawRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("file %s row %d: malformed CSV", path, line), err)
		}
		if emptyRow(row) {
			continue
		}
		rec, err := recordFromRow(row, cols, path, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
