package dataload

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	apperrors "callcast/internal/errors"
	"callcast/pkg/contracts/domain"
)

// readExcel loads raw records from the first sheet of an Excel workbook.
// The sheet must carry the same header row as the CSV form.
func readExcel(path string) ([]domain.RawRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("file %s has no sheets", path), nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheets[0], path, err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("file %s has no header row", path), nil)
	}

	cols := columnIndex(rows[0])
	if err := checkColumns(cols, path); err != nil {
		return nil, err
	}

	var records []domain.RawRecord
	for i, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		rec, err := recordFromRow(row, cols, path, i+2)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
