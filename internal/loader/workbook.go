package loader

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/weight-reconciler/internal/dataset"
)

// LoadWorkbook decodes the first sheet of an OOXML workbook.
//
// Cells are read unformatted. Numeric cells (including dates, which a
// workbook stores as serial numbers) become numbers; shared and inline
// strings, formula strings and error cells stay text; booleans become
// "true"/"false".
func LoadWorkbook(r io.Reader, name string) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	// Only the first sheet is read.
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	headerIndex := firstNonEmpty(rows)
	if headerIndex < 0 {
		return dataset.New(name, []string{}, []dataset.Row{}), nil
	}

	headers := buildHeaders(rows[headerIndex])
	records := make([]dataset.Row, 0, len(rows)-headerIndex-1)

	for i := headerIndex + 1; i < len(rows); i++ {
		raw := rows[i]
		if isRowEmpty(raw) {
			continue
		}

		row := make(dataset.Row, len(headers))
		for col, header := range headers {
			if col >= len(raw) || raw[col] == "" {
				row[header] = dataset.Text("")
				continue
			}

			value, err := cellValue(f, sheetName, col, i, raw[col])
			if err != nil {
				return nil, fmt.Errorf("error reading row %d: %w", i+1, err)
			}
			row[header] = value
		}

		records = append(records, row)
	}

	return dataset.New(name, headers, records), nil
}

// cellValue types a raw cell using the cell's stored type.
func cellValue(f *excelize.File, sheet string, col, rowIndex int, raw string) (dataset.Value, error) {
	cell, err := excelize.CoordinatesToCellName(col+1, rowIndex+1)
	if err != nil {
		return dataset.Value{}, err
	}

	cellType, err := f.GetCellType(sheet, cell)
	if err != nil {
		return dataset.Value{}, err
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return dataset.Text(raw), nil
	case excelize.CellTypeBool:
		if raw == "1" || raw == "TRUE" || raw == "true" {
			return dataset.Text("true"), nil
		}
		return dataset.Text("false"), nil
	}

	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return dataset.Number(n), nil
	}
	return dataset.Text(raw), nil
}
