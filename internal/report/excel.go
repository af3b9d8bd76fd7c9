package report

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	SheetSummary     = "Résumé"
	SheetDifferences = "Différences"
	SheetNotFound    = "Introuvables"
)

// Ecart font colors, keyed by sign class.
var ecartColors = map[string]string{
	ClassPositive: "B91C1C",
	ClassNegative: "1D4ED8",
}

// WriteWorkbook encodes v as an .xlsx workbook with a summary sheet, a
// differences sheet and a not-found sheet. Numeric cells keep their
// unformatted values.
func WriteWorkbook(w io.Writer, v View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	for _, name := range []string{SheetDifferences, SheetNotFound} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E5E7EB"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// Summary sheet
	summaryRows := [][]any{
		{"Indicateur", "Valeur"},
		{"Total", v.Summary.Total},
		{"Correspondances", v.Summary.Matches},
		{"Différences", v.Summary.Differences},
		{"Introuvables", v.Summary.NotFound},
	}
	if err := writeRows(f, SheetSummary, summaryRows, headerStyle); err != nil {
		return err
	}

	// Differences sheet
	diffRows := [][]any{{"Camion", "Produit", "Qté facturée", "Poids net", "Écart", "Statut"}}
	for _, d := range v.Differences {
		diffRows = append(diffRows, []any{d.Camion, d.Produit, d.Source.Qte, d.Source.PoidsNet, d.Source.Ecart, d.Status})
	}
	if err := writeRows(f, SheetDifferences, diffRows, headerStyle); err != nil {
		return err
	}
	if err := colorEcarts(f, v.Differences); err != nil {
		return err
	}

	// Not-found sheet
	nfRows := [][]any{{"Camion", "Produit", "Qté facturée"}}
	for _, nf := range v.NotFound {
		nfRows = append(nfRows, []any{nf.Camion, nf.Produit, nf.Source.Qte})
	}
	if err := writeRows(f, SheetNotFound, nfRows, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// WriteWorkbookFile writes the workbook export to path.
func WriteWorkbookFile(path string, v View) error {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, v); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeRows writes rows from A1, styles the first one as a header and widens
// columns to fit.
func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	widths := map[int]int{}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
			if n := len([]rune(fmt.Sprint(value))); n > widths[c] {
				widths[c] = n
			}
		}
	}

	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header of %s: %w", sheet, err)
		}
	}

	// Approximate auto-fit
	for c, n := range widths {
		colName, _ := excelize.ColumnNumberToName(c + 1)
		width := float64(n + 4)
		if width < 12 {
			width = 12
		}
		if err := f.SetColWidth(sheet, colName, colName, width); err != nil {
			return err
		}
	}

	return nil
}

func colorEcarts(f *excelize.File, rows []DifferenceRow) error {
	styles := map[string]int{}
	for class, color := range ecartColors {
		id, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: color}})
		if err != nil {
			return fmt.Errorf("failed to create ecart style: %w", err)
		}
		styles[class] = id
	}

	for i, d := range rows {
		cell, _ := excelize.CoordinatesToCellName(5, i+2)
		if err := f.SetCellStyle(SheetDifferences, cell, cell, styles[d.Class]); err != nil {
			return err
		}
	}
	return nil
}
