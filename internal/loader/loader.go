// =============================================================================
// Weight Reconciler - Input Loader
// =============================================================================
//
// This module decodes input files into datasets. It handles:
//   - Excel workbooks (.xlsx, .xlsm, .xltx): first sheet only
//   - CSV exports (.csv, .txt): configurable delimiter and encoding
//   - Unknown extensions: sniffed from the file's magic bytes
//
// DECODING RULES (both formats):
//   - The first non-blank row is the header row; its cells become the
//     dataset's header set, untrimmed
//   - Empty header cells are named "__EMPTY", "__EMPTY_1", ...
//   - Repeated headers get a numeric suffix ("Poids", "Poids_1", ...)
//   - Blank rows are skipped
//   - Empty cells default to the empty string
//   - Cells beyond the last header column are dropped
//
// =============================================================================

package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ginjaninja78/weight-reconciler/internal/config"
	"github.com/ginjaninja78/weight-reconciler/internal/dataset"
)

// Format identifies how a file is decoded.
type Format string

const (
	// FormatWorkbook is an OOXML spreadsheet.
	FormatWorkbook Format = "xlsx"

	// FormatCSV is delimited text.
	FormatCSV Format = "csv"
)

// Load reads and decodes the file at path.
//
// PARAMETERS:
//   - path: The path to the input file.
//   - settings: CSV decoding settings (ignored for workbooks).
//
// RETURNS:
//   - The decoded dataset, named after the file's base name.
//   - An error if the file cannot be read or decoded.
func Load(path string, settings config.InputSettings) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	name := filepath.Base(path)
	switch DetectFormat(path, data) {
	case FormatWorkbook:
		return LoadWorkbook(bytes.NewReader(data), name)
	default:
		return LoadCSV(bytes.NewReader(data), name, settings)
	}
}

// DetectFormat picks a decoder from the file extension, falling back to the
// content's magic bytes for unknown extensions.
func DetectFormat(path string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatWorkbook
	case ".csv", ".txt", ".tsv":
		return FormatCSV
	}

	if isZipArchive(head) {
		return FormatWorkbook
	}
	return FormatCSV
}

// isZipArchive checks for the ZIP local file header (PK\x03\x04) OOXML
// packages start with.
func isZipArchive(data []byte) bool {
	return len(data) >= 4 && data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04
}

// Decode reads a dataset from r using an explicit format.
func Decode(r io.Reader, name string, format Format, settings config.InputSettings) (*dataset.Dataset, error) {
	switch format {
	case FormatWorkbook:
		return LoadWorkbook(r, name)
	case FormatCSV:
		return LoadCSV(r, name, settings)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// buildHeaders names the header row's cells, filling blanks and
// disambiguating repeats.
func buildHeaders(cells []string) []string {
	headers := make([]string, len(cells))
	used := make(map[string]bool, len(cells))
	counters := make(map[string]int, len(cells))

	for i, cell := range cells {
		base := cell
		if base == "" {
			base = "__EMPTY"
		}

		name := base
		for used[name] {
			counters[base]++
			name = base + "_" + strconv.Itoa(counters[base])
		}

		used[name] = true
		headers[i] = name
	}

	return headers
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// firstNonEmpty returns the index of the first non-blank row, or -1.
func firstNonEmpty(rows [][]string) int {
	for i, row := range rows {
		if !isRowEmpty(row) {
			return i
		}
	}
	return -1
}
