package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/ginjaninja78/weight-reconciler/internal/config"
	"github.com/ginjaninja78/weight-reconciler/internal/dataset"
)

func defaultInput() config.InputSettings {
	return config.Default().Input
}

// writeWorkbook creates an .xlsx file whose first sheet holds rows, starting
// at A1. A nil cell is left unset.
func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}

	// A second sheet that must be ignored.
	_, err := f.NewSheet("Ignored")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Ignored", "A1", "Camions"))

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Camions", "Qté facturées", "Produits"},
		{"T1", 1000, "Sable"},
		{nil, nil, nil},
		{"T2", 12.5, nil},
		{"T3", "1 234,56", "Gravier", "extra"},
	})

	ds, err := Load(path, defaultInput())
	require.NoError(t, err)

	assert.Equal(t, "input.xlsx", ds.Name)
	assert.Equal(t, []string{"Camions", "Qté facturées", "Produits"}, ds.Headers)
	require.Len(t, ds.Rows, 3)

	assert.Equal(t, dataset.Row{
		"Camions":       dataset.Text("T1"),
		"Qté facturées": dataset.Number(1000),
		"Produits":      dataset.Text("Sable"),
	}, ds.Rows[0])
	assert.Equal(t, dataset.Number(12.5), ds.Rows[1]["Qté facturées"])
	assert.Equal(t, dataset.Text(""), ds.Rows[1]["Produits"])
	assert.Equal(t, dataset.Text("1 234,56"), ds.Rows[2]["Qté facturées"])
	assert.Len(t, ds.Rows[2], 3)
}

func TestLoadWorkbookHeaderNaming(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Poids", nil, "Poids", "Camion "},
		{1, 2, 3, "T1"},
	})

	ds, err := Load(path, defaultInput())
	require.NoError(t, err)
	assert.Equal(t, []string{"Poids", "__EMPTY", "Poids_1", "Camion "}, ds.Headers)
	assert.Equal(t, dataset.Number(2), ds.Rows[0]["__EMPTY"])
	assert.Equal(t, dataset.Number(3), ds.Rows[0]["Poids_1"])
}

func TestLoadWorkbookBooleansAndEmptySheet(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Camions", "Livré"},
		{"T1", true},
	})
	ds, err := Load(path, defaultInput())
	require.NoError(t, err)
	assert.Equal(t, dataset.Text("true"), ds.Rows[0]["Livré"])

	empty := writeWorkbook(t, nil)
	ds, err = Load(empty, defaultInput())
	require.NoError(t, err)
	assert.Empty(t, ds.Headers)
	assert.Equal(t, 0, ds.Len())
}

func TestLoadWorkbookRejectsGarbage(t *testing.T) {
	_, err := LoadWorkbook(bytes.NewReader([]byte("not a workbook")), "x.xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open workbook")
}

func TestLoadCSVSemicolonWindows1252(t *testing.T) {
	text := "Camions;Qté facturées;Produits\r\n T1 ;1 000,5;Béton\r\n\r\n;;\r\nT2;12\r\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(text)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "manifest.csv")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0o644))

	ds, err := Load(path, config.InputSettings{Delimiter: "auto", Encoding: "Windows-1252"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Camions", "Qté facturées", "Produits"}, ds.Headers)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, dataset.Text(" T1 "), ds.Rows[0]["Camions"])
	assert.Equal(t, dataset.Text("1 000,5"), ds.Rows[0]["Qté facturées"])
	assert.Equal(t, dataset.Text("Béton"), ds.Rows[0]["Produits"])
	assert.Equal(t, dataset.Text(""), ds.Rows[1]["Produits"])
}

func TestLoadCSVStripsBOMAndHonoursDelimiter(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Ressource|Total poids net\nT1|999\n")...)

	ds, err := LoadCSV(bytes.NewReader(data), "ledger.csv", config.InputSettings{Delimiter: "pipe"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ressource", "Total poids net"}, ds.Headers)
	assert.Equal(t, dataset.Text("999"), ds.Rows[0]["Total poids net"])
}

func TestLoadCSVEmpty(t *testing.T) {
	ds, err := LoadCSV(bytes.NewReader(nil), "empty.csv", defaultInput())
	require.NoError(t, err)
	assert.Empty(t, ds.Headers)
	assert.Equal(t, 0, ds.Len())
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', SniffDelimiter([]byte("a;b;c\n1,5;2;3")))
	assert.Equal(t, ',', SniffDelimiter([]byte("a,b,c\n")))
	assert.Equal(t, '\t', SniffDelimiter([]byte("a\tb\tc")))
	assert.Equal(t, ',', SniffDelimiter([]byte("single")))
	assert.Equal(t, ';', SniffDelimiter([]byte("a;b,c")))
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatWorkbook, DetectFormat("a.XLSX", nil))
	assert.Equal(t, FormatCSV, DetectFormat("a.csv", []byte("PK\x03\x04")))
	assert.Equal(t, FormatWorkbook, DetectFormat("upload.bin", []byte("PK\x03\x04rest")))
	assert.Equal(t, FormatCSV, DetectFormat("upload.bin", []byte("Camions;Qté")))
}

func TestBuildHeaders(t *testing.T) {
	assert.Equal(t,
		[]string{"__EMPTY", "A", "__EMPTY_1", "A_1", "A_2"},
		buildHeaders([]string{"", "A", "", "A", "A"}),
	)
}
