package comparison

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/weight-reconciler/internal/config"
	"github.com/ginjaninja78/weight-reconciler/internal/logging"
	"github.com/ginjaninja78/weight-reconciler/internal/reconcile"
	"github.com/ginjaninja78/weight-reconciler/internal/report"
	"github.com/ginjaninja78/weight-reconciler/internal/validation"
)

func writeManifest(t *testing.T, dir string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}

	path := filepath.Join(dir, "camions.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writeLedger(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "pesees.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, [][]any{
		{"Camions", "Qté facturées", "Produits"},
		{"T1", "1 000,5", "Sable"},
		{"T2", 50, "Gravier"},
		{"T3", 20, "Béton"},
		{"", 5, "Sable"},
	})
	ledger := writeLedger(t, dir, "Ressource;Total poids net\nT1;999,5\nT3;12\nT3;8\n")

	cfg := config.Default()
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.ExportFormats = []string{config.ExportXLSX, config.ExportText}

	var logs bytes.Buffer
	logger := logging.New(logging.Config{Format: "json", Output: &logs})

	result := New(cfg, manifest, ledger, &logger).Run()
	require.NoError(t, result.Error)
	require.True(t, result.Success)

	assert.Equal(t, 4, result.Stats.ManifestRows)
	assert.Equal(t, 3, result.Stats.LedgerRows)
	assert.Equal(t, 2, result.Stats.ReferenceIDs)
	assert.NotEmpty(t, result.RunID)

	require.NotNil(t, result.Outcome)
	assert.Equal(t, 1, result.Outcome.MatchCount)
	assert.Equal(t, []reconcile.Difference{
		{Camion: "T1", Produit: "Sable", Qte: 1000.5, PoidsNet: 999.5, Ecart: 1},
	}, result.Outcome.Differences)
	assert.Equal(t, []reconcile.NotFound{
		{Camion: "T2", Produit: "Gravier", Qte: 50},
	}, result.Outcome.NotFound)

	assert.Equal(t, report.Summary{Total: 3, Matches: 1, Differences: 1, NotFound: 1}, result.View.Summary)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, validation.LabelFirst, result.Warnings[0].Dataset)
	assert.Equal(t, 4, result.Warnings[0].Row)

	require.Len(t, result.Exports, 2)
	assert.True(t, strings.HasSuffix(result.Exports[0], ".xlsx"))
	assert.True(t, strings.HasSuffix(result.Exports[1], ".txt"))
	for _, path := range result.Exports {
		assert.Contains(t, filepath.Base(path), result.RunID)
		assert.FileExists(t, path)
	}

	text, err := os.ReadFile(result.Exports[1])
	require.NoError(t, err)
	assert.Contains(t, string(text), "camions.xlsx (4 lignes chargées)")

	assert.Contains(t, logs.String(), `"message":"comparison complete"`)
	assert.Contains(t, logs.String(), result.RunID)
}

func TestRunMissingColumns(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, [][]any{
		{"Camion ", "Quantité", "Produit"},
		{"T1", 1, "Sable"},
	})
	ledger := writeLedger(t, dir, "Ressource,Poids\nT1,1\n")

	result := New(nil, manifest, ledger, nil).Run()
	require.Error(t, result.Error)
	assert.False(t, result.Success)
	assert.Nil(t, result.Outcome)
	assert.True(t, errors.Is(result.Error, reconcile.ErrColumnsNotFound))

	var colErr *reconcile.ColumnResolutionError
	require.True(t, errors.As(result.Error, &colErr))
	assert.Equal(t, []string{"Qté facturées (Fichier 1)", "Total poids net (Fichier 2)"}, colErr.Missing)
}

func TestRunEmptyLedger(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, [][]any{
		{"Camions", "Qté facturées", "Produits"},
		{"T1", 1, "Sable"},
	})
	ledger := writeLedger(t, dir, "Ressource;Total poids net\n")

	result := New(nil, manifest, ledger, nil).Run()
	require.Error(t, result.Error)
	assert.True(t, errors.Is(result.Error, validation.ErrInputMissing))
	assert.Nil(t, result.Outcome)
}

func TestRunUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	ledger := writeLedger(t, dir, "Ressource;Total poids net\nT1;1\n")

	result := New(nil, filepath.Join(dir, "absent.xlsx"), ledger, nil).Run()
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "failed to load Fichier 1")
	assert.True(t, errors.Is(result.Error, os.ErrNotExist))
}

func TestRunWithoutExports(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, [][]any{
		{"Camions", "Qté facturées", "Produits"},
		{"T1", 10, "Sable"},
	})
	ledger := writeLedger(t, dir, "Ressource;Total poids net\nT1;10,005\n")

	cfg := config.Default()
	cfg.OutputDir = filepath.Join(dir, "out")

	result := New(cfg, manifest, ledger, nil).Run()
	require.NoError(t, result.Error)
	assert.True(t, result.View.AllClear)
	assert.Empty(t, result.Exports)
	assert.NoDirExists(t, cfg.OutputDir)
}
