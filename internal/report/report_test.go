package report

import (
	"bytes"
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/weight-reconciler/internal/reconcile"
)

func sampleOutcome() *reconcile.Outcome {
	return &reconcile.Outcome{
		MatchCount: 2,
		Differences: []reconcile.Difference{
			{Camion: "T1", Produit: "Sable", Qte: 101, PoidsNet: 100, Ecart: 1},
			{Camion: "T3", Produit: "", Qte: 10, PoidsNet: 12.5, Ecart: -2.5},
		},
		NotFound: []reconcile.NotFound{
			{Camion: "T2", Produit: "Gravier", Qte: 50},
		},
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1", FormatNumber(1))
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "12,5", FormatNumber(12.5))
	assert.Equal(t, "0,123", FormatNumber(0.1234))
	assert.Equal(t, "∞", FormatNumber(math.Inf(1)))
	assert.Equal(t, "-∞", FormatNumber(math.Inf(-1)))
	assert.Equal(t, "NaN", FormatNumber(math.NaN()))

	grouped := FormatNumber(1234.5)
	assert.True(t, strings.HasPrefix(grouped, "1"), grouped)
	assert.True(t, strings.HasSuffix(grouped, "234,5"), grouped)
	assert.NotEqual(t, "1234,5", grouped)

	assert.Contains(t, FormatNumber(-2.5), "2,5")
}

func TestBuild(t *testing.T) {
	v := Build(sampleOutcome())

	assert.Equal(t, Summary{Total: 5, Matches: 2, Differences: 2, NotFound: 1}, v.Summary)
	assert.False(t, v.AllClear)

	require.Len(t, v.Differences, 2)
	first := v.Differences[0]
	assert.Equal(t, "T1", first.Camion)
	assert.Equal(t, "101", first.Qte)
	assert.Equal(t, "100", first.PoidsNet)
	assert.Equal(t, "1", first.Ecart)
	assert.Equal(t, StatusDifferent, first.Status)
	assert.Equal(t, ClassPositive, first.Class)
	assert.Equal(t, ClassNegative, v.Differences[1].Class)
	assert.Equal(t, "12,5", v.Differences[1].PoidsNet)

	require.Len(t, v.NotFound, 1)
	assert.Equal(t, NotFoundRow{Camion: "T2", Produit: "Gravier", Qte: "50", Source: sampleOutcome().NotFound[0]}, v.NotFound[0])
}

func TestBuildAllClear(t *testing.T) {
	v := Build(&reconcile.Outcome{MatchCount: 3, Differences: []reconcile.Difference{}, NotFound: []reconcile.NotFound{}})
	assert.True(t, v.AllClear)
	assert.Equal(t, 3, v.Summary.Total)

	assert.True(t, Build(nil).AllClear)
}

func TestBuildZeroEcartIsNegativeClass(t *testing.T) {
	assert.Equal(t, ClassNegative, signClass(0))
	assert.Equal(t, ClassPositive, signClass(0.02))
}

func TestTableRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer("table").Render(&buf, Build(sampleOutcome())))

	out := buf.String()
	assert.Contains(t, out, "Total : 5 | Correspondances : 2 | Différences : 2 | Introuvables : 1")
	assert.Contains(t, out, "Différences détectées (2)")
	assert.Contains(t, out, "Camions introuvables dans le Fichier 2 (1)")
	assert.Contains(t, out, StatusDifferent)
	assert.Contains(t, out, "Gravier")
	assert.Contains(t, out, "12,5")
}

func TestTableRendererAllClear(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer("TABLE").Render(&buf, Build(&reconcile.Outcome{MatchCount: 1})))
	assert.Contains(t, buf.String(), allClearMessage)
	assert.NotContains(t, buf.String(), "Différences détectées")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer("json").Render(&buf, Build(sampleOutcome())))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 5, doc.Summary.Total)
	assert.Equal(t, sampleOutcome().Differences, doc.Differences)
	assert.Equal(t, sampleOutcome().NotFound, doc.NotFound)

	assert.Contains(t, buf.String(), `"poidsNet": 12.5`)
	assert.Contains(t, buf.String(), `"matches": 2`)
}

func TestYAMLRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer("yaml").Render(&buf, Build(&reconcile.Outcome{MatchCount: 1})))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, true, doc["allClear"])
	assert.Equal(t, []any{}, doc["differences"])
}

func TestWriteWorkbookFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbookFile(path, Build(sampleOutcome())))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetDifferences, SheetNotFound}, f.GetSheetList())

	total, err := f.GetCellValue(SheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, "5", total)

	diffs, err := f.GetRows(SheetDifferences)
	require.NoError(t, err)
	require.Len(t, diffs, 3)
	assert.Equal(t, []string{"T1", "Sable", "101", "100", "1", StatusDifferent}, diffs[1])
	assert.Equal(t, "-2.5", diffs[2][4])

	notFound, err := f.GetRows(SheetNotFound)
	require.NoError(t, err)
	require.Len(t, notFound, 2)
	assert.Equal(t, "T2", notFound[1][0])
}

func TestWriteSummary(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	run := RunInfo{
		RunID:     "run-1",
		StartTime: start,
		EndTime:   start.Add(1500 * time.Millisecond),
		Manifest:  InputInfo{Name: "manifest.xlsx", Rows: 4},
		Ledger:    InputInfo{Name: "ledger.csv", Rows: 7},
		Warnings:  []string{"[Fichier 1] ligne 3"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, Build(sampleOutcome()), run))

	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "2026-03-02 08:00:00")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "manifest.xlsx (4 lignes chargées)")
	assert.Contains(t, out, "ledger.csv (7 lignes chargées)")
	assert.Contains(t, out, "Camion T1 (Sable) : qté 101, poids net 100, écart 1")
	assert.Contains(t, out, "Camion T2 (Gravier) : qté 50")
	assert.Contains(t, out, "Avertissements (1)")
	assert.True(t, strings.HasSuffix(out, "Fin du rapport\n"))
}
