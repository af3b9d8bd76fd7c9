package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/weight-reconciler/internal/reconcile"
)

const allClearMessage = "✅ Aucune différence : toutes les quantités correspondent au poids net."

// Renderer writes a View to a terminal or a pipe.
type Renderer interface {
	Render(w io.Writer, v View) error
}

// RendererFunc allows functions to implement Renderer.
type RendererFunc func(io.Writer, View) error

// Render implements the Renderer interface.
func (f RendererFunc) Render(w io.Writer, v View) error {
	return f(w, v)
}

// NewRenderer creates the renderer for format ("table", "json" or "yaml").
// Unknown formats fall back to the table renderer.
func NewRenderer(format string) Renderer {
	switch strings.ToLower(format) {
	case "json":
		return &JSONRenderer{Indent: "  "}
	case "yaml":
		return &YAMLRenderer{}
	default:
		return &TableRenderer{}
	}
}

// =============================================================================
// MACHINE-READABLE DOCUMENT
// =============================================================================

// Document is the JSON/YAML form of a View. Numbers stay unformatted.
type Document struct {
	Summary     Summary                `json:"summary" yaml:"summary"`
	AllClear    bool                   `json:"allClear" yaml:"allClear"`
	Differences []reconcile.Difference `json:"differences" yaml:"differences"`
	NotFound    []reconcile.NotFound   `json:"notFound" yaml:"notFound"`
}

// NewDocument extracts the unformatted rows of v.
func NewDocument(v View) Document {
	doc := Document{
		Summary:     v.Summary,
		AllClear:    v.AllClear,
		Differences: make([]reconcile.Difference, 0, len(v.Differences)),
		NotFound:    make([]reconcile.NotFound, 0, len(v.NotFound)),
	}
	for _, d := range v.Differences {
		doc.Differences = append(doc.Differences, d.Source)
	}
	for _, nf := range v.NotFound {
		doc.NotFound = append(doc.NotFound, nf.Source)
	}
	return doc
}

// JSONRenderer outputs JSON.
type JSONRenderer struct {
	Indent string
}

// Render implements the Renderer interface for JSON output.
func (r *JSONRenderer) Render(w io.Writer, v View) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if r.Indent != "" {
		encoder.SetIndent("", r.Indent)
	}
	return encoder.Encode(NewDocument(v))
}

// YAMLRenderer outputs YAML.
type YAMLRenderer struct{}

// Render implements the Renderer interface for YAML output.
func (r *YAMLRenderer) Render(w io.Writer, v View) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(NewDocument(v)); err != nil {
		return err
	}
	return encoder.Close()
}

// =============================================================================
// TABLE OUTPUT
// =============================================================================

// TableRenderer outputs the summary followed by one table per section.
type TableRenderer struct{}

// Render implements the Renderer interface for table output.
func (r *TableRenderer) Render(w io.Writer, v View) error {
	if _, err := fmt.Fprintln(w, SummaryLine(v.Summary)); err != nil {
		return err
	}

	if v.AllClear {
		_, err := fmt.Fprintln(w, allClearMessage)
		return err
	}

	if len(v.Differences) > 0 {
		fmt.Fprintf(w, "\nDifférences détectées (%d)\n", len(v.Differences))

		rows := make([][]string, 0, len(v.Differences))
		for _, d := range v.Differences {
			rows = append(rows, []string{d.Camion, d.Produit, d.Qte, d.PoidsNet, d.Ecart, d.Status})
		}
		if err := WriteTable(w, differenceHeaders, rows, 2, 3, 4); err != nil {
			return err
		}
	}

	if len(v.NotFound) > 0 {
		fmt.Fprintf(w, "\nCamions introuvables dans le Fichier 2 (%d)\n", len(v.NotFound))

		rows := make([][]string, 0, len(v.NotFound))
		for _, nf := range v.NotFound {
			rows = append(rows, []string{nf.Camion, nf.Produit, nf.Qte})
		}
		if err := WriteTable(w, notFoundHeaders, rows, 2); err != nil {
			return err
		}
	}

	return nil
}

// SummaryLine formats the counters on one line.
func SummaryLine(s Summary) string {
	return fmt.Sprintf("Total : %d | Correspondances : %d | Différences : %d | Introuvables : %d",
		s.Total, s.Matches, s.Differences, s.NotFound)
}

var (
	differenceHeaders = []string{"Camion", "Produit", "Qté facturée", "Poids net", "Écart", "Statut"}
	notFoundHeaders   = []string{"Camion", "Produit", "Qté facturée"}
)

// WriteTable renders rows with tablewriter, right-aligning the numeric
// columns.
func WriteTable(w io.Writer, headers []string, rows [][]string, numeric ...int) error {
	align := make([]tw.Align, len(headers))
	for i := range align {
		align[i] = tw.AlignLeft
	}
	for _, col := range numeric {
		align[col] = tw.AlignRight
	}

	config := tablewriter.Config{}
	config.Row.Alignment = tw.CellAlignment{PerColumn: align}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	headerCells := make([]any, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	table.Header(headerCells...)

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}

	return table.Render()
}
