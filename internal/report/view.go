// =============================================================================
// Weight Reconciler - Report View
// =============================================================================
//
// This module maps a reconciliation outcome into a presentation-neutral
// view. Every renderer and exporter in this package consumes a View:
//   - Summary counters (total, matches, differences, not found)
//   - The "all clear" state
//   - Difference rows with display strings, status label and sign class
//   - Not-found rows with display strings
//
// Numbers are displayed in the fr-FR locale ("1 234,56").
//
// =============================================================================

package report

import (
	"github.com/ginjaninja78/weight-reconciler/internal/reconcile"
)

// StatusDifferent labels every difference row.
const StatusDifferent = "❌ Différent"

// Sign classes of a difference row's ecart.
const (
	ClassPositive = "ecart-pos"
	ClassNegative = "ecart-neg"
)

// Summary holds the outcome counters.
type Summary struct {
	// Total is Matches + Differences + NotFound.
	Total int `json:"total" yaml:"total"`

	// Matches counts rows within tolerance.
	Matches int `json:"matches" yaml:"matches"`

	Differences int `json:"differences" yaml:"differences"`
	NotFound    int `json:"notFound" yaml:"notFound"`
}

// DifferenceRow is a display-ready difference.
type DifferenceRow struct {
	Camion   string
	Produit  string
	Qte      string
	PoidsNet string
	Ecart    string
	Status   string

	// Class is ClassPositive when the ecart is above zero, ClassNegative
	// otherwise.
	Class string

	// Source is the unformatted difference.
	Source reconcile.Difference
}

// NotFoundRow is a display-ready not-found entry.
type NotFoundRow struct {
	Camion  string
	Produit string
	Qte     string

	Source reconcile.NotFound
}

// View is the presentation model of one outcome.
type View struct {
	Summary Summary

	// AllClear is true when there are no differences and no not-found rows.
	AllClear bool

	Differences []DifferenceRow
	NotFound    []NotFoundRow
}

// Build maps outcome into a View. A nil outcome yields an empty, all-clear
// view.
func Build(outcome *reconcile.Outcome) View {
	if outcome == nil {
		outcome = &reconcile.Outcome{}
	}

	v := View{
		Summary: Summary{
			Total:       outcome.Total(),
			Matches:     outcome.MatchCount,
			Differences: len(outcome.Differences),
			NotFound:    len(outcome.NotFound),
		},
		AllClear:    len(outcome.Differences) == 0 && len(outcome.NotFound) == 0,
		Differences: make([]DifferenceRow, 0, len(outcome.Differences)),
		NotFound:    make([]NotFoundRow, 0, len(outcome.NotFound)),
	}

	for _, d := range outcome.Differences {
		v.Differences = append(v.Differences, DifferenceRow{
			Camion:   d.Camion,
			Produit:  d.Produit,
			Qte:      FormatNumber(d.Qte),
			PoidsNet: FormatNumber(d.PoidsNet),
			Ecart:    FormatNumber(d.Ecart),
			Status:   StatusDifferent,
			Class:    signClass(d.Ecart),
			Source:   d,
		})
	}

	for _, nf := range outcome.NotFound {
		v.NotFound = append(v.NotFound, NotFoundRow{
			Camion:  nf.Camion,
			Produit: nf.Produit,
			Qte:     FormatNumber(nf.Qte),
			Source:  nf,
		})
	}

	return v
}

func signClass(ecart float64) string {
	if ecart > 0 {
		return ClassPositive
	}
	return ClassNegative
}
