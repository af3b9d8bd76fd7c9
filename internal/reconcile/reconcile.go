// =============================================================================
// Weight Reconciler - Reconciliation Core
// =============================================================================
//
// This package joins a shipment manifest (Fichier 1) against a reference
// weight ledger (Fichier 2) and classifies every manifest row.
//
// PIPELINE:
//   1. Resolve the five column roles on both datasets (ResolveBindings)
//   2. Aggregate ledger weights per normalized identifier (Aggregate)
//   3. For each manifest row with a non-empty identifier:
//        - identifier unknown to the ledger        -> NotFound
//        - |quantity - ledger weight| > Tolerance   -> Difference
//        - otherwise                               -> counted as a match
//
// The package is pure: it performs no I/O, keeps no state between calls and
// never mutates the datasets it is given.
//
// =============================================================================

package reconcile

import (
	"math"

	"github.com/ginjaninja78/weight-reconciler/internal/dataset"
)

// Tolerance is the largest absolute deviation still counted as a match.
// It absorbs rounding noise from decimal-comma parsing.
const Tolerance = 0.01

// =============================================================================
// RESULT STRUCTURES
// =============================================================================

// Difference is a manifest row whose quantity deviates from the ledger.
type Difference struct {
	// Camion is the normalized truck identifier.
	Camion string `json:"camion" yaml:"camion"`

	// Produit is the product label as read from the manifest.
	Produit string `json:"produit" yaml:"produit"`

	// Qte is the invoiced quantity.
	Qte float64 `json:"qte" yaml:"qte"`

	// PoidsNet is the aggregated ledger weight.
	PoidsNet float64 `json:"poidsNet" yaml:"poidsNet"`

	// Ecart is Qte - PoidsNet.
	Ecart float64 `json:"ecart" yaml:"ecart"`
}

// NotFound is a manifest row whose identifier is absent from the ledger.
type NotFound struct {
	Camion  string  `json:"camion" yaml:"camion"`
	Produit string  `json:"produit" yaml:"produit"`
	Qte     float64 `json:"qte" yaml:"qte"`
}

// Outcome is the result of one reconciliation run.
type Outcome struct {
	// MatchCount is the number of rows within tolerance.
	MatchCount int `json:"matchCount" yaml:"matchCount"`

	// Differences are in manifest row order.
	Differences []Difference `json:"differences" yaml:"differences"`

	// NotFound are in manifest row order.
	NotFound []NotFound `json:"notFound" yaml:"notFound"`
}

// Total returns the number of classified manifest rows.
func (o *Outcome) Total() int {
	return o.MatchCount + len(o.Differences) + len(o.NotFound)
}

// Matched returns the number of rows whose identifier exists in the ledger.
func (o *Outcome) Matched() int {
	return o.MatchCount + len(o.Differences)
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// Reconcile compares the manifest against the ledger.
//
// PARAMETERS:
//   - manifest: Fichier 1 (truck, invoiced quantity, product).
//   - ledger:   Fichier 2 (resource identifier, net weight).
//
// RETURNS:
//   - The outcome of the comparison.
//   - A *ColumnResolutionError if any required column is missing; no partial
//     comparison is attempted in that case.
func Reconcile(manifest, ledger *dataset.Dataset) (*Outcome, error) {
	b, err := ResolveBindings(manifest, ledger)
	if err != nil {
		return nil, err
	}

	return Classify(manifest, b, Aggregate(ledger, b)), nil
}

// Classify classifies every manifest row against an aggregated ledger using
// already-resolved bindings.
func Classify(manifest *dataset.Dataset, b Bindings, ref *Reference) *Outcome {
	outcome := &Outcome{
		Differences: []Difference{},
		NotFound:    []NotFound{},
	}
	if manifest == nil {
		return outcome
	}

	for _, row := range manifest.Rows {
		camion := NormalizeIdentifier(row.Get(b.Truck))
		if camion == "" {
			continue
		}

		qte := ParseNumber(row.Get(b.Quantity))
		produit := productLabel(row.Get(b.Product))

		entry, ok := ref.Lookup(camion)
		if !ok {
			outcome.NotFound = append(outcome.NotFound, NotFound{
				Camion:  camion,
				Produit: produit,
				Qte:     qte,
			})
			continue
		}

		ecart := qte - entry.NetWeight
		if math.Abs(ecart) > Tolerance {
			outcome.Differences = append(outcome.Differences, Difference{
				Camion:   camion,
				Produit:  produit,
				Qte:      qte,
				PoidsNet: entry.NetWeight,
				Ecart:    ecart,
			})
			continue
		}

		outcome.MatchCount++
	}

	return outcome
}

// productLabel returns the raw product cell as text, untrimmed. Unset cells
// (empty, "", 0) read as "".
func productLabel(v dataset.Value) string {
	if !v.Truthy() {
		return ""
	}
	return v.String()
}
