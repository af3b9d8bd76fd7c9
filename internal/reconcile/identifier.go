package reconcile

import "github.com/ginjaninja78/weight-reconciler/internal/dataset"

// NormalizeIdentifier turns a join-key cell into its matching form: the cell
// is coerced to text (empty cells become ""), trimmed, and stripped of all
// interior whitespace, so "12 345" and "12345" join.
func NormalizeIdentifier(v dataset.Value) string {
	return stripSpace(trimSpace(v.String()))
}
