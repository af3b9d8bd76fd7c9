package reconcile

import (
	"errors"
	"strings"
)

// ErrColumnsNotFound is matched by every *ColumnResolutionError.
var ErrColumnsNotFound = errors.New("required columns not found")

// ColumnResolutionError reports the roles that could not be bound to a header,
// with the full header lists of both datasets for diagnostics.
type ColumnResolutionError struct {
	// Missing lists every unresolved role name, in role order.
	Missing []string

	// FirstHeaders is the manifest header list.
	FirstHeaders []string

	// SecondHeaders is the ledger header list.
	SecondHeaders []string
}

// Error renders the diagnostic in the layout shown to operators.
func (e *ColumnResolutionError) Error() string {
	var b strings.Builder
	b.WriteString("Colonnes introuvables :\n- ")
	b.WriteString(strings.Join(e.Missing, "\n- "))
	b.WriteString("\n\nColonnes Fichier 1 : ")
	b.WriteString(strings.Join(e.FirstHeaders, ", "))
	b.WriteString("\n\nColonnes Fichier 2 : ")
	b.WriteString(strings.Join(e.SecondHeaders, ", "))
	return b.String()
}

// Is implements errors.Is support.
func (e *ColumnResolutionError) Is(target error) bool {
	return target == ErrColumnsNotFound
}
