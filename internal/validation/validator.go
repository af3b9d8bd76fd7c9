// =============================================================================
// Weight Reconciler - Input Validation
// =============================================================================
//
// This module checks the decoded inputs before the comparison runs.
//
// VALIDATION STRATEGY:
//   Validation is performed at two levels:
//   1. Dataset-level: Both files must be loaded and hold at least one data
//      row. A failure here is fatal and the comparison is not run.
//   2. Row-level: Once columns are bound, rows are scanned for values the
//      comparison will silently treat as empty or zero. These are reported
//      as warnings and never stop processing.
//
// ERROR HANDLING:
//   - Fatal problems are returned as *InputError, matching ErrInputMissing
//   - Warnings are collected, not returned as errors
//   - Each warning includes the dataset, row number, column and value
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/weight-reconciler/internal/dataset"
	"github.com/ginjaninja78/weight-reconciler/internal/reconcile"
)

// ErrInputMissing is matched by every *InputError.
var ErrInputMissing = errors.New("input missing")

// Dataset labels used in messages.
const (
	LabelFirst  = "Fichier 1"
	LabelSecond = "Fichier 2"
)

// =============================================================================
// FATAL ERRORS
// =============================================================================

// InputError reports that a dataset is absent or has no data rows.
type InputError struct {
	// Missing lists the labels of the unusable datasets, in input order.
	Missing []string
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("Veuillez charger les deux fichiers. (manquant : %s)", strings.Join(e.Missing, ", "))
}

// Is implements errors.Is support.
func (e *InputError) Is(target error) bool {
	return target == ErrInputMissing
}

// ValidateInputs checks that both datasets are present and non-empty.
//
// PARAMETERS:
//   - first: The manifest dataset (may be nil).
//   - second: The ledger dataset (may be nil).
//
// RETURNS:
//   - nil if both datasets hold at least one row.
//   - An *InputError naming every unusable dataset otherwise.
func ValidateInputs(first, second *dataset.Dataset) error {
	var missing []string
	if first.Len() == 0 {
		missing = append(missing, LabelFirst)
	}
	if second.Len() == 0 {
		missing = append(missing, LabelSecond)
	}

	if len(missing) > 0 {
		return &InputError{Missing: missing}
	}
	return nil
}

// =============================================================================
// ROW WARNINGS
// =============================================================================

// Warning describes a cell the comparison will not use as-is.
type Warning struct {
	// Dataset is LabelFirst or LabelSecond.
	Dataset string

	// Row is the 1-based data row number (header excluded).
	Row int

	// Column is the bound header.
	Column string

	// Value is the cell's display form.
	Value string

	// Message is a human-readable explanation.
	Message string
}

// String formats the warning for logs and summaries.
func (w Warning) String() string {
	return fmt.Sprintf("[%s] ligne %d, colonne '%s': %s (valeur: '%s')",
		w.Dataset, w.Row, w.Column, w.Message, w.Value)
}

// ScanRows reports rows without an identifier and numeric cells that read as
// zero although they are not empty.
func ScanRows(first, second *dataset.Dataset, b reconcile.Bindings) []Warning {
	var warnings []Warning
	warnings = append(warnings, scan(first, LabelFirst, b.Truck, b.Quantity)...)
	warnings = append(warnings, scan(second, LabelSecond, b.Resource, b.NetWeight)...)
	return warnings
}

func scan(ds *dataset.Dataset, label, idColumn, numberColumn string) []Warning {
	if ds == nil {
		return nil
	}

	var warnings []Warning
	for i, row := range ds.Rows {
		if reconcile.NormalizeIdentifier(row.Get(idColumn)) == "" {
			warnings = append(warnings, Warning{
				Dataset: label,
				Row:     i + 1,
				Column:  idColumn,
				Value:   row.Get(idColumn).String(),
				Message: "identifiant vide, ligne ignorée",
			})
		}

		value := row.Get(numberColumn)
		if isUnreadableNumber(value) {
			warnings = append(warnings, Warning{
				Dataset: label,
				Row:     i + 1,
				Column:  numberColumn,
				Value:   value.String(),
				Message: "valeur non numérique, comptée comme 0",
			})
		}
	}
	return warnings
}

// isUnreadableNumber is true for text that parses to 0 without spelling a
// zero.
func isUnreadableNumber(v dataset.Value) bool {
	raw, ok := v.Raw()
	if !ok || strings.TrimSpace(raw) == "" {
		return false
	}
	if reconcile.ParseNumber(v) != 0 {
		return false
	}
	return !strings.ContainsAny(raw, "0")
}
