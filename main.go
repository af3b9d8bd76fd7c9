// =============================================================================
// Weight Reconciler - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Weight Reconciler CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   reconciler compare <manifest> <ledger> - Compare invoiced quantities with net weights
//   reconciler inspect <file>              - Show the columns of an input file
//   reconciler version                     - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Loading, reconciliation, reporting (not for external import)
//   - pkg/       : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/weight-reconciler/cmd"
)

func main() {
	cmd.Execute()
}
