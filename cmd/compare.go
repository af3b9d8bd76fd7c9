// =============================================================================
// Weight Reconciler - Compare Command
// =============================================================================
//
// This file defines the 'compare' command, the main command of the tool. It
// runs one comparison between a manifest and a ledger.
//
// COMMAND USAGE:
//   reconciler compare <manifest> <ledger> [flags]
//
// FLAGS:
//   --format      : Terminal output: table, json, yaml
//   --output-dir  : Directory for report exports
//   --export      : Report exports to write: xlsx, txt (comma-separated)
//
// EXIT STATUS:
//   0 when the comparison ran, whatever the number of discrepancies
//   1 on load, validation, column or export errors
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/weight-reconciler/internal/comparison"
	"github.com/ginjaninja78/weight-reconciler/internal/config"
	"github.com/ginjaninja78/weight-reconciler/internal/report"
	"github.com/ginjaninja78/weight-reconciler/internal/validation"
)

// compareCmd represents the 'compare' command.
var compareCmd = &cobra.Command{
	Use:   "compare <manifest> <ledger>",
	Short: "Compare a shipment manifest with a reference weight ledger",
	Long: `The compare command loads the manifest (Fichier 1) and the ledger (Fichier 2),
resolves their columns, sums ledger weights per truck and classifies every
manifest row as a match, a difference or not found.

Required columns (matched by name, case-insensitively):
  Fichier 1: Camions, Qté facturées, Produits
  Fichier 2: Ressource, Total poids net

Differences and unmatched trucks are results, not errors: the command exits
with status 0 as long as the comparison could run.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	flags := compareCmd.Flags()
	flags.StringP("format", "f", "", "Output format: table, json, yaml")
	flags.StringP("output-dir", "o", "", "Directory for report exports")
	flags.StringSlice("export", nil, "Report exports to write: xlsx, txt")

	bindFlag("output_format", flags.Lookup("format"))
	bindFlag("output_dir", flags.Lookup("output-dir"))
	bindFlag("export_formats", flags.Lookup("export"))
}

// runCompare executes the comparison and prints the report.
func runCompare(cmd *cobra.Command, manifestPath, ledgerPath string) error {
	logger := commandLogger(cmd)
	out := cmd.OutOrStdout()

	// Status lines go to stderr for machine-readable formats so that stdout
	// stays parseable.
	status := out
	if appConfig.OutputFormat != config.OutputTable {
		status = cmd.ErrOrStderr()
	}

	result := comparison.New(appConfig, manifestPath, ledgerPath, logger).Run()

	printLoaded(status, validation.LabelFirst, result.Stats.ManifestRows, result.Manifest != nil)
	printLoaded(status, validation.LabelSecond, result.Stats.LedgerRows, result.Ledger != nil)

	if !result.Success {
		return result.Error
	}

	if err := report.NewRenderer(appConfig.OutputFormat).Render(out, result.View); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	for _, path := range result.Exports {
		fmt.Fprintf(status, "Rapport exporté : %s\n", path)
	}

	return result.Error
}

func printLoaded(w io.Writer, label string, rows int, loaded bool) {
	if !loaded {
		return
	}
	fmt.Fprintf(w, "%s : %d lignes chargées\n", label, rows)
}
