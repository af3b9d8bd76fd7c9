package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/weight-reconciler/internal/loader"
	"github.com/ginjaninja78/weight-reconciler/internal/reconcile"
	"github.com/ginjaninja78/weight-reconciler/internal/report"
)

// inspectCmd represents the 'inspect' command.
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the decoded columns of a file and the roles they resolve",
	Long: `The inspect command decodes one input file the same way compare does and
prints its header list, its row count and, for every column role of either
file, the header that would be bound to it. Use it to diagnose a
"Colonnes introuvables" error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loader.Load(args[0], appConfig.Input)
		if err != nil {
			return err
		}
		commandLogger(cmd).Debug().Str("file", args[0]).Int("rows", ds.Len()).Msg("file loaded")

		out := cmd.OutOrStdout()
		headers := ds.HeaderList()
		fmt.Fprintf(out, "Fichier : %s\n", ds.Name)
		fmt.Fprintf(out, "%d lignes chargées\n", ds.Len())
		fmt.Fprintf(out, "Colonnes : %s\n\n", strings.Join(headers, ", "))

		roles := append(reconcile.ManifestRoles(), reconcile.LedgerRoles()...)
		rows := make([][]string, 0, len(roles))
		for _, role := range roles {
			column, ok := reconcile.ResolveColumn(headers, role.Candidates)
			if !ok {
				column = "-"
			}
			rows = append(rows, []string{role.Name, column})
		}

		return report.WriteTable(out, []string{"Rôle", "Colonne"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
