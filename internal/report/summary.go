package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"
)

const rule = "================================================================================\n"

// InputInfo describes one compared file.
type InputInfo struct {
	Name string
	Rows int
}

// RunInfo describes the comparison run a summary belongs to.
type RunInfo struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time
	Manifest  InputInfo
	Ledger    InputInfo

	// Warnings are row-level messages from input validation.
	Warnings []string
}

// WriteSummary writes a plain-text comparison summary.
//
// PARAMETERS:
//   - w: The destination.
//   - v: The report view.
//   - run: Run metadata.
//
// RETURNS:
//   - An error if writing fails.
func WriteSummary(w io.Writer, v View, run RunInfo) error {
	writer := bufio.NewWriter(w)

	fmt.Fprintf(writer, "Weight Reconciler - Rapport de rapprochement\n"+
		rule+"\n"+
		"Exécution :\n"+
		"  Identifiant :    %s\n"+
		"  Début :          %s\n"+
		"  Fin :            %s\n"+
		"  Durée :          %s\n\n"+
		"Fichiers :\n"+
		"  Fichier 1 :      %s (%d lignes chargées)\n"+
		"  Fichier 2 :      %s (%d lignes chargées)\n\n"+
		"Résultats :\n"+
		"  Total :           %d\n"+
		"  Correspondances : %d\n"+
		"  Différences :     %d\n"+
		"  Introuvables :    %d\n\n",
		run.RunID,
		run.StartTime.Format("2006-01-02 15:04:05"),
		run.EndTime.Format("2006-01-02 15:04:05"),
		run.EndTime.Sub(run.StartTime).String(),
		run.Manifest.Name, run.Manifest.Rows,
		run.Ledger.Name, run.Ledger.Rows,
		v.Summary.Total,
		v.Summary.Matches,
		v.Summary.Differences,
		v.Summary.NotFound)

	if v.AllClear {
		writer.WriteString(allClearMessage + "\n\n")
	}

	if len(v.Differences) > 0 {
		writer.WriteString("Différences :\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, d := range v.Differences {
			fmt.Fprintf(writer, "  Camion %s (%s) : qté %s, poids net %s, écart %s\n",
				d.Camion, d.Produit, d.Qte, d.PoidsNet, d.Ecart)
		}
		writer.WriteString("\n")
	}

	if len(v.NotFound) > 0 {
		writer.WriteString("Introuvables dans le Fichier 2 :\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, nf := range v.NotFound {
			fmt.Fprintf(writer, "  Camion %s (%s) : qté %s\n", nf.Camion, nf.Produit, nf.Qte)
		}
		writer.WriteString("\n")
	}

	if len(run.Warnings) > 0 {
		fmt.Fprintf(writer, "Avertissements (%d) :\n", len(run.Warnings))
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, warning := range run.Warnings {
			fmt.Fprintf(writer, "  %s\n", warning)
		}
		writer.WriteString("\n")
	}

	writer.WriteString(rule + "Fin du rapport\n")

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush summary: %w", err)
	}
	return nil
}

// WriteSummaryFile writes the text summary to path.
func WriteSummaryFile(path string, v View, run RunInfo) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	return WriteSummary(file, v, run)
}
