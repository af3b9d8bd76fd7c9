// =============================================================================
// Weight Reconciler - Comparison Pipeline
// =============================================================================
//
// This module orchestrates one comparison run, from the two input files to
// the rendered report.
//
// COMPARISON PIPELINE:
//   1. Load the manifest (Fichier 1) and the ledger (Fichier 2)
//   2. Check that both files hold data rows
//   3. Resolve the column roles on both files
//   4. Aggregate ledger weights per identifier
//   5. Classify every manifest row
//   6. Build the report view
//   7. Write the configured report exports
//
// A failure in steps 1 to 3 stops the run. Export failures are reported in
// the result but the comparison outcome is kept.
//
// =============================================================================

package comparison

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/weight-reconciler/internal/config"
	"github.com/ginjaninja78/weight-reconciler/internal/dataset"
	"github.com/ginjaninja78/weight-reconciler/internal/loader"
	"github.com/ginjaninja78/weight-reconciler/internal/logging"
	"github.com/ginjaninja78/weight-reconciler/internal/reconcile"
	"github.com/ginjaninja78/weight-reconciler/internal/report"
	"github.com/ginjaninja78/weight-reconciler/internal/validation"
	"github.com/ginjaninja78/weight-reconciler/pkg/utils"
)

// ErrExportFailed wraps every export failure.
var ErrExportFailed = errors.New("export failed")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one comparison run.
type Result struct {
	// RunID identifies the run in logs and export file names.
	RunID string

	// Manifest and Ledger are the decoded inputs. Either is nil if it
	// could not be loaded.
	Manifest *dataset.Dataset
	Ledger   *dataset.Dataset

	// Bindings are the resolved column roles.
	Bindings reconcile.Bindings

	// Outcome is nil if the comparison did not run.
	Outcome *reconcile.Outcome

	// View is the report view of Outcome.
	View report.View

	// Warnings are row-level input warnings.
	Warnings []validation.Warning

	// Exports lists the written report files.
	Exports []string

	// Success indicates whether the comparison ran. Discrepancies do not
	// make a run unsuccessful.
	Success bool

	// Error contains the error if the run failed or an export failed.
	Error error

	// Stats contains run statistics.
	Stats Stats
}

// Stats contains statistics about a run.
type Stats struct {
	ManifestRows int
	LedgerRows   int

	// ReferenceIDs is the number of distinct ledger identifiers.
	ReferenceIDs int

	StartTime time.Time
	Duration  time.Duration
}

// =============================================================================
// COMPARISON STRUCTURE
// =============================================================================

// Comparison compares one manifest against one ledger.
type Comparison struct {
	manifestPath string
	ledgerPath   string
	cfg          *config.Config
	logger       *zerolog.Logger
}

// New creates a new Comparison instance.
//
// PARAMETERS:
//   - cfg: The application configuration (nil means defaults).
//   - manifestPath: The path to Fichier 1.
//   - ledgerPath: The path to Fichier 2.
//   - logger: The logger for pipeline events (nil discards them).
//
// RETURNS:
//   - A new Comparison instance.
func New(cfg *config.Config, manifestPath, ledgerPath string, logger *zerolog.Logger) *Comparison {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = &logging.Nop
	}
	return &Comparison{
		manifestPath: manifestPath,
		ledgerPath:   ledgerPath,
		cfg:          cfg,
		logger:       logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the comparison pipeline.
//
// RETURNS:
//   - A Result struct containing the outcome of the run.
func (c *Comparison) Run() Result {
	startTime := time.Now()
	result := Result{
		RunID: uuid.New().String(),
		Stats: Stats{StartTime: startTime},
	}
	log := c.logger.With().Str("run_id", result.RunID).Logger()

	// =========================================================================
	// STEP 1: LOAD INPUTS
	// =========================================================================

	manifest, err := loader.Load(c.manifestPath, c.cfg.Input)
	if err != nil {
		result.Error = fmt.Errorf("failed to load %s: %w", validation.LabelFirst, err)
		return c.finish(&log, result)
	}
	result.Manifest = manifest
	result.Stats.ManifestRows = manifest.Len()
	log.Info().Str("file", c.manifestPath).Int("rows", manifest.Len()).Msg("manifest loaded")

	ledger, err := loader.Load(c.ledgerPath, c.cfg.Input)
	if err != nil {
		result.Error = fmt.Errorf("failed to load %s: %w", validation.LabelSecond, err)
		return c.finish(&log, result)
	}
	result.Ledger = ledger
	result.Stats.LedgerRows = ledger.Len()
	log.Info().Str("file", c.ledgerPath).Int("rows", ledger.Len()).Msg("ledger loaded")

	// =========================================================================
	// STEP 2: VALIDATE INPUTS
	// =========================================================================

	if err := validation.ValidateInputs(manifest, ledger); err != nil {
		result.Error = err
		return c.finish(&log, result)
	}

	// =========================================================================
	// STEP 3: RESOLVE COLUMNS
	// =========================================================================

	bindings, err := reconcile.ResolveBindings(manifest, ledger)
	if err != nil {
		result.Error = err
		return c.finish(&log, result)
	}
	result.Bindings = bindings
	log.Debug().
		Str("truck", bindings.Truck).
		Str("quantity", bindings.Quantity).
		Str("product", bindings.Product).
		Str("resource", bindings.Resource).
		Str("net_weight", bindings.NetWeight).
		Msg("columns resolved")

	result.Warnings = validation.ScanRows(manifest, ledger, bindings)
	for _, w := range result.Warnings {
		log.Warn().
			Str("dataset", w.Dataset).
			Int("row", w.Row).
			Str("column", w.Column).
			Str("value", w.Value).
			Msg(w.Message)
	}

	// =========================================================================
	// STEP 4-5: AGGREGATE AND CLASSIFY
	// =========================================================================

	ref := reconcile.Aggregate(ledger, bindings)
	result.Stats.ReferenceIDs = ref.Len()

	result.Outcome = reconcile.Classify(manifest, bindings, ref)
	result.Success = true
	log.Info().
		Int("total", result.Outcome.Total()).
		Int("matches", result.Outcome.MatchCount).
		Int("differences", len(result.Outcome.Differences)).
		Int("not_found", len(result.Outcome.NotFound)).
		Msg("comparison complete")

	// =========================================================================
	// STEP 6: BUILD VIEW
	// =========================================================================

	result.View = report.Build(result.Outcome)

	// =========================================================================
	// STEP 7: WRITE EXPORTS
	// =========================================================================

	if len(c.cfg.ExportFormats) > 0 {
		result.Exports, err = c.export(&result, startTime)
		for _, path := range result.Exports {
			log.Info().Str("path", path).Msg("report exported")
		}
		if err != nil {
			result.Error = fmt.Errorf("%w: %w", ErrExportFailed, err)
		}
	}

	return c.finish(&log, result)
}

func (c *Comparison) finish(log *zerolog.Logger, result Result) Result {
	result.Stats.Duration = time.Since(result.Stats.StartTime)
	if result.Error != nil {
		log.Error().Err(result.Error).Dur("duration", result.Stats.Duration).Msg("comparison failed")
	} else {
		log.Debug().Dur("duration", result.Stats.Duration).Msg("run finished")
	}
	return result
}

// export writes every configured export format and returns the written
// paths.
func (c *Comparison) export(result *Result, startTime time.Time) ([]string, error) {
	fm := utils.NewFileManager(c.cfg.OutputDir)
	if err := fm.EnsureDirectories(); err != nil {
		return nil, err
	}

	params := map[string]string{
		"uuid":     result.RunID,
		"manifest": utils.BaseName(c.manifestPath),
		"ledger":   utils.BaseName(c.ledgerPath),
	}

	var written []string
	for _, format := range c.cfg.ExportFormats {
		path := fm.ReportPath(c.cfg.ReportFileFormat, params, format)

		switch format {
		case config.ExportXLSX:
			if err := report.WriteWorkbookFile(path, result.View); err != nil {
				return written, err
			}
		case config.ExportText:
			if err := report.WriteSummaryFile(path, result.View, c.runInfo(result, startTime)); err != nil {
				return written, err
			}
		default:
			return written, fmt.Errorf("unsupported export format: %s", format)
		}

		written = append(written, path)
	}

	return written, nil
}

func (c *Comparison) runInfo(result *Result, startTime time.Time) report.RunInfo {
	warnings := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		warnings = append(warnings, w.String())
	}

	return report.RunInfo{
		RunID:     result.RunID,
		StartTime: startTime,
		EndTime:   time.Now(),
		Manifest:  report.InputInfo{Name: result.Manifest.Name, Rows: result.Manifest.Len()},
		Ledger:    report.InputInfo{Name: result.Ledger.Name, Rows: result.Ledger.Len()},
		Warnings:  warnings,
	}
}
