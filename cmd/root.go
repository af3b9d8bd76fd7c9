// =============================================================================
// Weight Reconciler - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (reconciler)
//   ├── compareCmd (reconciler compare <manifest> <ledger>)
//   ├── inspectCmd (reconciler inspect <file>)
//   └── versionCmd (reconciler version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (e.g., --config, --verbose)
//   2. Loading the configuration file and applying flag / environment
//      overrides (RECONCILER_* variables) through Viper
//   3. Setting up logging
//
// PRECEDENCE (highest first):
//   flag > RECONCILER_* environment variable > .env.local > .env >
//   config file > default
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/weight-reconciler/internal/config"
	"github.com/ginjaninja78/weight-reconciler/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// settings holds flag and environment values.
var settings = viper.New()

// appConfig is the effective configuration, set before any command runs.
var appConfig *config.Config

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reconciler",
	Short: "Weight Reconciler - Compare invoiced truck quantities with weighed net weights",
	Long: `Weight Reconciler compares a shipment manifest (Fichier 1: trucks, invoiced
quantities, products) with a reference weight ledger (Fichier 2: resources,
net weights).

Ledger weights are summed per truck, then every manifest row is classified:
  - within 0.01 of the ledger weight     -> match
  - further away                          -> difference
  - truck absent from the ledger          -> not found

Both Excel workbooks (.xlsx) and CSV exports are accepted.

Example Usage:
  reconciler compare camions.xlsx pesees.xlsx
  reconciler compare camions.csv pesees.csv --encoding Windows-1252 --export xlsx,txt
  reconciler inspect pesees.xlsx`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		appConfig = cfg

		logger := logging.New(logging.Config{
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Verbose: settings.GetBool("verbose"),
			Output:  cmd.ErrOrStderr(),
		})
		cmd.SetContext(logging.WithLogger(cmd.Context(), &logger))

		logger.Debug().Str("config", settings.GetString("config")).Msg("configuration loaded")
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.String("config", "config.yaml", "Path to the configuration file (a missing file means defaults)")
	flags.BoolP("verbose", "v", false, "Enable verbose output for debugging")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: auto, console, json")
	flags.String("delimiter", "", "CSV delimiter: auto, ',', ';', tab, pipe")
	flags.String("encoding", "", "CSV encoding: UTF-8, Windows-1252, ISO-8859-1")

	bindFlag("config", flags.Lookup("config"))
	bindFlag("verbose", flags.Lookup("verbose"))
	bindFlag("log_level", flags.Lookup("log-level"))
	bindFlag("log_format", flags.Lookup("log-format"))
	bindFlag("input.delimiter", flags.Lookup("delimiter"))
	bindFlag("input.encoding", flags.Lookup("encoding"))

	cobra.OnInitialize(loadEnvFiles)

	settings.SetEnvPrefix("RECONCILER")
	settings.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	settings.AutomaticEnv()
}

// bindFlag binds a flag to a settings key. Binding only fails for a nil flag.
func bindFlag(key string, flag *pflag.Flag) {
	if err := settings.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// envFiles are loaded from the working directory, if present. godotenv never
// overrides a variable that is already set, so the first file wins.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles() {
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// loadConfig loads the configuration file and applies every flag or
// environment override that was explicitly set.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(settings.GetString("config"))
	if err != nil {
		return nil, err
	}

	overrideString(&cfg.OutputDir, "output_dir")
	overrideString(&cfg.OutputFormat, "output_format")
	overrideString(&cfg.LogLevel, "log_level")
	overrideString(&cfg.LogFormat, "log_format")
	overrideString(&cfg.Input.Delimiter, "input.delimiter")
	overrideString(&cfg.Input.Encoding, "input.encoding")

	if settings.IsSet("export_formats") {
		cfg.ExportFormats = splitList(settings.GetStringSlice("export_formats"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideString(dst *string, key string) {
	if settings.IsSet(key) {
		if value := settings.GetString(key); value != "" {
			*dst = value
		}
	}
}

// splitList flattens comma-separated entries ("xlsx,txt") and drops blanks.
func splitList(values []string) []string {
	out := []string{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// commandLogger returns the logger set up for cmd.
func commandLogger(cmd *cobra.Command) *zerolog.Logger {
	return logging.FromContext(cmd.Context())
}
