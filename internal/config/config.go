// =============================================================================
// Weight Reconciler - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration. A single
// YAML file (config.yaml by default) holds:
//   - Output settings (terminal format, report exports, file naming)
//   - Logging settings
//   - Input decoding settings for CSV files (delimiter, encoding)
//
// A missing configuration file is not an error: every setting has a default,
// and flags / RECONCILER_* environment variables can override the file.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is matched by every *ValidationError.
var ErrInvalidConfig = errors.New("invalid configuration")

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where report exports are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// ReportFileFormat is the base name of exported reports, without extension.
	// Placeholders:
	//   {uuid}      - The run identifier
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {time}      - Current time (HHMMSS)
	//   {manifest}  - Manifest file name, without extension
	//   {ledger}    - Ledger file name, without extension
	// Default: "rapprochement_{timestamp}_{uuid}"
	ReportFileFormat string `yaml:"report_file_format"`

	// OutputFormat is the terminal rendering: "table", "json" or "yaml".
	// Default: "table"
	OutputFormat string `yaml:"output_format"`

	// ExportFormats lists the report files written to OutputDir after each
	// comparison. Supported values: "xlsx", "txt". Empty means no export.
	ExportFormats []string `yaml:"export_formats"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "auto" (console on a terminal, JSON otherwise), "console"
	// or "json".
	// Default: "auto"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// Input controls how CSV inputs are decoded. Workbooks ignore it.
	Input InputSettings `yaml:"input"`
}

// InputSettings contains settings for decoding CSV inputs.
type InputSettings struct {
	// Delimiter separates fields: "auto", ",", ";", "tab" or "pipe".
	// "auto" picks the most frequent of ';', ',' and tab in the header line.
	// Default: "auto"
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character set of the file: "UTF-8", "Windows-1252"
	// or "ISO-8859-1". Spreadsheet exports on French desktops are often
	// Windows-1252.
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// =============================================================================
// SUPPORTED VALUES
// =============================================================================

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Export formats.
const (
	ExportXLSX = "xlsx"
	ExportText = "txt"
)

// Encodings.
const (
	EncodingUTF8        = "UTF-8"
	EncodingWindows1252 = "Windows-1252"
	EncodingISO88591    = "ISO-8859-1"
)

// DelimiterAuto asks the loader to sniff the delimiter.
const DelimiterAuto = "auto"

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError reports an invalid configuration setting.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. An empty path or a
//     file that does not exist yields the defaults.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML document, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults sets default values for any unset configuration option.
func ApplyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.ReportFileFormat == "" {
		cfg.ReportFileFormat = "rapprochement_{timestamp}_{uuid}"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = OutputTable
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "auto"
	}
	if cfg.Input.Delimiter == "" {
		cfg.Input.Delimiter = DelimiterAuto
	}
	if cfg.Input.Encoding == "" {
		cfg.Input.Encoding = EncodingUTF8
	}
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	c.OutputFormat = strings.ToLower(c.OutputFormat)
	switch c.OutputFormat {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return &ValidationError{Field: "output_format", Value: c.OutputFormat, Message: "expected table, json or yaml"}
	}

	for i, format := range c.ExportFormats {
		format = strings.ToLower(strings.TrimSpace(format))
		switch format {
		case ExportXLSX, ExportText:
			c.ExportFormats[i] = format
		default:
			return &ValidationError{Field: "export_formats", Value: format, Message: "expected xlsx or txt"}
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return &ValidationError{Field: "log_level", Value: c.LogLevel, Message: "unknown level"}
	}

	switch c.LogFormat {
	case "auto", "console", "json":
	default:
		return &ValidationError{Field: "log_format", Value: c.LogFormat, Message: "expected auto, console or json"}
	}

	if _, err := NormalizeEncoding(c.Input.Encoding); err != nil {
		return err
	}
	if _, err := ParseDelimiter(c.Input.Delimiter); err != nil {
		return err
	}

	return nil
}

// NormalizeEncoding maps an encoding name to its canonical form.
func NormalizeEncoding(name string) (string, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "UTF-8", "UTF8":
		return EncodingUTF8, nil
	case "WINDOWS-1252", "CP1252":
		return EncodingWindows1252, nil
	case "ISO-8859-1", "LATIN1", "LATIN-1":
		return EncodingISO88591, nil
	default:
		return "", &ValidationError{Field: "input.encoding", Value: name, Message: "expected UTF-8, Windows-1252 or ISO-8859-1"}
	}
}

// ParseDelimiter converts a delimiter setting into a rune. It returns 0 for
// "auto".
func ParseDelimiter(value string) (rune, error) {
	switch value {
	case DelimiterAuto, "":
		return 0, nil
	case "\\t", "\t", "tab", "TAB":
		return '\t', nil
	case "|", "pipe", "PIPE":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	case ",", "comma":
		return ',', nil
	}

	runes := []rune(value)
	if len(runes) != 1 || runes[0] == '"' || runes[0] == '\r' || runes[0] == '\n' {
		return 0, &ValidationError{Field: "input.delimiter", Value: value, Message: "expected a single character, tab, pipe or auto"}
	}
	return runes[0], nil
}

// HasExport reports whether format is listed in ExportFormats.
func (c *Config) HasExport(format string) bool {
	for _, f := range c.ExportFormats {
		if f == format {
			return true
		}
	}
	return false
}
