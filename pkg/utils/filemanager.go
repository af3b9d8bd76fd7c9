// =============================================================================
// Weight Reconciler - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for report exports:
//   - Output directory management
//   - Report file naming from a placeholder pattern
//   - Small file helpers
//
// NAMING STRATEGY:
//   - Every export of one comparison run shares the same base name
//   - The run identifier fills the {uuid} placeholder, so the XLSX and text
//     reports of a run can be paired
//   - Existing files are never overwritten; a numeric suffix is added
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles report files.
type FileManager struct {
	// OutputDir is the directory where report exports are placed.
	OutputDir string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewFileManager creates a new FileManager for outputDir.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{
		OutputDir: outputDir,
		Now:       time.Now,
	}
}

// EnsureDirectories creates the output directory if it doesn't exist.
//
// RETURNS:
//   - An error if the directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// ReportPath returns a free path in the output directory for a report.
//
// PARAMETERS:
//   - format: The file name pattern (see GenerateOutputFileName).
//   - params: Placeholder values.
//   - ext: The file extension, with or without the leading dot.
//
// RETURNS:
//   - A path that does not exist yet.
func (fm *FileManager) ReportPath(format string, params map[string]string, ext string) string {
	now := time.Now
	if fm.Now != nil {
		now = fm.Now
	}

	name := generateFileName(format, params, ext, now())
	path := filepath.Join(fm.OutputDir, name)

	base := strings.TrimSuffix(path, filepath.Ext(path))
	for i := 1; FileExists(path); i++ {
		path = fmt.Sprintf("%s_%d%s", base, i, filepath.Ext(name))
	}

	return path
}

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a file name based on the format string.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - The "uuid" param, or a random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {manifest}  - Manifest file name (without extension)
//               {ledger}    - Ledger file name (without extension)
//   - params: A map of placeholder values.
//   - ext: The extension to ensure, e.g. "xlsx".
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format: "rapprochement_{timestamp}_{uuid}"
//   ext:    "xlsx"
//   output: "rapprochement_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.xlsx"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	return generateFileName(format, params, ext, time.Now())
}

func generateFileName(format string, params map[string]string, ext string, now time.Time) string {
	// Build replacements.
	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	// Add custom params.
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	// Apply replacements.
	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Ensure extension.
	ext = "." + strings.TrimPrefix(ext, ".")
	if ext != "." && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
