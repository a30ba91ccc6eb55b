// =============================================================================
// Comparativo - File Manager Utility
// =============================================================================
//
// This module provides the file helpers used around the pipeline:
//   - Upload type detection (.csv / .xlsx)
//   - Export directory management
//   - Export file naming
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
// UPLOAD TYPES
// =============================================================================

// FileKind is the format of an uploaded file.
type FileKind int

const (
	// KindUnsupported is any extension other than the two below.
	KindUnsupported FileKind = iota
	// KindCSV is a comma separated text file.
	KindCSV
	// KindXLSX is an Excel workbook.
	KindXLSX
)

// DetectKind classifies a file name by extension, case-insensitively.
func DetectKind(name string) FileKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return KindCSV
	case ".xlsx":
		return KindXLSX
	default:
		return KindUnsupported
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and its parents if they don't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique export file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {time}      - Current time (HHMMSS)
//   - params: Extra placeholder values, e.g. {"session": id}.
//
// RETURNS:
//   - The generated file name, always ending in .xlsx.
//
// EXAMPLE:
//
//	format: "comparativo_{date}_{uuid}.xlsx"
//	output: "comparativo_20240115_a1b2c3d4-e5f6-7890-abcd-ef1234567890.xlsx"
func GenerateOutputFileName(format string, params map[string]string) string {
	return generateOutputFileName(format, params, time.Now())
}

func generateOutputFileName(format string, params map[string]string, now time.Time) string {
	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(strings.ToLower(result), ".xlsx") {
		result += ".xlsx"
	}
	return result
}

// OutputPath joins dir and a generated file name.
func OutputPath(dir, format string, params map[string]string) string {
	return filepath.Join(dir, GenerateOutputFileName(format, params))
}
