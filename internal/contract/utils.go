package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/kimbotto/distaf/schema"
)

// Score label constants. Higher scores mean a more trustworthy system.
const (
	StrongValue    = "Strong"    // Strong value
	AdequateValue  = "Adequate"  // Adequate value
	WeakValue      = "Weak"      // Weak value
	DeficientValue = "Deficient" // Deficient value
)

// Color variables for console output.
var (
	StrongColor    = color.New(color.FgGreen, color.Bold) // StrongColor represents a healthy result.
	AdequateColor  = color.New(color.FgCyan)              // AdequateColor represents an acceptable result.
	WeakColor      = color.New(color.FgYellow)            // WeakColor represents standard caution, not bold.
	DeficientColor = color.New(color.FgRed, color.Bold)   // DeficientColor represents standard danger.
	CappedColor    = color.New(color.FgMagenta)           // CappedColor marks a capped score.
)

// GetPlainLabel returns a plain text label for a 0-100 score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= schema.StrongScore:
		return StrongValue
	case score >= schema.AdequateScore:
		return AdequateValue
	case score >= schema.WeakScore:
		return WeakValue
	default:
		return DeficientValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case AdequateValue:
		return AdequateColor.Sprint(text)
	case WeakValue:
		return WeakColor.Sprint(text)
	default: // "Deficient"
		return DeficientColor.Sprint(text)
	}
}

// FormatDelta renders a signed score change, colored green for improvements and red for regressions.
func FormatDelta(delta float64, precision int, useColors bool) string {
	text := fmt.Sprintf("%+.*f", precision, delta)
	if !useColors {
		return text
	}
	switch {
	case delta > 0:
		return color.GreenString(text)
	case delta < 0:
		return color.RedString(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for result caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".distaf_cache.db"
	}
	return filepath.Join(homeDir, ".distaf_cache.db")
}

// GetAssessmentDBFilePath returns the path to the SQLite DB file for assessment storage.
func GetAssessmentDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".distaf_assessments.db"
	}
	return filepath.Join(homeDir, ".distaf_assessments.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
