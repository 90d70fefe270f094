package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/schema"
)

// maxViolationsShown caps the violations listed per track in text output.
const maxViolationsShown = 5

// PrintCheckResult prints the check result in a concise format suitable for CI/CD.
// JSON is supported for machines; every other format prints text.
func PrintCheckResult(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	}
	fmtFloat, _ := createFormatters(cfg.Precision)
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCheckText(w, result, cfg.UseEmojis, fmtFloat, duration)
	}, "Wrote check result")
}

func writeCheckText(w io.Writer, result schema.CheckResult, emojis bool, fmtFloat func(float64) string, duration time.Duration) error {
	if err := writeCheckHeader(w, result, fmtFloat, duration); err != nil {
		return err
	}
	if result.Passed {
		return writeCheckSuccess(w, result, emojis, fmtFloat)
	}
	return writeCheckFailure(w, result, emojis, fmtFloat)
}

// writeCheckHeader prints the common header information for check results.
func writeCheckHeader(w io.Writer, result schema.CheckResult, fmtFloat func(float64) string, duration time.Duration) error {
	thresholds := ""
	for i, track := range result.Tracks {
		if i > 0 {
			thresholds += ", "
		}
		thresholds += fmt.Sprintf("%s=%s", track, fmtFloat(result.Thresholds[track]))
	}
	if thresholds == "" {
		thresholds = "(no scored tracks)"
	}

	// Define labels and values for dynamic padding
	labels := []string{"Framework:", "Answers:", "Thresholds:"}
	values := []string{result.Framework, result.Source, thresholds}

	maxLabelLen := 0
	for _, label := range labels {
		maxLabelLen = max(maxLabelLen, len(label))
	}

	if _, err := fmt.Fprintln(w, "Threshold Check Results:"); err != nil {
		return err
	}
	for i, label := range labels {
		if _, err := fmt.Fprintf(w, "  %-*s %s\n", maxLabelLen+1, label, values[i]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nChecked %d scores in %v\n\n", result.Checked, duration.Round(time.Millisecond))
	return err
}

// writeCheckSuccess prints the success case output.
func writeCheckSuccess(w io.Writer, result schema.CheckResult, emojis bool, fmtFloat func(float64) string) error {
	prefix := ""
	if emojis {
		prefix = "✅ "
	}
	if _, err := fmt.Fprintf(w, "%sAll scores met their thresholds\n\n", prefix); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Scores observed:"); err != nil {
		return err
	}
	for _, track := range result.Tracks {
		if _, err := fmt.Fprintf(w, "  %s: overall=%s\n", track, fmtFloat(result.Overall[track])); err != nil {
			return err
		}
	}
	return nil
}

// writeCheckFailure prints the failed scores grouped by track, lowest first as found.
func writeCheckFailure(w io.Writer, result schema.CheckResult, emojis bool, fmtFloat func(float64) string) error {
	prefix := ""
	if emojis {
		prefix = "❌ "
	}
	if _, err := fmt.Fprintf(w, "%sThreshold check failed: %d violation(s) found\n\n", prefix, len(result.Violations)); err != nil {
		return err
	}

	groups := make(map[schema.Track][]schema.CheckViolation)
	for _, v := range result.Violations {
		groups[v.Track] = append(groups[v.Track], v)
	}

	for _, track := range result.Tracks {
		violations := groups[track]
		if len(violations) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "Track: %s (%d violations)\n", track, len(violations)); err != nil {
			return err
		}
		for i, v := range violations {
			if i == maxViolationsShown {
				if _, err := fmt.Fprintf(w, "  ... and %d more\n", len(violations)-i); err != nil {
					return err
				}
				break
			}
			if _, err := fmt.Fprintf(w, "  - %s %s (score: %s < threshold: %s)\n",
				v.Level, v.Name, fmtFloat(v.Score), fmtFloat(v.Threshold)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
