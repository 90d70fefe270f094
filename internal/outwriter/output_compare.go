package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/internal/parquet"
	"github.com/kimbotto/distaf/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// notComparable is shown in place of a delta for nodes that exist on one side only.
const notComparable = "not comparable"

// PrintComparisonResults outputs a comparison, dispatching based on the output format configured.
func PrintComparisonResults(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeComparisonCSV(w, result, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteComparisonRowsParquet(parquet.ComparisonRows(result), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	case schema.HTMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHTML(w, "Trust score comparison", comparisonMarkdown(result, fmtFloat))
		}, "Wrote HTML"); err != nil {
			return fmt.Errorf("error writing HTML output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeComparisonTable(w, result, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// deltaText renders a delta cell: "not comparable" for one-sided nodes and "-" where the
// track does not apply (metric rows of the other track).
func deltaText(comparable bool, delta *float64, fmtFloat func(float64) string) string {
	switch {
	case !comparable:
		return notComparable
	case delta == nil:
		return "-"
	case *delta > 0:
		return "+" + fmtFloat(*delta)
	default:
		return fmtFloat(*delta)
	}
}

// colorDelta renders a delta cell with an arrow. Higher is better, so increases are green.
func colorDelta(comparable bool, delta *float64, colors palette, fmtFloat func(float64) string) string {
	text := deltaText(comparable, delta, fmtFloat)
	if !comparable || delta == nil {
		return colors.yellow(text)
	}
	switch {
	case *delta > 0:
		return colors.green(text + " ▲")
	case *delta < 0:
		return colors.red(text + " ▼")
	default:
		return text
	}
}

// writeComparisonTable writes the comparison in hierarchy order with a summary underneath.
func writeComparisonTable(w io.Writer, result schema.ComparisonResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	colors := newPalette(cfg.UseColors)
	nameWidth := GetMaxNameWidth(cfg)

	table := tablewriter.NewWriter(w)

	// --- 1. Define Headers (Comparison Mode) ---
	headers := []string{"Level", "Name", "Before Op", "After Op", "Δ Op", "Before Design", "After Design", "Δ Design", "Status"}
	if cfg.Detail {
		headers = append(headers, "Capped")
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var data [][]string
	for _, d := range result.Details {
		if d.Level == schema.MetricLevel && !cfg.Detail {
			continue
		}
		row := []string{
			string(d.Level),
			contract.TruncateText(d.Name, nameWidth),
			fmtFloat(d.BeforeOperational),
			fmtFloat(d.AfterOperational),
			colorDelta(d.Comparable, d.DeltaOperational, colors, fmtFloat),
			fmtFloat(d.BeforeDesign),
			fmtFloat(d.AfterDesign),
			colorDelta(d.Comparable, d.DeltaDesign, colors, fmtFloat),
			string(d.Status),
		}
		if cfg.Detail {
			row = append(row, colors.capped(capTransition(d.BeforeCapped, d.AfterCapped)))
		}
		data = append(data, row)
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	s := result.Summary
	if _, err := fmt.Fprintf(w, "Overall delta: operational %s, design %s\n",
		contract.FormatDelta(s.OverallOperationalDelta, cfg.Precision, cfg.UseColors),
		contract.FormatDelta(s.OverallDesignDelta, cfg.Precision, cfg.UseColors)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Comparable: %d, New: %d, Removed: %d, Improved: %d, Regressed: %d\n",
		s.TotalComparable, s.TotalNew, s.TotalRemoved, s.TotalImproved, s.TotalRegressed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Newly capped: %d, No longer capped: %d\n", s.TotalNewlyCapped, s.TotalNoLongerCapped); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Compared %s and %s in %v. Cache backend: %s\n", result.BaseLabel, result.TargetLabel, duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// capTransition describes how the capping flag changed between base and target.
func capTransition(before, after bool) string {
	switch {
	case before && after:
		return "capped"
	case after:
		return "newly capped"
	case before:
		return "lifted"
	default:
		return ""
	}
}

// writeComparisonCSV writes the comparison details. Missing deltas are left empty.
func writeComparisonCSV(w io.Writer, result schema.ComparisonResult, fmtFloat func(float64) string) error {
	header := []string{
		"level",
		"id",
		"name",
		"parent_id",
		"track",
		"status",
		"before_operational",
		"after_operational",
		"delta_operational",
		"before_design",
		"after_design",
		"delta_design",
		"before_capped",
		"after_capped",
	}
	optional := func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmtFloat(*v)
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range result.Details {
			rec := []string{
				string(d.Level),
				d.ID,
				d.Name,
				d.ParentID,
				string(d.Track),
				string(d.Status),
				fmtFloat(d.BeforeOperational),
				fmtFloat(d.AfterOperational),
				optional(d.DeltaOperational),
				fmtFloat(d.BeforeDesign),
				fmtFloat(d.AfterDesign),
				optional(d.DeltaDesign),
				strconv.FormatBool(d.BeforeCapped),
				strconv.FormatBool(d.AfterCapped),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
