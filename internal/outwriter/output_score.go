package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/internal/parquet"
	"github.com/kimbotto/distaf/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintScoreReport outputs a score report, dispatching based on the output format configured.
func PrintScoreReport(report schema.ScoreReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreCSV(w, report, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteScoreRowsParquet(parquet.ScoreRows(report, time.Now().UTC()), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	case schema.HTMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHTML(w, "Trust score: "+report.Framework, scoreMarkdown(report, cfg, fmtFloat))
		}, "Wrote HTML"); err != nil {
			return fmt.Errorf("error writing HTML output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreTable(w, report, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeScoreTable generates and writes the human-readable table followed by the explanations.
func writeScoreTable(w io.Writer, report schema.ScoreReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	result := report.Result
	colors := newPalette(cfg.UseColors)
	nameWidth := GetMaxNameWidth(cfg)

	if _, err := fmt.Fprintf(w, "Overall: operational %s (%s), design %s (%s)\n",
		fmtFloat(result.OverallOperationalScore), scoreLabel(result.OverallOperationalScore, cfg.UseColors),
		fmtFloat(result.OverallDesignScore), scoreLabel(result.OverallDesignScore, cfg.UseColors)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Name", "Operational", "Design", "Label", "Capped"}
	if cfg.Detail {
		headers = append(headers, "Track")
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for _, p := range result.Pillars {
		name := p.Name
		if p.Icon != "" {
			name = p.Icon + " " + name
		}
		row := []string{
			contract.TruncateText(name, nameWidth),
			fmtFloat(p.OperationalScore),
			fmtFloat(p.DesignScore),
			scoreLabel(p.OperationalScore, cfg.UseColors),
			colors.capped(boolString(p.IsCapped)),
		}
		if cfg.Detail {
			row = append(row, "")
		}
		data = append(data, row)

		for _, m := range p.Mechanisms {
			row := []string{
				contract.TruncateText("  "+m.Name, nameWidth),
				fmtFloat(m.OperationalScore),
				fmtFloat(m.DesignScore),
				scoreLabel(m.OperationalScore, cfg.UseColors),
				colors.capped(boolString(m.IsCapped)),
			}
			if cfg.Detail {
				row = append(row, "")
			}
			data = append(data, row)

			if !cfg.Detail {
				continue
			}
			for _, metric := range m.Metrics {
				op, design := "-", "-"
				if metric.Track == schema.DesignTrack {
					design = fmtFloat(metric.Score)
				} else {
					op = fmtFloat(metric.Score)
				}
				low := ""
				if metric.IsLow() {
					low = colors.yellow("low")
				}
				data = append(data, []string{
					contract.TruncateText("    "+metric.Name, nameWidth),
					op,
					design,
					scoreLabel(metric.Score, cfg.UseColors),
					low,
					string(metric.Track),
				})
			}
		}
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if cfg.Explain {
		if err := writeCappingExplanations(w, result, fmtFloat); err != nil {
			return err
		}
	}
	if len(report.Excluded) > 0 {
		if _, err := fmt.Fprintf(w, "Excluded mechanisms: %s\n", strings.Join(report.Excluded, ", ")); err != nil {
			return err
		}
	}
	if len(report.Weakest) > 0 {
		parts := make([]string, 0, len(report.Weakest))
		for _, m := range report.Weakest {
			parts = append(parts, fmt.Sprintf("%s (%s)", m.Name, fmtFloat(m.Score)))
		}
		if _, err := fmt.Fprintf(w, "Weakest operational mechanisms: %s\n", strings.Join(parts, ", ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Scored %s in %v. Zero weights: %s. Cache backend: %s\n", report.Source, duration, report.Policy, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// cappingExplanations describes why each capped node was limited, in hierarchy order.
func cappingExplanations(result schema.OverallResult, fmtFloat func(float64) string) []string {
	var lines []string
	for _, p := range result.Pillars {
		if p.IsCapped {
			ids := make([]string, 0, len(p.CappingMechanisms))
			for _, cm := range p.CappingMechanisms {
				ids = append(ids, cm.Name)
			}
			lines = append(lines, fmt.Sprintf("%s: pillar limited to %s by %s",
				p.Name, fmtFloat(schema.PillarCeiling), strings.Join(ids, ", ")))
		}
		for _, m := range p.Mechanisms {
			for _, track := range schema.AllTracks {
				tc := m.CapFor(track)
				if !tc.Capped {
					continue
				}
				var metrics []string
				for _, c := range m.CappingMetricsFor(track) {
					metrics = append(metrics, "• "+schema.FormatCappingMetric(c))
				}
				lines = append(lines, fmt.Sprintf("%s: %s score capped by: %s (%s → %s)",
					m.Name, trackTitle(track), strings.Join(metrics, " "),
					fmtFloat(tc.PreCapScore), fmtFloat(m.ScoreFor(track))))
			}
		}
	}
	return lines
}

func writeCappingExplanations(w io.Writer, result schema.OverallResult, fmtFloat func(float64) string) error {
	lines := cappingExplanations(result, fmtFloat)
	if len(lines) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Capping:"); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// trackTitle capitalises a track name for sentences.
func trackTitle(t schema.Track) string {
	if t == schema.DesignTrack {
		return "Design"
	}
	return "Operational"
}

// writeScoreCSV writes one row per node of the result.
func writeScoreCSV(w io.Writer, report schema.ScoreReport, fmtFloat func(float64) string) error {
	header := []string{
		"level",
		"id",
		"code",
		"name",
		"parent_id",
		"track",
		"operational_score",
		"design_score",
		"label",
		"is_capped",
		"capped_by",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range schema.FlattenResult(report.Result) {
			score := r.OperationalScore
			if r.Track == schema.DesignTrack {
				score = r.DesignScore
			}
			rec := []string{
				string(r.Level),
				r.ID,
				r.Code,
				r.Name,
				r.ParentID,
				string(r.Track),
				fmtFloat(r.OperationalScore),
				fmtFloat(r.DesignScore),
				contract.GetPlainLabel(score),
				strconv.FormatBool(r.IsCapped),
				strings.Join(r.CappedBy, "|"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
