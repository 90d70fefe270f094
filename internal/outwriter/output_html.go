package outwriter

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/schema"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdown renders reports with GitHub style tables.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// writeHTML converts a Markdown report into a standalone HTML page.
func writeHTML(w io.Writer, title, md string) error {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(md), &body); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>body{font-family:sans-serif;margin:2em}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px}</style>
</head>
<body>
%s</body>
</html>
`, html.EscapeString(title), body.String())
	return err
}

// mdCell escapes the characters that would break a Markdown table cell.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// scoreMarkdown builds the Markdown report for a score run.
func scoreMarkdown(report schema.ScoreReport, cfg *contract.Config, fmtFloat func(float64) string) string {
	var b strings.Builder
	result := report.Result

	fmt.Fprintf(&b, "# %s %s\n\n", mdCell(report.Framework), mdCell(report.Version))
	fmt.Fprintf(&b, "Answers: **%s** (zero weights: %s)\n\n", mdCell(report.Source), report.Policy)
	fmt.Fprintf(&b, "| Track | Score | Label |\n|---|---:|---|\n")
	fmt.Fprintf(&b, "| Operational | %s | %s |\n", fmtFloat(result.OverallOperationalScore), contract.GetPlainLabel(result.OverallOperationalScore))
	fmt.Fprintf(&b, "| Design | %s | %s |\n\n", fmtFloat(result.OverallDesignScore), contract.GetPlainLabel(result.OverallDesignScore))

	for _, p := range result.Pillars {
		capped := ""
		if p.IsCapped {
			capped = " (capped)"
		}
		fmt.Fprintf(&b, "## %s%s\n\n", mdCell(p.Name), capped)
		fmt.Fprintf(&b, "Operational %s, design %s\n\n", fmtFloat(p.OperationalScore), fmtFloat(p.DesignScore))
		if len(p.Mechanisms) == 0 {
			b.WriteString("_No applicable mechanisms._\n\n")
			continue
		}
		b.WriteString("| Mechanism | Operational | Design | Capped |\n|---|---:|---:|---|\n")
		for _, m := range p.Mechanisms {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", mdCell(m.Name), fmtFloat(m.OperationalScore), fmtFloat(m.DesignScore), boolString(m.IsCapped))
		}
		b.WriteString("\n")

		if !cfg.Detail {
			continue
		}
		for _, m := range p.Mechanisms {
			fmt.Fprintf(&b, "### %s\n\n| Metric | Track | Score |\n|---|---|---:|\n", mdCell(m.Name))
			for _, metric := range m.Metrics {
				fmt.Fprintf(&b, "| %s | %s | %s |\n", mdCell(metric.Name), metric.Track, fmtFloat(metric.Score))
			}
			b.WriteString("\n")
		}
	}

	if lines := cappingExplanations(result, fmtFloat); len(lines) > 0 {
		b.WriteString("## Capping\n\n")
		for _, line := range lines {
			fmt.Fprintf(&b, "- %s\n", mdCell(line))
		}
		b.WriteString("\n")
	}
	if len(report.Excluded) > 0 {
		fmt.Fprintf(&b, "Excluded mechanisms: %s\n\n", mdCell(strings.Join(report.Excluded, ", ")))
	}
	return b.String()
}

// comparisonMarkdown builds the Markdown report for a comparison.
func comparisonMarkdown(result schema.ComparisonResult, fmtFloat func(float64) string) string {
	var b strings.Builder
	s := result.Summary

	fmt.Fprintf(&b, "# %s → %s\n\n", mdCell(result.BaseLabel), mdCell(result.TargetLabel))
	fmt.Fprintf(&b, "Overall operational %s, design %s\n\n",
		contract.FormatDelta(s.OverallOperationalDelta, 1, false), contract.FormatDelta(s.OverallDesignDelta, 1, false))
	b.WriteString("| Level | Name | Status | Operational | Δ | Design | Δ |\n|---|---|---|---:|---:|---:|---:|\n")
	for _, d := range result.Details {
		fmt.Fprintf(&b, "| %s | %s | %s | %s → %s | %s | %s → %s | %s |\n",
			d.Level, mdCell(d.Name), d.Status,
			fmtFloat(d.BeforeOperational), fmtFloat(d.AfterOperational), deltaText(d.Comparable, d.DeltaOperational, fmtFloat),
			fmtFloat(d.BeforeDesign), fmtFloat(d.AfterDesign), deltaText(d.Comparable, d.DeltaDesign, fmtFloat))
	}
	fmt.Fprintf(&b, "\nImproved: %d, regressed: %d, new: %d, removed: %d, newly capped: %d, no longer capped: %d\n",
		s.TotalImproved, s.TotalRegressed, s.TotalNew, s.TotalRemoved, s.TotalNewlyCapped, s.TotalNoLongerCapped)
	return b.String()
}
