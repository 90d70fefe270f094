package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintFramework outputs the framework hierarchy with its weights and caps.
// Only text, json and csv are supported; other formats fall back to text.
func PrintFramework(fw *schema.Framework, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, fw)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFrameworkCSV(w, fw)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFrameworkTable(w, fw, cfg)
		}, "Wrote table")
	}
}

func writeFrameworkTable(w io.Writer, fw *schema.Framework, cfg *contract.Config) error {
	nameWidth := GetMaxNameWidth(cfg)
	if _, err := fmt.Fprintf(w, "%s %s\n", fw.Name, fw.Version); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Name", "Track", "Kind", "Weight", "Op Weight", "Design Weight", "Mech Cap", "Pillar Cap"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, p := range fw.Pillars {
		data = append(data, []string{p.ID, contract.TruncateText(p.Name, nameWidth), "", "", "", "", "", "", ""})
		for _, m := range p.Mechanisms {
			data = append(data, []string{
				"  " + m.ID,
				contract.TruncateText(m.Name, nameWidth),
				"", "", "",
				formatOptionalFloat(m.OperationalWeight),
				formatOptionalFloat(m.DesignWeight),
				"", "",
			})
			for _, metric := range m.Metrics {
				data = append(data, []string{
					"    " + metric.ID,
					contract.TruncateText(metric.Name, nameWidth),
					string(metric.Track),
					string(metric.Kind),
					formatOptionalFloat(metric.Weight),
					"", "",
					formatOptionalFloat(metric.MechanismCap),
					formatOptionalFloat(metric.PillarCap),
				})
			}
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Unset weights count as %g, unset caps as %g\n", schema.DefaultWeight, schema.DefaultCap)
	return err
}

// writeFrameworkCSV writes one row per metric with the weights of its mechanism.
func writeFrameworkCSV(w io.Writer, fw *schema.Framework) error {
	header := []string{
		"pillar_id",
		"mechanism_id",
		"metric_id",
		"name",
		"track",
		"kind",
		"weight",
		"mechanism_cap",
		"pillar_cap",
		"operational_weight",
		"design_weight",
		"standards",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range fw.Pillars {
			for _, m := range p.Mechanisms {
				for _, metric := range m.Metrics {
					rec := []string{
						p.ID,
						m.ID,
						metric.ID,
						metric.Name,
						string(metric.Track),
						string(metric.Kind),
						formatOptionalFloat(metric.Weight),
						formatOptionalFloat(metric.MechanismCap),
						formatOptionalFloat(metric.PillarCap),
						formatOptionalFloat(m.OperationalWeight),
						formatOptionalFloat(m.DesignWeight),
						strings.Join(metric.Standards, "|"),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}
