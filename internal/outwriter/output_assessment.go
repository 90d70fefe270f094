package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/internal/framework"
	"github.com/kimbotto/distaf/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintAssessments outputs the stored assessments.
func PrintAssessments(list []schema.Assessment, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if list == nil {
				list = []schema.Assessment{}
			}
			return writeJSON(w, list)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"id", "name", "framework", "created_at", "updated_at"}, func(cw *csv.Writer) error {
				for _, a := range list {
					rec := []string{
						strconv.FormatInt(a.ID, 10),
						a.Name,
						a.Framework,
						a.CreatedAt.Format(contract.DateTimeFormat),
						a.UpdatedAt.Format(contract.DateTimeFormat),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if len(list) == 0 {
				_, err := fmt.Fprintln(w, "No assessments stored")
				return err
			}
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Name", "Framework", "Created", "Updated"})
			table.Configure(func(cfg *tablewriter.Config) {
				cfg.Row.Alignment.Global = tw.AlignLeft
			})
			var data [][]string
			for _, a := range list {
				data = append(data, []string{
					a.Name,
					a.Framework,
					a.CreatedAt.Local().Format(contract.DateTimeFormat),
					a.UpdatedAt.Local().Format(contract.DateTimeFormat),
				})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		}, "Wrote table")
	}
}

// PrintAssessmentDetail outputs the answers and exclusions of one assessment.
func PrintAssessmentDetail(detail schema.AssessmentDetail, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, detail)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"metric_id", "name", "kind", "answer"}, func(cw *csv.Writer) error {
				for _, a := range detail.Answers {
					if err := cw.Write([]string{a.MetricID, a.Name, string(a.Kind), schema.FormatAnswer(a.Kind, a.Answer)}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAssessmentDetailTable(w, detail, cfg)
		}, "Wrote table")
	}
}

func writeAssessmentDetailTable(w io.Writer, detail schema.AssessmentDetail, cfg *contract.Config) error {
	a := detail.Assessment
	fwName := a.Framework
	if fwName == "" {
		fwName = "any framework"
	}
	if _, err := fmt.Fprintf(w, "Assessment %s (%s), updated %s\n", a.Name, fwName, a.UpdatedAt.Local().Format(contract.DateTimeFormat)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Name", "Answer"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	nameWidth := GetMaxNameWidth(cfg)
	var data [][]string
	for _, ans := range detail.Answers {
		name := ans.Name
		if ans.Kind == "" {
			name = "(not in framework)"
		}
		data = append(data, []string{ans.MetricID, contract.TruncateText(name, nameWidth), schema.FormatAnswer(ans.Kind, ans.Answer)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(detail.Excluded) > 0 {
		if _, err := fmt.Fprintf(w, "Excluded mechanisms: %s\n", strings.Join(detail.Excluded, ", ")); err != nil {
			return err
		}
	}
	if detail.TotalMetrics > 0 {
		_, err := fmt.Fprintf(w, "Answered %d of %d metrics\n", len(detail.Answers), detail.TotalMetrics)
		return err
	}
	_, err := fmt.Fprintf(w, "Answered %d metrics\n", len(detail.Answers))
	return err
}

// PrintAnswersFile writes an assessment as an answers document. JSON output writes the
// same document as JSON; every other mode writes YAML that 'score --answers' accepts.
func PrintAnswersFile(file schema.AnswersFile, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, answersJSON(file))
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return framework.WriteAnswerFile(w, file)
	}, "Wrote answers")
}

// answersJSON mirrors the answers file layout so the JSON form validates against the same schema.
func answersJSON(file schema.AnswersFile) map[string]any {
	answers := make(map[string]any, len(file.Answers))
	for id, a := range file.Answers {
		if a.AnsweredPercentage != nil {
			answers[id] = map[string]float64{"percentage": *a.AnsweredPercentage}
			continue
		}
		answers[id] = map[string]bool{"boolean": a.AnsweredBoolean}
	}
	doc := map[string]any{"answers": answers}
	if file.Name != "" {
		doc["name"] = file.Name
	}
	if len(file.Excluded) > 0 {
		doc["excluded"] = file.Excluded
	}
	return doc
}
