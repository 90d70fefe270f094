package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/internal/framework"
	"github.com/kimbotto/distaf/internal/outwriter"
	"github.com/kimbotto/distaf/schema"
)

// ExecuteAssessmentCreate registers a new empty assessment.
// When a framework is configured its name is recorded with the assessment.
func ExecuteAssessmentCreate(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, name string) error {
	store, err := requireAssessmentStore(mgr)
	if err != nil {
		return err
	}
	if err := validateAssessmentName(name); err != nil {
		return err
	}
	fwName := ""
	if cfg.FrameworkPath != "" {
		fw, err := loadFramework(cfg)
		if err != nil {
			return err
		}
		fwName = fw.Name
	}
	a, err := store.CreateAssessment(name, fwName)
	if err != nil {
		return fmt.Errorf("creating assessment: %w", err)
	}
	fmt.Printf("Created assessment %q (id %d)\n", a.Name, a.ID)
	return nil
}

// ExecuteAssessmentList prints every stored assessment.
func ExecuteAssessmentList(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store, err := requireAssessmentStore(mgr)
	if err != nil {
		return err
	}
	list, err := store.ListAssessments()
	if err != nil {
		return fmt.Errorf("listing assessments: %w", err)
	}
	return outwriter.PrintAssessments(list, cfg)
}

// ExecuteAssessmentShow prints the answers and exclusions of one assessment.
func ExecuteAssessmentShow(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, name string) error {
	store, err := requireAssessmentStore(mgr)
	if err != nil {
		return err
	}
	var fw *schema.Framework
	if cfg.FrameworkPath != "" {
		if fw, err = loadFramework(cfg); err != nil {
			return err
		}
	}
	detail, err := GetAssessmentDetail(store, name, fw)
	if err != nil {
		return err
	}
	return outwriter.PrintAssessmentDetail(detail, cfg)
}

// GetAssessmentDetail collects an assessment's answers and exclusions.
// fw is optional and only used to attach metric names and kinds.
func GetAssessmentDetail(store contract.AssessmentStore, name string, fw *schema.Framework) (schema.AssessmentDetail, error) {
	a, err := store.GetAssessment(name)
	if err != nil {
		return schema.AssessmentDetail{}, fmt.Errorf("loading assessment %q: %w", name, err)
	}
	answers, err := store.GetAnswers(a.ID)
	if err != nil {
		return schema.AssessmentDetail{}, fmt.Errorf("loading answers: %w", err)
	}
	excluded, err := store.GetExclusions(a.ID)
	if err != nil {
		return schema.AssessmentDetail{}, fmt.Errorf("loading exclusions: %w", err)
	}

	detail := schema.AssessmentDetail{
		Assessment: a,
		Excluded:   excluded.IDs(),
		Answers:    make([]schema.AssessmentAnswer, 0, len(answers)),
	}
	if fw != nil {
		detail.TotalMetrics = fw.MetricCount()
	}
	for _, id := range answers.IDs() {
		row := schema.AssessmentAnswer{MetricID: id, Answer: answers[id]}
		if fw != nil {
			if metric, ok := fw.FindMetric(id); ok {
				row.Name = metric.Name
				row.Kind = metric.Kind
			}
		}
		detail.Answers = append(detail.Answers, row)
	}
	return detail, nil
}

// ExecuteAssessmentDelete removes an assessment with its answers and exclusions.
func ExecuteAssessmentDelete(_ context.Context, _ *contract.Config, mgr contract.CacheManager, name string) error {
	store, err := requireAssessmentStore(mgr)
	if err != nil {
		return err
	}
	if err := store.DeleteAssessment(name); err != nil {
		return fmt.Errorf("deleting assessment %q: %w", name, err)
	}
	fmt.Printf("Deleted assessment %q\n", name)
	return nil
}

// ExecuteAssessmentAnswer records one answer after checking it against the metric definition.
func ExecuteAssessmentAnswer(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, name, metricID, value string) error {
	store, err := requireAssessmentStore(mgr)
	if err != nil {
		return err
	}
	fw, err := loadFramework(cfg)
	if err != nil {
		return err
	}
	metric, ok := fw.FindMetric(metricID)
	if !ok {
		return fmt.Errorf("%s: %w", metricID, ErrUnknownMetric)
	}
	answer, err := ParseAnswerValue(metric, value)
	if err != nil {
		return err
	}
	a, err := store.GetAssessment(name)
	if err != nil {
		return fmt.Errorf("loading assessment %q: %w", name, err)
	}
	if err := store.SetAnswer(a.ID, metric.ID, answer); err != nil {
		return fmt.Errorf("saving answer: %w", err)
	}
	fmt.Printf("Recorded %s = %s for %q\n", metric.ID, schema.FormatAnswer(metric.Kind, answer), a.Name)
	return nil
}

// ExecuteAssessmentClear removes the answer to one metric so it counts as unanswered again.
func ExecuteAssessmentClear(_ context.Context, _ *contract.Config, mgr contract.CacheManager, name, metricID string) error {
	store, err := requireAssessmentStore(mgr)
	if err != nil {
		return err
	}
	a, err := store.GetAssessment(name)
	if err != nil {
		return fmt.Errorf("loading assessment %q: %w", name, err)
	}
	if err := store.ClearAnswer(a.ID, metricID); err != nil {
		return fmt.Errorf("clearing answer: %w", err)
	}
	fmt.Printf("Cleared %s for %q\n", metricID, a.Name)
	return nil
}

// ExecuteAssessmentExclude marks mechanisms as not applicable to an assessment.
// IDs are checked against the framework when one is configured.
func ExecuteAssessmentExclude(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, name string, mechanismIDs []string) error {
	return updateExclusions(cfg, mgr, name, mechanismIDs, true)
}

// ExecuteAssessmentInclude makes previously excluded mechanisms applicable again.
func ExecuteAssessmentInclude(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, name string, mechanismIDs []string) error {
	return updateExclusions(cfg, mgr, name, mechanismIDs, false)
}

func updateExclusions(cfg *contract.Config, mgr contract.CacheManager, name string, mechanismIDs []string, exclude bool) error {
	store, err := requireAssessmentStore(mgr)
	if err != nil {
		return err
	}
	if len(mechanismIDs) == 0 {
		return errors.New("at least one mechanism id is required")
	}
	if exclude && cfg.FrameworkPath != "" {
		fw, err := loadFramework(cfg)
		if err != nil {
			return err
		}
		if err := ValidateExclusions(fw, schema.NewExclusionSet(mechanismIDs...)); err != nil {
			return err
		}
	}
	a, err := store.GetAssessment(name)
	if err != nil {
		return fmt.Errorf("loading assessment %q: %w", name, err)
	}
	for _, id := range mechanismIDs {
		if exclude {
			err = store.SetExclusion(a.ID, id)
		} else {
			err = store.ClearExclusion(a.ID, id)
		}
		if err != nil {
			return fmt.Errorf("updating exclusion %s: %w", id, err)
		}
	}
	verb := "Included"
	if exclude {
		verb = "Excluded"
	}
	fmt.Printf("%s %s for %q\n", verb, strings.Join(mechanismIDs, ", "), a.Name)
	return nil
}

// ExecuteAssessmentImport loads an answers file into an assessment, creating it if needed.
// The whole file is validated against the framework before anything is written.
func ExecuteAssessmentImport(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, name, path string) error {
	store, err := requireAssessmentStore(mgr)
	if err != nil {
		return err
	}
	fw, err := loadFramework(cfg)
	if err != nil {
		return err
	}
	file, err := framework.LoadAnswerFile(path)
	if err != nil {
		return err
	}
	if name == "" {
		name = file.Name
	}
	if err := validateAssessmentName(name); err != nil {
		return err
	}
	if err := ValidateAnswers(fw, file.Answers); err != nil {
		return fmt.Errorf("answers file is not valid for %s: %w", fw.Name, err)
	}
	if err := ValidateExclusions(fw, schema.NewExclusionSet(file.Excluded...)); err != nil {
		return fmt.Errorf("answers file is not valid for %s: %w", fw.Name, err)
	}

	a, err := store.GetAssessment(name)
	if errors.Is(err, contract.ErrAssessmentNotFound) {
		a, err = store.CreateAssessment(name, fw.Name)
	}
	if err != nil {
		return fmt.Errorf("preparing assessment %q: %w", name, err)
	}
	for _, id := range file.Answers.IDs() {
		if err := store.SetAnswer(a.ID, id, file.Answers[id]); err != nil {
			return fmt.Errorf("saving answer %s: %w", id, err)
		}
	}
	for _, id := range file.Excluded {
		if err := store.SetExclusion(a.ID, id); err != nil {
			return fmt.Errorf("saving exclusion %s: %w", id, err)
		}
	}
	fmt.Printf("Imported %d answers and %d exclusions into %q\n", len(file.Answers), len(file.Excluded), a.Name)
	return nil
}

// ExecuteAssessmentExport writes an assessment as an answers file, to stdout or --output-file.
func ExecuteAssessmentExport(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, name string) error {
	store, err := requireAssessmentStore(mgr)
	if err != nil {
		return err
	}
	a, err := store.GetAssessment(name)
	if err != nil {
		return fmt.Errorf("loading assessment %q: %w", name, err)
	}
	answers, err := store.GetAnswers(a.ID)
	if err != nil {
		return fmt.Errorf("loading answers: %w", err)
	}
	excluded, err := store.GetExclusions(a.ID)
	if err != nil {
		return fmt.Errorf("loading exclusions: %w", err)
	}
	file := schema.AnswersFile{Name: a.Name, Excluded: excluded.IDs(), Answers: answers}
	return outwriter.PrintAnswersFile(file, cfg)
}

// ParseAnswerValue converts command line input into an answer for the metric and validates it.
// Boolean metrics take yes/no/true/false/1/0, percentage metrics a number with an optional '%'.
func ParseAnswerValue(metric schema.Metric, value string) (schema.Answer, error) {
	value = strings.TrimSpace(value)
	var answer schema.Answer
	switch metric.Kind {
	case schema.BooleanKind:
		b, err := contract.ParseBoolString(value)
		if err != nil {
			return answer, fmt.Errorf("%s: %w", metric.ID, err)
		}
		answer = schema.BoolAnswer(b)
	case schema.PercentageKind:
		p, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
		if err != nil {
			return answer, fmt.Errorf("%s: invalid percentage %q", metric.ID, value)
		}
		answer = schema.PercentAnswer(p)
	default:
		return answer, fmt.Errorf("%s: %w %q", metric.ID, ErrUnknownKind, metric.Kind)
	}
	return answer, ValidateAnswer(metric, answer)
}

func validateAssessmentName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New("assessment name cannot be empty")
	case len(name) > contract.MaxNameLength:
		return fmt.Errorf("assessment name cannot exceed %d characters", contract.MaxNameLength)
	case contract.IsFile(name):
		return fmt.Errorf("assessment name %q collides with a file of the same name", name)
	}
	return nil
}
