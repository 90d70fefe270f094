package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/kimbotto/distaf/schema"
)

// Answer validation errors.
var (
	ErrPercentageOnBoolean = errors.New("boolean metric cannot take a percentage answer")
	ErrMissingPercentage   = errors.New("percentage metric requires a percentage answer")
	ErrPercentageRange     = errors.New("percentage answer must be between 0 and 100")
	ErrUnknownMetric       = errors.New("unknown metric")
	ErrUnknownKind         = errors.New("unknown metric kind")
)

// ValidateAnswer checks that an answer fits the metric it is recorded against.
// It is called before an answer is written, the engine itself never rejects input.
func ValidateAnswer(metric schema.Metric, answer schema.Answer) error {
	switch metric.Kind {
	case schema.BooleanKind:
		if answer.AnsweredPercentage != nil {
			return fmt.Errorf("%s: %w", metric.ID, ErrPercentageOnBoolean)
		}
	case schema.PercentageKind:
		if answer.AnsweredPercentage == nil {
			return fmt.Errorf("%s: %w", metric.ID, ErrMissingPercentage)
		}
		p := *answer.AnsweredPercentage
		if math.IsNaN(p) || p < 0 || p > schema.MaxScore {
			return fmt.Errorf("%s: %w (received %g)", metric.ID, ErrPercentageRange, p)
		}
	default:
		return fmt.Errorf("%s: %w %q", metric.ID, ErrUnknownKind, metric.Kind)
	}
	return nil
}

// ValidateAnswers validates a whole answer set against a framework.
// Answers for metrics the framework does not define are rejected as well.
func ValidateAnswers(fw *schema.Framework, answers schema.AnswerMap) error {
	var errs []error
	for _, id := range answers.IDs() {
		metric, ok := fw.FindMetric(id)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w", id, ErrUnknownMetric))
			continue
		}
		if err := ValidateAnswer(metric, answers[id]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidateExclusions checks that every excluded ID names a mechanism of the framework.
func ValidateExclusions(fw *schema.Framework, excluded schema.ExclusionSet) error {
	var errs []error
	for _, id := range excluded.IDs() {
		if _, ok := fw.FindMechanism(id); !ok {
			errs = append(errs, fmt.Errorf("unknown mechanism %q", id))
		}
	}
	return errors.Join(errs...)
}
