package core

import (
	"github.com/kimbotto/distaf/core/agg"
	"github.com/kimbotto/distaf/schema"
)

// ScoreMetric resolves one metric's answer into its numeric score.
// An unanswered metric scores 0. Percentages are passed through without clamping;
// range checks belong to ValidateAnswer at write time.
func ScoreMetric(metric schema.Metric, answer *schema.Answer) float64 {
	if answer == nil {
		return 0
	}
	switch metric.Kind {
	case schema.BooleanKind:
		if answer.AnsweredBoolean {
			return schema.MaxScore
		}
		return 0
	case schema.PercentageKind:
		if answer.AnsweredPercentage == nil {
			return 0
		}
		return *answer.AnsweredPercentage
	default:
		return 0
	}
}

// scoreMetrics builds a MetricResult for every metric of a mechanism, in framework order.
func scoreMetrics(metrics []schema.Metric, answers schema.AnswerMap) []schema.MetricResult {
	results := make([]schema.MetricResult, 0, len(metrics))
	for _, metric := range metrics {
		var answer *schema.Answer
		if a, ok := answers[metric.ID]; ok {
			answer = &a
		}
		results = append(results, schema.MetricResult{
			ID:           metric.ID,
			Name:         metric.Name,
			Code:         metric.Code,
			Track:        metric.Track,
			Kind:         metric.Kind,
			Score:        ScoreMetric(metric, answer),
			MechanismCap: agg.ResolveCap(metric.MechanismCap),
			PillarCap:    agg.ResolveCap(metric.PillarCap),
			Standards:    metric.Standards,
		})
	}
	return results
}
