package core

import (
	"github.com/kimbotto/distaf/core/agg"
	"github.com/kimbotto/distaf/schema"
)

// mechanismAggregate is the raw stage of a mechanism: metric scores and pre-cap track scores.
type mechanismAggregate struct {
	mechanism   schema.Mechanism
	metrics     []schema.MetricResult
	operational float64
	design      float64
}

// pillarAggregate is the raw stage of a pillar: finalized mechanisms and pre-cap pillar scores.
type pillarAggregate struct {
	pillar      schema.Pillar
	mechanisms  []schema.MechanismResult
	operational float64
	design      float64
}

// ComputeResults scores a framework against an answer set, skipping excluded mechanisms.
// An explicit zero weight is treated like a missing weight.
func ComputeResults(fw schema.Framework, answers schema.AnswerMap, excluded schema.ExclusionSet) schema.OverallResult {
	return ComputeResultsWithPolicy(fw, answers, excluded, schema.ZeroWeightAsDefault)
}

// ComputeResultsWithPolicy is ComputeResults with an explicit zero-weight policy.
// It never fails: missing answers, weights, caps or children all resolve to 0 and not capped.
func ComputeResultsWithPolicy(fw schema.Framework, answers schema.AnswerMap, excluded schema.ExclusionSet, policy schema.ZeroWeightPolicy) schema.OverallResult {
	result := schema.OverallResult{
		Pillars: make([]schema.PillarResult, 0, len(fw.Pillars)),
	}
	operational := make([]float64, 0, len(fw.Pillars))
	design := make([]float64, 0, len(fw.Pillars))

	for _, pillar := range fw.Pillars {
		pr := capPillar(aggregatePillar(pillar, answers, excluded, policy))
		result.Pillars = append(result.Pillars, pr)
		operational = append(operational, pr.OperationalScore)
		design = append(design, pr.DesignScore)
	}

	result.OverallOperationalScore = agg.Mean(operational)
	result.OverallDesignScore = agg.Mean(design)
	return result
}

// aggregatePillar finalizes every non-excluded mechanism and combines them with their track weights.
func aggregatePillar(pillar schema.Pillar, answers schema.AnswerMap, excluded schema.ExclusionSet, policy schema.ZeroWeightPolicy) pillarAggregate {
	raw := pillarAggregate{
		pillar:     pillar,
		mechanisms: make([]schema.MechanismResult, 0, len(pillar.Mechanisms)),
	}
	var opChildren, designChildren []agg.Weighted

	for _, mech := range pillar.Mechanisms {
		if excluded.Has(mech.ID) {
			continue
		}
		mr := capMechanism(aggregateMechanism(mech, answers, policy))
		raw.mechanisms = append(raw.mechanisms, mr)
		opChildren = append(opChildren, agg.Weighted{Score: mr.OperationalScore, Weight: mech.OperationalWeight})
		designChildren = append(designChildren, agg.Weighted{Score: mr.DesignScore, Weight: mech.DesignWeight})
	}

	raw.operational = agg.WeightedMean(opChildren, policy)
	raw.design = agg.WeightedMean(designChildren, policy)
	return raw
}

// aggregateMechanism scores each metric and combines them per track into pre-cap scores.
func aggregateMechanism(mech schema.Mechanism, answers schema.AnswerMap, policy schema.ZeroWeightPolicy) mechanismAggregate {
	metrics := scoreMetrics(mech.Metrics, answers)

	var opChildren, designChildren []agg.Weighted
	for i, metric := range mech.Metrics {
		child := agg.Weighted{Score: metrics[i].Score, Weight: metric.Weight}
		switch metric.Track {
		case schema.OperationalTrack:
			opChildren = append(opChildren, child)
		case schema.DesignTrack:
			designChildren = append(designChildren, child)
		}
	}

	return mechanismAggregate{
		mechanism:   mech,
		metrics:     metrics,
		operational: agg.WeightedMean(opChildren, policy),
		design:      agg.WeightedMean(designChildren, policy),
	}
}
