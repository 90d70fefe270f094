package core

import (
	"math"

	"github.com/kimbotto/distaf/schema"
)

// evaluateTrackCap applies the mechanism-level capping rule to one track.
// Only low metrics of that track contribute ceilings. The returned score is the post-cap value.
func evaluateTrackCap(metrics []schema.MetricResult, track schema.Track, preCap float64) (schema.TrackCap, float64) {
	tc := schema.TrackCap{
		PreCapScore:      preCap,
		MechanismCeiling: schema.DefaultCap,
		PillarCeiling:    schema.DefaultCap,
	}
	for _, m := range metrics {
		if m.Track != track || !m.IsLow() {
			continue
		}
		tc.LowMetrics++
		tc.MechanismCeiling = math.Min(tc.MechanismCeiling, m.MechanismCap)
		tc.PillarCeiling = math.Min(tc.PillarCeiling, m.PillarCap)
	}
	if tc.LowMetrics == 0 {
		return tc, preCap
	}
	tc.Capped = preCap > tc.MechanismCeiling && tc.MechanismCeiling < schema.DefaultCap
	return tc, math.Min(preCap, tc.MechanismCeiling)
}

// collectCappingMetrics returns every low metric, on either track, that carries a cap below 100.
// Order follows the framework.
func collectCappingMetrics(metrics []schema.MetricResult) []schema.CappingMetric {
	capping := make([]schema.CappingMetric, 0)
	for _, m := range metrics {
		if !m.IsLow() || !m.HasCap() {
			continue
		}
		capping = append(capping, schema.CappingMetric{
			ID:           m.ID,
			Name:         m.Name,
			Code:         m.Code,
			Track:        m.Track,
			Score:        m.Score,
			MechanismCap: m.MechanismCap,
			PillarCap:    m.PillarCap,
		})
	}
	return capping
}

// capMechanism turns the raw aggregate of a mechanism into its finalized result.
func capMechanism(raw mechanismAggregate) schema.MechanismResult {
	opCap, opScore := evaluateTrackCap(raw.metrics, schema.OperationalTrack, raw.operational)
	designCap, designScore := evaluateTrackCap(raw.metrics, schema.DesignTrack, raw.design)

	return schema.MechanismResult{
		ID:               raw.mechanism.ID,
		Name:             raw.mechanism.Name,
		Code:             raw.mechanism.Code,
		Description:      raw.mechanism.Description,
		OperationalScore: opScore,
		DesignScore:      designScore,
		IsCapped:         opCap.Capped || designCap.Capped,
		CappingMetrics:   collectCappingMetrics(raw.metrics),
		Operational:      opCap,
		Design:           designCap,
		Metrics:          raw.metrics,
	}
}

// capPillar applies the fixed pillar ceiling when any of its mechanisms has capping metrics.
// The pillar is flagged whenever the rule fires, even if its scores were already under the ceiling.
func capPillar(raw pillarAggregate) schema.PillarResult {
	result := schema.PillarResult{
		ID:                raw.pillar.ID,
		Name:              raw.pillar.Name,
		Code:              raw.pillar.Code,
		Icon:              raw.pillar.Icon,
		OperationalScore:  raw.operational,
		DesignScore:       raw.design,
		CappingMechanisms: make([]schema.CappingMechanism, 0),
		Mechanisms:        raw.mechanisms,
	}
	for _, m := range raw.mechanisms {
		if len(m.CappingMetrics) == 0 {
			continue
		}
		result.CappingMechanisms = append(result.CappingMechanisms, schema.CappingMechanism{
			ID:             m.ID,
			Name:           m.Name,
			Code:           m.Code,
			CappingMetrics: m.CappingMetrics,
		})
	}
	if len(result.CappingMechanisms) > 0 {
		result.IsCapped = true
		result.OperationalScore = math.Min(result.OperationalScore, schema.PillarCeiling)
		result.DesignScore = math.Min(result.DesignScore, schema.PillarCeiling)
	}
	return result
}
