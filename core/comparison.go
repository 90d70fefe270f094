package core

import (
	"github.com/kimbotto/distaf/schema"
)

// side is one node of a computed result, flattened for comparison.
type side struct {
	name        string
	track       schema.Track
	operational float64
	design      float64
	capped      bool
}

// matched pairs the base and target versions of a node. Either may be nil.
type matched[T any] struct {
	id     string
	base   *T
	target *T
}

// matchByID merges two ordered lists by ID: base order first, then nodes only in the target.
func matchByID[T any](base, target []T, idOf func(T) string) []matched[T] {
	targetIdx := make(map[string]int, len(target))
	for i := range target {
		targetIdx[idOf(target[i])] = i
	}
	seen := make(map[string]struct{}, len(base))
	out := make([]matched[T], 0, len(base)+len(target))
	for i := range base {
		id := idOf(base[i])
		seen[id] = struct{}{}
		m := matched[T]{id: id, base: &base[i]}
		if j, ok := targetIdx[id]; ok {
			m.target = &target[j]
		}
		out = append(out, m)
	}
	for i := range target {
		id := idOf(target[i])
		if _, ok := seen[id]; ok {
			continue
		}
		out = append(out, matched[T]{id: id, target: &target[i]})
	}
	return out
}

// CompareResults diffs two computed results node by node, matching on IDs at each level.
// Nodes present on one side only are reported as new or removed and carry no delta.
func CompareResults(base, target schema.OverallResult) schema.ComparisonResult {
	result := schema.ComparisonResult{Details: make([]schema.ComparisonDetail, 0)}

	overallOp := target.OverallOperationalScore - base.OverallOperationalScore
	overallDesign := target.OverallDesignScore - base.OverallDesignScore
	result.Details = append(result.Details, schema.ComparisonDetail{
		Level:             schema.OverallLevel,
		ID:                string(schema.OverallLevel),
		Name:              "Overall",
		Status:            schema.ComparableStatus,
		Comparable:        true,
		BeforeOperational: base.OverallOperationalScore,
		AfterOperational:  target.OverallOperationalScore,
		BeforeDesign:      base.OverallDesignScore,
		AfterDesign:       target.OverallDesignScore,
		DeltaOperational:  &overallOp,
		DeltaDesign:       &overallDesign,
	})
	result.Summary.OverallOperationalDelta = overallOp
	result.Summary.OverallDesignDelta = overallDesign

	pillarID := func(p schema.PillarResult) string { return p.ID }
	mechanismID := func(m schema.MechanismResult) string { return m.ID }
	metricID := func(m schema.MetricResult) string { return m.ID }

	for _, pp := range matchByID(base.Pillars, target.Pillars, pillarID) {
		result.Details = append(result.Details, diffNode(schema.PillarLevel, pp.id, "",
			pillarSide(pp.base), pillarSide(pp.target)))

		for _, mp := range matchByID(pillarMechanisms(pp.base), pillarMechanisms(pp.target), mechanismID) {
			result.Details = append(result.Details, diffNode(schema.MechanismLevel, mp.id, pp.id,
				mechanismSide(mp.base), mechanismSide(mp.target)))

			for _, xp := range matchByID(mechanismMetrics(mp.base), mechanismMetrics(mp.target), metricID) {
				result.Details = append(result.Details, diffNode(schema.MetricLevel, xp.id, mp.id,
					metricSide(xp.base), metricSide(xp.target)))
			}
		}
	}

	summarize(&result)
	return result
}

// diffNode builds the comparison detail for one node from its two sides.
func diffNode(level schema.NodeLevel, id, parentID string, base, target *side) schema.ComparisonDetail {
	detail := schema.ComparisonDetail{
		Level:    level,
		ID:       id,
		ParentID: parentID,
		Status:   determineStatus(base != nil, target != nil),
	}
	if base != nil {
		detail.Name = base.name
		detail.Track = base.track
		detail.BeforeOperational = base.operational
		detail.BeforeDesign = base.design
		detail.BeforeCapped = base.capped
	}
	if target != nil {
		detail.Name = target.name
		detail.Track = target.track
		detail.AfterOperational = target.operational
		detail.AfterDesign = target.design
		detail.AfterCapped = target.capped
	}
	if base == nil || target == nil {
		return detail
	}

	detail.Comparable = true
	opDelta := target.operational - base.operational
	designDelta := target.design - base.design
	switch {
	case level != schema.MetricLevel:
		detail.DeltaOperational = &opDelta
		detail.DeltaDesign = &designDelta
	case detail.Track == schema.DesignTrack:
		detail.DeltaDesign = &designDelta
	default:
		detail.DeltaOperational = &opDelta
	}
	return detail
}

// determineStatus returns the status based on existence in base and target.
func determineStatus(baseExists, targetExists bool) schema.Status {
	switch {
	case baseExists && targetExists:
		return schema.ComparableStatus
	case targetExists:
		return schema.NewStatus
	default:
		return schema.RemovedStatus
	}
}

// summarize fills in the node counts. The overall row is excluded from the counts.
func summarize(result *schema.ComparisonResult) {
	s := &result.Summary
	for _, d := range result.Details {
		if d.Level == schema.OverallLevel {
			continue
		}
		switch d.Status {
		case schema.NewStatus:
			s.TotalNew++
			continue
		case schema.RemovedStatus:
			s.TotalRemoved++
			continue
		}
		s.TotalComparable++

		switch direction(d) {
		case 1:
			s.TotalImproved++
		case -1:
			s.TotalRegressed++
		}
		if !d.BeforeCapped && d.AfterCapped {
			s.TotalNewlyCapped++
		}
		if d.BeforeCapped && !d.AfterCapped {
			s.TotalNoLongerCapped++
		}
	}
}

// direction is 1 when a comparable node only moved up, -1 when it only moved down, 0 otherwise.
func direction(d schema.ComparisonDetail) int {
	var up, down bool
	for _, delta := range []*float64{d.DeltaOperational, d.DeltaDesign} {
		if delta == nil {
			continue
		}
		up = up || *delta > 0
		down = down || *delta < 0
	}
	switch {
	case up && !down:
		return 1
	case down && !up:
		return -1
	default:
		return 0
	}
}

func pillarMechanisms(p *schema.PillarResult) []schema.MechanismResult {
	if p == nil {
		return nil
	}
	return p.Mechanisms
}

func mechanismMetrics(m *schema.MechanismResult) []schema.MetricResult {
	if m == nil {
		return nil
	}
	return m.Metrics
}

func pillarSide(p *schema.PillarResult) *side {
	if p == nil {
		return nil
	}
	return &side{name: p.Name, operational: p.OperationalScore, design: p.DesignScore, capped: p.IsCapped}
}

func mechanismSide(m *schema.MechanismResult) *side {
	if m == nil {
		return nil
	}
	return &side{name: m.Name, operational: m.OperationalScore, design: m.DesignScore, capped: m.IsCapped}
}

func metricSide(m *schema.MetricResult) *side {
	if m == nil {
		return nil
	}
	s := &side{name: m.Name, track: m.Track}
	if m.Track == schema.DesignTrack {
		s.design = m.Score
	} else {
		s.operational = m.Score
	}
	return s
}
