package core

import (
	"testing"

	"github.com/kimbotto/distaf/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boolMetric and pctMetric build metrics with optional weight and mechanism cap.
func boolMetric(id string, track schema.Track, weight, mechCap *float64) schema.Metric {
	return schema.Metric{ID: id, Name: id, Track: track, Kind: schema.BooleanKind, Weight: weight, MechanismCap: mechCap}
}

func pctMetric(id string, track schema.Track, weight, mechCap *float64) schema.Metric {
	return schema.Metric{ID: id, Name: id, Track: track, Kind: schema.PercentageKind, Weight: weight, MechanismCap: mechCap}
}

func singleMechanism(metrics ...schema.Metric) schema.Framework {
	return schema.Framework{
		Name: "single",
		Pillars: []schema.Pillar{{
			ID: "p1", Name: "Pillar",
			Mechanisms: []schema.Mechanism{{
				ID: "m1", Name: "Mechanism",
				OperationalWeight: schema.Float(1), DesignWeight: schema.Float(1),
				Metrics: metrics,
			}},
		}},
	}
}

// sampleFramework has two pillars with metrics on both tracks and a mix of caps.
func sampleFramework() schema.Framework {
	return schema.Framework{
		Name:    "sample",
		Version: "1",
		Pillars: []schema.Pillar{
			{
				ID: "sec", Name: "Security",
				Mechanisms: []schema.Mechanism{
					{
						ID: "ac", Name: "Access Control", OperationalWeight: schema.Float(2), DesignWeight: schema.Float(1),
						Metrics: []schema.Metric{
							boolMetric("mfa", schema.OperationalTrack, nil, schema.Float(60)),
							pctMetric("review", schema.OperationalTrack, nil, nil),
							boolMetric("rbac", schema.DesignTrack, nil, nil),
						},
					},
					{
						ID: "log", Name: "Logging",
						Metrics: []schema.Metric{
							pctMetric("retention", schema.OperationalTrack, nil, nil),
						},
					},
				},
			},
			{
				ID: "priv", Name: "Privacy",
				Mechanisms: []schema.Mechanism{
					{
						ID: "consent", Name: "Consent",
						Metrics: []schema.Metric{
							boolMetric("records", schema.OperationalTrack, nil, nil),
							pctMetric("notice", schema.DesignTrack, nil, nil),
						},
					},
				},
			},
		},
	}
}

func fullAnswers(fw schema.Framework) schema.AnswerMap {
	answers := schema.AnswerMap{}
	for _, p := range fw.Pillars {
		for _, m := range p.Mechanisms {
			for _, metric := range m.Metrics {
				if metric.Kind == schema.BooleanKind {
					answers[metric.ID] = schema.BoolAnswer(true)
				} else {
					answers[metric.ID] = schema.PercentAnswer(100)
				}
			}
		}
	}
	return answers
}

func TestComputeResults_EmptyAnswersScoreZero(t *testing.T) {
	result := ComputeResults(sampleFramework(), schema.AnswerMap{}, nil)

	assert.Equal(t, 0.0, result.OverallOperationalScore)
	assert.Equal(t, 0.0, result.OverallDesignScore)
	require.Len(t, result.Pillars, 2)
	for _, p := range result.Pillars {
		assert.Equal(t, 0.0, p.OperationalScore)
		assert.Equal(t, 0.0, p.DesignScore)
	}
}

func TestComputeResults_NilAnswers(t *testing.T) {
	assert.NotPanics(t, func() {
		result := ComputeResults(sampleFramework(), nil, nil)
		assert.Equal(t, 0.0, result.OverallOperationalScore)
	})
}

func TestComputeResults_FullCompliance(t *testing.T) {
	fw := sampleFramework()
	// Remove the one cap so nothing below 100 exists, and give every mechanism a design metric.
	fw.Pillars[0].Mechanisms[0].Metrics[0].MechanismCap = nil
	fw.Pillars[0].Mechanisms[1].Metrics = append(fw.Pillars[0].Mechanisms[1].Metrics,
		boolMetric("log-design", schema.DesignTrack, nil, nil))

	result := ComputeResults(fw, fullAnswers(fw), nil)

	assert.Equal(t, 100.0, result.OverallOperationalScore)
	assert.Equal(t, 100.0, result.OverallDesignScore)
	for _, p := range result.Pillars {
		assert.False(t, p.IsCapped)
		for _, m := range p.Mechanisms {
			assert.False(t, m.IsCapped)
			assert.Empty(t, m.CappingMetrics)
			for _, metric := range m.Metrics {
				assert.Equal(t, 100.0, metric.Score)
			}
		}
	}
	for _, p := range result.Pillars {
		assert.Equal(t, 100.0, p.OperationalScore)
		assert.Equal(t, 100.0, p.DesignScore)
	}
}

func TestComputeResults_WeightedMean(t *testing.T) {
	fw := singleMechanism(
		pctMetric("a", schema.OperationalTrack, schema.Float(2), nil),
		pctMetric("b", schema.OperationalTrack, schema.Float(1), nil),
	)
	answers := schema.AnswerMap{"a": schema.PercentAnswer(100), "b": schema.PercentAnswer(60)}

	result := ComputeResults(fw, answers, nil)

	mech := result.Pillars[0].Mechanisms[0]
	assert.InDelta(t, (100.0*2+60.0)/3, mech.OperationalScore, 1e-9)
	assert.InDelta(t, (100.0*2+60.0)/3, mech.Operational.PreCapScore, 1e-9)
}

func TestComputeResults_CapThreshold(t *testing.T) {
	tests := []struct {
		name        string
		lowScore    float64
		wantCapped  bool
		wantScore   float64
		wantLowSeen int
	}{
		{name: "49 triggers the cap", lowScore: 49, wantCapped: true, wantScore: 80, wantLowSeen: 1},
		{name: "50 is not low", lowScore: 50, wantCapped: false, wantScore: (50.0 + 100*9) / 10, wantLowSeen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// One capped metric plus a heavy perfect metric keeps the aggregate above 80.
			fw := singleMechanism(
				pctMetric("low", schema.OperationalTrack, schema.Float(1), schema.Float(80)),
				pctMetric("high", schema.OperationalTrack, schema.Float(9), nil),
			)
			answers := schema.AnswerMap{"low": schema.PercentAnswer(tt.lowScore), "high": schema.PercentAnswer(100)}

			mech := ComputeResults(fw, answers, nil).Pillars[0].Mechanisms[0]

			assert.Equal(t, tt.wantCapped, mech.IsCapped)
			assert.InDelta(t, tt.wantScore, mech.OperationalScore, 1e-9)
			assert.Equal(t, tt.wantLowSeen, mech.Operational.LowMetrics)
		})
	}
}

func TestComputeResults_CapIsCeilingNotFloor(t *testing.T) {
	fw := singleMechanism(
		pctMetric("low", schema.OperationalTrack, nil, schema.Float(80)),
		pctMetric("other", schema.OperationalTrack, nil, nil),
	)
	answers := schema.AnswerMap{"low": schema.PercentAnswer(10), "other": schema.PercentAnswer(30)}

	mech := ComputeResults(fw, answers, nil).Pillars[0].Mechanisms[0]

	assert.False(t, mech.IsCapped)
	assert.InDelta(t, 20.0, mech.OperationalScore, 1e-9)
	assert.Equal(t, 80.0, mech.Operational.MechanismCeiling)
	assert.Equal(t, 2, mech.Operational.LowMetrics)
	// The metric still counts as capping, so the pillar rule fires.
	require.Len(t, mech.CappingMetrics, 1)
	assert.Equal(t, "low", mech.CappingMetrics[0].ID)
}

func TestComputeResults_LowestCapWins(t *testing.T) {
	fw := singleMechanism(
		boolMetric("a", schema.OperationalTrack, nil, schema.Float(70)),
		boolMetric("b", schema.OperationalTrack, nil, schema.Float(40)),
		pctMetric("c", schema.OperationalTrack, schema.Float(20), nil),
	)
	answers := schema.AnswerMap{"a": schema.BoolAnswer(false), "b": schema.BoolAnswer(false), "c": schema.PercentAnswer(100)}

	mech := ComputeResults(fw, answers, nil).Pillars[0].Mechanisms[0]

	assert.True(t, mech.IsCapped)
	assert.Equal(t, 40.0, mech.OperationalScore)
	assert.Equal(t, 40.0, mech.Operational.MechanismCeiling)
	assert.Len(t, mech.CappingMetrics, 2)
}

func TestComputeResults_CapsAreTrackLocal(t *testing.T) {
	fw := singleMechanism(
		boolMetric("design-gap", schema.DesignTrack, nil, schema.Float(10)),
		pctMetric("op", schema.OperationalTrack, nil, nil),
	)
	answers := schema.AnswerMap{"design-gap": schema.BoolAnswer(false), "op": schema.PercentAnswer(95)}

	mech := ComputeResults(fw, answers, nil).Pillars[0].Mechanisms[0]

	assert.Equal(t, 95.0, mech.OperationalScore, "a low design metric never caps the operational track")
	assert.False(t, mech.Operational.Capped)
	assert.Equal(t, 0.0, mech.DesignScore)
	assert.False(t, mech.Design.Capped, "0 is already under the ceiling")
}

func TestComputeResults_PillarCeiling(t *testing.T) {
	fw := schema.Framework{
		Pillars: []schema.Pillar{{
			ID: "p",
			Mechanisms: []schema.Mechanism{
				{ID: "capped", Metrics: []schema.Metric{
					boolMetric("gap", schema.OperationalTrack, nil, schema.Float(90)),
					pctMetric("fine", schema.OperationalTrack, schema.Float(99), nil),
				}},
				{ID: "perfect", Metrics: []schema.Metric{
					pctMetric("ok", schema.OperationalTrack, nil, nil),
				}},
			},
		}},
	}
	answers := schema.AnswerMap{"gap": schema.BoolAnswer(false), "fine": schema.PercentAnswer(100), "ok": schema.PercentAnswer(100)}

	result := ComputeResults(fw, answers, nil)
	pillar := result.Pillars[0]

	// capped mechanism: pre-cap 99, ceiling 90 -> 90. Pillar pre-cap (90+100)/2 = 95 -> 85.
	assert.Equal(t, 90.0, pillar.Mechanisms[0].OperationalScore)
	assert.True(t, pillar.IsCapped)
	assert.Equal(t, schema.PillarCeiling, pillar.OperationalScore)
	require.Len(t, pillar.CappingMechanisms, 1)
	assert.Equal(t, "capped", pillar.CappingMechanisms[0].ID)
	assert.Equal(t, schema.PillarCeiling, result.OverallOperationalScore)
}

func TestComputeResults_PillarFlaggedBelowCeiling(t *testing.T) {
	fw := singleMechanism(boolMetric("gap", schema.OperationalTrack, nil, schema.Float(90)))

	pillar := ComputeResults(fw, schema.AnswerMap{}, nil).Pillars[0]

	assert.True(t, pillar.IsCapped, "the flag reflects the rule firing, not a changed score")
	assert.Equal(t, 0.0, pillar.OperationalScore)
}

func TestComputeResults_ExclusionRemovesWeight(t *testing.T) {
	fw := schema.Framework{
		Pillars: []schema.Pillar{{
			ID: "p",
			Mechanisms: []schema.Mechanism{
				{ID: "good", Metrics: []schema.Metric{pctMetric("g", schema.OperationalTrack, nil, nil)}},
				{ID: "bad", OperationalWeight: schema.Float(3), Metrics: []schema.Metric{pctMetric("b", schema.OperationalTrack, nil, nil)}},
			},
		}},
	}
	answers := schema.AnswerMap{"g": schema.PercentAnswer(80), "b": schema.PercentAnswer(0)}

	included := ComputeResults(fw, answers, nil)
	excluded := ComputeResults(fw, answers, schema.NewExclusionSet("bad"))

	assert.InDelta(t, 20.0, included.Pillars[0].OperationalScore, 1e-9)
	assert.Equal(t, 80.0, excluded.Pillars[0].OperationalScore)
	require.Len(t, excluded.Pillars[0].Mechanisms, 1)
	assert.Equal(t, "good", excluded.Pillars[0].Mechanisms[0].ID)
}

func TestComputeResults_FullyExcludedPillarStillCountsInOverall(t *testing.T) {
	fw := sampleFramework()
	answers := fullAnswers(fw)

	result := ComputeResults(fw, answers, schema.NewExclusionSet("consent"))

	assert.Empty(t, result.Pillars[1].Mechanisms)
	assert.Equal(t, 0.0, result.Pillars[1].OperationalScore)
	assert.Len(t, result.Pillars, 2)
	assert.InDelta(t, result.Pillars[0].OperationalScore/2, result.OverallOperationalScore, 1e-9)
}

func TestComputeResults_UnknownIDsIgnored(t *testing.T) {
	fw := sampleFramework()
	answers := fullAnswers(fw)
	base := ComputeResults(fw, answers, nil)

	answers["not-a-metric"] = schema.PercentAnswer(5)
	withNoise := ComputeResults(fw, answers, schema.NewExclusionSet("not-a-mechanism"))

	assert.Equal(t, base, withNoise)
}

func TestComputeResults_Deterministic(t *testing.T) {
	fw := sampleFramework()
	answers := schema.AnswerMap{"mfa": schema.BoolAnswer(false), "review": schema.PercentAnswer(73.3), "notice": schema.PercentAnswer(12)}

	first := ComputeResults(fw, answers, schema.NewExclusionSet("log"))
	second := ComputeResults(fw, answers, schema.NewExclusionSet("log"))

	assert.Equal(t, first, second)
}

func TestComputeResults_TrackIndependence(t *testing.T) {
	fw := singleMechanism(
		pctMetric("d1", schema.DesignTrack, nil, nil),
		pctMetric("d2", schema.DesignTrack, nil, nil),
	)
	answers := schema.AnswerMap{"d1": schema.PercentAnswer(100), "d2": schema.PercentAnswer(50)}

	result := ComputeResults(fw, answers, nil)
	mech := result.Pillars[0].Mechanisms[0]

	assert.Equal(t, 0.0, mech.OperationalScore)
	assert.Equal(t, 75.0, mech.DesignScore)
	assert.Equal(t, 0.0, result.OverallOperationalScore)
	assert.Equal(t, 75.0, result.OverallDesignScore)
}

func TestComputeResults_MechanismWithoutTrackMetricsCountsAsZero(t *testing.T) {
	fw := schema.Framework{
		Name: "split",
		Pillars: []schema.Pillar{{
			ID: "p1", Name: "Pillar",
			Mechanisms: []schema.Mechanism{
				{ID: "ops", Name: "Ops only", Metrics: []schema.Metric{boolMetric("o1", schema.OperationalTrack, nil, nil)}},
				{ID: "design", Name: "Design only", Metrics: []schema.Metric{boolMetric("d1", schema.DesignTrack, nil, nil)}},
			},
		}},
	}
	answers := schema.AnswerMap{"o1": schema.BoolAnswer(true), "d1": schema.BoolAnswer(true)}

	result := ComputeResults(fw, answers, nil)
	pillar := result.Pillars[0]

	assert.Equal(t, 0.0, pillar.Mechanisms[0].DesignScore)
	assert.Equal(t, 0.0, pillar.Mechanisms[1].OperationalScore)
	assert.Equal(t, 50.0, pillar.OperationalScore, "the design-only mechanism still weighs in at 0")
	assert.Equal(t, 50.0, pillar.DesignScore)
	assert.False(t, pillar.IsCapped)
}

func TestComputeResults_ZeroWeightPolicy(t *testing.T) {
	fw := singleMechanism(
		pctMetric("zero", schema.OperationalTrack, schema.Float(0), nil),
		pctMetric("one", schema.OperationalTrack, schema.Float(1), nil),
	)
	answers := schema.AnswerMap{"zero": schema.PercentAnswer(0), "one": schema.PercentAnswer(100)}

	asDefault := ComputeResults(fw, answers, nil)
	excludes := ComputeResultsWithPolicy(fw, answers, nil, schema.ZeroWeightExcludes)

	assert.Equal(t, 50.0, asDefault.Pillars[0].Mechanisms[0].OperationalScore)
	assert.Equal(t, 100.0, excludes.Pillars[0].Mechanisms[0].OperationalScore)
}

func TestComputeResults_AllZeroWeightsUnderExcludePolicy(t *testing.T) {
	fw := singleMechanism(pctMetric("zero", schema.OperationalTrack, schema.Float(0), nil))

	result := ComputeResultsWithPolicy(fw, schema.AnswerMap{"zero": schema.PercentAnswer(100)}, nil, schema.ZeroWeightExcludes)

	assert.Equal(t, 0.0, result.Pillars[0].Mechanisms[0].OperationalScore)
}

func TestComputeResults_EmptyFramework(t *testing.T) {
	result := ComputeResults(schema.Framework{}, nil, nil)

	assert.Equal(t, 0.0, result.OverallOperationalScore)
	assert.Equal(t, 0.0, result.OverallDesignScore)
	assert.NotNil(t, result.Pillars)
	assert.Empty(t, result.Pillars)
}

func TestComputeResults_EndToEndScenario(t *testing.T) {
	fw := singleMechanism(
		boolMetric("item-a", schema.OperationalTrack, schema.Float(1), schema.Float(80)),
		pctMetric("item-b", schema.OperationalTrack, schema.Float(1), nil),
	)
	answers := schema.AnswerMap{"item-a": schema.BoolAnswer(false), "item-b": schema.PercentAnswer(90)}

	result := ComputeResults(fw, answers, nil)
	pillar := result.Pillars[0]
	mech := pillar.Mechanisms[0]

	assert.Equal(t, 45.0, mech.Operational.PreCapScore)
	assert.Equal(t, 45.0, mech.OperationalScore)
	assert.False(t, mech.IsCapped)
	assert.Equal(t, 0.0, mech.DesignScore)
	assert.Equal(t, 45.0, pillar.OperationalScore)
	assert.Equal(t, 0.0, pillar.DesignScore)
	assert.Equal(t, 45.0, result.OverallOperationalScore)
	assert.Equal(t, 0.0, result.OverallDesignScore)

	require.Len(t, mech.CappingMetrics, 1)
	assert.Equal(t, "item-a", mech.CappingMetrics[0].ID)
	assert.Equal(t, 0.0, mech.CappingMetrics[0].Score)
}

func TestComputeResults_PreservesOrder(t *testing.T) {
	fw := sampleFramework()
	result := ComputeResults(fw, nil, nil)

	var ids []string
	for _, p := range result.Pillars {
		ids = append(ids, p.ID)
		for _, m := range p.Mechanisms {
			ids = append(ids, m.ID)
			for _, metric := range m.Metrics {
				ids = append(ids, metric.ID)
			}
		}
	}
	assert.Equal(t, []string{"sec", "ac", "mfa", "review", "rbac", "log", "retention", "priv", "consent", "records", "notice"}, ids)
}
