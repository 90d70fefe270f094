package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kimbotto/distaf/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReport(t *testing.T) {
	fw := sampleFramework()
	answers := fullAnswers(fw)
	report := buildReport(&fw, scoreInput{label: "full", answers: answers, excluded: schema.NewExclusionSet()}, "", ComputeResults(fw, answers, nil))

	result := CheckReport(report, map[schema.Track]float64{schema.OperationalTrack: 50, schema.DesignTrack: 50})

	assert.True(t, result.Passed)
	assert.Equal(t, "full", result.Source)
	assert.Empty(t, result.Violations)
	assert.Equal(t, []schema.Track{schema.OperationalTrack, schema.DesignTrack}, result.Tracks)
	assert.Equal(t, report.Result.OverallOperationalScore, result.Overall[schema.OperationalTrack])
}

func TestCheckReport_Violations(t *testing.T) {
	fw := sampleFramework()
	report := buildReport(&fw, scoreInput{label: "empty", answers: schema.AnswerMap{}, excluded: schema.NewExclusionSet()}, "", ComputeResults(fw, nil, nil))

	// Only the operational threshold is given; design falls back to the default.
	result := CheckReport(report, map[schema.Track]float64{schema.OperationalTrack: 10})

	assert.False(t, result.Passed)
	assert.Equal(t, schema.LowScoreThreshold, result.Thresholds[schema.DesignTrack])
	require.NotEmpty(t, result.Violations)
	assert.Equal(t, schema.OverallLevel, result.Violations[0].Level)
	assert.Equal(t, result.Checked, len(result.Violations), "every score is zero without answers")
}

func TestCheckReport_SkipsUnscoredTracks(t *testing.T) {
	fw := singleMechanism(pctMetric("cov", schema.OperationalTrack, nil, nil))
	answers := schema.AnswerMap{"cov": schema.PercentAnswer(50)}
	report := buildReport(&fw, scoreInput{answers: answers, excluded: schema.NewExclusionSet()}, "", ComputeResults(fw, answers, nil))

	result := CheckReport(report, map[schema.Track]float64{schema.OperationalTrack: 50, schema.DesignTrack: 90})

	// A score equal to the threshold passes and the design track has no metrics.
	assert.True(t, result.Passed)
	assert.Equal(t, []schema.Track{schema.OperationalTrack}, result.Tracks)
	assert.Equal(t, 2, result.Checked, "overall and one pillar")
}

func TestExecuteCheck(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	cfg := testConfig(t)
	cfg.OutputFile = filepath.Join(t.TempDir(), "check.json")
	cfg.AnswersPath = filepath.Join("testdata", "target.yaml")
	cfg.Thresholds = map[schema.Track]float64{schema.OperationalTrack: 90}
	assert.NoError(t, ExecuteCheck(ctx, cfg, nil))

	cfg.AnswersPath = filepath.Join("testdata", "base.yaml")
	assert.ErrorIs(t, ExecuteCheck(ctx, cfg, nil), ErrCheckFailed)
}
