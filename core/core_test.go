package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/internal/iocache"
	"github.com/kimbotto/distaf/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *contract.Config {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", "framework.yaml"))
	require.NoError(t, err)
	return &contract.Config{
		FrameworkPath: path,
		ZeroWeights:   schema.ZeroWeightAsDefault,
		Precision:     contract.DefaultPrecision,
		Output:        schema.JSONOut,
		CacheBackend:  schema.NoneBackend,
	}
}

func TestGetScoreReport_AnswersFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.AnswersPath = filepath.Join("testdata", "base.yaml")

	report, _, err := GetScoreReport(WithSuppressHeader(context.Background()), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, "Core Test Framework", report.Framework)
	assert.Equal(t, "2", report.Version)
	assert.Equal(t, cfg.AnswersPath, report.Source)
	assert.Equal(t, schema.ZeroWeightAsDefault, report.Policy)
	assert.Equal(t, 45.0, report.Result.OverallOperationalScore)
	assert.Equal(t, 0.0, report.Result.OverallDesignScore)
	require.Len(t, report.Weakest, 1)
	assert.Equal(t, "monitoring", report.Weakest[0].ID)
	assert.Equal(t, 45.0, report.Weakest[0].Score)
}

func TestGetScoreReport_NoAnswers(t *testing.T) {
	cfg := testConfig(t)
	cfg.Excludes = []string{"monitoring"}

	report, _, err := GetScoreReport(WithSuppressHeader(context.Background()), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, "(no answers)", report.Source)
	assert.Equal(t, []string{"monitoring"}, report.Excluded)
	assert.Equal(t, 0.0, report.Result.OverallOperationalScore)
	assert.Empty(t, report.Result.Pillars[0].Mechanisms)
}

func TestGetScoreReport_Errors(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	cfg := testConfig(t)
	cfg.FrameworkPath = ""
	_, _, err := GetScoreReport(ctx, cfg, nil)
	assert.ErrorContains(t, err, "framework file is required")

	cfg = testConfig(t)
	cfg.Assessment = "q3"
	_, _, err = GetScoreReport(ctx, cfg, nil)
	assert.ErrorIs(t, err, errStoreDisabled)

	cfg = testConfig(t)
	cfg.AnswersPath = filepath.Join("testdata", "missing.yaml")
	_, _, err = GetScoreReport(ctx, cfg, nil)
	assert.Error(t, err)
}

func TestGetScoreReport_Assessment(t *testing.T) {
	cfg := testConfig(t)
	cfg.Assessment = "q3"
	cfg.Excludes = []string{"extra"}

	store := &iocache.MockAssessmentStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetAssessmentStore").Return(store)
	mgr.On("GetResultStore").Return(nil)
	store.On("GetAssessment", "q3").Return(schema.Assessment{ID: 7, Name: "q3", Framework: "Core Test Framework"}, nil)
	store.On("GetAnswers", int64(7)).Return(schema.AnswerMap{
		"alerting": schema.BoolAnswer(true),
		"coverage": schema.PercentAnswer(60),
	}, nil)
	store.On("GetExclusions", int64(7)).Return(schema.NewExclusionSet(), nil)

	report, _, err := GetScoreReport(WithSuppressHeader(context.Background()), cfg, mgr)
	require.NoError(t, err)

	assert.Equal(t, "q3", report.Source)
	assert.Equal(t, []string{"extra"}, report.Excluded)
	assert.Equal(t, 80.0, report.Result.OverallOperationalScore)
	store.AssertExpectations(t)
}

func TestGetComparisonResults(t *testing.T) {
	cfg := testConfig(t)
	cfg.CompareMode = true
	cfg.BaseRef = filepath.Join("testdata", "base.yaml")
	cfg.TargetRef = filepath.Join("testdata", "target.yaml")

	result, _, err := GetComparisonResults(WithSuppressHeader(context.Background()), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, cfg.BaseRef, result.BaseLabel)
	assert.Equal(t, cfg.TargetRef, result.TargetLabel)
	// base 45 (capping evaluated but not flagged), target 95.
	assert.Equal(t, 50.0, result.Summary.OverallOperationalDelta)
	assert.Equal(t, 0.0, result.Summary.OverallDesignDelta)
	assert.Equal(t, 4, result.Summary.TotalComparable)
	assert.Equal(t, 1, result.Summary.TotalNoLongerCapped, "only the pillar flag was set in the base")
}

func TestGetComparisonResults_Errors(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	cfg := testConfig(t)
	_, _, err := GetComparisonResults(ctx, cfg, nil)
	assert.Error(t, err)

	cfg.BaseRef = filepath.Join("testdata", "base.yaml")
	cfg.TargetRef = "no-such-assessment"
	_, _, err = GetComparisonResults(ctx, cfg, nil)
	assert.ErrorContains(t, err, "target")
	assert.ErrorIs(t, err, errStoreDisabled)
}

func TestGetComparisonResults_Cancelled(t *testing.T) {
	cfg := testConfig(t)
	cfg.BaseRef = filepath.Join("testdata", "base.yaml")
	cfg.TargetRef = filepath.Join("testdata", "target.yaml")

	ctx, cancel := context.WithCancel(WithSuppressHeader(context.Background()))
	cancel()

	_, _, err := GetComparisonResults(ctx, cfg, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteFrameworkValidate(t *testing.T) {
	cfg := testConfig(t)
	assert.NoError(t, ExecuteFrameworkValidate(context.Background(), cfg, nil))

	cfg.FrameworkPath = filepath.Join("testdata", "base.yaml")
	assert.Error(t, ExecuteFrameworkValidate(context.Background(), cfg, nil))
}

func TestBuildReport_DefaultsPolicy(t *testing.T) {
	fw := sampleFramework()
	in := scoreInput{label: "x", answers: schema.AnswerMap{}, excluded: schema.NewExclusionSet()}

	report := buildReport(&fw, in, "", ComputeResults(fw, nil, nil))

	assert.Equal(t, schema.ZeroWeightAsDefault, report.Policy)
	assert.NotNil(t, report.Excluded)
	assert.Len(t, report.Weakest, weakestLimit-2, "sample framework has three mechanisms")
}
