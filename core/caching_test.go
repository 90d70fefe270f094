package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/kimbotto/distaf/internal/iocache"
	"github.com/kimbotto/distaf/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCachedComputeResults_NoManager(t *testing.T) {
	fw := sampleFramework()
	answers := fullAnswers(fw)

	got := CachedComputeResults(nil, fw, answers, nil, schema.ZeroWeightAsDefault)
	assert.Equal(t, ComputeResults(fw, answers, nil), got)
}

func TestCachedComputeResults_NoStore(t *testing.T) {
	fw := sampleFramework()
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResultStore").Return(nil)

	got := CachedComputeResults(mgr, fw, nil, nil, schema.ZeroWeightAsDefault)
	assert.Equal(t, ComputeResults(fw, nil, nil), got)
	mgr.AssertExpectations(t)
}

func TestCachedComputeResults_MissStoresResult(t *testing.T) {
	fw := sampleFramework()
	answers := schema.AnswerMap{"review": schema.PercentAnswer(55)}
	expected := ComputeResults(fw, answers, nil)

	store := &iocache.MockCacheStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResultStore").Return(store)
	store.On("Get", mock.AnythingOfType("string")).Return(nil, 0, int64(0), errors.New("miss"))
	store.On("Set", mock.AnythingOfType("string"), mock.MatchedBy(func(data []byte) bool {
		var stored schema.OverallResult
		return json.Unmarshal(data, &stored) == nil && stored.OverallOperationalScore == expected.OverallOperationalScore
	}), currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

	got := CachedComputeResults(mgr, fw, answers, nil, schema.ZeroWeightAsDefault)

	assert.Equal(t, expected, got)
	store.AssertExpectations(t)
}

func TestCachedComputeResults_Hit(t *testing.T) {
	fw := sampleFramework()
	cached := schema.OverallResult{OverallOperationalScore: 12.5, Pillars: []schema.PillarResult{}}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	store := &iocache.MockCacheStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResultStore").Return(store)
	store.On("Get", mock.AnythingOfType("string")).Return(data, currentCacheVersion, int64(1), nil)

	got := CachedComputeResults(mgr, fw, nil, nil, schema.ZeroWeightAsDefault)

	assert.Equal(t, cached, got)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedComputeResults_VersionMismatch(t *testing.T) {
	fw := sampleFramework()
	data, _ := json.Marshal(schema.OverallResult{OverallOperationalScore: 99})

	store := &iocache.MockCacheStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResultStore").Return(store)
	store.On("Get", mock.AnythingOfType("string")).Return(data, currentCacheVersion+1, int64(1), nil)
	store.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).Return(errors.New("disk full"))

	got := CachedComputeResults(mgr, fw, nil, nil, schema.ZeroWeightAsDefault)

	assert.Equal(t, 0.0, got.OverallOperationalScore, "stale entries are recomputed and a failing Set is not fatal")
	store.AssertExpectations(t)
}

func TestGenerateCacheKey(t *testing.T) {
	fw := sampleFramework()
	answers := schema.AnswerMap{"mfa": schema.BoolAnswer(true), "review": schema.PercentAnswer(40)}

	k1, err := generateCacheKey(fw, answers, schema.NewExclusionSet("log", "ac"), schema.ZeroWeightAsDefault)
	require.NoError(t, err)
	k2, err := generateCacheKey(fw, answers, schema.NewExclusionSet("ac", "log"), "")
	require.NoError(t, err)
	assert.Equal(t, k1, k2, "exclusion order and the empty policy must not change the key")
	assert.Len(t, k1, 64)

	k3, _ := generateCacheKey(fw, answers, schema.NewExclusionSet("ac"), schema.ZeroWeightAsDefault)
	k4, _ := generateCacheKey(fw, answers, schema.NewExclusionSet("log", "ac"), schema.ZeroWeightExcludes)
	answers["review"] = schema.PercentAnswer(41)
	k5, _ := generateCacheKey(fw, answers, schema.NewExclusionSet("log", "ac"), schema.ZeroWeightAsDefault)
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, k4)
	assert.NotEqual(t, k1, k5)

	nilKey, _ := generateCacheKey(fw, nil, nil, schema.ZeroWeightAsDefault)
	emptyKey, _ := generateCacheKey(fw, schema.AnswerMap{}, schema.ExclusionSet{}, schema.ZeroWeightAsDefault)
	assert.Equal(t, nilKey, emptyKey)
}
