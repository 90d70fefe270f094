package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/schema"
)

// currentCacheVersion defines the version of the cache schema.
// Bump it whenever the scoring rules or the result layout change.
const currentCacheVersion = 1

// cacheKeyInput is everything a computation depends on. encoding/json sorts map keys,
// so the encoding is canonical.
type cacheKeyInput struct {
	Framework schema.Framework        `json:"framework"`
	Answers   schema.AnswerMap        `json:"answers"`
	Excluded  []string                `json:"excluded"`
	Policy    schema.ZeroWeightPolicy `json:"policy"`
}

// CachedComputeResults returns a memoized result when the same inputs were scored before,
// and computes and stores it otherwise. Results are pure, so entries never go stale.
func CachedComputeResults(mgr contract.CacheManager, fw schema.Framework, answers schema.AnswerMap, excluded schema.ExclusionSet, policy schema.ZeroWeightPolicy) schema.OverallResult {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetResultStore()
	}
	if store == nil {
		// Fallback to direct computation
		return ComputeResultsWithPolicy(fw, answers, excluded, policy)
	}

	key, err := generateCacheKey(fw, answers, excluded, policy)
	if err != nil {
		return ComputeResultsWithPolicy(fw, answers, excluded, policy)
	}

	// Check for cache hit
	if result := checkCacheHit(store, key); result != nil {
		return *result
	}

	// Cache miss: compute and store
	return computeAndStore(store, key, fw, answers, excluded, policy)
}

// checkCacheHit attempts to retrieve and validate a cached result.
func checkCacheHit(store contract.CacheStore, key string) *schema.OverallResult {
	data, version, _, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}
	if version != currentCacheVersion {
		return nil // Cache miss (version mismatch)
	}
	var result schema.OverallResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

// computeAndStore computes the result and stores it in cache.
func computeAndStore(store contract.CacheStore, key string, fw schema.Framework, answers schema.AnswerMap, excluded schema.ExclusionSet, policy schema.ZeroWeightPolicy) schema.OverallResult {
	result := ComputeResultsWithPolicy(fw, answers, excluded, policy)
	if data, err := json.Marshal(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("could not cache result", err)
		}
	}
	return result
}

// generateCacheKey hashes the canonical encoding of the computation inputs.
func generateCacheKey(fw schema.Framework, answers schema.AnswerMap, excluded schema.ExclusionSet, policy schema.ZeroWeightPolicy) (string, error) {
	if policy == "" {
		policy = schema.ZeroWeightAsDefault
	}
	if answers == nil {
		answers = schema.AnswerMap{}
	}
	data, err := json.Marshal(cacheKeyInput{
		Framework: fw,
		Answers:   answers,
		Excluded:  excluded.IDs(),
		Policy:    policy,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}
