// Package iocache persists computed results and stored assessments.
package iocache

import (
	"sync"

	"github.com/kimbotto/distaf/internal/contract"
)

// CacheStoreManager manages the result cache and the assessment store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	results      contract.CacheStore
	assessments  contract.AssessmentStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetResultStore returns the result CacheStore, or nil when caching is disabled.
func (mgr *CacheStoreManager) GetResultStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.results
}

// GetAssessmentStore returns the AssessmentStore, or nil when assessment storage is disabled.
func (mgr *CacheStoreManager) GetAssessmentStore() contract.AssessmentStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.assessments
}
