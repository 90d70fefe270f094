// Package contract provides interfaces and shared utilities for the distaf CLI's internal architecture.
package contract

import (
	"errors"

	"github.com/kimbotto/distaf/schema"
)

// ErrAssessmentNotFound is returned when a named assessment does not exist in the store.
var ErrAssessmentNotFound = errors.New("assessment not found")

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
	GetAssessmentStore() AssessmentStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AssessmentStore persists named assessments together with their answers and exclusions.
type AssessmentStore interface {
	// CreateAssessment registers a new, empty assessment for the given framework.
	CreateAssessment(name, framework string) (schema.Assessment, error)

	// GetAssessment looks up an assessment by name. Returns ErrAssessmentNotFound if missing.
	GetAssessment(name string) (schema.Assessment, error)

	// ListAssessments returns every assessment ordered by name.
	ListAssessments() ([]schema.Assessment, error)

	// DeleteAssessment removes an assessment and everything recorded against it.
	DeleteAssessment(name string) error

	// SetAnswer records or replaces the answer to one metric.
	SetAnswer(assessmentID int64, metricID string, answer schema.Answer) error

	// ClearAnswer removes the answer to one metric, making it unanswered again.
	ClearAnswer(assessmentID int64, metricID string) error

	// GetAnswers returns every recorded answer of an assessment.
	GetAnswers(assessmentID int64) (schema.AnswerMap, error)

	// SetExclusion marks a mechanism as not applicable.
	SetExclusion(assessmentID int64, mechanismID string) error

	// ClearExclusion makes a previously excluded mechanism applicable again.
	ClearExclusion(assessmentID int64, mechanismID string) error

	// GetExclusions returns the excluded mechanisms of an assessment.
	GetExclusions(assessmentID int64) (schema.ExclusionSet, error)

	// GetStatus returns status information about the assessment store.
	GetStatus() (schema.AssessmentStatus, error)

	// Close closes the underlying connection.
	Close() error
}
