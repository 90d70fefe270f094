package iocache

import (
	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetResultStore implements the CacheManager interface.
func (m *MockCacheManager) GetResultStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetAssessmentStore implements the CacheManager interface.
func (m *MockCacheManager) GetAssessmentStore() contract.AssessmentStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.AssessmentStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockAssessmentStore is a mock implementation of AssessmentStore for testing.
type MockAssessmentStore struct {
	mock.Mock
}

var _ contract.AssessmentStore = &MockAssessmentStore{} // Compile-time check

// CreateAssessment implements the AssessmentStore interface.
func (m *MockAssessmentStore) CreateAssessment(name, framework string) (schema.Assessment, error) {
	args := m.Called(name, framework)
	return args.Get(0).(schema.Assessment), args.Error(1)
}

// GetAssessment implements the AssessmentStore interface.
func (m *MockAssessmentStore) GetAssessment(name string) (schema.Assessment, error) {
	args := m.Called(name)
	return args.Get(0).(schema.Assessment), args.Error(1)
}

// ListAssessments implements the AssessmentStore interface.
func (m *MockAssessmentStore) ListAssessments() ([]schema.Assessment, error) {
	args := m.Called()
	list, _ := args.Get(0).([]schema.Assessment)
	return list, args.Error(1)
}

// DeleteAssessment implements the AssessmentStore interface.
func (m *MockAssessmentStore) DeleteAssessment(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

// SetAnswer implements the AssessmentStore interface.
func (m *MockAssessmentStore) SetAnswer(assessmentID int64, metricID string, answer schema.Answer) error {
	args := m.Called(assessmentID, metricID, answer)
	return args.Error(0)
}

// ClearAnswer implements the AssessmentStore interface.
func (m *MockAssessmentStore) ClearAnswer(assessmentID int64, metricID string) error {
	args := m.Called(assessmentID, metricID)
	return args.Error(0)
}

// GetAnswers implements the AssessmentStore interface.
func (m *MockAssessmentStore) GetAnswers(assessmentID int64) (schema.AnswerMap, error) {
	args := m.Called(assessmentID)
	answers, _ := args.Get(0).(schema.AnswerMap)
	return answers, args.Error(1)
}

// SetExclusion implements the AssessmentStore interface.
func (m *MockAssessmentStore) SetExclusion(assessmentID int64, mechanismID string) error {
	args := m.Called(assessmentID, mechanismID)
	return args.Error(0)
}

// ClearExclusion implements the AssessmentStore interface.
func (m *MockAssessmentStore) ClearExclusion(assessmentID int64, mechanismID string) error {
	args := m.Called(assessmentID, mechanismID)
	return args.Error(0)
}

// GetExclusions implements the AssessmentStore interface.
func (m *MockAssessmentStore) GetExclusions(assessmentID int64) (schema.ExclusionSet, error) {
	args := m.Called(assessmentID)
	set, _ := args.Get(0).(schema.ExclusionSet)
	return set, args.Error(1)
}

// GetStatus implements the AssessmentStore interface.
func (m *MockAssessmentStore) GetStatus() (schema.AssessmentStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.AssessmentStatus), args.Error(1)
}

// Close implements the AssessmentStore interface.
func (m *MockAssessmentStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
