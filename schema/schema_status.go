package schema

import (
	"fmt"
	"time"
)

// CacheStatus represents the status of the result cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// AssessmentStatus represents the status of the assessment store.
type AssessmentStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	SchemaVersion     uint             `json:"schema_version"`
	TotalAssessments  int              `json:"total_assessments"`
	TotalAnswers      int              `json:"total_answers"`
	LastUpdatedTime   time.Time        `json:"last_updated_time"`
	OldestCreatedTime time.Time        `json:"oldest_created_time"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}

// Assessment is one stored set of answers against a framework.
type Assessment struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Framework string    `json:"framework"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssessmentAnswer is one recorded answer resolved against the framework for display.
// Name and Kind are empty when the metric is unknown to the framework in use.
type AssessmentAnswer struct {
	MetricID string     `json:"metric_id"`
	Name     string     `json:"name,omitempty"`
	Kind     MetricKind `json:"kind,omitempty"`
	Answer   Answer     `json:"answer"`
}

// AssessmentDetail is everything stored for one assessment.
type AssessmentDetail struct {
	Assessment   Assessment         `json:"assessment"`
	Excluded     []string           `json:"excluded"`
	Answers      []AssessmentAnswer `json:"answers"`
	TotalMetrics int                `json:"total_metrics,omitempty"` // 0 when no framework was given
}

// FormatAnswer renders an answer the way it was given: yes/no for boolean metrics, nn% otherwise.
func FormatAnswer(kind MetricKind, a Answer) string {
	if kind == PercentageKind || (kind == "" && a.AnsweredPercentage != nil) {
		if a.AnsweredPercentage == nil {
			return "-"
		}
		return fmt.Sprintf("%g%%", *a.AnsweredPercentage)
	}
	if a.AnsweredBoolean {
		return "yes"
	}
	return "no"
}
