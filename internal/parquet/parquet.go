// Package parquet provides data structures and functions for exporting distaf
// scores, comparisons and assessments to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kimbotto/distaf/schema"
	"github.com/parquet-go/parquet-go"
)

// ScoreRow is one node of a computed result, flattened for columnar export.
type ScoreRow struct {
	// Framework and Source identify the run the row belongs to
	Framework string `parquet:"framework,snappy"`
	Source    string `parquet:"source,snappy"`

	// ComputedAt is when the scores were computed (stored as TIMESTAMP with nanosecond precision)
	ComputedAt time.Time `parquet:"computed_at,snappy"`

	Level    string  `parquet:"level,snappy"`
	NodeID   string  `parquet:"node_id,snappy"`
	Code     *string `parquet:"code,optional,snappy"`
	Name     string  `parquet:"name,snappy"`
	ParentID *string `parquet:"parent_id,optional,snappy"`

	// Track is only set for metric rows
	Track *string `parquet:"track,optional,snappy"`

	OperationalScore float64 `parquet:"operational_score,snappy"`
	DesignScore      float64 `parquet:"design_score,snappy"`
	IsCapped         bool    `parquet:"is_capped,snappy"`

	// CappedBy lists the capping children, pipe separated (nullable)
	CappedBy *string `parquet:"capped_by,optional,snappy"`
}

// ComparisonRow is one compared node. Deltas are null for nodes present on one side only.
type ComparisonRow struct {
	BaseLabel         string   `parquet:"base_label,snappy"`
	TargetLabel       string   `parquet:"target_label,snappy"`
	Level             string   `parquet:"level,snappy"`
	NodeID            string   `parquet:"node_id,snappy"`
	Name              string   `parquet:"name,snappy"`
	ParentID          *string  `parquet:"parent_id,optional,snappy"`
	Track             *string  `parquet:"track,optional,snappy"`
	Status            string   `parquet:"status,snappy"`
	BeforeOperational float64  `parquet:"before_operational,snappy"`
	AfterOperational  float64  `parquet:"after_operational,snappy"`
	DeltaOperational  *float64 `parquet:"delta_operational,optional,snappy"`
	BeforeDesign      float64  `parquet:"before_design,snappy"`
	AfterDesign       float64  `parquet:"after_design,snappy"`
	DeltaDesign       *float64 `parquet:"delta_design,optional,snappy"`
	BeforeCapped      bool     `parquet:"before_capped,snappy"`
	AfterCapped       bool     `parquet:"after_capped,snappy"`
}

// AssessmentRow represents one stored assessment.
// This struct maps to the distaf_assessments database table.
type AssessmentRow struct {
	AssessmentID int64     `parquet:"assessment_id,snappy"`
	Name         string    `parquet:"name,snappy"`
	Framework    *string   `parquet:"framework,optional,snappy"`
	CreatedAt    time.Time `parquet:"created_at,snappy"`
	UpdatedAt    time.Time `parquet:"updated_at,snappy"`
	Excluded     *string   `parquet:"excluded,optional,snappy"` // pipe separated mechanism ids
}

// AnswerRow represents one recorded answer.
// This struct maps to the distaf_answers database table.
type AnswerRow struct {
	AssessmentID int64    `parquet:"assessment_id,snappy"`
	MetricID     string   `parquet:"metric_id,snappy"`
	Boolean      *bool    `parquet:"answered_boolean,optional,snappy"`
	Percentage   *float64 `parquet:"answered_percentage,optional,snappy"`
}

// ScoreRows flattens a report into one row per node, in display order.
func ScoreRows(report schema.ScoreReport, computedAt time.Time) []ScoreRow {
	flat := schema.FlattenResult(report.Result)
	rows := make([]ScoreRow, 0, len(flat))
	for _, r := range flat {
		rows = append(rows, ScoreRow{
			Framework:        report.Framework,
			Source:           report.Source,
			ComputedAt:       computedAt,
			Level:            string(r.Level),
			NodeID:           r.ID,
			Code:             optionalString(r.Code),
			Name:             r.Name,
			ParentID:         optionalString(r.ParentID),
			Track:            optionalString(string(r.Track)),
			OperationalScore: r.OperationalScore,
			DesignScore:      r.DesignScore,
			IsCapped:         r.IsCapped,
			CappedBy:         optionalString(strings.Join(r.CappedBy, "|")),
		})
	}
	return rows
}

// ComparisonRows converts comparison details into rows.
func ComparisonRows(result schema.ComparisonResult) []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(result.Details))
	for _, d := range result.Details {
		rows = append(rows, ComparisonRow{
			BaseLabel:         result.BaseLabel,
			TargetLabel:       result.TargetLabel,
			Level:             string(d.Level),
			NodeID:            d.ID,
			Name:              d.Name,
			ParentID:          optionalString(d.ParentID),
			Track:             optionalString(string(d.Track)),
			Status:            string(d.Status),
			BeforeOperational: d.BeforeOperational,
			AfterOperational:  d.AfterOperational,
			DeltaOperational:  d.DeltaOperational,
			BeforeDesign:      d.BeforeDesign,
			AfterDesign:       d.AfterDesign,
			DeltaDesign:       d.DeltaDesign,
			BeforeCapped:      d.BeforeCapped,
			AfterCapped:       d.AfterCapped,
		})
	}
	return rows
}

// ConvertAssessment converts a stored assessment and its exclusions into a row.
func ConvertAssessment(a schema.Assessment, excluded []string) AssessmentRow {
	return AssessmentRow{
		AssessmentID: a.ID,
		Name:         a.Name,
		Framework:    optionalString(a.Framework),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		Excluded:     optionalString(strings.Join(excluded, "|")),
	}
}

// ConvertAnswers converts the answers of one assessment into rows sorted by metric id.
func ConvertAnswers(assessmentID int64, answers schema.AnswerMap) []AnswerRow {
	rows := make([]AnswerRow, 0, len(answers))
	for _, id := range answers.IDs() {
		a := answers[id]
		row := AnswerRow{AssessmentID: assessmentID, MetricID: id}
		if a.AnsweredPercentage != nil {
			p := *a.AnsweredPercentage
			row.Percentage = &p
		} else {
			b := a.AnsweredBoolean
			row.Boolean = &b
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteScoreRowsParquet writes a slice of ScoreRow structs to a Parquet file.
func WriteScoreRowsParquet(data []ScoreRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteComparisonRowsParquet writes a slice of ComparisonRow structs to a Parquet file.
func WriteComparisonRowsParquet(data []ComparisonRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteAssessmentRowsParquet writes a slice of AssessmentRow structs to a Parquet file.
func WriteAssessmentRowsParquet(data []AssessmentRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteAnswerRowsParquet writes a slice of AnswerRow structs to a Parquet file.
func WriteAnswerRowsParquet(data []AnswerRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet creates outputPath and writes data with a schema inferred from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
