package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kimbotto/distaf/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() schema.ScoreReport {
	return schema.ScoreReport{
		Framework: "Sample",
		Source:    "q3",
		Result: schema.OverallResult{
			OverallOperationalScore: 42.5,
			OverallDesignScore:      10,
			Pillars: []schema.PillarResult{{
				ID: "sec", Name: "Security", OperationalScore: 42.5, DesignScore: 10, IsCapped: true,
				CappingMechanisms: []schema.CappingMechanism{{ID: "ac"}},
				Mechanisms: []schema.MechanismResult{{
					ID: "ac", Name: "Access Control", OperationalScore: 42.5, DesignScore: 10,
					CappingMetrics: []schema.CappingMetric{{ID: "mfa"}},
					Metrics: []schema.MetricResult{
						{ID: "mfa", Name: "MFA", Track: schema.OperationalTrack, Score: 0},
						{ID: "rbac", Name: "RBAC", Track: schema.DesignTrack, Score: 10},
					},
				}},
			}},
		},
	}
}

// readAll reads every row of a Parquet file.
func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestScoreRowStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(ScoreRow))
	require.NotNil(t, s)
	for _, col := range []string{"framework", "source", "computed_at", "level", "node_id", "code", "name", "parent_id", "track", "operational_score", "design_score", "is_capped", "capped_by"} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "column %s should exist in schema", col)
	}
}

func TestScoreRows(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	rows := ScoreRows(sampleReport(), at)

	require.Len(t, rows, 5) // overall, pillar, mechanism, 2 metrics
	assert.Equal(t, "overall", rows[0].Level)
	assert.Nil(t, rows[0].ParentID)

	pillar := rows[1]
	assert.True(t, pillar.IsCapped)
	require.NotNil(t, pillar.CappedBy)
	assert.Equal(t, "ac", *pillar.CappedBy)

	rbac := rows[4]
	assert.Equal(t, "rbac", rbac.NodeID)
	require.NotNil(t, rbac.Track)
	assert.Equal(t, "design", *rbac.Track)
	assert.Equal(t, 10.0, rbac.DesignScore)
	assert.Equal(t, 0.0, rbac.OperationalScore)
	assert.Equal(t, at, rbac.ComputedAt)
}

func TestWriteScoreRowsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.parquet")
	data := ScoreRows(sampleReport(), time.Now().UTC())

	require.NoError(t, WriteScoreRowsParquet(data, path))

	read := readAll[ScoreRow](t, path)
	require.Len(t, read, len(data))
	for i := range data {
		assert.Equal(t, data[i].NodeID, read[i].NodeID)
		assert.Equal(t, data[i].OperationalScore, read[i].OperationalScore)
		assert.WithinDuration(t, data[i].ComputedAt, read[i].ComputedAt, time.Nanosecond)
		if data[i].CappedBy == nil {
			assert.Nil(t, read[i].CappedBy)
		} else {
			require.NotNil(t, read[i].CappedBy)
			assert.Equal(t, *data[i].CappedBy, *read[i].CappedBy)
		}
	}
}

func TestWriteComparisonRowsParquet_NullDeltas(t *testing.T) {
	delta := 12.5
	result := schema.ComparisonResult{
		BaseLabel:   "base",
		TargetLabel: "target",
		Details: []schema.ComparisonDetail{
			{Level: schema.MechanismLevel, ID: "ac", Status: schema.ComparableStatus, Comparable: true, DeltaOperational: &delta, DeltaDesign: &delta},
			{Level: schema.MechanismLevel, ID: "backup", Status: schema.NewStatus, AfterOperational: 80},
		},
	}
	path := filepath.Join(t.TempDir(), "compare.parquet")

	require.NoError(t, WriteComparisonRowsParquet(ComparisonRows(result), path))

	read := readAll[ComparisonRow](t, path)
	require.Len(t, read, 2)
	require.NotNil(t, read[0].DeltaOperational)
	assert.Equal(t, 12.5, *read[0].DeltaOperational)
	assert.Nil(t, read[1].DeltaOperational)
	assert.Nil(t, read[1].DeltaDesign)
	assert.Equal(t, "new", read[1].Status)
	assert.Equal(t, "target", read[1].TargetLabel)
}

func TestConvertAnswers(t *testing.T) {
	rows := ConvertAnswers(7, schema.AnswerMap{
		"mfa":      schema.BoolAnswer(false),
		"coverage": schema.PercentAnswer(55),
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "coverage", rows[0].MetricID)
	assert.Nil(t, rows[0].Boolean)
	require.NotNil(t, rows[0].Percentage)
	assert.Equal(t, 55.0, *rows[0].Percentage)
	require.NotNil(t, rows[1].Boolean)
	assert.False(t, *rows[1].Boolean)
	assert.Equal(t, int64(7), rows[1].AssessmentID)
}

func TestWriteAssessmentAndAnswerRowsParquet(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().UTC()
	assessments := []AssessmentRow{
		ConvertAssessment(schema.Assessment{ID: 1, Name: "q3", Framework: "Sample", CreatedAt: now, UpdatedAt: now}, []string{"audit", "backup"}),
		ConvertAssessment(schema.Assessment{ID: 2, Name: "draft", CreatedAt: now, UpdatedAt: now}, nil),
	}
	answers := ConvertAnswers(1, schema.AnswerMap{"mfa": schema.BoolAnswer(true)})

	require.NoError(t, WriteAssessmentRowsParquet(assessments, filepath.Join(dir, "a.parquet")))
	require.NoError(t, WriteAnswerRowsParquet(answers, filepath.Join(dir, "b.parquet")))

	readA := readAll[AssessmentRow](t, filepath.Join(dir, "a.parquet"))
	require.Len(t, readA, 2)
	require.NotNil(t, readA[0].Excluded)
	assert.Equal(t, "audit|backup", *readA[0].Excluded)
	assert.Nil(t, readA[1].Framework)

	readB := readAll[AnswerRow](t, filepath.Join(dir, "b.parquet"))
	require.Len(t, readB, 1)
	require.NotNil(t, readB[0].Boolean)
	assert.True(t, *readB[0].Boolean)
}

func TestWriteParquet_EmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteScoreRowsParquet([]ScoreRow{}, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "file should still carry a footer")
	assert.Empty(t, readAll[ScoreRow](t, path))
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteScoreRowsParquet(nil, "/nonexistent/directory/scores.parquet")
	assert.ErrorContains(t, err, "failed to create output file")
}
