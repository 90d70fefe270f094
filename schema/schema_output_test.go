package schema_test

import (
	"testing"

	"github.com/kimbotto/distaf/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenResult(t *testing.T) {
	result := schema.OverallResult{
		OverallOperationalScore: 30,
		OverallDesignScore:      70,
		Pillars: []schema.PillarResult{{
			ID:                "sec",
			Name:              "Security",
			OperationalScore:  30,
			DesignScore:       70,
			IsCapped:          true,
			CappingMechanisms: []schema.CappingMechanism{{ID: "ac"}},
			Mechanisms: []schema.MechanismResult{{
				ID:               "ac",
				Name:             "Access Control",
				OperationalScore: 30,
				DesignScore:      70,
				IsCapped:         true,
				CappingMetrics:   []schema.CappingMetric{{ID: "mfa", Track: schema.OperationalTrack}},
				Metrics: []schema.MetricResult{
					{ID: "mfa", Track: schema.OperationalTrack, Score: 0},
					{ID: "notice", Track: schema.DesignTrack, Score: 70},
				},
			}},
		}},
	}

	rows := schema.FlattenResult(result)
	require.Len(t, rows, 5)

	assert.Equal(t, schema.OverallLevel, rows[0].Level)
	assert.Equal(t, 30.0, rows[0].OperationalScore)
	assert.Equal(t, 70.0, rows[0].DesignScore)

	assert.Equal(t, schema.PillarLevel, rows[1].Level)
	assert.Equal(t, []string{"ac"}, rows[1].CappedBy)

	assert.Equal(t, schema.MechanismLevel, rows[2].Level)
	assert.Equal(t, "sec", rows[2].ParentID)
	assert.Equal(t, []string{"mfa"}, rows[2].CappedBy)

	// Metric rows only fill the column of their own track.
	assert.Equal(t, "ac", rows[3].ParentID)
	assert.Equal(t, 0.0, rows[3].DesignScore)
	assert.Equal(t, 70.0, rows[4].DesignScore)
	assert.Equal(t, 0.0, rows[4].OperationalScore)
}

func TestFlattenResult_Empty(t *testing.T) {
	rows := schema.FlattenResult(schema.OverallResult{})
	require.Len(t, rows, 1)
	assert.Equal(t, "Overall", rows[0].Name)
	assert.Empty(t, rows[0].CappedBy)
}
