package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kimbotto/distaf/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedCheck() schema.CheckResult {
	result := schema.CheckResult{
		Source:     "q3",
		Framework:  "Sample",
		Thresholds: map[schema.Track]float64{schema.OperationalTrack: 50},
		Tracks:     []schema.Track{schema.OperationalTrack},
		Overall:    map[schema.Track]float64{schema.OperationalTrack: 40},
		Checked:    8,
	}
	for _, id := range []string{"overall", "a", "b", "c", "d", "e", "f"} {
		result.Violations = append(result.Violations, schema.CheckViolation{
			Level: schema.PillarLevel, ID: id, Name: "Pillar " + id, Track: schema.OperationalTrack, Score: 40, Threshold: 50,
		})
	}
	return result
}

func TestWriteCheckText_Passed(t *testing.T) {
	result := schema.CheckResult{
		Passed:     true,
		Source:     "q3",
		Framework:  "Sample",
		Thresholds: map[schema.Track]float64{schema.OperationalTrack: 50, schema.DesignTrack: 60},
		Tracks:     []schema.Track{schema.OperationalTrack, schema.DesignTrack},
		Overall:    map[schema.Track]float64{schema.OperationalTrack: 75, schema.DesignTrack: 62.5},
		Checked:    4,
	}
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeCheckText(&buf, result, false, fmtFloat, time.Second))
	out := buf.String()

	assert.Contains(t, out, "operational=50.0, design=60.0")
	assert.Contains(t, out, "Checked 4 scores")
	assert.Contains(t, out, "All scores met their thresholds")
	assert.Contains(t, out, "design: overall=62.5")
	assert.NotContains(t, out, "✅")
}

func TestWriteCheckText_Failed(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeCheckText(&buf, failedCheck(), true, fmtFloat, time.Second))
	out := buf.String()

	assert.Contains(t, out, "❌ Threshold check failed: 7 violation(s) found")
	assert.Contains(t, out, "Track: operational (7 violations)")
	assert.Contains(t, out, "pillar Pillar a (score: 40.0 < threshold: 50.0)")
	assert.Contains(t, out, "... and 2 more")
	assert.NotContains(t, out, "Pillar f")
}

func TestPrintCheckResult_JSONFile(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "check.json")

	require.NoError(t, PrintCheckResult(failedCheck(), cfg, time.Second))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var decoded schema.CheckResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.Passed)
	assert.Len(t, decoded.Violations, 7)
	assert.Equal(t, 50.0, decoded.Thresholds[schema.OperationalTrack])
}
