package framework

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/kimbotto/distaf/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFramework(t *testing.T) {
	fw, err := LoadFramework(filepath.Join("testdata", "framework.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Sample Trust Framework", fw.Name)
	assert.Equal(t, "1.0", fw.Version)
	require.Len(t, fw.Pillars, 2)
	assert.Equal(t, "security", fw.Pillars[0].ID)
	assert.Equal(t, "privacy", fw.Pillars[1].ID)
	assert.Equal(t, 5, fw.MetricCount())

	ac := fw.Pillars[0].Mechanisms[0]
	require.NotNil(t, ac.OperationalWeight)
	assert.Equal(t, 2.0, *ac.OperationalWeight)

	mfa := ac.Metrics[0]
	assert.Equal(t, schema.OperationalTrack, mfa.Track)
	assert.Equal(t, schema.BooleanKind, mfa.Kind)
	require.NotNil(t, mfa.MechanismCap)
	assert.Equal(t, 60.0, *mfa.MechanismCap)
	assert.Equal(t, []string{"ISO27001-A.9"}, mfa.Standards)

	// Unset optional values stay nil so defaults can be told apart from explicit zeros.
	assert.Nil(t, fw.Pillars[0].Mechanisms[1].OperationalWeight)
	assert.Nil(t, ac.Metrics[1].Weight)
	assert.Nil(t, ac.Metrics[1].MechanismCap)
}

func TestLoadFramework_MissingFile(t *testing.T) {
	_, err := LoadFramework(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseFramework_JSON(t *testing.T) {
	doc := `{"name":"J","pillars":[{"id":"p","name":"P","mechanisms":[{"id":"m","name":"M","design_weight":0,
	"metrics":[{"id":"x","name":"X","track":"design","kind":"percentage","pillar_cap":40}]}]}]}`
	fw, err := ParseFramework([]byte(doc))
	require.NoError(t, err)
	require.NotNil(t, fw.Pillars[0].Mechanisms[0].DesignWeight)
	assert.Equal(t, 0.0, *fw.Pillars[0].Mechanisms[0].DesignWeight)
	assert.Equal(t, schema.DesignTrack, fw.Pillars[0].Mechanisms[0].Metrics[0].Track)
}

func TestParseFramework_SchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			name:    "missing name",
			doc:     "pillars: []\n",
			wantMsg: "name",
		},
		{
			name: "unknown track",
			doc: `name: F
pillars:
  - id: p
    name: P
    mechanisms:
      - id: m
        name: M
        metrics:
          - {id: x, name: X, track: strategic, kind: boolean}
`,
			wantMsg: "/pillars/0/mechanisms/0/metrics/0/track",
		},
		{
			name: "cap above 100",
			doc: `name: F
pillars:
  - id: p
    name: P
    mechanisms:
      - id: m
        name: M
        metrics:
          - {id: x, name: X, track: design, kind: boolean, mechanism_cap: 120}
`,
			wantMsg: "mechanism_cap",
		},
		{
			name: "negative weight",
			doc: `name: F
pillars:
  - id: p
    name: P
    mechanisms:
      - id: m
        name: M
        operational_weight: -1
        metrics: []
`,
			wantMsg: "operational_weight",
		},
		{
			name:    "not yaml",
			doc:     "name: [unterminated",
			wantMsg: "YAML parse error",
		},
		{
			name:    "empty",
			doc:     "",
			wantMsg: "document is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFramework([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDocument)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCheckFramework_Duplicates(t *testing.T) {
	fw := &schema.Framework{
		Name: "F",
		Pillars: []schema.Pillar{
			{ID: "p", Mechanisms: []schema.Mechanism{
				{ID: "m", Metrics: []schema.Metric{
					{ID: "x", Track: schema.OperationalTrack, Kind: schema.BooleanKind},
				}},
			}},
			{ID: "p", Mechanisms: []schema.Mechanism{
				{ID: "m", Metrics: []schema.Metric{
					{ID: "x", Track: schema.DesignTrack, Kind: schema.BooleanKind},
				}},
			}},
		},
	}

	errs := CheckFramework(fw)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], `pillar "p": duplicate id`)
	assert.Contains(t, errs[1], `mechanism "m": duplicate id`)
	assert.Contains(t, errs[2], `metric "x": duplicate id`)
}

func TestCheckFramework_Values(t *testing.T) {
	fw := &schema.Framework{
		Pillars: []schema.Pillar{
			{ID: "p", Mechanisms: []schema.Mechanism{
				{ID: "m", DesignWeight: schema.Float(-2), Metrics: []schema.Metric{
					{ID: "x", Track: "strategic", Kind: "ternary", PillarCap: schema.Float(101)},
				}},
			}},
		},
	}

	errs := CheckFramework(fw)
	assert.Len(t, errs, 4)
}

func TestLoadAnswerFile(t *testing.T) {
	file, err := LoadAnswerFile(filepath.Join("testdata", "answers.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "q3-review", file.Name)
	assert.Equal(t, []string{"audit"}, file.Excluded)
	assert.Equal(t, []string{"consent-records", "coverage", "mfa"}, file.Answers.IDs())
	assert.True(t, file.Answers["mfa"].AnsweredBoolean)
	require.NotNil(t, file.Answers["coverage"].AnsweredPercentage)
	assert.Equal(t, 80.0, *file.Answers["coverage"].AnsweredPercentage)
	assert.False(t, file.Answers["consent-records"].AnsweredBoolean)
}

func TestParseAnswerFile_Errors(t *testing.T) {
	_, err := ParseAnswerFile([]byte("answers:\n  mfa:\n    boolean: true\n    percentage: 20\n"))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = ParseAnswerFile([]byte("answers:\n  mfa:\n    percentage: high\n"))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = ParseAnswerFile([]byte("name: nothing\n"))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestParseAnswerFile_EmptyAnswers(t *testing.T) {
	file, err := ParseAnswerFile([]byte("answers: {}\n"))
	require.NoError(t, err)
	assert.NotNil(t, file.Answers)
	assert.Empty(t, file.Answers)
}

func TestWriteAnswerFile_RoundTrip(t *testing.T) {
	in := schema.AnswersFile{
		Name:     "exported",
		Excluded: []string{"audit"},
		Answers: schema.AnswerMap{
			"mfa":      schema.BoolAnswer(false),
			"coverage": schema.PercentAnswer(42.5),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAnswerFile(&buf, in))
	assert.Contains(t, buf.String(), "boolean: false")

	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	out, err := LoadAnswerFile(path)
	require.NoError(t, err)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Excluded, out.Excluded)
	assert.Equal(t, in.Answers, out.Answers)
}
