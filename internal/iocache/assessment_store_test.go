package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssessmentStore(t *testing.T) *AssessmentStoreImpl {
	t.Helper()
	store, err := NewAssessmentStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "assessments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAssessmentStore_NoneBackend(t *testing.T) {
	_, err := NewAssessmentStore(schema.NoneBackend, "")
	assert.Error(t, err)
}

func TestAssessmentStore_Lifecycle(t *testing.T) {
	store := newTestAssessmentStore(t)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return created }

	a, err := store.CreateAssessment("q3", "Trust Framework")
	require.NoError(t, err)
	assert.Positive(t, a.ID)

	_, err = store.CreateAssessment("q3", "Trust Framework")
	assert.Error(t, err, "names are unique")

	got, err := store.GetAssessment("q3")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "Trust Framework", got.Framework)
	assert.True(t, created.Equal(got.CreatedAt))

	_, err = store.GetAssessment("missing")
	assert.ErrorIs(t, err, contract.ErrAssessmentNotFound)

	_, err = store.CreateAssessment("a-first", "")
	require.NoError(t, err)
	list, err := store.ListAssessments()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a-first", list[0].Name)
	assert.Equal(t, "q3", list[1].Name)
}

func TestAssessmentStore_Answers(t *testing.T) {
	store := newTestAssessmentStore(t)
	a, err := store.CreateAssessment("q3", "")
	require.NoError(t, err)

	updated := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return updated }

	require.NoError(t, store.SetAnswer(a.ID, "mfa", schema.BoolAnswer(true)))
	require.NoError(t, store.SetAnswer(a.ID, "coverage", schema.PercentAnswer(40)))
	require.NoError(t, store.SetAnswer(a.ID, "coverage", schema.PercentAnswer(72.5)))
	require.NoError(t, store.SetAnswer(a.ID, "backup", schema.BoolAnswer(false)))

	answers, err := store.GetAnswers(a.ID)
	require.NoError(t, err)
	require.Len(t, answers, 3)
	assert.True(t, answers["mfa"].AnsweredBoolean)
	assert.Nil(t, answers["mfa"].AnsweredPercentage)
	assert.False(t, answers["backup"].AnsweredBoolean)
	require.NotNil(t, answers["coverage"].AnsweredPercentage)
	assert.Equal(t, 72.5, *answers["coverage"].AnsweredPercentage)

	require.NoError(t, store.ClearAnswer(a.ID, "mfa"))
	answers, err = store.GetAnswers(a.ID)
	require.NoError(t, err)
	assert.NotContains(t, answers, "mfa")

	got, err := store.GetAssessment("q3")
	require.NoError(t, err)
	assert.True(t, updated.Equal(got.UpdatedAt), "writes touch updated_at")
}

func TestAssessmentStore_Exclusions(t *testing.T) {
	store := newTestAssessmentStore(t)
	a, err := store.CreateAssessment("q3", "")
	require.NoError(t, err)

	require.NoError(t, store.SetExclusion(a.ID, "logging"))
	require.NoError(t, store.SetExclusion(a.ID, "logging"), "excluding twice is a no-op")
	require.NoError(t, store.SetExclusion(a.ID, "backup"))

	excluded, err := store.GetExclusions(a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"backup", "logging"}, excluded.IDs())

	require.NoError(t, store.ClearExclusion(a.ID, "backup"))
	excluded, err = store.GetExclusions(a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"logging"}, excluded.IDs())
}

func TestAssessmentStore_Delete(t *testing.T) {
	store := newTestAssessmentStore(t)
	a, err := store.CreateAssessment("q3", "")
	require.NoError(t, err)
	require.NoError(t, store.SetAnswer(a.ID, "mfa", schema.BoolAnswer(true)))
	require.NoError(t, store.SetExclusion(a.ID, "logging"))

	require.NoError(t, store.DeleteAssessment("q3"))

	_, err = store.GetAssessment("q3")
	assert.ErrorIs(t, err, contract.ErrAssessmentNotFound)
	answers, err := store.GetAnswers(a.ID)
	require.NoError(t, err)
	assert.Empty(t, answers, "answers are removed with the assessment")
	excluded, err := store.GetExclusions(a.ID)
	require.NoError(t, err)
	assert.Empty(t, excluded)

	assert.ErrorIs(t, store.DeleteAssessment("q3"), contract.ErrAssessmentNotFound)
}

func TestAssessmentStore_Status(t *testing.T) {
	store := newTestAssessmentStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, uint(3), status.SchemaVersion)
	assert.Equal(t, 0, status.TotalAssessments)
	assert.True(t, status.LastUpdatedTime.IsZero())

	store.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	a, err := store.CreateAssessment("old", "")
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	_, err = store.CreateAssessment("new", "")
	require.NoError(t, err)
	require.NoError(t, store.SetAnswer(a.ID, "mfa", schema.BoolAnswer(true)))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalAssessments)
	assert.Equal(t, 1, status.TotalAnswers)
	assert.Equal(t, int64(0), status.TableSizes[exclusionsTable])
	assert.Equal(t, 2026, status.OldestCreatedTime.Year())
	assert.Equal(t, time.January, status.OldestCreatedTime.Month())
	assert.Equal(t, time.June, status.LastUpdatedTime.Month())
}

func TestMigrateAssessments_NoneBackend(t *testing.T) {
	err := MigrateAssessments(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")
}

func TestMigrateAssessments_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, MigrateAssessments(schema.SQLiteBackend, dbPath, -1))
	// Already at the latest version
	require.NoError(t, MigrateAssessments(schema.SQLiteBackend, dbPath, -1))
	require.NoError(t, MigrateAssessments(schema.SQLiteBackend, dbPath, 1))
	require.NoError(t, MigrateAssessments(schema.SQLiteBackend, dbPath, 0))

	// A store opened afterwards brings the schema back to the latest version
	store, err := NewAssessmentStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, uint(3), status.SchemaVersion)
}

func TestClearAssessments(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "assessments.db")
	store, err := NewAssessmentStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.CreateAssessment("q3", "")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearAssessments(schema.SQLiteBackend, dbPath, ""))

	store, err = NewAssessmentStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	list, err := store.ListAssessments()
	require.NoError(t, err)
	assert.Empty(t, list)
}
