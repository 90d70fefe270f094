package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/schema"
)

// Table names for assessment storage.
const (
	assessmentsTable = "distaf_assessments"
	answersTable     = "distaf_answers"
	exclusionsTable  = "distaf_exclusions"
)

// assessmentTables lists the assessment tables, children first.
var assessmentTables = []string{answersTable, exclusionsTable, assessmentsTable}

// AssessmentStoreImpl implements the AssessmentStore interface on a SQL database.
type AssessmentStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	now     func() time.Time
}

var _ contract.AssessmentStore = &AssessmentStoreImpl{} // Compile-time check

// NewAssessmentStore opens the assessment store and migrates its tables to the latest version.
func NewAssessmentStore(backend schema.DatabaseBackend, connStr string) (*AssessmentStoreImpl, error) {
	if backend == schema.NoneBackend {
		return nil, fmt.Errorf("assessment storage is disabled for %s backend", backend)
	}
	db, err := openDB(backend, connStr, contract.GetAssessmentDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("assessment store: %w", err)
	}
	if err := migrateUp(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &AssessmentStoreImpl{db: db, backend: backend, now: time.Now}, nil
}

func (as *AssessmentStoreImpl) table(name string) string {
	return quoteTableName(name, as.backend)
}

func (as *AssessmentStoreImpl) exec(query string, args ...any) (sql.Result, error) {
	return as.db.Exec(rebind(query, as.backend), args...)
}

// CreateAssessment registers a new, empty assessment.
func (as *AssessmentStoreImpl) CreateAssessment(name, framework string) (schema.Assessment, error) {
	now := as.now().UTC()
	query := fmt.Sprintf("INSERT INTO %s (name, framework, created_at, updated_at) VALUES (?, ?, ?, ?)", as.table(assessmentsTable))
	ts := formatTime(now, as.backend)

	var id int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		// pgx does not report LastInsertId
		row := as.db.QueryRow(rebind(query+" RETURNING id", as.backend), name, framework, ts, ts)
		if err := row.Scan(&id); err != nil {
			return schema.Assessment{}, fmt.Errorf("failed to insert assessment: %w", err)
		}
	default:
		res, err := as.exec(query, name, framework, ts, ts)
		if err != nil {
			return schema.Assessment{}, fmt.Errorf("failed to insert assessment: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return schema.Assessment{}, fmt.Errorf("failed to get assessment id: %w", err)
		}
	}

	return schema.Assessment{ID: id, Name: name, Framework: framework, CreatedAt: now, UpdatedAt: now}, nil
}

// GetAssessment looks up an assessment by name.
func (as *AssessmentStoreImpl) GetAssessment(name string) (schema.Assessment, error) {
	query := fmt.Sprintf("SELECT id, name, framework, created_at, updated_at FROM %s WHERE name = ?", as.table(assessmentsTable))
	var a schema.Assessment
	err := as.db.QueryRow(rebind(query, as.backend), name).
		Scan(&a.ID, &a.Name, &a.Framework, scanTime(&a.CreatedAt), scanTime(&a.UpdatedAt))
	if errors.Is(err, sql.ErrNoRows) {
		return a, contract.ErrAssessmentNotFound
	}
	if err != nil {
		return a, fmt.Errorf("failed to query assessment: %w", err)
	}
	return a, nil
}

// ListAssessments returns every assessment ordered by name.
func (as *AssessmentStoreImpl) ListAssessments() ([]schema.Assessment, error) {
	query := fmt.Sprintf("SELECT id, name, framework, created_at, updated_at FROM %s ORDER BY name", as.table(assessmentsTable))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.Assessment
	for rows.Next() {
		var a schema.Assessment
		if err := rows.Scan(&a.ID, &a.Name, &a.Framework, scanTime(&a.CreatedAt), scanTime(&a.UpdatedAt)); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessments: %w", err)
	}
	return results, nil
}

// DeleteAssessment removes an assessment together with its answers and exclusions.
func (as *AssessmentStoreImpl) DeleteAssessment(name string) error {
	a, err := as.GetAssessment(name)
	if err != nil {
		return err
	}

	tx, err := as.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{answersTable, exclusionsTable} {
		query := rebind(fmt.Sprintf("DELETE FROM %s WHERE assessment_id = ?", as.table(table)), as.backend)
		if _, err := tx.Exec(query, a.ID); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	query := rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?", as.table(assessmentsTable)), as.backend)
	if _, err := tx.Exec(query, a.ID); err != nil {
		return fmt.Errorf("failed to delete assessment: %w", err)
	}
	return tx.Commit()
}

// SetAnswer records or replaces the answer to one metric.
func (as *AssessmentStoreImpl) SetAnswer(assessmentID int64, metricID string, answer schema.Answer) error {
	var query string
	quoted := as.table(answersTable)
	switch as.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (assessment_id, metric_id, answered_boolean, answered_percentage) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE answered_boolean = new.answered_boolean, answered_percentage = new.answered_percentage`, quoted)
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (assessment_id, metric_id, answered_boolean, answered_percentage) VALUES (?, ?, ?, ?)
			ON CONFLICT (assessment_id, metric_id) DO UPDATE SET answered_boolean = EXCLUDED.answered_boolean, answered_percentage = EXCLUDED.answered_percentage`, quoted)
	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (assessment_id, metric_id, answered_boolean, answered_percentage) VALUES (?, ?, ?, ?)`, quoted)
	}

	var pct any
	if answer.AnsweredPercentage != nil {
		pct = *answer.AnsweredPercentage
	}
	if _, err := as.exec(query, assessmentID, metricID, answer.AnsweredBoolean, pct); err != nil {
		return fmt.Errorf("failed to record answer %s: %w", metricID, err)
	}
	return as.touch(assessmentID)
}

// ClearAnswer removes the answer to one metric.
func (as *AssessmentStoreImpl) ClearAnswer(assessmentID int64, metricID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE assessment_id = ? AND metric_id = ?", as.table(answersTable))
	if _, err := as.exec(query, assessmentID, metricID); err != nil {
		return fmt.Errorf("failed to clear answer %s: %w", metricID, err)
	}
	return as.touch(assessmentID)
}

// GetAnswers returns every recorded answer of an assessment.
func (as *AssessmentStoreImpl) GetAnswers(assessmentID int64) (schema.AnswerMap, error) {
	query := fmt.Sprintf("SELECT metric_id, answered_boolean, answered_percentage FROM %s WHERE assessment_id = ?", as.table(answersTable))
	rows, err := as.db.Query(rebind(query, as.backend), assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	answers := schema.AnswerMap{}
	for rows.Next() {
		var metricID string
		var answer schema.Answer
		var pct sql.NullFloat64
		if err := rows.Scan(&metricID, &answer.AnsweredBoolean, &pct); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		if pct.Valid {
			answer.AnsweredPercentage = schema.Float(pct.Float64)
		}
		answers[metricID] = answer
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answers: %w", err)
	}
	return answers, nil
}

// SetExclusion marks a mechanism as not applicable. Excluding twice is a no-op.
func (as *AssessmentStoreImpl) SetExclusion(assessmentID int64, mechanismID string) error {
	var query string
	quoted := as.table(exclusionsTable)
	switch as.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf("INSERT IGNORE INTO %s (assessment_id, mechanism_id) VALUES (?, ?)", quoted)
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf("INSERT INTO %s (assessment_id, mechanism_id) VALUES (?, ?) ON CONFLICT DO NOTHING", quoted)
	default: // SQLite
		query = fmt.Sprintf("INSERT OR IGNORE INTO %s (assessment_id, mechanism_id) VALUES (?, ?)", quoted)
	}
	if _, err := as.exec(query, assessmentID, mechanismID); err != nil {
		return fmt.Errorf("failed to exclude %s: %w", mechanismID, err)
	}
	return as.touch(assessmentID)
}

// ClearExclusion makes a previously excluded mechanism applicable again.
func (as *AssessmentStoreImpl) ClearExclusion(assessmentID int64, mechanismID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE assessment_id = ? AND mechanism_id = ?", as.table(exclusionsTable))
	if _, err := as.exec(query, assessmentID, mechanismID); err != nil {
		return fmt.Errorf("failed to include %s: %w", mechanismID, err)
	}
	return as.touch(assessmentID)
}

// GetExclusions returns the excluded mechanisms of an assessment.
func (as *AssessmentStoreImpl) GetExclusions(assessmentID int64) (schema.ExclusionSet, error) {
	query := fmt.Sprintf("SELECT mechanism_id FROM %s WHERE assessment_id = ?", as.table(exclusionsTable))
	rows, err := as.db.Query(rebind(query, as.backend), assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exclusions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	set := schema.NewExclusionSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan exclusion: %w", err)
		}
		set[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exclusions: %w", err)
	}
	return set, nil
}

// touch bumps the updated_at timestamp after a write.
func (as *AssessmentStoreImpl) touch(assessmentID int64) error {
	query := fmt.Sprintf("UPDATE %s SET updated_at = ? WHERE id = ?", as.table(assessmentsTable))
	if _, err := as.exec(query, formatTime(as.now(), as.backend), assessmentID); err != nil {
		return fmt.Errorf("failed to update assessment timestamp: %w", err)
	}
	return nil
}

// Close closes the underlying DB connection.
func (as *AssessmentStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the assessment store.
func (as *AssessmentStoreImpl) GetStatus() (schema.AssessmentStatus, error) {
	status := schema.AssessmentStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}
	if as.db == nil {
		return status, nil
	}
	status.SchemaVersion = schemaVersion(as.db, as.backend)

	for _, table := range assessmentTables {
		var count int64
		if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", as.table(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalAssessments = int(status.TableSizes[assessmentsTable])
	status.TotalAnswers = int(status.TableSizes[answersTable])

	if status.TotalAssessments == 0 {
		return status, nil
	}

	lastQuery := fmt.Sprintf("SELECT updated_at FROM %s ORDER BY updated_at DESC LIMIT 1", as.table(assessmentsTable))
	if err := as.db.QueryRow(lastQuery).Scan(scanTime(&status.LastUpdatedTime)); err != nil {
		return status, fmt.Errorf("failed to get last update time: %w", err)
	}
	oldestQuery := fmt.Sprintf("SELECT created_at FROM %s ORDER BY created_at ASC LIMIT 1", as.table(assessmentsTable))
	if err := as.db.QueryRow(oldestQuery).Scan(scanTime(&status.OldestCreatedTime)); err != nil {
		return status, fmt.Errorf("failed to get oldest creation time: %w", err)
	}
	return status, nil
}
