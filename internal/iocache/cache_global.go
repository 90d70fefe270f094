package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/schema"
)

// resultTable is the name of the table for result caching.
const resultTable = "distaf_result_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with the result cache and the assessment store.
// An empty or none assessment backend leaves assessment storage disabled.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, assessmentBackend schema.DatabaseBackend, assessmentConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var results contract.CacheStore
		if cacheBackend != "" {
			store, err := NewResultStore(resultTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize result caching: %w", err)
				return
			}
			results = store
		}

		var assessments contract.AssessmentStore
		if assessmentBackend != "" && assessmentBackend != schema.NoneBackend {
			store, err := NewAssessmentStore(assessmentBackend, assessmentConnStr)
			if err != nil {
				if results != nil {
					_ = results.Close()
				}
				initErr = fmt.Errorf("failed to initialize assessment store: %w", err)
				return
			}
			assessments = store
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.results = results
		Manager.assessments = assessments
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.results != nil {
			_ = Manager.results.Close()
		}
		if Manager.assessments != nil {
			_ = Manager.assessments.Close()
		}
	})
}

// ClearCache clears the result cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, []string{resultTable})
}

// ClearAssessments removes every stored assessment for the specified backend.
// The migration bookkeeping is dropped too so the next run recreates the tables.
func ClearAssessments(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, append(assessmentTables, migrationsTable))
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables []string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driver, _ := driverName(backend)
		for _, table := range tables {
			if err := clearSQLTable(driver, connStr, quoteTableName(table, backend)); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
