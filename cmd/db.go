package cmd

import (
	"fmt"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/internal/iocache"
	"github.com/kimbotto/distaf/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadAssessmentBackend reads and validates the assessment backend settings.
func loadAssessmentBackend() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backendStr := viper.GetString("assessment-backend")
	connStr := viper.GetString("assessment-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid assessment backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// dbSetup loads minimal configuration needed for assessment store operations.
func dbSetup() error {
	backend, connStr, err := loadAssessmentBackend()
	if err != nil {
		return err
	}

	// Result caching is not needed for db commands
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize assessment store: %w", err)
	}

	cfg.AssessmentBackend = backend
	cfg.AssessmentDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// dbSetupWrapper wraps dbSetup to provide PreRunE for db commands.
func dbSetupWrapper(_ *cobra.Command, _ []string) error {
	return dbSetup()
}

// dbMigrateSetup loads the backend without opening the store, so migrations
// run against the schema exactly as it is.
func dbMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := loadAssessmentBackend()
	if err != nil {
		return err
	}
	cfg.AssessmentBackend = backend
	cfg.AssessmentDBConnect = connStr
	return nil
}

// dbCmd focused on assessment storage management.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the assessment database",
	Long: `Manage the database that stores assessments, answers and exclusions.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show assessment store statistics
  migrate - Move the schema to a specific version
  clear   - Remove every stored assessment
  export  - Write assessments and answers to Parquet files

Examples:
  # Check the assessment store
  distaf db status

  # Use PostgreSQL (set connection string via env variable)
  DISTAF_ASSESSMENT_BACKEND=postgresql DISTAF_ASSESSMENT_DB_CONNECT="..." distaf db status`,
}

// dbStatusCmd shows assessment store status.
var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display assessment store statistics and connection details",
	Long: `Show detailed information about the assessment store.

Displays:
- Backend type and connection status
- Applied schema version
- Number of assessments and answers
- Last update and oldest creation timestamps
- Row counts per table`,
	PreRunE: dbSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetAssessmentStore()
		if store == nil {
			iocache.PrintAssessmentStatus(schema.AssessmentStatus{Backend: string(cfg.AssessmentBackend)})
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get assessment store status", err)
		}
		iocache.PrintAssessmentStatus(status)
	},
}

// dbMigrateCmd runs schema migrations.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the assessment schema to a specific version",
	Long: `Apply or roll back assessment schema migrations.

The store migrates to the latest version whenever it is opened, so this is mainly
useful for rolling back or inspecting older schema versions.

Examples:
  # Migrate to the latest version
  distaf db migrate

  # Roll back every migration (drops the assessment tables)
  distaf db migrate --target-version 0`,
	PreRunE: dbMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := iocache.MigrateAssessments(cfg.AssessmentBackend, cfg.AssessmentDBConnect, target); err != nil {
			contract.LogFatal("Failed to migrate assessment store", err)
		}
	},
}

// dbClearCmd removes every stored assessment.
var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stored assessment",
	Long: `Delete all assessments, answers and exclusions from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the assessment tables`,
	PreRunE: dbMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		path := resolveSQLitePath(cfg.AssessmentDBConnect, contract.GetAssessmentDBFilePath())
		if err := iocache.ClearAssessments(cfg.AssessmentBackend, path, cfg.AssessmentDBConnect); err != nil {
			contract.LogFatal("Failed to clear assessments", err)
		}
		fmt.Println("Assessments cleared successfully.")
	},
}

// dbExportCmd exports assessments to Parquet.
var dbExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export assessments and answers to Parquet files",
	Long: `Write every stored assessment and answer to Parquet files.

Two files are written next to --output-file:
  <output-file>.assessments.parquet
  <output-file>.answers.parquet

The files can be read with DuckDB, Pandas (via pyarrow), Apache Spark or any other
Parquet-compatible tool.

Examples:
  distaf db export --output-file trust`,
	PreRunE: dbSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportAssessments(iocache.Manager.GetAssessmentStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export assessments", err)
		}
	},
}
