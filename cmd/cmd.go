// Package cmd defines the command-line interface for distaf.
package cmd

import (
	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(assessmentCmd)
	rootCmd.AddCommand(frameworkCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the assessment subcommands to the parent assessment command
	assessmentCmd.AddCommand(assessmentCreateCmd)
	assessmentCmd.AddCommand(assessmentListCmd)
	assessmentCmd.AddCommand(assessmentShowCmd)
	assessmentCmd.AddCommand(assessmentDeleteCmd)
	assessmentCmd.AddCommand(assessmentAnswerCmd)
	assessmentCmd.AddCommand(assessmentClearCmd)
	assessmentCmd.AddCommand(assessmentExcludeCmd)
	assessmentCmd.AddCommand(assessmentIncludeCmd)
	assessmentCmd.AddCommand(assessmentImportCmd)
	assessmentCmd.AddCommand(assessmentExportCmd)

	// Add the framework subcommands to the parent framework command
	frameworkCmd.AddCommand(frameworkValidateCmd)
	frameworkCmd.AddCommand(frameworkShowCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the db subcommands to the parent db command
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbClearCmd)
	dbCmd.AddCommand(dbExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("framework", "", "Path to the framework YAML or JSON file")
	rootCmd.PersistentFlags().Bool("detail", false, "Print metric rows under each mechanism")
	rootCmd.PersistentFlags().Bool("explain", false, "Explain which metrics capped each score")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of mechanism IDs to treat as not applicable")
	rootCmd.PersistentFlags().String("zero-weights", string(schema.ZeroWeightAsDefault), "How a zero weight is treated: default or exclude")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or html")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Result cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("assessment-backend", string(schema.SQLiteBackend), "Assessment storage backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("assessment-db-connect", "", "Database connection string for assessment storage (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of scoreCmd to Viper
	scoreCmd.Flags().String("answers", "", "Path to an answers YAML or JSON file")
	scoreCmd.Flags().String("assessment", "", "Name of a stored assessment")
	if err := viper.BindPFlags(scoreCmd.Flags()); err != nil {
		contract.LogFatal("Error binding score flags", err)
	}

	// Bind all flags of compareCmd to Viper
	compareCmd.Flags().String("base", "", "Baseline assessment name or answers file")
	compareCmd.Flags().String("target", "", "Target assessment name or answers file")
	if err := viper.BindPFlags(compareCmd.Flags()); err != nil {
		contract.LogFatal("Error binding compare flags", err)
	}

	// checkCmd binds answers and assessment itself when it runs
	checkCmd.Flags().String("answers", "", "Path to an answers YAML or JSON file")
	checkCmd.Flags().String("assessment", "", "Name of a stored assessment")
	checkCmd.Flags().String("thresholds-override", "", "Minimum scores for CI/CD gating (format: 'operational:50,design:50')")
	if err := viper.BindPFlag("thresholds-override", checkCmd.Flags().Lookup("thresholds-override")); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of assessmentImportCmd to Viper
	assessmentImportCmd.Flags().String("name", "", "Assessment to import into (defaults to the name in the file)")
	if err := viper.BindPFlags(assessmentImportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding assessment import flags", err)
	}

	// Bind all flags of dbMigrateCmd to Viper
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(dbMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding db migrate flags", err)
	}
}
