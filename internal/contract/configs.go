package contract

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/kimbotto/distaf/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	MaxNameLength    = 128
)

// ThresholdsRawInput holds minimum score definitions from the YAML config file.
type ThresholdsRawInput struct {
	Operational *float64 `mapstructure:"operational"`
	Design      *float64 `mapstructure:"design"`
}

// DateTimeFormat is the default date time representation.
const DateTimeFormat = "2006-01-02 15:04:05"

// Config holds the runtime configuration for scoring.
// This struct remains the "final, validated" config.
type Config struct {
	FrameworkPath string
	AnswersPath   string
	Assessment    string
	Excludes      []string // mechanism IDs to exclude on top of stored ones
	ZeroWeights   schema.ZeroWeightPolicy
	Detail        bool
	Explain       bool
	Precision     int
	Output        schema.OutputMode
	OutputFile    string
	Width         int // Terminal width override (0 = auto-detect)

	CompareMode bool
	BaseRef     string // assessment name or answers file
	TargetRef   string // assessment name or answers file

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AssessmentBackend   schema.DatabaseBackend
	AssessmentDBConnect string // Please use env var as this is plaintext

	// Thresholds is a mapping of [Track] = minimum score used by the check command
	Thresholds map[schema.Track]float64

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	FrameworkArg string

	// --- Fields from rootCmd.PersistentFlags() ---
	Framework           string `mapstructure:"framework"`
	OutputFile          string `mapstructure:"output-file"`
	Precision           int    `mapstructure:"precision"`
	Output              string `mapstructure:"output"`
	Width               int    `mapstructure:"width"`
	CacheBackend        string `mapstructure:"cache-backend"`
	CacheDBConnect      string `mapstructure:"cache-db-connect"`
	AssessmentBackend   string `mapstructure:"assessment-backend"`
	AssessmentDBConnect string `mapstructure:"assessment-db-connect"`
	Emoji               string `mapstructure:"emoji"`
	Color               string `mapstructure:"color"`
	ZeroWeights         string `mapstructure:"zero-weights"`

	// --- Fields from scoreCmd.Flags() ---
	Answers    string `mapstructure:"answers"`
	Assessment string `mapstructure:"assessment"`
	Exclude    string `mapstructure:"exclude"`
	Detail     bool   `mapstructure:"detail"`
	Explain    bool   `mapstructure:"explain"`

	// --- Fields from compareCmd.Flags() ---
	Base   string `mapstructure:"base"`
	Target string `mapstructure:"target"`

	// --- Fields from checkCmd.Flags() ---
	ThresholdsStr string `mapstructure:"thresholds-override"`

	// --- Fields from config file only ---
	Thresholds ThresholdsRawInput `mapstructure:"thresholds"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = slices.Clone(c.Excludes)
	}
	if c.Thresholds != nil {
		clone.Thresholds = maps.Clone(c.Thresholds)
	}
	return &clone
}

// CloneWithSource creates a copy of the Config that reads answers from a different source.
// The source is treated as a file when it exists on disk, otherwise as an assessment name.
func (c *Config) CloneWithSource(source string) *Config {
	clone := c.Clone()
	clone.AnswersPath = ""
	clone.Assessment = ""
	if IsFile(source) {
		clone.AnswersPath = source
	} else {
		clone.Assessment = source
	}
	return clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSources(cfg, input); err != nil {
		return err
	}
	if err := processCompareMode(cfg, input); err != nil {
		return err
	}
	if err := processThresholds(cfg, input); err != nil {
		return err
	}
	if err := resolveFrameworkPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if _, err := mysql.ParseDSN(connStr); err != nil {
			return fmt.Errorf("invalid MySQL connection string. expected user:password@tcp(host:port)/dbname: %w", err)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		pgCfg, err := pgx.ParseConfig(connStr)
		if err != nil {
			return fmt.Errorf("invalid PostgreSQL connection string: %w", err)
		}
		if pgCfg.Database == "" {
			return fmt.Errorf("PostgreSQL connection string must name a database (dbname=...)")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and assessment backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- Assessment Backend Validation ---
	cfg.AssessmentBackend = schema.DatabaseBackend(strings.ToLower(input.AssessmentBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.AssessmentBackend]; !ok {
		return fmt.Errorf("invalid assessment backend '%s'. must be sqlite, mysql, postgresql, none", input.AssessmentBackend)
	}
	cfg.AssessmentDBConnect = input.AssessmentDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AssessmentBackend, cfg.AssessmentDBConnect); err != nil {
		return fmt.Errorf("assessment-db-connect: %w", err)
	}

	// Cache and assessments must not share one SQLite file, since clearing the cache deletes it
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AssessmentBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		assessmentDBPath := cfg.AssessmentDBConnect
		if assessmentDBPath == "" {
			assessmentDBPath = GetAssessmentDBFilePath()
		}
		if cacheDBPath == assessmentDBPath {
			return fmt.Errorf("cache and assessment storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Explain = input.Explain
	cfg.Width = input.Width

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, html", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	if cfg.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", cfg.Width)
	}

	// --- 2. Zero Weight Policy ---
	policy := strings.ToLower(strings.TrimSpace(input.ZeroWeights))
	if policy == "" {
		policy = string(schema.ZeroWeightAsDefault)
	}
	cfg.ZeroWeights = schema.ZeroWeightPolicy(policy)
	if _, ok := schema.ValidZeroWeightPolicies[cfg.ZeroWeights]; !ok {
		return fmt.Errorf("invalid zero-weights policy '%s'. must be default, exclude", input.ZeroWeights)
	}

	// --- 3. Backend Validation ---
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}

	// --- 4. Excludes Processing ---
	cfg.Excludes = ParseList(input.Exclude)

	return nil
}

// processSources handles where answers come from for a single score run.
func processSources(cfg *Config, input *ConfigRawInput) error {
	cfg.AnswersPath = strings.TrimSpace(input.Answers)
	cfg.Assessment = strings.TrimSpace(input.Assessment)

	if cfg.AnswersPath != "" && cfg.Assessment != "" {
		return fmt.Errorf("--answers and --assessment are mutually exclusive")
	}
	if cfg.AnswersPath != "" && !IsFile(cfg.AnswersPath) {
		return fmt.Errorf("answers file %q does not exist", cfg.AnswersPath)
	}
	if len(cfg.Assessment) > MaxNameLength {
		return fmt.Errorf("assessment name cannot exceed %d characters", MaxNameLength)
	}
	return nil
}

// processCompareMode handles the comparison sources.
func processCompareMode(cfg *Config, input *ConfigRawInput) error {
	cfg.BaseRef = strings.TrimSpace(input.Base)
	cfg.TargetRef = strings.TrimSpace(input.Target)

	if cfg.BaseRef == "" && cfg.TargetRef == "" {
		cfg.CompareMode = false
		return nil
	}
	cfg.CompareMode = true

	if cfg.BaseRef == "" {
		return fmt.Errorf("must specify --base when running the compare command")
	}
	if cfg.TargetRef == "" {
		return fmt.Errorf("must specify --target when running the compare command")
	}
	return nil
}

// processThresholds converts the raw threshold input into the final cfg.Thresholds map.
// Every track defaults to the low-score threshold. The --thresholds-override flag
// takes precedence over config file settings.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	thresholds := map[schema.Track]float64{
		schema.OperationalTrack: schema.LowScoreThreshold,
		schema.DesignTrack:      schema.LowScoreThreshold,
	}

	if input.Thresholds.Operational != nil {
		thresholds[schema.OperationalTrack] = *input.Thresholds.Operational
	}
	if input.Thresholds.Design != nil {
		thresholds[schema.DesignTrack] = *input.Thresholds.Design
	}

	if input.ThresholdsStr != "" {
		parsed, err := parseThresholdsString(input.ThresholdsStr)
		if err != nil {
			return fmt.Errorf("invalid --thresholds-override format: %w", err)
		}
		maps.Copy(thresholds, parsed)
	}

	for track, threshold := range thresholds {
		if threshold < 0.0 || threshold > 100.0 {
			return fmt.Errorf("threshold for track %s must be between 0.0 and 100.0 (received %.2f)", track, threshold)
		}
	}

	cfg.Thresholds = thresholds
	return nil
}

// parseThresholdsString parses "operational:60,design:40" into a threshold map.
func parseThresholdsString(s string) (map[schema.Track]float64, error) {
	thresholds := make(map[schema.Track]float64)
	for _, part := range ParseList(s) {
		keyValue := strings.Split(part, ":")
		if len(keyValue) != 2 {
			return nil, fmt.Errorf("invalid threshold format '%s', expected 'track:value'", part)
		}
		track, err := schema.ParseTrack(keyValue[0])
		if err != nil {
			return nil, err
		}
		valueStr := strings.TrimSpace(keyValue[1])
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold value '%s' for track %s: %w", valueStr, track, err)
		}
		thresholds[track] = value
	}
	return thresholds, nil
}

// resolveFrameworkPath resolves the framework document, preferring the positional argument.
func resolveFrameworkPath(cfg *Config, input *ConfigRawInput) error {
	path := strings.TrimSpace(input.FrameworkArg)
	if path == "" {
		path = strings.TrimSpace(input.Framework)
	}
	if path == "" {
		cfg.FrameworkPath = ""
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("framework %q is not readable: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("framework %q is a directory, expected a YAML or JSON file", path)
	}
	cfg.FrameworkPath = filepath.Clean(absPath)
	return nil
}

// RequireFramework returns an error when no framework document was configured.
func (c *Config) RequireFramework() error {
	if c.FrameworkPath == "" {
		return fmt.Errorf("a framework file is required. pass it as an argument or set 'framework' in .distaf.yaml")
	}
	return nil
}

// ParseList splits a comma separated list, trimming blanks and dropping empty entries.
func ParseList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// IsFile reports whether path names an existing regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
