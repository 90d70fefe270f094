package schema

// Custom string types for type safety.
type (
	// Track is one of the two parallel scoring dimensions.
	Track string

	// MetricKind selects how an answer maps to a score.
	MetricKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// Status represents the status of a node in a comparison.
	Status string

	// NodeLevel is the hierarchy level of a compared node.
	NodeLevel string

	// DatabaseBackend represents the database backend for storage.
	DatabaseBackend string

	// ZeroWeightPolicy decides how an explicit weight of zero is treated during aggregation.
	ZeroWeightPolicy string
)

// All tracks supported.
const (
	OperationalTrack Track = "operational"
	DesignTrack      Track = "design"
)

// All metric kinds supported.
const (
	BooleanKind    MetricKind = "boolean"
	PercentageKind MetricKind = "percentage"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	HTMLOut    OutputMode = "html"
)

// All comparison status supported.
const (
	ComparableStatus Status = "comparable" // present on both sides
	NewStatus        Status = "new"        // only in target
	RemovedStatus    Status = "removed"    // only in base
)

// All node levels supported.
const (
	OverallLevel   NodeLevel = "overall"
	PillarLevel    NodeLevel = "pillar"
	MechanismLevel NodeLevel = "mechanism"
	MetricLevel    NodeLevel = "metric"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All zero-weight policies supported.
const (
	// ZeroWeightAsDefault treats an explicit zero like an unset weight (1.0).
	ZeroWeightAsDefault ZeroWeightPolicy = "default"
	// ZeroWeightExcludes makes an explicit zero contribute nothing.
	ZeroWeightExcludes ZeroWeightPolicy = "exclude"
)

// Scoring constants.
const (
	MaxScore          = 100.0 // full compliance
	DefaultWeight     = 1.0   // weight used when none is configured
	DefaultCap        = 100.0 // cap used when none is configured; 100 never constrains
	LowScoreThreshold = 50.0  // metrics strictly below this are "low"
	PillarCeiling     = 85.0  // fixed ceiling applied to a pillar with any capping mechanism
)

// Score bands used for labels. A score below WeakScore is deficient, the
// same line that marks a metric as low.
const (
	StrongScore   = 80.0
	AdequateScore = 65.0
	WeakScore     = LowScoreThreshold
)

// AllTracks lists the tracks in display order.
var AllTracks = []Track{OperationalTrack, DesignTrack}

// ValidTracks lists all valid tracks.
var ValidTracks = map[Track]struct{}{
	OperationalTrack: {},
	DesignTrack:      {},
}

// ValidMetricKinds lists all valid metric kinds.
var ValidMetricKinds = map[MetricKind]struct{}{
	BooleanKind:    {},
	PercentageKind: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
	HTMLOut:    {},
}

// ValidDatabaseBackends lists all valid storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidZeroWeightPolicies lists all valid zero-weight policies.
var ValidZeroWeightPolicies = map[ZeroWeightPolicy]struct{}{
	ZeroWeightAsDefault: {},
	ZeroWeightExcludes:  {},
}
