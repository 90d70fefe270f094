package schema

// ComparisonDetail holds the base info, target info, and their associated deltas for one node.
// Delta fields are nil when the node exists on only one side.
type ComparisonDetail struct {
	Level             NodeLevel `json:"level"`                       // overall, pillar, mechanism or metric
	ID                string    `json:"id"`                          // Node ID shared by both sides
	Name              string    `json:"name"`                        // Display name, taken from the target when present
	ParentID          string    `json:"parent_id,omitempty"`         // Enclosing pillar or mechanism
	Track             Track     `json:"track,omitempty"`             // Metrics only; deltas are set for this track alone
	Status            Status    `json:"status"`                      // comparable, new or removed
	Comparable        bool      `json:"comparable"`                  // false when the node exists on one side only
	BeforeOperational float64   `json:"before_operational"`          // Operational score from the base
	AfterOperational  float64   `json:"after_operational"`           // Operational score from the target
	BeforeDesign      float64   `json:"before_design"`               // Design score from the base
	AfterDesign       float64   `json:"after_design"`                // Design score from the target
	DeltaOperational  *float64  `json:"delta_operational,omitempty"` // After - Before (positive means improvement)
	DeltaDesign       *float64  `json:"delta_design,omitempty"`      // After - Before (positive means improvement)
	BeforeCapped      bool      `json:"before_capped"`               // Capping flag in the base
	AfterCapped       bool      `json:"after_capped"`                // Capping flag in the target
}

// ComparisonSummary has high-level deltas and counts.
type ComparisonSummary struct {
	// 1. Overall Deltas
	OverallOperationalDelta float64 `json:"overall_operational_delta"`
	OverallDesignDelta      float64 `json:"overall_design_delta"`

	// 2. Node Status Counts
	TotalComparable int `json:"total_comparable"`
	TotalNew        int `json:"total_new"`
	TotalRemoved    int `json:"total_removed"`

	// 3. Direction Counts (comparable nodes only)
	TotalImproved  int `json:"total_improved"`
	TotalRegressed int `json:"total_regressed"`

	// 4. Capping Changes
	TotalNewlyCapped    int `json:"total_newly_capped"`
	TotalNoLongerCapped int `json:"total_no_longer_capped"`
}

// ComparisonResult holds the comparison details and summary.
type ComparisonResult struct {
	BaseLabel   string             `json:"base_label"`
	TargetLabel string             `json:"target_label"`
	Details     []ComparisonDetail `json:"details"`
	Summary     ComparisonSummary  `json:"summary"`
}
