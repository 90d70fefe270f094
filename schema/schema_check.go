package schema

// CheckResult holds the results of a threshold check.
type CheckResult struct {
	Passed     bool              `json:"passed"`
	Source     string            `json:"source"`
	Framework  string            `json:"framework"`
	Thresholds map[Track]float64 `json:"thresholds"`
	Tracks     []Track           `json:"tracks"` // tracks the framework scores, in display order
	Overall    map[Track]float64 `json:"overall"`
	Checked    int               `json:"checked"` // number of scores compared against a threshold
	Violations []CheckViolation  `json:"violations"`
}

// CheckViolation is a score that fell below the threshold of its track.
type CheckViolation struct {
	Level     NodeLevel `json:"level"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Track     Track     `json:"track"`
	Score     float64   `json:"score"`
	Threshold float64   `json:"threshold"`
}
