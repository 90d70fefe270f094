package schema

// MetricResult is the resolved score of one metric plus the caps carried through for display.
type MetricResult struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Code         string     `json:"code,omitempty"`
	Track        Track      `json:"track"`
	Kind         MetricKind `json:"kind"`
	Score        float64    `json:"score"`
	MechanismCap float64    `json:"mechanism_cap"`
	PillarCap    float64    `json:"pillar_cap"`
	Standards    []string   `json:"standards,omitempty"`
}

// IsLow reports whether the metric scored below the low-score threshold.
func (r MetricResult) IsLow() bool {
	return r.Score < LowScoreThreshold
}

// HasCap reports whether the metric carries any cap below 100.
func (r MetricResult) HasCap() bool {
	return r.MechanismCap < DefaultCap || r.PillarCap < DefaultCap
}

// CappingMetric is a low metric that carries a cap, annotated with the score that triggered it.
type CappingMetric struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Code         string  `json:"code,omitempty"`
	Track        Track   `json:"track"`
	Score        float64 `json:"score"`
	MechanismCap float64 `json:"mechanism_cap"`
	PillarCap    float64 `json:"pillar_cap"`
}

// TrackCap explains how the capping rule resolved for one track of a mechanism.
type TrackCap struct {
	PreCapScore      float64 `json:"pre_cap_score"`
	MechanismCeiling float64 `json:"mechanism_ceiling"`
	PillarCeiling    float64 `json:"pillar_ceiling"`
	LowMetrics       int     `json:"low_metrics"`
	Capped           bool    `json:"capped"`
}

// MechanismResult is the finalized (post-cap) score of a mechanism.
type MechanismResult struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Code             string          `json:"code,omitempty"`
	Description      string          `json:"description,omitempty"`
	OperationalScore float64         `json:"operational_score"`
	DesignScore      float64         `json:"design_score"`
	IsCapped         bool            `json:"is_capped"`
	CappingMetrics   []CappingMetric `json:"capping_metrics"`
	Operational      TrackCap        `json:"operational"`
	Design           TrackCap        `json:"design"`
	Metrics          []MetricResult  `json:"metrics"`
}

// CappingMechanism is a mechanism that triggered the pillar-level ceiling.
type CappingMechanism struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Code           string          `json:"code,omitempty"`
	CappingMetrics []CappingMetric `json:"capping_metrics"`
}

// PillarResult is the finalized score of a pillar.
type PillarResult struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Code              string             `json:"code,omitempty"`
	Icon              string             `json:"icon,omitempty"`
	OperationalScore  float64            `json:"operational_score"`
	DesignScore       float64            `json:"design_score"`
	IsCapped          bool               `json:"is_capped"`
	CappingMechanisms []CappingMechanism `json:"capping_mechanisms"`
	Mechanisms        []MechanismResult  `json:"mechanisms"`
}

// OverallResult is the complete output of one computation.
type OverallResult struct {
	OverallOperationalScore float64        `json:"overall_operational_score"`
	OverallDesignScore      float64        `json:"overall_design_score"`
	Pillars                 []PillarResult `json:"pillars"`
}

// ScoreFor returns the operational or design score of a mechanism.
func (r MechanismResult) ScoreFor(track Track) float64 {
	if track == DesignTrack {
		return r.DesignScore
	}
	return r.OperationalScore
}

// ScoreFor returns the operational or design score of a pillar.
func (r PillarResult) ScoreFor(track Track) float64 {
	if track == DesignTrack {
		return r.DesignScore
	}
	return r.OperationalScore
}

// CapFor returns the capping detail of a mechanism for the given track.
func (r MechanismResult) CapFor(track Track) TrackCap {
	if track == DesignTrack {
		return r.Design
	}
	return r.Operational
}

// CappingMetricsFor returns the capping metrics of a mechanism that belong to the given track.
func (r MechanismResult) CappingMetricsFor(track Track) []CappingMetric {
	var out []CappingMetric
	for _, c := range r.CappingMetrics {
		if c.Track == track {
			out = append(out, c)
		}
	}
	return out
}

// RankedMechanism is a mechanism placed in the context of its pillar for ranking.
type RankedMechanism struct {
	PillarID   string  `json:"pillar_id"`
	PillarName string  `json:"pillar_name"`
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	IsCapped   bool    `json:"is_capped"`
}

// ScoreReport is a computed result together with the inputs that produced it.
// It is the document written by the json output mode and returned by the MCP tools.
type ScoreReport struct {
	Framework string            `json:"framework"`
	Version   string            `json:"version,omitempty"`
	Source    string            `json:"source"`
	Excluded  []string          `json:"excluded"`
	Policy    ZeroWeightPolicy  `json:"zero_weight_policy"`
	Result    OverallResult     `json:"result"`
	Weakest   []RankedMechanism `json:"weakest_operational"`
}
