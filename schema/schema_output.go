package schema

// ResultRow is one flattened node of an OverallResult, used by CSV and Parquet output.
type ResultRow struct {
	Level            NodeLevel `json:"level"`
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	ParentID         string    `json:"parent_id"`
	Track            Track     `json:"track,omitempty"` // metrics only
	OperationalScore float64   `json:"operational_score"`
	DesignScore      float64   `json:"design_score"`
	IsCapped         bool      `json:"is_capped"`
	CappedBy         []string  `json:"capped_by,omitempty"`
}

// FlattenResult walks an OverallResult in display order and returns one row per node.
// Metric rows carry their score in the column of their own track.
func FlattenResult(result OverallResult) []ResultRow {
	rows := []ResultRow{{
		Level:            OverallLevel,
		ID:               string(OverallLevel),
		Name:             "Overall",
		OperationalScore: result.OverallOperationalScore,
		DesignScore:      result.OverallDesignScore,
	}}
	for _, p := range result.Pillars {
		var pillarBy []string
		for _, cm := range p.CappingMechanisms {
			pillarBy = append(pillarBy, cm.ID)
		}
		rows = append(rows, ResultRow{
			Level:            PillarLevel,
			ID:               p.ID,
			Code:             p.Code,
			Name:             p.Name,
			OperationalScore: p.OperationalScore,
			DesignScore:      p.DesignScore,
			IsCapped:         p.IsCapped,
			CappedBy:         pillarBy,
		})
		for _, m := range p.Mechanisms {
			var mechBy []string
			for _, cm := range m.CappingMetrics {
				mechBy = append(mechBy, cm.ID)
			}
			rows = append(rows, ResultRow{
				Level:            MechanismLevel,
				ID:               m.ID,
				Code:             m.Code,
				Name:             m.Name,
				ParentID:         p.ID,
				OperationalScore: m.OperationalScore,
				DesignScore:      m.DesignScore,
				IsCapped:         m.IsCapped,
				CappedBy:         mechBy,
			})
			for _, metric := range m.Metrics {
				row := ResultRow{
					Level:    MetricLevel,
					ID:       metric.ID,
					Code:     metric.Code,
					Name:     metric.Name,
					ParentID: m.ID,
					Track:    metric.Track,
				}
				if metric.Track == DesignTrack {
					row.DesignScore = metric.Score
				} else {
					row.OperationalScore = metric.Score
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}
