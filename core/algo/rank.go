// Package algo has ranking helpers over computed results.
package algo

import (
	"sort"

	"github.com/kimbotto/distaf/schema"
)

// RankWeakestMechanisms returns the lowest scoring mechanisms on the given track in ascending
// order and keeps at most 'limit' of them. Ties keep framework order.
func RankWeakestMechanisms(result schema.OverallResult, track schema.Track, limit int) []schema.RankedMechanism {
	ranked := make([]schema.RankedMechanism, 0)
	for _, p := range result.Pillars {
		for _, m := range p.Mechanisms {
			ranked = append(ranked, schema.RankedMechanism{
				PillarID:   p.ID,
				PillarName: p.Name,
				ID:         m.ID,
				Name:       m.Name,
				Score:      m.ScoreFor(track),
				IsCapped:   m.IsCapped,
			})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})
	if limit >= 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
