// Package agg has weighted aggregation logic for combining child scores into a parent score.
package agg

import "github.com/kimbotto/distaf/schema"

// Weighted is one child of an aggregation: its score and its configured weight.
// A nil Weight means the weight was never configured.
type Weighted struct {
	Score  float64
	Weight *float64
}

// ResolveWeight turns a configured weight into the effective weight used for aggregation.
// Under ZeroWeightAsDefault, both a missing weight and an explicit zero fall back to 1.0.
// Under ZeroWeightExcludes, only a missing weight falls back; an explicit zero stays zero.
func ResolveWeight(weight *float64, policy schema.ZeroWeightPolicy) float64 {
	if weight == nil {
		return schema.DefaultWeight
	}
	if *weight == 0 && policy != schema.ZeroWeightExcludes {
		return schema.DefaultWeight
	}
	return *weight
}

// ResolveCap turns a configured cap into the effective ceiling. A missing cap never constrains.
func ResolveCap(limit *float64) float64 {
	if limit == nil {
		return schema.DefaultCap
	}
	return *limit
}

// WeightedMean returns Σ(score·weight)/Σweight over the children, or 0 when the total weight is 0.
func WeightedMean(children []Weighted, policy schema.ZeroWeightPolicy) float64 {
	var total, sum float64
	for _, c := range children {
		w := ResolveWeight(c.Weight, policy)
		total += w
		sum += c.Score * w
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

// Mean returns the arithmetic mean of the values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
