package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Float returns a pointer to v. It is a convenience for optional weights, caps and percentages.
func Float(v float64) *float64 {
	return &v
}

// BoolAnswer builds an answer for a boolean metric.
func BoolAnswer(v bool) Answer {
	return Answer{AnsweredBoolean: v}
}

// PercentAnswer builds an answer for a percentage metric.
func PercentAnswer(v float64) Answer {
	return Answer{AnsweredPercentage: Float(v)}
}

// sortedKeys returns the keys of a string-keyed map in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseTrack converts user input into a Track.
func ParseTrack(s string) (Track, error) {
	t := Track(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ValidTracks[t]; !ok {
		return "", fmt.Errorf("invalid track '%s'. must be operational or design", s)
	}
	return t, nil
}

// FormatCappingMetric renders a capping metric as "name (nn%)" for explanations.
func FormatCappingMetric(c CappingMetric) string {
	name := c.Name
	if name == "" {
		name = c.ID
	}
	return fmt.Sprintf("%s (%.0f%%)", name, c.Score)
}
