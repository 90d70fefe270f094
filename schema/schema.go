// Package schema has the framework, answer and result models shared by all parts of distaf.
package schema

// Framework is the full evaluation hierarchy: pillars contain mechanisms, which contain metrics.
// Ordering at every level is preserved from the source document.
type Framework struct {
	Name    string   `json:"name" yaml:"name"`
	Version string   `json:"version,omitempty" yaml:"version,omitempty"`
	Pillars []Pillar `json:"pillars" yaml:"pillars"`
}

// Pillar is the top-level grouping of the framework.
type Pillar struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Code       string      `json:"code,omitempty" yaml:"code,omitempty"`
	Icon       string      `json:"icon,omitempty" yaml:"icon,omitempty"`
	Mechanisms []Mechanism `json:"mechanisms" yaml:"mechanisms"`
}

// Mechanism groups related metrics within a pillar.
// The two weights are used when aggregating this mechanism into its pillar.
type Mechanism struct {
	ID                string   `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	Code              string   `json:"code,omitempty" yaml:"code,omitempty"`
	Description       string   `json:"description,omitempty" yaml:"description,omitempty"`
	OperationalWeight *float64 `json:"operational_weight,omitempty" yaml:"operational_weight,omitempty"` // nil = not configured
	DesignWeight      *float64 `json:"design_weight,omitempty" yaml:"design_weight,omitempty"`           // nil = not configured
	Metrics           []Metric `json:"metrics" yaml:"metrics"`
}

// Metric is a single leaf evaluation question.
type Metric struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Code         string     `json:"code,omitempty" yaml:"code,omitempty"`
	Description  string     `json:"description,omitempty" yaml:"description,omitempty"`
	Track        Track      `json:"track" yaml:"track"`
	Kind         MetricKind `json:"kind" yaml:"kind"`
	Weight       *float64   `json:"weight,omitempty" yaml:"weight,omitempty"`               // nil = not configured
	MechanismCap *float64   `json:"mechanism_cap,omitempty" yaml:"mechanism_cap,omitempty"` // ceiling on the mechanism when this metric is low
	PillarCap    *float64   `json:"pillar_cap,omitempty" yaml:"pillar_cap,omitempty"`       // ceiling on the pillar when this metric is low
	Standards    []string   `json:"standards,omitempty" yaml:"standards,omitempty"`
}

// Answer is the stored response to one metric.
// Only one of the two fields is meaningful, selected by the metric's Kind.
type Answer struct {
	AnsweredBoolean    bool     `json:"answered_boolean" yaml:"boolean"`
	AnsweredPercentage *float64 `json:"answered_percentage,omitempty" yaml:"percentage,omitempty"`
}

// AnswerMap maps a metric ID to its answer. A metric without an entry is unanswered.
type AnswerMap map[string]Answer

// IDs returns the answered metric IDs in sorted order.
func (m AnswerMap) IDs() []string {
	return sortedKeys(m)
}

// ExclusionSet is a set of mechanism IDs to omit from a computation.
type ExclusionSet map[string]struct{}

// NewExclusionSet builds an ExclusionSet from a list of mechanism IDs, ignoring blanks.
func NewExclusionSet(ids ...string) ExclusionSet {
	set := make(ExclusionSet, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether the mechanism ID is excluded. A nil set excludes nothing.
func (s ExclusionSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the excluded mechanism IDs in sorted order.
func (s ExclusionSet) IDs() []string {
	return sortedKeys(s)
}

// AnswersFile is the on-disk representation of an assessment's answers.
type AnswersFile struct {
	Name     string    `json:"name" yaml:"name"`
	Excluded []string  `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	Answers  AnswerMap `json:"answers" yaml:"answers"`
}

// MetricCount returns the total number of metrics in the framework.
func (f *Framework) MetricCount() int {
	n := 0
	for _, p := range f.Pillars {
		for _, m := range p.Mechanisms {
			n += len(m.Metrics)
		}
	}
	return n
}

// FindMetric looks up a metric by ID across the whole framework.
func (f *Framework) FindMetric(id string) (Metric, bool) {
	for _, p := range f.Pillars {
		for _, m := range p.Mechanisms {
			for _, metric := range m.Metrics {
				if metric.ID == id {
					return metric, true
				}
			}
		}
	}
	return Metric{}, false
}

// FindMechanism looks up a mechanism by ID across the whole framework.
func (f *Framework) FindMechanism(id string) (Mechanism, bool) {
	for _, p := range f.Pillars {
		for _, m := range p.Mechanisms {
			if m.ID == id {
				return m, true
			}
		}
	}
	return Mechanism{}, false
}
