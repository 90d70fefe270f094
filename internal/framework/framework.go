// Package framework loads framework definitions and answer files from YAML or JSON documents.
package framework

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kimbotto/distaf/schema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is wrapped by every schema or structural validation failure.
var ErrInvalidDocument = errors.New("invalid document")

// LoadFramework reads, validates and decodes a framework file.
// JSON is accepted as well since it is a subset of YAML.
func LoadFramework(path string) (*schema.Framework, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading framework file: %w", err)
	}
	fw, err := ParseFramework(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fw, nil
}

// ParseFramework validates raw framework bytes and decodes them.
func ParseFramework(data []byte) (*schema.Framework, error) {
	if errs := ValidateFrameworkBytes(data); len(errs) > 0 {
		return nil, invalid(errs)
	}

	var fw schema.Framework
	if err := yaml.Unmarshal(data, &fw); err != nil {
		return nil, fmt.Errorf("decoding framework: %w", err)
	}
	if errs := CheckFramework(&fw); len(errs) > 0 {
		return nil, invalid(errs)
	}
	return &fw, nil
}

// CheckFramework runs the structural checks a JSON Schema cannot express.
// IDs must be unique per level and metric IDs unique across the framework.
func CheckFramework(fw *schema.Framework) []string {
	var errs []string
	pillarIDs := make(map[string]struct{}, len(fw.Pillars))
	mechanismIDs := make(map[string]string)
	metricIDs := make(map[string]string)

	for _, p := range fw.Pillars {
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("pillar %q: missing id", p.Name))
		}
		if _, dup := pillarIDs[p.ID]; dup {
			errs = append(errs, fmt.Sprintf("pillar %q: duplicate id", p.ID))
		}
		pillarIDs[p.ID] = struct{}{}

		for _, m := range p.Mechanisms {
			if owner, dup := mechanismIDs[m.ID]; dup {
				errs = append(errs, fmt.Sprintf("mechanism %q: duplicate id (also in pillar %q)", m.ID, owner))
			}
			mechanismIDs[m.ID] = p.ID
			errs = append(errs, checkWeight("mechanism "+m.ID+" operational_weight", m.OperationalWeight)...)
			errs = append(errs, checkWeight("mechanism "+m.ID+" design_weight", m.DesignWeight)...)

			for _, metric := range m.Metrics {
				if owner, dup := metricIDs[metric.ID]; dup {
					errs = append(errs, fmt.Sprintf("metric %q: duplicate id (also in mechanism %q)", metric.ID, owner))
				}
				metricIDs[metric.ID] = m.ID
				errs = append(errs, checkMetric(metric)...)
			}
		}
	}
	return errs
}

func checkMetric(metric schema.Metric) []string {
	var errs []string
	if _, ok := schema.ValidTracks[metric.Track]; !ok {
		errs = append(errs, fmt.Sprintf("metric %q: unknown track %q", metric.ID, metric.Track))
	}
	if _, ok := schema.ValidMetricKinds[metric.Kind]; !ok {
		errs = append(errs, fmt.Sprintf("metric %q: unknown kind %q", metric.ID, metric.Kind))
	}
	errs = append(errs, checkWeight("metric "+metric.ID+" weight", metric.Weight)...)
	errs = append(errs, checkCap("metric "+metric.ID+" mechanism_cap", metric.MechanismCap)...)
	errs = append(errs, checkCap("metric "+metric.ID+" pillar_cap", metric.PillarCap)...)
	return errs
}

func checkWeight(field string, w *float64) []string {
	if w != nil && *w < 0 {
		return []string{fmt.Sprintf("%s: must not be negative (got %g)", field, *w)}
	}
	return nil
}

func checkCap(field string, c *float64) []string {
	if c != nil && (*c < 0 || *c > schema.MaxScore) {
		return []string{fmt.Sprintf("%s: must be between 0 and 100 (got %g)", field, *c)}
	}
	return nil
}

// LoadAnswerFile reads, validates and decodes an answers file.
func LoadAnswerFile(path string) (*schema.AnswersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers file: %w", err)
	}
	file, err := ParseAnswerFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// ParseAnswerFile validates raw answer bytes and decodes them.
// Metric IDs are not checked against a framework here, see core.ValidateAnswers.
func ParseAnswerFile(data []byte) (*schema.AnswersFile, error) {
	if errs := ValidateAnswersBytes(data); len(errs) > 0 {
		return nil, invalid(errs)
	}
	var file schema.AnswersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding answers: %w", err)
	}
	if file.Answers == nil {
		file.Answers = schema.AnswerMap{}
	}
	return &file, nil
}

// WriteAnswerFile encodes an answers document as YAML.
func WriteAnswerFile(w io.Writer, file schema.AnswersFile) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(answersDocument(file)); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// answerEntry keeps only the field meaningful for the answer, so the file round-trips through the schema.
type answerEntry struct {
	Boolean    *bool    `yaml:"boolean,omitempty"`
	Percentage *float64 `yaml:"percentage,omitempty"`
}

type answersDoc struct {
	Name     string                 `yaml:"name,omitempty"`
	Excluded []string               `yaml:"excluded,omitempty"`
	Answers  map[string]answerEntry `yaml:"answers"`
}

func answersDocument(file schema.AnswersFile) answersDoc {
	doc := answersDoc{
		Name:     file.Name,
		Excluded: file.Excluded,
		Answers:  make(map[string]answerEntry, len(file.Answers)),
	}
	for id, a := range file.Answers {
		if a.AnsweredPercentage != nil {
			p := *a.AnsweredPercentage
			doc.Answers[id] = answerEntry{Percentage: &p}
			continue
		}
		b := a.AnsweredBoolean
		doc.Answers[id] = answerEntry{Boolean: &b}
	}
	return doc
}

func invalid(errs []string) error {
	return fmt.Errorf("%w:\n  %s", ErrInvalidDocument, strings.Join(errs, "\n  "))
}
