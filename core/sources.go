package core

import (
	"errors"
	"fmt"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/internal/framework"
	"github.com/kimbotto/distaf/schema"
)

// errStoreDisabled is returned when an assessment is requested but no assessment backend is configured.
var errStoreDisabled = errors.New("assessment storage is disabled (assessment-backend is none)")

// scoreInput is one resolved answer source: where it came from, what it answered and what it excludes.
type scoreInput struct {
	label    string
	answers  schema.AnswerMap
	excluded schema.ExclusionSet
}

// loadFramework reads the configured framework document.
func loadFramework(cfg *contract.Config) (*schema.Framework, error) {
	if err := cfg.RequireFramework(); err != nil {
		return nil, err
	}
	return framework.LoadFramework(cfg.FrameworkPath)
}

// requireAssessmentStore returns the configured assessment store or errStoreDisabled.
func requireAssessmentStore(mgr contract.CacheManager) (contract.AssessmentStore, error) {
	if mgr == nil {
		return nil, errStoreDisabled
	}
	store := mgr.GetAssessmentStore()
	if store == nil {
		return nil, errStoreDisabled
	}
	return store, nil
}

// loadInput resolves the answers and exclusions for a run from an answers file, a stored
// assessment or nothing at all. Extra exclusions from the config are merged in either way.
// Problems with the answers are reported as warnings since the engine tolerates them.
func loadInput(cfg *contract.Config, mgr contract.CacheManager, fw *schema.Framework) (scoreInput, error) {
	var in scoreInput
	var excluded []string

	switch {
	case cfg.AnswersPath != "":
		file, err := framework.LoadAnswerFile(cfg.AnswersPath)
		if err != nil {
			return in, err
		}
		in.label = cfg.AnswersPath
		in.answers = file.Answers
		excluded = append(excluded, file.Excluded...)

	case cfg.Assessment != "":
		store, err := requireAssessmentStore(mgr)
		if err != nil {
			return in, err
		}
		assessment, err := store.GetAssessment(cfg.Assessment)
		if err != nil {
			return in, fmt.Errorf("loading assessment %q: %w", cfg.Assessment, err)
		}
		if assessment.Framework != "" && assessment.Framework != fw.Name {
			contract.LogWarn("framework mismatch", fmt.Errorf("assessment %q was created for framework %q", assessment.Name, assessment.Framework))
		}
		answers, err := store.GetAnswers(assessment.ID)
		if err != nil {
			return in, fmt.Errorf("loading answers: %w", err)
		}
		stored, err := store.GetExclusions(assessment.ID)
		if err != nil {
			return in, fmt.Errorf("loading exclusions: %w", err)
		}
		in.label = assessment.Name
		in.answers = answers
		excluded = append(excluded, stored.IDs()...)

	default:
		in.label = "(no answers)"
		in.answers = schema.AnswerMap{}
	}

	excluded = append(excluded, cfg.Excludes...)
	in.excluded = schema.NewExclusionSet(excluded...)

	if err := ValidateAnswers(fw, in.answers); err != nil {
		contract.LogWarn(fmt.Sprintf("answers from %s do not fully match the framework", in.label), err)
	}
	if err := ValidateExclusions(fw, in.excluded); err != nil {
		contract.LogWarn(fmt.Sprintf("exclusions from %s do not fully match the framework", in.label), err)
	}
	return in, nil
}
