package iocache

import (
	"errors"
	"fmt"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/internal/parquet"
)

// ExportAssessments writes every stored assessment and answer to two Parquet files
// next to outputFile.
func ExportAssessments(store contract.AssessmentStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("assessment storage is disabled (assessment-backend is none)")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get assessment status: %w", err)
	}
	if status.TotalAssessments == 0 {
		return errors.New("no assessments found to export")
	}
	fmt.Printf("Exporting data from %s backend...\n", status.Backend)

	list, err := store.ListAssessments()
	if err != nil {
		return fmt.Errorf("failed to retrieve assessments: %w", err)
	}

	assessmentRows := make([]parquet.AssessmentRow, 0, len(list))
	var answerRows []parquet.AnswerRow
	for _, a := range list {
		excluded, err := store.GetExclusions(a.ID)
		if err != nil {
			return fmt.Errorf("failed to retrieve exclusions of %q: %w", a.Name, err)
		}
		answers, err := store.GetAnswers(a.ID)
		if err != nil {
			return fmt.Errorf("failed to retrieve answers of %q: %w", a.Name, err)
		}
		assessmentRows = append(assessmentRows, parquet.ConvertAssessment(a, excluded.IDs()))
		answerRows = append(answerRows, parquet.ConvertAnswers(a.ID, answers)...)
	}

	assessmentsFile := outputFile + ".assessments.parquet"
	if err := parquet.WriteAssessmentRowsParquet(assessmentRows, assessmentsFile); err != nil {
		return fmt.Errorf("failed to write assessments: %w", err)
	}
	fmt.Printf("Exported %d assessments to: %s\n", len(assessmentRows), assessmentsFile)

	answersFile := outputFile + ".answers.parquet"
	if err := parquet.WriteAnswerRowsParquet(answerRows, answersFile); err != nil {
		return fmt.Errorf("failed to write answers: %w", err)
	}
	fmt.Printf("Exported %d answers to: %s\n", len(answerRows), answersFile)

	return nil
}
