package cmd

import (
	"github.com/kimbotto/distaf/core"
	"github.com/kimbotto/distaf/internal/contract"
	"github.com/spf13/cobra"
)

// scoreCmd computes the scores of one answer source.
var scoreCmd = &cobra.Command{
	Use:   "score [framework]",
	Short: "Score an assessment or answers file against a framework.",
	Long: `Compute operational and design scores for every pillar, mechanism and metric.

Answers come from a stored assessment (--assessment) or an answers file (--answers).
Without either, every metric counts as unanswered. Mechanisms listed in --exclude
are treated as not applicable on top of the exclusions stored with the answers.

Scores are weighted averages on a 0-100 scale. A failing boolean metric with a cap
limits its mechanism, and a pillar never scores above its lowest capped mechanism.

Examples:
  # Score a stored assessment
  distaf score framework.yaml --assessment q3-review

  # Score an answers file with metric rows and capping explanations
  distaf score framework.yaml --answers answers.yaml --detail --explain

  # Treat logging as not applicable
  distaf score framework.yaml --assessment q3-review --exclude logging

  # Export the report as HTML
  distaf score framework.yaml --assessment q3-review --output html --output-file report.html`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: frameworkSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScore(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute scores", err)
		}
	},
}
