package cmd

import (
	"errors"

	"github.com/kimbotto/distaf/core"
	"github.com/kimbotto/distaf/internal/contract"
	"github.com/spf13/cobra"
)

// compareCmd diffs the scores of two answer sources.
var compareCmd = &cobra.Command{
	Use:   "compare [framework]",
	Short: "Compare scores between two assessments or answers files.",
	Long: `Score a baseline and a target against the same framework and show the deltas.

Each of --base and --target is an answers file when a file with that name exists,
and a stored assessment name otherwise. Nodes present on only one side are marked
new or removed and are not comparable.

Ideal for:
- Progress tracking between review cycles
- Checking whether remediation lifted a cap
- Regression detection before a release

Examples:
  # Compare two stored assessments
  distaf compare framework.yaml --base q2-review --target q3-review

  # Compare two answers files with metric rows
  distaf compare framework.yaml --base before.yaml --target after.yaml --detail

  # Export the comparison to CSV
  distaf compare framework.yaml --base q2-review --target q3-review --output csv --output-file delta.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: frameworkSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		checkCompareAndExecute(core.ExecuteCompare)
	},
}

// checkCompareAndExecute validates compare mode and executes the given function.
func checkCompareAndExecute(executeFunc core.ExecutorFunc) {
	if !cfg.CompareMode {
		contract.LogFatal("Cannot run comparison", errors.New("--base and --target must be provided"))
	}
	if err := executeFunc(rootCtx, cfg, cacheManager); err != nil {
		contract.LogFatal("Cannot run comparison", err)
	}
}
