package cmd

import (
	"github.com/kimbotto/distaf/core"
	"github.com/kimbotto/distaf/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// checkSetup points the shared answer flags at checkCmd before running shared setup.
// scoreCmd binds the same keys in init, so the running command rebinds them here.
func checkSetup(cmd *cobra.Command, args []string) error {
	for _, name := range []string{"answers", "assessment"} {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return sharedSetup(rootCtx, args)
}

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [framework]",
	Short: "Enforce minimum scores for CI/CD pipelines (fails build on violations)",
	Long: `Score an assessment or answers file and enforce minimum scores per track.

The overall score and every pillar score are compared against the threshold of
their track. Tracks without any metrics in the framework are skipped. The command
exits with a non-zero status when any score falls below its threshold.

Default thresholds: 50.0 for both tracks (operational, design)
Thresholds can also be set in .distaf.yaml:

  thresholds:
    operational: 70
    design: 50

Examples:
  # Gate a release on a stored assessment
  distaf check framework.yaml --assessment release-1.4

  # Custom thresholds per track
  distaf check framework.yaml --answers answers.yaml --thresholds-override "operational:70,design:40"

  # Machine readable result
  distaf check framework.yaml --assessment release-1.4 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: checkSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCheck(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Threshold check failed", err)
		}
	},
}
