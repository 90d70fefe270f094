package cmd

import (
	"github.com/kimbotto/distaf/core"
	"github.com/kimbotto/distaf/internal/contract"
	"github.com/spf13/cobra"
)

// frameworkCmd groups framework inspection commands.
var frameworkCmd = &cobra.Command{
	Use:   "framework",
	Short: "Inspect and validate framework documents",
	Long: `Inspect framework documents before scoring against them.

Subcommands:
  validate - Check a framework against the document schema and structural rules
  show     - Print the hierarchy with weights and caps`,
}

// frameworkValidateCmd validates a framework document.
var frameworkValidateCmd = &cobra.Command{
	Use:   "validate [framework]",
	Short: "Check a framework for schema and structural errors",
	Long: `Validate a framework document.

Checks the document against the framework JSON schema, then verifies that IDs are
unique, weights are non-negative and caps lie between 0 and 100.

Examples:
  distaf framework validate framework.yaml`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: frameworkSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFrameworkValidate(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Invalid framework", err)
		}
	},
}

// frameworkShowCmd prints the framework hierarchy.
var frameworkShowCmd = &cobra.Command{
	Use:   "show [framework]",
	Short: "Print the framework hierarchy with weights and caps",
	Long: `Print every pillar, mechanism and metric with its weights and caps.

Examples:
  distaf framework show framework.yaml
  distaf framework show framework.yaml --output csv --output-file framework.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: frameworkSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFrameworkShow(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot show framework", err)
		}
	},
}
