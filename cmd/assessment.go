package cmd

import (
	"github.com/kimbotto/distaf/core"
	"github.com/kimbotto/distaf/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// assessmentCmd groups the commands that edit stored assessments.
var assessmentCmd = &cobra.Command{
	Use:   "assessment",
	Short: "Manage stored assessments (answers and exclusions)",
	Long: `Create and edit named assessments kept in the assessment store.

An assessment records one answer per metric and the mechanisms that do not apply.
Commands that check answers against metric definitions need a framework, either
through --framework or the 'framework' key in .distaf.yaml.

Subcommands:
  create  - Register an empty assessment
  list    - List stored assessments
  show    - Show answers and exclusions
  delete  - Remove an assessment
  answer  - Record the answer to one metric
  clear   - Remove the answer to one metric
  exclude - Mark mechanisms as not applicable
  include - Make excluded mechanisms applicable again
  import  - Load an answers file into an assessment
  export  - Write an assessment as an answers file

Examples:
  distaf assessment create q3-review --framework framework.yaml
  distaf assessment answer q3-review mfa yes
  distaf assessment answer q3-review coverage 75%
  distaf assessment exclude q3-review logging`,
}

// assessmentCreateCmd registers an empty assessment.
var assessmentCreateCmd = &cobra.Command{
	Use:     "create <name>",
	Short:   "Register an empty assessment",
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteAssessmentCreate(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot create assessment", err)
		}
	},
}

// assessmentListCmd lists stored assessments.
var assessmentListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored assessments",
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAssessmentList(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list assessments", err)
		}
	},
}

// assessmentShowCmd prints one assessment.
var assessmentShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the answers and exclusions of an assessment",
	Long: `Show every recorded answer and exclusion of an assessment.

With a framework configured, answers are listed with metric names and answers to
metrics the framework does not define are flagged.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteAssessmentShow(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot show assessment", err)
		}
	},
}

// assessmentDeleteCmd removes an assessment.
var assessmentDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Short:   "Remove an assessment with its answers and exclusions",
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteAssessmentDelete(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot delete assessment", err)
		}
	},
}

// assessmentAnswerCmd records one answer.
var assessmentAnswerCmd = &cobra.Command{
	Use:   "answer <name> <metric-id> <value>",
	Short: "Record the answer to one metric",
	Long: `Record or replace the answer to one metric.

Boolean metrics take yes/no/true/false/1/0. Percentage metrics take a number from
0 to 100 with an optional trailing '%'. The value is checked against the metric
definition before anything is written.

Examples:
  distaf assessment answer q3-review mfa yes
  distaf assessment answer q3-review coverage 62.5`,
	Args:    cobra.ExactArgs(3),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteAssessmentAnswer(rootCtx, cfg, cacheManager, args[0], args[1], args[2]); err != nil {
			contract.LogFatal("Cannot record answer", err)
		}
	},
}

// assessmentClearCmd removes one answer.
var assessmentClearCmd = &cobra.Command{
	Use:     "clear <name> <metric-id>",
	Short:   "Remove the answer to one metric so it counts as unanswered",
	Args:    cobra.ExactArgs(2),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteAssessmentClear(rootCtx, cfg, cacheManager, args[0], args[1]); err != nil {
			contract.LogFatal("Cannot clear answer", err)
		}
	},
}

// assessmentExcludeCmd marks mechanisms as not applicable.
var assessmentExcludeCmd = &cobra.Command{
	Use:     "exclude <name> <mechanism-id>...",
	Short:   "Mark mechanisms as not applicable",
	Args:    cobra.MinimumNArgs(2),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteAssessmentExclude(rootCtx, cfg, cacheManager, args[0], args[1:]); err != nil {
			contract.LogFatal("Cannot exclude mechanisms", err)
		}
	},
}

// assessmentIncludeCmd makes excluded mechanisms applicable again.
var assessmentIncludeCmd = &cobra.Command{
	Use:     "include <name> <mechanism-id>...",
	Short:   "Make excluded mechanisms applicable again",
	Args:    cobra.MinimumNArgs(2),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteAssessmentInclude(rootCtx, cfg, cacheManager, args[0], args[1:]); err != nil {
			contract.LogFatal("Cannot include mechanisms", err)
		}
	},
}

// assessmentImportCmd loads an answers file into the store.
var assessmentImportCmd = &cobra.Command{
	Use:   "import <answers-file>",
	Short: "Load an answers file into an assessment",
	Long: `Validate an answers file against the framework and copy its answers and
exclusions into an assessment, creating it when it does not exist yet.

Examples:
  distaf assessment import answers.yaml --framework framework.yaml
  distaf assessment import answers.yaml --name q3-review`,
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		name := viper.GetString("name")
		if err := core.ExecuteAssessmentImport(rootCtx, cfg, cacheManager, name, args[0]); err != nil {
			contract.LogFatal("Cannot import answers", err)
		}
	},
}

// assessmentExportCmd writes an assessment as an answers file.
var assessmentExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Write an assessment as an answers file",
	Long: `Write an assessment as a YAML answers file (or JSON with --output json),
to stdout or --output-file. The file can be scored directly with --answers.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteAssessmentExport(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot export assessment", err)
		}
	},
}
