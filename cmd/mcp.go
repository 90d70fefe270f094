package cmd

import (
	"github.com/kimbotto/distaf/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [framework]",
	Short: "Start the distaf MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents score answers, compare
assessments and describe frameworks through standard tools.

Tools:
  compute_scores     - Score an answers file or stored assessment
  compare_scores     - Diff the scores of two answer sources
  describe_framework - Return the framework hierarchy`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: frameworkSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
