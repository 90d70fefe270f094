// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the distaf MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Distaf Trustworthiness Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: compute_scores ---
	s.AddTool(mcp.NewTool("compute_scores",
		mcp.WithDescription("Score a set of answers against a trustworthiness framework. Returns pillar, mechanism and metric scores on both tracks with capping details."),
		mcp.WithString("framework_path", mcp.Description("Path to the framework YAML or JSON file (defaults to the configured framework).")),
		mcp.WithString("answers_path", mcp.Description("Path to an answers file. Mutually exclusive with assessment.")),
		mcp.WithString("assessment", mcp.Description("Name of a stored assessment. Mutually exclusive with answers_path.")),
		mcp.WithString("exclude", mcp.Description("Comma separated mechanism IDs to treat as not applicable.")),
		mcp.WithString("zero_weights", mcp.Description("How a zero weight is treated. Defaults to 'default'."), mcp.Enum("default", "exclude")),
	), h.handleComputeScores)

	// --- 2. Tool: compare_scores ---
	s.AddTool(mcp.NewTool("compare_scores",
		mcp.WithDescription("Compare the scores of two answer sources (answers files or stored assessments) and report per-node deltas."),
		mcp.WithString("base", mcp.Description("Baseline answers file or assessment name."), mcp.Required()),
		mcp.WithString("target", mcp.Description("Target answers file or assessment name."), mcp.Required()),
		mcp.WithString("framework_path", mcp.Description("Path to the framework YAML or JSON file.")),
		mcp.WithString("zero_weights", mcp.Description("How a zero weight is treated."), mcp.Enum("default", "exclude")),
	), h.handleCompareScores)

	// --- 3. Tool: describe_framework ---
	s.AddTool(mcp.NewTool("describe_framework",
		mcp.WithDescription("Return the pillar, mechanism and metric hierarchy of a framework with weights and caps."),
		mcp.WithString("framework_path", mcp.Description("Path to the framework YAML or JSON file.")),
	), h.handleDescribeFramework)

	// --- 4. Tool: check_thresholds ---
	s.AddTool(mcp.NewTool("check_thresholds",
		mcp.WithDescription("Score a set of answers and report every overall or pillar score that falls below the minimum for its track."),
		mcp.WithString("framework_path", mcp.Description("Path to the framework YAML or JSON file.")),
		mcp.WithString("answers_path", mcp.Description("Path to an answers file. Mutually exclusive with assessment.")),
		mcp.WithString("assessment", mcp.Description("Name of a stored assessment. Mutually exclusive with answers_path.")),
		mcp.WithString("exclude", mcp.Description("Comma separated mechanism IDs to treat as not applicable.")),
		mcp.WithNumber("min_operational", mcp.Description("Minimum operational score (0-100). Defaults to the configured threshold.")),
		mcp.WithNumber("min_design", mcp.Description("Minimum design score (0-100). Defaults to the configured threshold.")),
	), h.handleCheckThresholds)

	return s
}

// StartMCPServer starts the distaf MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
