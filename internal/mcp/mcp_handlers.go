package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/kimbotto/distaf/core"
	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/internal/framework"
	"github.com/kimbotto/distaf/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// requestConfig clones the base config and applies the arguments shared by all tools.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("framework_path", ""); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if !contract.IsFile(abs) {
			return nil, fmt.Errorf("framework %q is not a readable file", p)
		}
		cfg.FrameworkPath = abs
	}
	if err := cfg.RequireFramework(); err != nil {
		return nil, err
	}
	if z := request.GetString("zero_weights", ""); z != "" {
		policy := schema.ZeroWeightPolicy(strings.ToLower(z))
		if _, ok := schema.ValidZeroWeightPolicies[policy]; !ok {
			return nil, fmt.Errorf("invalid zero_weights %q. must be default, exclude", z)
		}
		cfg.ZeroWeights = policy
	}
	// Results are returned as JSON regardless of the CLI output mode
	cfg.Output = schema.JSONOut
	return cfg, nil
}

// applySource sets the answer source and extra exclusions of a scoring request.
func applySource(cfg *contract.Config, request mcp.CallToolRequest) error {
	cfg.AnswersPath = request.GetString("answers_path", "")
	cfg.Assessment = request.GetString("assessment", "")
	if cfg.AnswersPath != "" && cfg.Assessment != "" {
		return fmt.Errorf("answers_path and assessment are mutually exclusive")
	}
	if ex := contract.ParseList(request.GetString("exclude", "")); len(ex) > 0 {
		cfg.Excludes = ex
	}
	return nil
}

func (h *toolHandler) handleComputeScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if err := applySource(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	report, _, err := core.GetScoreReport(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	base := strings.TrimSpace(request.GetString("base", ""))
	target := strings.TrimSpace(request.GetString("target", ""))
	if base == "" || target == "" {
		return mcp.NewToolResultError("invalid comparison parameters: base and target are required"), nil
	}
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
	}
	cfg.CompareMode = true
	cfg.BaseRef = base
	cfg.TargetRef = target

	result, _, err := core.GetComparisonResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDescribeFramework(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	fw, err := framework.LoadFramework(cfg.FrameworkPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading framework failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(fw, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCheckThresholds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if err := applySource(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	thresholds := map[schema.Track]float64{}
	maps.Copy(thresholds, cfg.Thresholds)
	args := request.GetArguments()
	for key, track := range map[string]schema.Track{"min_operational": schema.OperationalTrack, "min_design": schema.DesignTrack} {
		if _, ok := args[key]; !ok {
			continue
		}
		v := request.GetFloat(key, schema.LowScoreThreshold)
		if v < 0 || v > 100 {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %s must be between 0 and 100", key)), nil
		}
		thresholds[track] = v
	}

	report, _, err := core.GetScoreReport(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	result := core.CheckReport(report, thresholds)

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
