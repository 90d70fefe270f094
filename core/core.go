// Package core has the scoring engine plus the executors that load inputs, score and print.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/kimbotto/distaf/core/algo"
	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/internal/outwriter"
	"github.com/kimbotto/distaf/schema"
	"golang.org/x/sync/errgroup"
)

// weakestLimit is how many of the lowest scoring mechanisms a report lists.
const weakestLimit = 5

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteScore scores the configured answer source and prints the report.
// It serves as the main entry point for the 'score' command.
func ExecuteScore(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	report, duration, err := GetScoreReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintScoreReport(report, cfg, duration)
}

// ExecuteCompare scores the base and target sources and prints their differences.
// It serves as the main entry point for the 'compare' command.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetComparisonResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintComparisonResults(result, cfg, duration)
}

// GetScoreReport loads the framework and answers named by cfg and computes the report.
func GetScoreReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ScoreReport, time.Duration, error) {
	start := time.Now()
	fw, err := loadFramework(cfg)
	if err != nil {
		return schema.ScoreReport{}, 0, err
	}
	if !shouldSuppressHeader(ctx) && cfg.Output == schema.TextOut {
		logScoreHeader(cfg, fw)
	}
	report, err := scoreSource(ctx, cfg, mgr, fw)
	if err != nil {
		return schema.ScoreReport{}, 0, err
	}
	return report, time.Since(start), nil
}

// GetComparisonResults scores the base and target sources concurrently and diffs them.
func GetComparisonResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ComparisonResult, time.Duration, error) {
	start := time.Now()
	if cfg.BaseRef == "" || cfg.TargetRef == "" {
		return schema.ComparisonResult{}, 0, fmt.Errorf("both a base and a target source are required")
	}
	fw, err := loadFramework(cfg)
	if err != nil {
		return schema.ComparisonResult{}, 0, err
	}
	if !shouldSuppressHeader(ctx) && cfg.Output == schema.TextOut {
		logCompareHeader(cfg, fw)
	}

	var base, target schema.ScoreReport
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		base, err = scoreSource(gctx, cfg.CloneWithSource(cfg.BaseRef), mgr, fw)
		if err != nil {
			return fmt.Errorf("base: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		target, err = scoreSource(gctx, cfg.CloneWithSource(cfg.TargetRef), mgr, fw)
		if err != nil {
			return fmt.Errorf("target: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return schema.ComparisonResult{}, 0, err
	}

	result := CompareResults(base.Result, target.Result)
	result.BaseLabel = base.Source
	result.TargetLabel = target.Source
	return result, time.Since(start), nil
}

// scoreSource resolves one answer source and computes its report against fw.
func scoreSource(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, fw *schema.Framework) (schema.ScoreReport, error) {
	if err := ctx.Err(); err != nil {
		return schema.ScoreReport{}, err
	}
	in, err := loadInput(cfg, mgr, fw)
	if err != nil {
		return schema.ScoreReport{}, err
	}
	result := CachedComputeResults(mgr, *fw, in.answers, in.excluded, cfg.ZeroWeights)
	return buildReport(fw, in, cfg.ZeroWeights, result), nil
}

// buildReport wraps a result with the inputs that produced it.
func buildReport(fw *schema.Framework, in scoreInput, policy schema.ZeroWeightPolicy, result schema.OverallResult) schema.ScoreReport {
	if policy == "" {
		policy = schema.ZeroWeightAsDefault
	}
	return schema.ScoreReport{
		Framework: fw.Name,
		Version:   fw.Version,
		Source:    in.label,
		Excluded:  in.excluded.IDs(),
		Policy:    policy,
		Result:    result,
		Weakest:   algo.RankWeakestMechanisms(result, schema.OperationalTrack, weakestLimit),
	}
}

// ExecuteFrameworkValidate loads the framework, which runs every schema and structural check,
// and prints a short summary when it is valid.
func ExecuteFrameworkValidate(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	fw, err := loadFramework(cfg)
	if err != nil {
		return err
	}
	mechanisms := 0
	for _, p := range fw.Pillars {
		mechanisms += len(p.Mechanisms)
	}
	prefix := ""
	if cfg.UseEmojis {
		prefix = "✅ "
	}
	fmt.Printf("%s%s is valid: %d pillars, %d mechanisms, %d metrics\n",
		prefix, fw.Name, len(fw.Pillars), mechanisms, fw.MetricCount())
	return nil
}

// ExecuteFrameworkShow prints the framework hierarchy with its weights and caps.
func ExecuteFrameworkShow(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	fw, err := loadFramework(cfg)
	if err != nil {
		return err
	}
	return outwriter.PrintFramework(fw, cfg)
}

// logScoreHeader prints a concise, 2-line header for a score run.
func logScoreHeader(cfg *contract.Config, fw *schema.Framework) {
	source := cfg.Assessment
	if cfg.AnswersPath != "" {
		source = cfg.AnswersPath
	}
	if source == "" {
		source = "(no answers)"
	}
	if cfg.UseEmojis {
		fmt.Printf("🔎 Framework: %s %s\n", fw.Name, fw.Version)
		fmt.Printf("📋 Answers: %s (zero weights: %s)\n", source, cfg.ZeroWeights)
		return
	}
	fmt.Printf("Framework: %s %s\n", fw.Name, fw.Version)
	fmt.Printf("Answers: %s (zero weights: %s)\n", source, cfg.ZeroWeights)
}

// logCompareHeader prints a header for comparison runs.
func logCompareHeader(cfg *contract.Config, fw *schema.Framework) {
	if cfg.UseEmojis {
		fmt.Printf("🔎 Framework: %s %s\n", fw.Name, fw.Version)
		fmt.Printf("📊 Comparing: %s ↔ %s\n", cfg.BaseRef, cfg.TargetRef)
		return
	}
	fmt.Printf("Framework: %s %s\n", fw.Name, fw.Version)
	fmt.Printf("Comparing: %s -> %s\n", cfg.BaseRef, cfg.TargetRef)
}
