package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/internal/outwriter"
	"github.com/kimbotto/distaf/schema"
)

// ErrCheckFailed is returned when at least one score falls below its track threshold.
var ErrCheckFailed = errors.New("threshold check failed")

// ExecuteCheck runs the check command for CI/CD gating.
// It scores the configured answer source, compares the overall and pillar scores against
// the per-track thresholds and returns ErrCheckFailed when any score falls below them.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	report, duration, err := GetScoreReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	result := CheckReport(report, cfg.Thresholds)
	if err := outwriter.PrintCheckResult(result, cfg, duration); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%d violation(s) found: %w", len(result.Violations), ErrCheckFailed)
	}
	return nil
}

// CheckReport compares a report against minimum scores per track.
// Only tracks the framework has metrics on are checked, and a pillar is only checked
// on the tracks its remaining mechanisms score. Missing thresholds default to the low-score threshold.
func CheckReport(report schema.ScoreReport, thresholds map[schema.Track]float64) schema.CheckResult {
	result := schema.CheckResult{
		Passed:     true,
		Source:     report.Source,
		Framework:  report.Framework,
		Thresholds: make(map[schema.Track]float64, len(schema.AllTracks)),
		Overall:    make(map[schema.Track]float64, len(schema.AllTracks)),
		Violations: []schema.CheckViolation{},
	}

	present := make(map[schema.Track]bool)
	pillarTracks := make([]map[schema.Track]bool, len(report.Result.Pillars))
	for i, p := range report.Result.Pillars {
		pillarTracks[i] = make(map[schema.Track]bool)
		for _, m := range p.Mechanisms {
			for _, metric := range m.Metrics {
				pillarTracks[i][metric.Track] = true
				present[metric.Track] = true
			}
		}
	}

	for _, track := range schema.AllTracks {
		if !present[track] {
			continue
		}
		threshold, ok := thresholds[track]
		if !ok {
			threshold = schema.LowScoreThreshold
		}
		result.Tracks = append(result.Tracks, track)
		result.Thresholds[track] = threshold

		overall := report.Result.OverallOperationalScore
		if track == schema.DesignTrack {
			overall = report.Result.OverallDesignScore
		}
		result.Overall[track] = overall
		checkScore(&result, schema.OverallLevel, string(schema.OverallLevel), "Overall", track, overall, threshold)

		for i, p := range report.Result.Pillars {
			if pillarTracks[i][track] {
				checkScore(&result, schema.PillarLevel, p.ID, p.Name, track, p.ScoreFor(track), threshold)
			}
		}
	}
	return result
}

// checkScore records one comparison and any violation. Scores equal to the threshold pass.
func checkScore(result *schema.CheckResult, level schema.NodeLevel, id, name string, track schema.Track, score, threshold float64) {
	result.Checked++
	if score >= threshold {
		return
	}
	result.Passed = false
	result.Violations = append(result.Violations, schema.CheckViolation{
		Level:     level,
		ID:        id,
		Name:      name,
		Track:     track,
		Score:     score,
		Threshold: threshold,
	})
}
