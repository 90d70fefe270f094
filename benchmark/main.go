// Package main provides a performance benchmarking tool for the distaf CLI.
// It generates synthetic frameworks of increasing size, then times score and compare
// runs several times per size, treating the first cached run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - distaf binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated frameworks, answers and the cache database
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kimbotto/distaf/schema"
	"gopkg.in/yaml.v3"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Size        string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// FrameworkSize describes the shape of one generated framework.
type FrameworkSize struct {
	Name       string
	Pillars    int
	Mechanisms int // per pillar
	Metrics    int // per mechanism
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Sizes       []FrameworkSize
}

// generatedFiles holds the inputs written for one framework size.
type generatedFiles struct {
	framework string
	base      string
	target    string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Sizes: []FrameworkSize{
			{Name: "small", Pillars: 3, Mechanisms: 4, Metrics: 5},
			{Name: "medium", Pillars: 8, Mechanisms: 10, Metrics: 10},
			{Name: "large", Pillars: 20, Mechanisms: 25, Metrics: 20},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the distaf binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("distaf"); err != nil {
		return fmt.Errorf("distaf binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks executes all benchmark tests across configured framework sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Sizes), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, size := range config.Sizes {
		files, err := generateInputs(config.WorkDir, size)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", size.Name, err)
			continue
		}
		fmt.Printf("Benchmarking %s (%d metrics)\n", size.Name, size.Pillars*size.Mechanisms*size.Metrics)

		scoreArgs := []string{"score", files.framework, "--answers", files.base}
		results = append(results, runBenchmarkSuite(config, size.Name, "score", scoreArgs))

		compareArgs := []string{"compare", files.framework, "--base", files.base, "--target", files.target}
		results = append(results, runBenchmarkSuite(config, size.Name, "compare", compareArgs))
	}

	return results
}

// generateInputs writes a framework plus base and target answers for the given size.
// Base answers sit mostly below the low-score threshold so capping is exercised.
func generateInputs(dir string, size FrameworkSize) (generatedFiles, error) {
	fw := schema.Framework{Name: "Benchmark " + size.Name, Version: "1"}
	base := schema.AnswersFile{Name: "base", Answers: schema.AnswerMap{}}
	target := schema.AnswersFile{Name: "target", Answers: schema.AnswerMap{}}

	for p := range size.Pillars {
		pillar := schema.Pillar{ID: fmt.Sprintf("p%d", p), Name: fmt.Sprintf("Pillar %d", p)}
		for m := range size.Mechanisms {
			mech := schema.Mechanism{
				ID:                fmt.Sprintf("p%d-m%d", p, m),
				Name:              fmt.Sprintf("Mechanism %d.%d", p, m),
				OperationalWeight: schema.Float(float64(m%3 + 1)),
				DesignWeight:      schema.Float(1),
			}
			for k := range size.Metrics {
				metric := schema.Metric{
					ID:     fmt.Sprintf("p%d-m%d-k%d", p, m, k),
					Name:   fmt.Sprintf("Metric %d.%d.%d", p, m, k),
					Track:  schema.OperationalTrack,
					Kind:   schema.PercentageKind,
					Weight: schema.Float(float64(k%4 + 1)),
				}
				if k%2 == 1 {
					metric.Track = schema.DesignTrack
				}
				if k%5 == 0 {
					metric.Kind = schema.BooleanKind
					metric.MechanismCap = schema.Float(60)
					metric.PillarCap = schema.Float(80)
				}
				mech.Metrics = append(mech.Metrics, metric)

				if metric.Kind == schema.BooleanKind {
					base.Answers[metric.ID] = schema.BoolAnswer(false)
					target.Answers[metric.ID] = schema.BoolAnswer(true)
				} else {
					base.Answers[metric.ID] = schema.PercentAnswer(float64((p + m + k) % 60))
					target.Answers[metric.ID] = schema.PercentAnswer(float64(40 + (p+m+k)%60))
				}
			}
			pillar.Mechanisms = append(pillar.Mechanisms, mech)
		}
		fw.Pillars = append(fw.Pillars, pillar)
	}

	files := generatedFiles{
		framework: filepath.Join(dir, size.Name+"-framework.yaml"),
		base:      filepath.Join(dir, size.Name+"-base.yaml"),
		target:    filepath.Join(dir, size.Name+"-target.yaml"),
	}
	for path, v := range map[string]any{files.framework: fw, files.base: base, files.target: target} {
		data, err := yaml.Marshal(v)
		if err != nil {
			return files, err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return files, err
		}
	}
	return files, nil
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, size, command string, args []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, size)

	// Helper to run a benchmark phase
	runPhase := func(cacheArgs []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, append(append([]string{}, args...), cacheArgs...), numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase([]string{"--cache-backend", "none"}, config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs against a fresh database per suite
	cacheDB := filepath.Join(config.WorkDir, fmt.Sprintf("%s-%s-cache.db", size, command))
	_ = os.Remove(cacheDB)
	coldTime, warmAvg := runPhase([]string{"--cache-backend", "sqlite", "--cache-db-connect", cacheDB}, config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Size:        size,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a distaf command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	// The assessment store is never read by these commands
	args = append(args, "--output", "json", "--assessment-backend", "none")

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("distaf", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output carries an overall score
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "overall_operational_score") ||
		strings.Contains(outputStr, "overall_operational_delta")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/distaf_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"size", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Size, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "score", "Score:")
	printCommandSummary(results, "compare", "Compare:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Size, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
