// Package commands implements CLI command handlers for depsentry.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/brackwater-io/depsentry/pkg/app"
	"github.com/brackwater-io/depsentry/pkg/config"
	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/metrics"
	"github.com/brackwater-io/depsentry/pkg/report"
)

// scanTimeout bounds the whole scan run; individual HTTP calls have their
// own shorter timeouts.
const scanTimeout = 30 * time.Minute

// NewScanCommand builds the `scan` subcommand: reads a lock file, enriches
// every dependency, runs the configured policies, and writes result.csv.
func NewScanCommand() *cobra.Command {
	var (
		lockFile   string
		configFile string
		dbPath     string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a lock file's dependencies against the configured health policies",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runScan(lockFile, configFile, dbPath, outputPath)
		},
	}

	cmd.Flags().StringVar(&lockFile, "lock-file", "Cargo.lock", "path to the lock file to scan")
	cmd.Flags().StringVar(&configFile, "config", "", "path to the policy configuration file")
	cmd.Flags().StringVar(&dbPath, "db", "depsentry.db", "path to the persistent cache database")
	cmd.Flags().StringVar(&outputPath, "output", "result.csv", "path to write the CSV report to")

	return cmd
}

func runScan(lockFile, configFile, dbPath, outputPath string) error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	metricsRegistry := metrics.NewRegistry(prometheus.NewRegistry())

	a, err := app.New(cfg, dbPath, metricsRegistry)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			slog.Error("close store", "error", closeErr)
		}
	}()

	deps, err := a.Dependencies(ctx, lockFile)
	if err != nil {
		return fmt.Errorf("read dependencies from %q: %w", lockFile, err)
	}

	executor, err := a.Engine()
	if err != nil {
		return fmt.Errorf("build policy engine: %w", err)
	}

	evaluations, err := evaluateAll(ctx, executor, deps)
	if err != nil {
		return err
	}

	writer := report.CSVWriter{Path: outputPath}
	if err := writer.WriteResults(evaluations); err != nil {
		return fmt.Errorf("write report to %q: %w", outputPath, err)
	}

	if err := (report.TableWriter{Output: os.Stdout}).WriteResults(evaluations); err != nil {
		return fmt.Errorf("render report table: %w", err)
	}

	summarize(evaluations, len(deps), time.Since(start))

	return nil
}

type evaluator interface {
	Evaluate(ctx context.Context, dep depmodel.Dependency) ([]depmodel.Evaluation, error)
}

func evaluateAll(ctx context.Context, executor evaluator, deps []depmodel.Dependency) ([]depmodel.Evaluation, error) {
	var all []depmodel.Evaluation

	for _, dep := range deps {
		evals, err := executor.Evaluate(ctx, dep)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s@%s: %w", dep.Name, dep.Version, err)
		}

		all = append(all, evals...)
	}

	return all, nil
}

func summarize(evaluations []depmodel.Evaluation, dependencyCount int, elapsed time.Duration) {
	passed, failed := 0, 0

	for _, eval := range evaluations {
		if eval.Kind == depmodel.EvaluationPass {
			passed++
		} else {
			failed++
		}
	}

	suffix := fmt.Sprintf("(%s dependencies in %s)", humanize.Comma(int64(dependencyCount)), elapsed.Round(time.Millisecond))

	if failed == 0 {
		color.New(color.FgGreen).Fprintf(os.Stdout, "depsentry: %d checks passed %s\n", passed, suffix)

		return
	}

	color.New(color.FgRed).Fprintf(os.Stdout, "depsentry: %d checks failed, %d passed %s\n", failed, passed, suffix)
}
