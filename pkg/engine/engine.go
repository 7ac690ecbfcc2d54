// Package engine dispatches a dependency to its matching policies and
// fans out their evaluation concurrently.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/metrics"
)

// Executor holds an ordered set of ExecutionConfigs, sorted so that
// pattern-bearing configs precede the default (nil-pattern) config.
type Executor struct {
	configs []depmodel.ExecutionConfig

	// Metrics is optional; when nil, no collectors are touched.
	Metrics *metrics.Registry
}

// New returns an Executor over configs, stable-sorted pattern-first.
func New(configs []depmodel.ExecutionConfig) *Executor {
	sorted := make([]depmodel.ExecutionConfig, len(configs))
	copy(sorted, configs)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NamePattern != nil && sorted[j].NamePattern == nil
	})

	return &Executor{configs: sorted}
}

// Evaluate walks the configs once, collecting the policies that apply to
// dep (every matching pattern config, or the default config if none
// matched), then runs them concurrently. Results are returned in the
// order the policies were scheduled, not completion order.
func (e *Executor) Evaluate(ctx context.Context, dep depmodel.Dependency) ([]depmodel.Evaluation, error) {
	var scheduled []depmodel.Policy

	matched := false

	for _, cfg := range e.configs {
		if cfg.NamePattern == nil {
			if matched {
				continue
			}

			scheduled = append(scheduled, cfg.Policies...)

			continue
		}

		if !cfg.NamePattern.MatchString(dep.Name) {
			continue
		}

		matched = true
		scheduled = append(scheduled, cfg.Policies...)
	}

	results := make([]depmodel.Evaluation, len(scheduled))

	group, groupCtx := errgroup.WithContext(ctx)

	for i, p := range scheduled {
		i, p := i, p

		group.Go(func() error {
			start := time.Now()

			eval, err := p.Evaluate(groupCtx, dep)
			if err != nil {
				return fmt.Errorf("dependency %s: %w", dep.Name, err)
			}

			e.observe(eval, time.Since(start))

			results[i] = eval

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (e *Executor) observe(eval depmodel.Evaluation, elapsed time.Duration) {
	if e.Metrics == nil {
		return
	}

	e.Metrics.EvaluationTime.WithLabelValues(eval.PolicyName).Observe(elapsed.Seconds())

	switch eval.Kind {
	case depmodel.EvaluationPass:
		e.Metrics.PolicyPass.WithLabelValues(eval.PolicyName).Inc()
	case depmodel.EvaluationFail:
		e.Metrics.PolicyFail.WithLabelValues(eval.PolicyName).Inc()
	}
}
