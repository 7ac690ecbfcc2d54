package policy

import (
	"context"
	"fmt"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/errs"
)

// MaxPullRequestLifespan fails a dependency whose mean closed-pull-request
// lifespan, over the last LastN pull requests, exceeds MaxSeconds.
type MaxPullRequestLifespan struct {
	Retriever  ContribRetriever
	MaxSeconds float64
	LastN      int
}

// Evaluate implements depmodel.Policy.
func (p MaxPullRequestLifespan) Evaluate(ctx context.Context, dep depmodel.Dependency) (depmodel.Evaluation, error) {
	const policyName = "max_pull_request_lifespan"

	if dep.Repository.Kind == depmodel.RepositoryUnknown {
		return depmodel.Evaluation{}, fmt.Errorf("%s: dependency %s: %w", policyName, dep.Name, errs.ErrUnknownRepository)
	}

	lifespan, err := p.Retriever.PullRequestLifespan(ctx, dep.Repository, p.LastN)
	if err != nil {
		return depmodel.Evaluation{}, fmt.Errorf("%s: dependency %s: %w", policyName, dep.Name, err)
	}

	return evaluateLifespan(policyName, dep, lifespan, p.MaxSeconds), nil
}
