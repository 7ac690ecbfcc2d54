package policy

import (
	"context"
	"fmt"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/errs"
)

// ContribRetriever computes mean issue/pull-request lifespans for a
// dependency's source repository.
type ContribRetriever interface {
	IssueLifespan(ctx context.Context, repo depmodel.Repository, lastN int) (float64, error)
	PullRequestLifespan(ctx context.Context, repo depmodel.Repository, lastN int) (float64, error)
}

// MaxIssueLifespan fails a dependency whose mean closed-issue lifespan,
// over the last LastN issues, exceeds MaxSeconds.
type MaxIssueLifespan struct {
	Retriever  ContribRetriever
	MaxSeconds float64
	LastN      int
}

// Evaluate implements depmodel.Policy.
func (p MaxIssueLifespan) Evaluate(ctx context.Context, dep depmodel.Dependency) (depmodel.Evaluation, error) {
	const policyName = "max_issue_lifespan"

	if dep.Repository.Kind == depmodel.RepositoryUnknown {
		return depmodel.Evaluation{}, fmt.Errorf("%s: dependency %s: %w", policyName, dep.Name, errs.ErrUnknownRepository)
	}

	lifespan, err := p.Retriever.IssueLifespan(ctx, dep.Repository, p.LastN)
	if err != nil {
		return depmodel.Evaluation{}, fmt.Errorf("%s: dependency %s: %w", policyName, dep.Name, err)
	}

	return evaluateLifespan(policyName, dep, lifespan, p.MaxSeconds), nil
}

func evaluateLifespan(policyName string, dep depmodel.Dependency, lifespan, maxSeconds float64) depmodel.Evaluation {
	if lifespan <= maxSeconds {
		return depmodel.Pass(policyName, dep)
	}

	score := 1.0
	if maxSeconds != 0 {
		score = lifespan / maxSeconds
	}

	reason := fmt.Sprintf("mean lifespan %.0fs exceeds threshold %.0fs", lifespan, maxSeconds)

	return depmodel.Fail(policyName, dep, reason, score)
}
