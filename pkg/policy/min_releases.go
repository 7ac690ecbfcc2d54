package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/errs"
	"github.com/brackwater-io/depsentry/pkg/gitfacts"
)

// TagRetriever resolves the tags of a dependency's source repository.
type TagRetriever interface {
	Facts(ctx context.Context, repositoryURL string) (gitfacts.Result, error)
}

// MinReleasesInWindow fails a dependency whose N most recent tags are not
// all within the trailing Window from Clock's current time.
type MinReleasesInWindow struct {
	Retriever TagRetriever
	N         int
	Window    time.Duration
	Clock     Clock
}

// Evaluate implements depmodel.Policy.
func (p MinReleasesInWindow) Evaluate(ctx context.Context, dep depmodel.Dependency) (depmodel.Evaluation, error) {
	url, ok := dep.Repository.URL()
	if !ok {
		return depmodel.Evaluation{}, fmt.Errorf("min_releases_in_window: dependency %s: %w", dep.Name, errs.ErrUnknownRepository)
	}

	result, err := p.Retriever.Facts(ctx, url)
	if err != nil {
		return depmodel.Evaluation{}, fmt.Errorf("min_releases_in_window: dependency %s: %w", dep.Name, err)
	}

	tags := result.AllTags
	if len(tags) > p.N {
		tags = tags[len(tags)-p.N:]
	}

	now := p.Clock.Now()
	windowStart := now.Add(-p.Window)

	count := 0

	for _, tag := range tags {
		ts := time.Unix(int64(tag.CommitTimestamp), 0) //nolint:gosec // tag timestamps predate int64 overflow.
		if !ts.Before(windowStart) && !ts.After(now) {
			count++
		}
	}

	if count == p.N {
		return depmodel.Pass("min_number_of_releases_required", dep), nil
	}

	reason := fmt.Sprintf("only %d of the last %d releases fall within the trailing window", count, p.N)

	return depmodel.Fail("min_number_of_releases_required", dep, reason, 1.0), nil
}
