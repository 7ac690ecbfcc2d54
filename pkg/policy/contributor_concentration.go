package policy

import (
	"context"
	"fmt"
	"sort"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/errs"
)

// ContributorConcentration fails a dependency when a single author
// accounts for more than MaxRatio of the commits across the K most recent
// tags, de-duplicated by commit ID.
type ContributorConcentration struct {
	Retriever TagRetriever
	K         int
	MaxRatio  float64
}

// Evaluate implements depmodel.Policy.
func (p ContributorConcentration) Evaluate(ctx context.Context, dep depmodel.Dependency) (depmodel.Evaluation, error) {
	const policyName = "contributors_ratio"

	url, ok := dep.Repository.URL()
	if !ok {
		return depmodel.Evaluation{}, fmt.Errorf("%s: dependency %s: %w", policyName, dep.Name, errs.ErrUnknownRepository)
	}

	result, err := p.Retriever.Facts(ctx, url)
	if err != nil {
		return depmodel.Evaluation{}, fmt.Errorf("%s: dependency %s: %w", policyName, dep.Name, err)
	}

	tags := result.AllTags
	if len(tags) > p.K {
		tags = tags[len(tags)-p.K:]
	}

	seen := make(map[string]struct{})
	commitsByAuthor := make(map[string]int)
	total := 0

	for _, tag := range tags {
		for _, commit := range result.CommitsForEachTag[tag.Name] {
			if _, dup := seen[commit.ID]; dup {
				continue
			}

			seen[commit.ID] = struct{}{}
			commitsByAuthor[commit.AuthorEmail]++
			total++
		}
	}

	if total == 0 || p.MaxRatio <= 0 {
		return depmodel.Pass(policyName, dep), nil
	}

	authors := make([]string, 0, len(commitsByAuthor))
	for email := range commitsByAuthor {
		authors = append(authors, email)
	}

	sort.Strings(authors)

	for _, email := range authors {
		share := float64(commitsByAuthor[email]) / float64(total)
		if share > p.MaxRatio {
			reason := fmt.Sprintf("author %s accounts for %.4f of recent commits, exceeding ratio %.4f", email, share, p.MaxRatio)

			return depmodel.Fail(policyName, dep, reason, share/p.MaxRatio), nil
		}
	}

	return depmodel.Pass(policyName, dep), nil
}
