package app

import (
	"regexp"

	"github.com/brackwater-io/depsentry/pkg/config"
	"github.com/brackwater-io/depsentry/pkg/contrib"
	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/gitfacts"
	"github.com/brackwater-io/depsentry/pkg/policy"
)

// executionConfigs turns a loaded Config into the engine's ordered
// ExecutionConfigs: one per-dependency override first, then a default
// config built from the top-level policy block if any policy in it is
// enabled.
func executionConfigs(cfg *config.Config, facts *gitfacts.Retriever, c *contrib.Retriever) ([]depmodel.ExecutionConfig, error) {
	var configs []depmodel.ExecutionConfig

	for _, dc := range cfg.DependencyConfig {
		pattern, err := regexp.Compile(dc.Name)
		if err != nil {
			return nil, err
		}

		configs = append(configs, depmodel.ExecutionConfig{
			NamePattern: pattern,
			Policies:    policiesFor(dc.Policies, facts, c),
		})
	}

	if defaultPolicies := policiesFor(cfg.DefaultPolicies, facts, c); len(defaultPolicies) > 0 {
		configs = append(configs, depmodel.ExecutionConfig{Policies: defaultPolicies})
	}

	return configs, nil
}

// policiesFor expands one Policies config block into the concrete Policy
// values the engine will run, skipping blocks whose policy is unset or
// explicitly disabled.
func policiesFor(policies config.Policies, facts *gitfacts.Retriever, c *contrib.Retriever) []depmodel.Policy {
	var out []depmodel.Policy

	if p := policies.MinNumberOfReleasesRequired; p != nil && p.Enabled {
		out = append(out, policy.MinReleasesInWindow{
			Retriever: facts,
			N:         p.MinNumberOfReleases,
			Window:    p.ReleaseWindow(),
			Clock:     policy.SystemClock{},
		})
	}

	if p := policies.ContributorsRatio; p != nil && p.Enabled {
		out = append(out, policy.ContributorConcentration{
			Retriever: facts,
			K:         p.MaxNumberOfReleasesToCheck,
			MaxRatio:  p.MaxContributorRatio,
		})
	}

	if p := policies.MaxIssueLifespan; p != nil {
		out = append(out, policy.MaxIssueLifespan{
			Retriever:  c,
			MaxSeconds: float64(p.MaxLifespanInSeconds),
			LastN:      p.LastIssues,
		})
	}

	if p := policies.MaxPullRequestLifespan; p != nil {
		out = append(out, policy.MaxPullRequestLifespan{
			Retriever:  c,
			MaxSeconds: float64(p.MaxLifespanInSeconds),
			LastN:      p.LastPullRequests,
		})
	}

	return out
}
