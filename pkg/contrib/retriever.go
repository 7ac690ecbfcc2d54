// Package contrib computes average issue and pull-request lifespans for a
// repository, backed by the persistent issue/pull-request store and
// falling through to the GitHub issues API on a cache miss.
package contrib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/errs"
	"github.com/brackwater-io/depsentry/pkg/ghissues"
	"github.com/brackwater-io/depsentry/pkg/store"
)

// ErrNotImplemented is returned for repository kinds other than GitHub.
var ErrNotImplemented = errors.New("contrib: repository kind not implemented")

// record is the subset of a GitHub issue/PR body needed to compute lifespan.
type record struct {
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at"`
}

// Retriever computes contribution-lifespan statistics for a repository.
type Retriever struct {
	issues     *ghissues.Client
	issueStore *store.Store
}

// New returns a Retriever backed by the given issue client and store.
func New(issues *ghissues.Client, issueStore *store.Store) *Retriever {
	return &Retriever{issues: issues, issueStore: issueStore}
}

// IssueLifespan returns the mean lifespan, in seconds, of the most recent
// lastN closed issues.
func (r *Retriever) IssueLifespan(ctx context.Context, repo depmodel.Repository, lastN int) (float64, error) {
	bodies, err := r.bodies(ctx, repo, false)
	if err != nil {
		return 0, err
	}

	return meanLifespan(bodies, lastN)
}

// PullRequestLifespan returns the mean lifespan, in seconds, of the most
// recent lastN closed pull requests.
func (r *Retriever) PullRequestLifespan(ctx context.Context, repo depmodel.Repository, lastN int) (float64, error) {
	bodies, err := r.bodies(ctx, repo, true)
	if err != nil {
		return 0, err
	}

	return meanLifespan(bodies, lastN)
}

func (r *Retriever) bodies(ctx context.Context, repo depmodel.Repository, pullRequests bool) ([]json.RawMessage, error) {
	switch repo.Kind {
	case depmodel.RepositoryGitHub:
	case depmodel.RepositoryGitLab, depmodel.RepositoryRaw:
		return nil, fmt.Errorf("%w: %v", ErrNotImplemented, repo.Kind)
	case depmodel.RepositoryUnknown:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownRepository, repo)
	default:
		return nil, fmt.Errorf("%w: %v", ErrNotImplemented, repo.Kind)
	}

	key := store.NewRecordKey("github", repo.Organization, repo.Name)

	if pullRequests {
		cached, ok, err := r.issueStore.GetPullRequests(ctx, key)
		if err == nil && ok {
			return cached, nil
		}
	} else {
		cached, ok, err := r.issueStore.GetIssues(ctx, key)
		if err == nil && ok {
			return cached, nil
		}
	}

	bodies, err := r.fetchAll(ctx, repo, pullRequests)
	if err != nil {
		return nil, err
	}

	saveErr := r.save(ctx, key, pullRequests, bodies)
	if saveErr != nil {
		slog.Warn("save fetched records", "repository", repo.String(), "error", saveErr)
	}

	return bodies, nil
}

func (r *Retriever) fetchAll(ctx context.Context, repo depmodel.Repository, pullRequests bool) ([]json.RawMessage, error) {
	var it *ghissues.Iterator
	if pullRequests {
		it = r.issues.PullRequests(repo.Organization, repo.Name)
	} else {
		it = r.issues.Issues(repo.Organization, repo.Name)
	}

	var bodies []json.RawMessage

	for {
		body, ok, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}

		if !ok {
			break
		}

		bodies = append(bodies, body)
	}

	return bodies, nil
}

func (r *Retriever) save(ctx context.Context, key store.RecordKey, pullRequests bool, bodies []json.RawMessage) error {
	if pullRequests {
		return r.issueStore.SavePullRequests(ctx, key, bodies)
	}

	return r.issueStore.SaveIssues(ctx, key, bodies)
}

// meanLifespan computes the numerically stable running mean of the
// lifespan, in seconds, of the last lastN records (in listing order,
// oldest-created first, so the most recently created ones) with state
// "closed" and parseable timestamps.
func meanLifespan(bodies []json.RawMessage, lastN int) (float64, error) {
	var closed []record

	for _, body := range bodies {
		var rec record

		if err := json.Unmarshal(body, &rec); err != nil {
			continue
		}

		if rec.State != "closed" || rec.ClosedAt == nil {
			continue
		}

		closed = append(closed, rec)
	}

	if len(closed) > lastN {
		closed = closed[len(closed)-lastN:]
	}

	var mean float64

	for i, rec := range closed {
		lifespan := rec.ClosedAt.Sub(rec.CreatedAt).Seconds()
		n := float64(i + 1)
		mean = (lifespan + mean*(n-1)) / n
	}

	return mean, nil
}
