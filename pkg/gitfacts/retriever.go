// Package gitfacts retrieves tag and per-tag-commit facts for a source
// repository, backed by a single-flight cache and a persistent store, and
// falling through to a bare git clone when both are cold.
package gitfacts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/gitlib"
	"github.com/brackwater-io/depsentry/pkg/singleflight"
	"github.com/brackwater-io/depsentry/pkg/store"
)

// Result is the full set of facts retrieved for one repository URL.
type Result struct {
	AllTags           depmodel.Tags
	CommitsForEachTag map[string][]depmodel.Commit
}

// Cloner clones repositoryURL into a fresh bare, temporary checkout. The
// returned cleanup func removes the checkout; callers must invoke it once
// done extracting facts.
type Cloner func(repositoryURL string) (repo *gitlib.Repository, cleanup func(), err error)

// Retriever resolves repository facts, coalescing concurrent callers for
// the same URL and persisting newly computed facts.
type Retriever struct {
	cache  *singleflight.Cache[string, Result]
	store  *store.Store
	cloner Cloner
}

// New returns a Retriever backed by s, cloning repositories via clone.
func New(s *store.Store, clone Cloner) *Retriever {
	return &Retriever{
		cache:  singleflight.New[string, Result](),
		store:  s,
		cloner: clone,
	}
}

// DefaultCloner clones repositoryURL with gitlib.Clone into a temporary
// bare checkout, removing it on cleanup.
func DefaultCloner(repositoryURL string) (*gitlib.Repository, func(), error) {
	repo, dir, err := gitlib.Clone(repositoryURL)
	if err != nil {
		return nil, nil, err
	}

	return repo, func() {
		repo.Free()

		if rmErr := os.RemoveAll(dir); rmErr != nil {
			slog.Warn("remove temp clone dir", "dir", dir, "error", rmErr)
		}
	}, nil
}

// Facts returns the tag and commit facts for repositoryURL, computing and
// persisting them on first use. Concurrent callers for the same URL
// coalesce onto a single computation.
func (r *Retriever) Facts(ctx context.Context, repositoryURL string) (Result, error) {
	return r.cache.Do(ctx, repositoryURL, func(ctx context.Context) (Result, error) {
		return r.repositoryResultFromURL(ctx, repositoryURL)
	})
}

func (r *Retriever) repositoryResultFromURL(ctx context.Context, repositoryURL string) (Result, error) {
	cachedTags, tagsOK, err := r.store.GetAllTags(ctx, repositoryURL)
	if err != nil {
		slog.Warn("read cached tags", "repository", repositoryURL, "error", err)
	}

	cachedCommits, commitsOK, err := r.store.GetCommitsForEachTag(ctx, repositoryURL)
	if err != nil {
		slog.Warn("read cached commits for each tag", "repository", repositoryURL, "error", err)
	}

	if tagsOK && commitsOK {
		return Result{AllTags: cachedTags, CommitsForEachTag: cachedCommits}, nil
	}

	// gitlib/git2go is synchronous; the clone and walks run on the goroutine
	// that called Facts, inside this produce call.
	tags, commits, err := r.computeFromClone(repositoryURL)
	if err != nil {
		return Result{}, err
	}

	if !tagsOK {
		if saveErr := r.store.SaveAllTags(ctx, repositoryURL, tags); saveErr != nil {
			slog.Warn("save tags", "repository", repositoryURL, "error", saveErr)
		}
	}

	if !commitsOK {
		if saveErr := r.store.SaveCommitsForEachTag(ctx, repositoryURL, commits); saveErr != nil {
			slog.Warn("save commits for each tag", "repository", repositoryURL, "error", saveErr)
		}
	}

	return Result{AllTags: tags, CommitsForEachTag: commits}, nil
}

func (r *Retriever) computeFromClone(repositoryURL string) (depmodel.Tags, map[string][]depmodel.Commit, error) {
	repo, cleanup, err := r.cloner(repositoryURL)
	if err != nil {
		return nil, nil, fmt.Errorf("clone %s: %w", repositoryURL, err)
	}
	defer cleanup()

	tags, err := allTags(repo)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve tags: %w", err)
	}

	commits, err := commitsForEachTag(repo, tags)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve commits for each tag: %w", err)
	}

	return tags, commits, nil
}

func allTags(repo *gitlib.Repository) (depmodel.Tags, error) {
	refs, err := repo.Tags()
	if err != nil {
		return nil, err
	}

	tags := make(depmodel.Tags, 0, len(refs))
	for _, ref := range refs {
		tags = append(tags, depmodel.Tag{
			Name:            ref.Name,
			CommitID:        ref.CommitHash.String(),
			CommitTimestamp: uint64(ref.CommitTimestamp), //nolint:gosec // tag timestamps predate 2106.
		})
	}

	tags.SortAscending()

	return tags, nil
}

// commitsForEachTag walks newest to oldest, computing each tag's exclusive
// commit range against its immediate successor via the revwalk's
// push/hide pair. The oldest tag is left unmapped: it has no older
// neighbor to bound its range against.
func commitsForEachTag(repo *gitlib.Repository, tags depmodel.Tags) (map[string][]depmodel.Commit, error) {
	result := make(map[string][]depmodel.Commit)

	if len(tags) == 0 {
		return result, nil
	}

	descending := make(depmodel.Tags, len(tags))
	copy(descending, tags)
	sort.SliceStable(descending, func(i, j int) bool {
		return descending[i].CommitTimestamp > descending[j].CommitTimestamp
	})

	for i := 0; i < len(descending)-1; i++ {
		newer := descending[i]
		older := descending[i+1]

		commits, err := commitsBetween(repo, newer.CommitID, older.CommitID)
		if err != nil {
			return nil, fmt.Errorf("commits between %s and %s: %w", newer.Name, older.Name, err)
		}

		result[newer.Name] = commits
	}

	return result, nil
}

func commitsBetween(repo *gitlib.Repository, newerHash, olderHash string) ([]depmodel.Commit, error) {
	newer := gitlib.NewHash(newerHash)
	older := gitlib.NewHash(olderHash)

	walk, err := repo.Walk()
	if err != nil {
		return nil, err
	}
	defer walk.Free()

	if pushErr := walk.Push(newer); pushErr != nil {
		return nil, pushErr
	}

	if hideErr := walk.Hide(older); hideErr != nil {
		return nil, hideErr
	}

	var commits []depmodel.Commit

	for {
		hash, nextErr := walk.Next()
		if nextErr != nil {
			break
		}

		commit, lookupErr := repo.LookupCommit(context.Background(), hash)
		if lookupErr != nil {
			continue
		}

		author := commit.Author()
		if author.Name != "" && author.Email != "" {
			commits = append(commits, depmodel.Commit{
				ID:                commit.Hash().String(),
				AuthorName:        author.Name,
				AuthorEmail:       author.Email,
				CreationTimestamp: author.When.Unix(),
			})
		}

		commit.Free()
	}

	return commits, nil
}
