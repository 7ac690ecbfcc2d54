package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// TagRef is a tag reference resolved to its peeled target commit.
type TagRef struct {
	Name            string
	CommitHash      Hash
	CommitTimestamp int64
}

// Tags enumerates all tag references and peels each to its target commit.
// Annotated and lightweight tags are both resolved via Peel; unresolvable
// refs are skipped.
func (r *Repository) Tags() ([]TagRef, error) {
	names, err := r.repo.Tags.List()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	refs := make([]TagRef, 0, len(names))

	for _, name := range names {
		ref, lookupErr := r.repo.References.Lookup("refs/tags/" + name)
		if lookupErr != nil {
			continue
		}

		obj, peelErr := ref.Peel(git2go.ObjectCommit)

		ref.Free()

		if peelErr != nil {
			continue
		}

		commit, asCommitErr := obj.AsCommit()

		obj.Free()

		if asCommitErr != nil {
			continue
		}

		refs = append(refs, TagRef{
			Name:            name,
			CommitHash:      HashFromOid(commit.Id()),
			CommitTimestamp: commit.Committer().When.Unix(),
		})

		commit.Free()
	}

	return refs, nil
}
