package gitlib

import (
	"fmt"
	"os"

	git2go "github.com/libgit2/git2go/v34"
)

// Clone performs a bare clone of url into a fresh temporary directory.
// The caller owns the returned directory and must remove it once done;
// the Repository value does not outlive that cleanup on its own.
func Clone(url string) (repo *Repository, dir string, err error) {
	dir, err = os.MkdirTemp("", "depsentry-clone-*")
	if err != nil {
		return nil, "", fmt.Errorf("create temp clone dir: %w", err)
	}

	native, cloneErr := git2go.Clone(url, dir, &git2go.CloneOptions{Bare: true})
	if cloneErr != nil {
		os.RemoveAll(dir)

		return nil, "", fmt.Errorf("clone %s: %w", url, cloneErr)
	}

	return &Repository{repo: native, path: dir}, dir, nil
}
