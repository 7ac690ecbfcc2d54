// Package registry implements version and repository-URL lookups against
// ecosystem package registries.
package registry

import (
	"context"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
)

// Client resolves a package name to its latest published version and
// upstream repository, as read off its registry.
type Client interface {
	LatestVersion(ctx context.Context, name string) (string, error)
	Repository(ctx context.Context, name string) (depmodel.Repository, error)
}
