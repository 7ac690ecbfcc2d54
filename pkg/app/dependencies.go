package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/lockfile"
	"github.com/brackwater-io/depsentry/pkg/registry"
)

// Dependencies reads lockFilePath, inferring its ecosystem from the
// filename, and enriches every entry with registry metadata into a
// Dependency. Registry lookup failures are logged and degrade the entry to
// an empty latest version / Unknown repository rather than aborting the
// whole scan, since one unreachable package shouldn't blind the rest.
func (a *App) Dependencies(ctx context.Context, lockFilePath string) ([]depmodel.Dependency, error) {
	kind := lockfile.KindFromFilename(lockFilePath)

	reader, err := lockfile.ReaderFor(kind)
	if err != nil {
		return nil, fmt.Errorf("determine lock-file reader for %q: %w", lockFilePath, err)
	}

	client, err := a.RegistryFor(kind)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(lockFilePath)
	if err != nil {
		return nil, fmt.Errorf("open lock file %q: %w", lockFilePath, err)
	}
	defer file.Close()

	entries, err := reader.Read(file)
	if err != nil {
		return nil, fmt.Errorf("parse lock file %q: %w", lockFilePath, err)
	}

	deps := make([]depmodel.Dependency, 0, len(entries))

	for _, entry := range entries {
		deps = append(deps, enrich(ctx, client, entry))
	}

	return deps, nil
}

func enrich(ctx context.Context, client registry.Client, entry lockfile.Entry) depmodel.Dependency {
	dep := depmodel.Dependency{Name: entry.Name, Version: entry.Version}

	latest, err := client.LatestVersion(ctx, entry.Name)
	if err != nil {
		slog.Warn("resolve latest version", "dependency", entry.Name, "error", err)
	} else {
		dep.LatestVersion = latest
	}

	repo, err := client.Repository(ctx, entry.Name)
	if err != nil {
		slog.Warn("resolve repository", "dependency", entry.Name, "error", err)
		repo = depmodel.Unknown()
	}

	dep.Repository = repo

	return dep
}
