// Package app wires together the stores, retrievers, and registry clients
// that the scan pipeline needs from a loaded configuration, the way a
// dependency-injection factory builds and shares its collaborators. All of
// them are built eagerly in New.
package app

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/brackwater-io/depsentry/pkg/config"
	"github.com/brackwater-io/depsentry/pkg/contrib"
	"github.com/brackwater-io/depsentry/pkg/engine"
	"github.com/brackwater-io/depsentry/pkg/ghissues"
	"github.com/brackwater-io/depsentry/pkg/gitfacts"
	"github.com/brackwater-io/depsentry/pkg/lockfile"
	"github.com/brackwater-io/depsentry/pkg/metrics"
	"github.com/brackwater-io/depsentry/pkg/registry"
	"github.com/brackwater-io/depsentry/pkg/store"
)

const httpClientTimeout = 10 * time.Minute

// App holds the long-lived collaborators a scan run shares: the persistent
// store, the issues client, the repository and contribution retrievers, and
// the registry clients used to enrich lock-file entries.
type App struct {
	Config *config.Config

	Store         *store.Store
	HTTPClient    *http.Client
	IssuesClient  *ghissues.Client
	GitFacts      *gitfacts.Retriever
	Contrib       *contrib.Retriever
	NPMRegistry   *registry.NPMClient
	CargoRegistry *registry.CargoClient
	Metrics       *metrics.Registry
}

// New opens the persistent store at dbPath and wires the retrievers and
// registry clients around it. Closing the returned App's Store is the
// caller's responsibility.
func New(cfg *config.Config, dbPath string, metricsRegistry *metrics.Registry) (*App, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	httpClient := &http.Client{Timeout: httpClientTimeout}

	issuesClient := ghissues.New(httpClient, githubAuth())

	return &App{
		Config:        cfg,
		Store:         st,
		HTTPClient:    httpClient,
		IssuesClient:  issuesClient,
		GitFacts:      gitfacts.New(st, gitfacts.DefaultCloner),
		Contrib:       contrib.New(issuesClient, st),
		NPMRegistry:   registry.NewNPMClient(httpClient),
		CargoRegistry: registry.NewCargoClient(httpClient),
		Metrics:       metricsRegistry,
	}, nil
}

// Close releases the underlying store connection.
func (a *App) Close() error {
	return a.Store.Close()
}

// githubAuth reads GITHUB_USERNAME/GITHUB_PASSWORD once at startup; a
// missing username means anonymous, unauthenticated requests.
func githubAuth() *ghissues.BasicAuth {
	username, ok := os.LookupEnv("GITHUB_USERNAME")
	if !ok || username == "" {
		return nil
	}

	password, _ := os.LookupEnv("GITHUB_PASSWORD")

	return &ghissues.BasicAuth{Username: username, Token: password}
}

// RegistryFor returns the registry client that matches the given lock-file
// kind. Yarn dependencies are npm packages, so it shares the NPM client.
func (a *App) RegistryFor(kind lockfile.Kind) (registry.Client, error) {
	switch kind {
	case lockfile.KindNPM, lockfile.KindYarn:
		return a.NPMRegistry, nil
	case lockfile.KindCargo:
		return a.CargoRegistry, nil
	default:
		return nil, fmt.Errorf("app: no registry client for lock-file kind %d", kind)
	}
}

// Engine builds the policy execution engine from the configured policy
// blocks: one ExecutionConfig per per-dependency override, plus a default
// config for the top-level policies when any are enabled.
func (a *App) Engine() (*engine.Executor, error) {
	configs, err := executionConfigs(a.Config, a.GitFacts, a.Contrib)
	if err != nil {
		return nil, err
	}

	executor := engine.New(configs)
	executor.Metrics = a.Metrics

	return executor, nil
}
