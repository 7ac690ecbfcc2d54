package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brackwater-io/depsentry/pkg/app"
	"github.com/brackwater-io/depsentry/pkg/config"
	"github.com/brackwater-io/depsentry/pkg/depmodel"
)

func TestDependenciesEnrichesNPMLockFileEntries(t *testing.T) {
	registryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"dist-tags": {"latest": "1.3.1"},
			"repository": {"url": "git+https://github.com/stevemao/left-pad.git"}
		}`))
	}))
	defer registryServer.Close()

	dir := t.TempDir()
	lockPath := filepath.Join(dir, "package-lock.json")
	require.NoError(t, os.WriteFile(lockPath, []byte(`{
		"dependencies": {
			"left-pad": {"version": "1.3.0"}
		}
	}`), 0o600))

	cfg, err := config.LoadConfig(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)

	a, err := app.New(cfg, filepath.Join(dir, "depsentry.db"), nil)
	require.NoError(t, err)
	defer a.Close()

	a.NPMRegistry.BaseURL = registryServer.URL

	deps, err := a.Dependencies(context.Background(), lockPath)
	require.NoError(t, err)
	require.Len(t, deps, 1)

	assert.Equal(t, "left-pad", deps[0].Name)
	assert.Equal(t, "1.3.0", deps[0].Version)
	assert.Equal(t, "1.3.1", deps[0].LatestVersion)
	assert.Equal(t, depmodel.Repository{Kind: depmodel.RepositoryGitHub, Organization: "stevemao", Name: "left-pad"}, deps[0].Repository)
}

func TestEngineBuildsDefaultPoliciesFromConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.LoadConfig(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)

	a, err := app.New(cfg, filepath.Join(dir, "depsentry.db"), nil)
	require.NoError(t, err)
	defer a.Close()

	executor, err := a.Engine()
	require.NoError(t, err)
	require.NotNil(t, executor)
}
