package contrib_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brackwater-io/depsentry/pkg/contrib"
	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/ghissues"
	"github.com/brackwater-io/depsentry/pkg/store"
)

func TestIssueLifespanComputesMeanOfClosedIssues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"state":"closed","created_at":"2024-01-01T00:00:00Z","closed_at":"2024-01-02T00:00:00Z"},
			{"state":"closed","created_at":"2024-01-01T00:00:00Z","closed_at":"2024-01-03T00:00:00Z"},
			{"state":"open","created_at":"2024-01-01T00:00:00Z"}
		]`)
	}))
	defer server.Close()

	client := ghissues.New(server.Client(), nil)
	client.BaseURL = server.URL

	s, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer s.Close()

	retriever := contrib.New(client, s)

	repo := depmodel.Repository{Kind: depmodel.RepositoryGitHub, Organization: "acme", Name: "widgets"}

	mean, err := retriever.IssueLifespan(context.Background(), repo, 10)
	require.NoError(t, err)
	require.InDelta(t, 129600, mean, 1) // mean of 1 day and 2 days, in seconds
}

func TestIssueLifespanRejectsUnimplementedRepositoryKinds(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer s.Close()

	retriever := contrib.New(ghissues.New(nil, nil), s)

	_, err = retriever.IssueLifespan(context.Background(), depmodel.Repository{Kind: depmodel.RepositoryGitLab}, 10)
	require.ErrorIs(t, err, contrib.ErrNotImplemented)

	_, err = retriever.IssueLifespan(context.Background(), depmodel.Unknown(), 10)
	require.Error(t, err)
}
