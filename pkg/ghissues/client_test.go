package ghissues_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brackwater-io/depsentry/pkg/ghissues"
)

func TestIssuesFiltersOutPullRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"number":1},{"number":2,"pull_request":{"url":"x"}}]`)
	}))
	defer server.Close()

	client := ghissues.New(server.Client(), nil)
	client.BaseURL = server.URL

	it := client.Issues("acme", "widgets")

	record, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"number":1}`, string(record))

	_, ok, err = it.Next(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPullRequestsKeepsOnlyPullRequestEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"number":1},{"number":2,"pull_request":{"url":"x"}}]`)
	}))
	defer server.Close()

	client := ghissues.New(server.Client(), nil)
	client.BaseURL = server.URL

	it := client.PullRequests("acme", "widgets")

	record, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"number":2,"pull_request":{"url":"x"}}`, string(record))
}

func TestFollowsLinkHeaderForNextPage(t *testing.T) {
	var (
		calls     int
		serverURL string
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/issues", func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Link", fmt.Sprintf(`<%s/page2>; rel="next"`, serverURL))
		fmt.Fprint(w, `[{"number":1}]`)
	})
	mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"number":2}]`)
	})

	server := httptest.NewServer(mux)
	defer server.Close()
	serverURL = server.URL

	client := ghissues.New(server.Client(), nil)
	client.BaseURL = server.URL

	it := client.Issues("acme", "widgets")

	first, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"number":1}`, string(first))

	second, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"number":2}`, string(second))

	require.Equal(t, 2, calls)

	_, ok, err = it.Next(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRetriesOn403ThenSucceeds(t *testing.T) {
	var calls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusForbidden)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"number":1}]`)
	}))
	defer server.Close()

	client := ghissues.New(server.Client(), nil)
	client.BaseURL = server.URL
	client.InitialBackoff = time.Millisecond

	it := client.Issues("acme", "widgets")

	record, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"number":1}`, string(record))
	require.Equal(t, 2, calls)
}
