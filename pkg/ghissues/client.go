// Package ghissues implements a paginating client over the GitHub issues
// API, exposing a pull-based iterator over issue and pull-request bodies.
package ghissues

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/brackwater-io/depsentry/pkg/errs"
	"github.com/brackwater-io/depsentry/pkg/iox"
)

const (
	baseURL = "https://api.github.com"

	// maxAttempts is the initial request plus 8 retries, matching the
	// "retries 8 times" rate-limit contract: 9 requests total, 8 sleeps
	// doubling from 15s up to 1920s.
	maxAttempts    = 9
	initialBackoff = 15 * time.Second
)

// BasicAuth carries HTTP basic-auth credentials for authenticated requests.
type BasicAuth struct {
	Username string
	Token    string
}

// Client fetches paginated issue and pull-request records from GitHub.
type Client struct {
	HTTPClient *http.Client
	Auth       *BasicAuth
	UserAgent  string

	// BaseURL overrides the GitHub API origin; empty means the real API.
	// Tests point this at an httptest server.
	BaseURL string

	// InitialBackoff overrides the first 403 retry delay; zero means the
	// production default of 15s. Tests shrink this to keep runs fast.
	InitialBackoff time.Duration
}

// New returns a Client with sensible defaults.
func New(httpClient *http.Client, auth *BasicAuth) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{HTTPClient: httpClient, Auth: auth, UserAgent: "depsentry/1.0"}
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}

	return baseURL
}

// Iterator pulls one record at a time from a paginated GitHub listing.
type Iterator struct {
	client      *Client
	nextPageURL *string
	buf         []json.RawMessage
	wantsPR     bool
	started     bool
}

// Issues returns an iterator over org/repo's issues, oldest-created first,
// excluding pull requests (GitHub's issues endpoint returns both; entries
// carrying a "pull_request" field are filtered out).
func (c *Client) Issues(org, repo string) *Iterator {
	url := fmt.Sprintf("%s/repos/%s/%s/issues?state=all&per_page=100&sort=created&direction=asc", c.baseURL(), org, repo)

	return &Iterator{client: c, nextPageURL: &url, wantsPR: false}
}

// PullRequests returns an iterator over org/repo's pull requests,
// oldest-created first, using the same issues listing but keeping only
// entries carrying a "pull_request" field.
func (c *Client) PullRequests(org, repo string) *Iterator {
	url := fmt.Sprintf("%s/repos/%s/%s/issues?state=all&per_page=100&sort=created&direction=asc", c.baseURL(), org, repo)

	return &Iterator{client: c, nextPageURL: &url, wantsPR: true}
}

// Next returns the next matching record. ok is false once the listing is
// exhausted; err is non-nil only on a genuine fetch failure.
func (it *Iterator) Next(ctx context.Context) (json.RawMessage, bool, error) {
	for {
		if len(it.buf) > 0 {
			// Pop from the front so records come out in listing order;
			// callers such as contrib keep the tail as the most recent ones.
			record := it.buf[0]
			it.buf = it.buf[1:]

			var probe struct {
				PullRequest json.RawMessage `json:"pull_request"`
			}

			if err := json.Unmarshal(record, &probe); err != nil {
				return nil, false, fmt.Errorf("%w: decode issue record: %v", errs.ErrMalformed, err)
			}

			isPR := len(probe.PullRequest) > 0
			if isPR != it.wantsPR {
				continue
			}

			return record, true, nil
		}

		if it.started && it.nextPageURL == nil {
			return nil, false, nil
		}

		if err := it.fetchPage(ctx); err != nil {
			return nil, false, err
		}
	}
}

func (it *Iterator) fetchPage(ctx context.Context) error {
	it.started = true

	records, next, err := it.client.fetch(ctx, *it.nextPageURL)
	if err != nil {
		return err
	}

	it.buf = records
	it.nextPageURL = next

	return nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]json.RawMessage, *string, error) {
	backoff := initialBackoff
	if c.InitialBackoff > 0 {
		backoff = c.InitialBackoff
	}

	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, nil, fmt.Errorf("%w: %v", errs.ErrRateLimited, ctx.Err())
			case <-time.After(backoff):
			}

			backoff *= 2
		}

		records, next, status, err := c.doRequest(ctx, url)
		if err == nil {
			return records, next, nil
		}

		lastErr = err

		if status != http.StatusForbidden {
			return nil, nil, err
		}
	}

	return nil, nil, fmt.Errorf("%w: exhausted %d attempts: %v", errs.ErrRateLimited, maxAttempts, lastErr)
}

func (c *Client) doRequest(ctx context.Context, url string) ([]json.RawMessage, *string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.UserAgent)

	if c.Auth != nil {
		req.SetBasicAuth(c.Auth.Username, c.Auth.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%w: %v", errs.ErrUpstreamUnavailable, err)
	}
	defer iox.DiscardClose(resp.Body)

	if resp.StatusCode == http.StatusForbidden {
		return nil, nil, resp.StatusCode, fmt.Errorf("%w: status 403", errs.ErrRateLimited)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, resp.StatusCode, fmt.Errorf("%w: status %d", errs.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var records []json.RawMessage
	if decodeErr := json.NewDecoder(resp.Body).Decode(&records); decodeErr != nil {
		return nil, nil, resp.StatusCode, fmt.Errorf("%w: %v", errs.ErrMalformed, decodeErr)
	}

	return records, parseNextLink(resp.Header.Get("Link")), resp.StatusCode, nil
}

// parseNextLink extracts the rel="next" URL from a GitHub Link header, or
// nil when there is no next page.
func parseNextLink(header string) *string {
	if header == "" {
		return nil
	}

	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}

		if !strings.Contains(segments[1], `rel="next"`) {
			continue
		}

		url := strings.TrimSpace(segments[0])
		url = strings.TrimPrefix(url, "<")
		url = strings.TrimSuffix(url, ">")

		return &url
	}

	return nil
}
