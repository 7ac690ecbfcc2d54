package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/errs"
	"github.com/brackwater-io/depsentry/pkg/iox"
)

const npmBaseURL = "https://registry.npmjs.org"

type npmPackage struct {
	DistTags struct {
		Latest string `json:"latest"`
	} `json:"dist-tags"`
	Repository struct {
		URL string `json:"url"`
	} `json:"repository"`
	Homepage string `json:"homepage"`
}

// NPMClient resolves packages against the public npm registry.
type NPMClient struct {
	HTTPClient *http.Client

	// BaseURL overrides the registry origin; empty means the real registry.
	BaseURL string
}

// NewNPMClient returns an NPMClient with sensible defaults.
func NewNPMClient(httpClient *http.Client) *NPMClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &NPMClient{HTTPClient: httpClient}
}

// LatestVersion implements Client.
func (c *NPMClient) LatestVersion(ctx context.Context, name string) (string, error) {
	pkg, err := c.fetch(ctx, name)
	if err != nil {
		return "", err
	}

	if pkg.DistTags.Latest == "" {
		return "", fmt.Errorf("%w: npm package %q has no dist-tags.latest", errs.ErrMalformed, name)
	}

	return pkg.DistTags.Latest, nil
}

// Repository implements Client. It prefers repository.url, falling back to
// homepage when the repository block is absent.
func (c *NPMClient) Repository(ctx context.Context, name string) (depmodel.Repository, error) {
	pkg, err := c.fetch(ctx, name)
	if err != nil {
		return depmodel.Unknown(), err
	}

	if pkg.Repository.URL != "" {
		return depmodel.ParseRepositoryURL(pkg.Repository.URL), nil
	}

	if pkg.Homepage != "" {
		return depmodel.ParseRepositoryURL(pkg.Homepage), nil
	}

	return depmodel.Unknown(), nil
}

func (c *NPMClient) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}

	return npmBaseURL
}

func (c *NPMClient) fetch(ctx context.Context, name string) (npmPackage, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL(), url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return npmPackage{}, fmt.Errorf("build npm registry request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return npmPackage{}, fmt.Errorf("%w: %v", errs.ErrUpstreamUnavailable, err)
	}
	defer iox.DiscardClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return npmPackage{}, fmt.Errorf("%w: npm registry status %d for %q", errs.ErrUpstreamUnavailable, resp.StatusCode, name)
	}

	var pkg npmPackage
	if err := json.NewDecoder(resp.Body).Decode(&pkg); err != nil {
		return npmPackage{}, fmt.Errorf("%w: decode npm registry response for %q: %v", errs.ErrMalformed, name, err)
	}

	return pkg, nil
}
