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

const cargoBaseURL = "https://crates.io/api/v1/crates"

type cargoCrateEnvelope struct {
	Crate cargoCrate `json:"crate"`
}

type cargoCrate struct {
	NewestVersion string `json:"newest_version"`
	Repository    string `json:"repository"`
}

// CargoClient resolves packages against the crates.io registry.
type CargoClient struct {
	HTTPClient *http.Client

	// BaseURL overrides the registry origin; empty means the real registry.
	BaseURL string
}

// NewCargoClient returns a CargoClient with sensible defaults.
func NewCargoClient(httpClient *http.Client) *CargoClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &CargoClient{HTTPClient: httpClient}
}

// LatestVersion implements Client.
func (c *CargoClient) LatestVersion(ctx context.Context, name string) (string, error) {
	crate, err := c.fetch(ctx, name)
	if err != nil {
		return "", err
	}

	if crate.NewestVersion == "" {
		return "", fmt.Errorf("%w: crate %q has no newest_version", errs.ErrMalformed, name)
	}

	return crate.NewestVersion, nil
}

// Repository implements Client.
func (c *CargoClient) Repository(ctx context.Context, name string) (depmodel.Repository, error) {
	crate, err := c.fetch(ctx, name)
	if err != nil {
		return depmodel.Unknown(), err
	}

	if crate.Repository == "" {
		return depmodel.Unknown(), nil
	}

	return depmodel.ParseRepositoryURL(crate.Repository), nil
}

func (c *CargoClient) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}

	return cargoBaseURL
}

func (c *CargoClient) fetch(ctx context.Context, name string) (cargoCrate, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL(), url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return cargoCrate{}, fmt.Errorf("build crates.io request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return cargoCrate{}, fmt.Errorf("%w: %v", errs.ErrUpstreamUnavailable, err)
	}
	defer iox.DiscardClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return cargoCrate{}, fmt.Errorf("%w: crates.io status %d for %q", errs.ErrUpstreamUnavailable, resp.StatusCode, name)
	}

	var envelope cargoCrateEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return cargoCrate{}, fmt.Errorf("%w: decode crates.io response for %q: %v", errs.ErrMalformed, name, err)
	}

	return envelope.Crate, nil
}
