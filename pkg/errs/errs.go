// Package errs defines the sentinel error kinds shared across depsentry's
// retrieval and policy layers.
package errs

import "errors"

var (
	// ErrUnknownRepository is returned when a dependency's registry metadata
	// does not resolve to any repository (the Unknown repository kind).
	ErrUnknownRepository = errors.New("unknown repository")

	// ErrUpstreamUnavailable is returned when a registry or source-control
	// host cannot be reached or returns a server error.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrRateLimited is returned when an upstream host exhausts the
	// configured retry budget while rate-limiting requests.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformed is returned when an upstream response or local lock
	// file cannot be parsed.
	ErrMalformed = errors.New("malformed input")

	// ErrStore is returned when the persistent cache cannot be read from
	// or written to. Read misses are not errors; see store's "ok" returns.
	ErrStore = errors.New("store operation failed")
)
