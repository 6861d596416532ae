package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoCandidates is returned when no product clears the relevance
	// threshold after all fallback rounds. A legitimate terminal state,
	// not a transport failure.
	ErrNoCandidates = errors.New("no matching products found")

	// ErrSourceUnavailable is returned when a product-search source fails
	// (network error, non-2xx, malformed payload)
	ErrSourceUnavailable = errors.New("product source request failed")

	// ErrAuthFailed is returned when credentials for a source are missing
	// or rejected. Fatal for every lookup against that source.
	ErrAuthFailed = errors.New("source authentication failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
