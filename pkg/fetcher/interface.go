// Package fetcher defines the abstraction used to download website pages
// for contact extraction.
package fetcher

import (
	"context"
	"time"
)

// Page is a successfully fetched page.
type Page struct {
	URL        string        // URL is the requested URL after resolving the path.
	StatusCode int           // StatusCode is the HTTP status of the response.
	Body       string        // Body is the decoded (UTF-8) page content, possibly truncated.
	Duration   time.Duration // Duration is how long the request took.
}

// Fetcher downloads a single page of a website.
//
//go:generate mockgen -package mockfetcher -source=interface.go -destination=mock/mockfetcher.go *
type Fetcher interface {
	// Fetch resolves path against baseURL and performs one GET request. Any
	// failure, including a non-2xx status, is returned as an error tagged with
	// a serrors kind. Fetch never retries.
	Fetch(ctx context.Context, baseURL, path string) (*Page, error)
}
