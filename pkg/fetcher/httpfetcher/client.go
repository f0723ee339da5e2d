// Package httpfetcher provides a fetcher.Fetcher implementation that
// downloads pages over plain HTTP(S).
package httpfetcher

import (
	"context"
	"errors"
	"extractor/pkg/fetcher"
	"extractor/pkg/logger"
	"extractor/pkg/serrors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// DefaultMaxBodyBytes is used when Options.MaxBodyBytes is not positive.
const DefaultMaxBodyBytes = 2 << 20

// Options configure how pages are requested.
type Options struct {
	// Timeout bounds each request, including reading the body. Zero disables it.
	Timeout time.Duration
	// UserAgent is sent with every request, robots.txt included.
	UserAgent string
	// MaxBodyBytes caps how much of a body is read; the rest is ignored.
	MaxBodyBytes int64
	// RespectRobots makes Fetch refuse paths disallowed by the site's robots.txt.
	RespectRobots bool
}

// Client fetches website pages and fulfills the fetcher.Fetcher interface.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs the HTTP requests
	options    Options

	// mu guards robots.
	mu sync.Mutex
	// robots caches the robots.txt group per site root; a nil group allows everything.
	robots map[string]*robotstxt.Group
}

// Fetch resolves path against baseURL and downloads the page with one GET
// request. The body is decoded to UTF-8 according to the declared or sniffed
// charset. Errors carry a serrors kind: ErrNotFound for 404, ErrRateLimited
// for 429, ErrTimeout for timeouts, ErrForbidden for robots.txt refusals and
// ErrUnavailable for everything else.
func (c *Client) Fetch(ctx context.Context, baseURL, path string) (*fetcher.Page, error) {
	target, err := resolve(baseURL, path)
	if err != nil {
		return nil, err
	}

	if c.options.RespectRobots && !c.allowed(ctx, target) {
		return nil, serrors.With(serrors.ErrForbidden, "%s is disallowed by robots.txt", target)
	}

	if c.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.options.Timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, target.String())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, serrors.With(serrors.ErrNotFound, "page %s not found", target)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, serrors.With(serrors.ErrRateLimited, "rate limited by %s", target.Host)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, serrors.With(serrors.ErrUnavailable, "unexpected status %d", resp.StatusCode)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, c.options.MaxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, classify(err, "could not decode response body")
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, classify(err, "could not read response body")
	}

	return &fetcher.Page{
		URL:        target.String(),
		StatusCode: resp.StatusCode,
		Body:       string(b),
		Duration:   time.Since(start),
	}, nil
}

func (c *Client) newRequest(ctx context.Context, target string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInvalidURL, err, "could not create request")
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if c.options.UserAgent != "" {
		req.Header.Set("User-Agent", c.options.UserAgent)
	}

	return req, nil
}

// allowed reports whether robots.txt of the target's site lets the fetcher
// request the target path. robots.txt is downloaded once per site.
func (c *Client) allowed(ctx context.Context, target *url.URL) bool {
	root := target.Scheme + "://" + target.Host

	c.mu.Lock()
	group, ok := c.robots[root]
	c.mu.Unlock()

	if !ok {
		group = c.loadRobots(ctx, root)

		c.mu.Lock()
		c.robots[root] = group
		c.mu.Unlock()
	}

	if group == nil {
		return true
	}

	p := target.EscapedPath()
	if p == "" {
		p = "/"
	}

	return group.Test(p)
}

// loadRobots downloads and parses robots.txt of a site. Any failure yields a
// nil group, which allows everything.
func (c *Client) loadRobots(ctx context.Context, root string) *robotstxt.Group {
	if c.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.options.Timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, root+"/robots.txt")
	if err != nil {
		return nil
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug(ctx, "could not fetch robots.txt", zap.String("site", root), zap.Error(err))

		return nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// a broken server says nothing about what is allowed
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		logger.Debug(ctx, "could not parse robots.txt", zap.String("site", root), zap.Error(err))

		return nil
	}

	return data.FindGroup(c.options.UserAgent)
}

func resolve(baseURL, path string) (*url.URL, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInvalidURL, err, "could not parse base URL")
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInvalidURL, err, "could not parse page path")
	}

	return base.ResolveReference(ref), nil
}

// classify tags a transport error with the matching serrors kind.
func classify(err error, msg string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return serrors.Wrap(serrors.ErrTimeout, err, "%s", msg)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return serrors.Wrap(serrors.ErrTimeout, err, "%s", msg)
	}

	return serrors.Wrap(serrors.ErrUnavailable, err, "%s", msg)
}

// Ensure Client conforms to the fetcher.Fetcher interface at compile time.
var _ fetcher.Fetcher = (*Client)(nil)

// New constructs a Client. A nil httpClient is replaced by a cookie-less
// client whose requests are logged through WithLogging.
func New(httpClient *http.Client, options Options) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: WithLogging(http.DefaultTransport)}
	}
	if options.MaxBodyBytes <= 0 {
		options.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &Client{
		httpClient: httpClient,
		options:    options,
		robots:     make(map[string]*robotstxt.Group),
	}
}

// String implements fmt.Stringer for log fields.
func (o Options) String() string {
	return fmt.Sprintf("timeout=%s maxBodyBytes=%d respectRobots=%t", o.Timeout, o.MaxBodyBytes, o.RespectRobots)
}
