package httpfetcher_test

import (
	"context"
	"errors"
	"extractor/pkg/fetcher/httpfetcher"
	"extractor/pkg/serrors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const userAgent = "extractor-test/1.0"

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc, opts httpfetcher.Options) *httpfetcher.Client {
	if opts.UserAgent == "" {
		opts.UserAgent = userAgent
	}

	return httpfetcher.New(&http.Client{Transport: fn}, opts)
}

func htmlResponse(status int, contentType, body string) *http.Response {
	h := http.Header{}
	h.Set("Content-Type", contentType)

	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClient_Fetch_success(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "acmecorp.com", r.URL.Host)
		require.Equal(t, "/contact", r.URL.Path)
		require.Equal(t, userAgent, r.Header.Get("User-Agent"))
		require.Contains(t, r.Header.Get("Accept"), "text/html")

		return htmlResponse(http.StatusOK, "text/html; charset=utf-8", "<p>info@acmecorp.com</p>"), nil
	}, httpfetcher.Options{})

	page, err := c.Fetch(context.Background(), "https://acmecorp.com", "/contact")
	require.NoError(t, err)
	require.Equal(t, "https://acmecorp.com/contact", page.URL)
	require.Equal(t, http.StatusOK, page.StatusCode)
	require.Equal(t, "<p>info@acmecorp.com</p>", page.Body)
}

func TestClient_Fetch_resolvesPaths(t *testing.T) {
	var got []string
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		got = append(got, r.URL.String())

		return htmlResponse(http.StatusOK, "text/html", "ok"), nil
	}, httpfetcher.Options{})

	for _, p := range []string{"", "/contact", "/about", "/contact-us"} {
		_, err := c.Fetch(context.Background(), "https://acmecorp.com:8443", p)
		require.NoError(t, err)
	}

	require.Equal(t, []string{
		"https://acmecorp.com:8443",
		"https://acmecorp.com:8443/contact",
		"https://acmecorp.com:8443/about",
		"https://acmecorp.com:8443/contact-us",
	}, got)
}

func TestClient_Fetch_statusErrors(t *testing.T) {
	cases := []struct {
		status int
		kind   serrors.Kind
	}{
		{status: http.StatusNotFound, kind: serrors.ErrNotFound},
		{status: http.StatusTooManyRequests, kind: serrors.ErrRateLimited},
		{status: http.StatusInternalServerError, kind: serrors.ErrUnavailable},
		{status: http.StatusForbidden, kind: serrors.ErrUnavailable},
		{status: http.StatusMovedPermanently, kind: serrors.ErrUnavailable},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c := newTestClient(func(r *http.Request) (*http.Response, error) {
				return htmlResponse(tc.status, "text/html", "nope"), nil
			}, httpfetcher.Options{})

			page, err := c.Fetch(context.Background(), "https://acmecorp.com", "/about")
			require.Nil(t, page)
			require.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestClient_Fetch_networkError(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}, httpfetcher.Options{})

	_, err := c.Fetch(context.Background(), "https://acmecorp.com", "")
	require.ErrorIs(t, err, serrors.ErrUnavailable)
	require.Contains(t, err.Error(), "connection refused")
}

func TestClient_Fetch_timeout(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		<-r.Context().Done()

		return nil, r.Context().Err()
	}, httpfetcher.Options{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := c.Fetch(context.Background(), "https://acmecorp.com", "")
	require.ErrorIs(t, err, serrors.ErrTimeout)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_Fetch_decodesCharset(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return htmlResponse(http.StatusOK, "text/html; charset=iso-8859-1", "Caf\xe9 M\xfcller: info@cafe.de"), nil
	}, httpfetcher.Options{})

	page, err := c.Fetch(context.Background(), "https://cafe.de", "")
	require.NoError(t, err)
	require.Equal(t, "Café Müller: info@cafe.de", page.Body)
}

func TestClient_Fetch_truncatesBody(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return htmlResponse(http.StatusOK, "text/plain; charset=utf-8", "0123456789abcdef"), nil
	}, httpfetcher.Options{MaxBodyBytes: 10})

	page, err := c.Fetch(context.Background(), "https://acmecorp.com", "")
	require.NoError(t, err)
	require.Equal(t, "0123456789", page.Body)
}

func TestClient_Fetch_respectsRobots(t *testing.T) {
	var robotsHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			robotsHits.Add(1)
			_, _ = io.WriteString(w, "User-agent: *\nDisallow: /contact\n")
		default:
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, "page "+r.URL.Path)
		}
	}))
	defer srv.Close()

	c := httpfetcher.New(srv.Client(), httpfetcher.Options{UserAgent: userAgent, RespectRobots: true})

	_, err := c.Fetch(context.Background(), srv.URL, "/contact")
	require.ErrorIs(t, err, serrors.ErrForbidden)

	page, err := c.Fetch(context.Background(), srv.URL, "/about")
	require.NoError(t, err)
	require.Equal(t, "page /about", page.Body)

	page, err = c.Fetch(context.Background(), srv.URL, "")
	require.NoError(t, err)
	require.Equal(t, "page /", page.Body)

	require.Equal(t, int32(1), robotsHits.Load(), "robots.txt should be fetched once per site")
}

func TestClient_Fetch_missingRobotsAllowsAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)

			return
		}
		_, _ = io.WriteString(w, "hello")
	}))
	defer srv.Close()

	c := httpfetcher.New(srv.Client(), httpfetcher.Options{UserAgent: userAgent, RespectRobots: true})

	page, err := c.Fetch(context.Background(), srv.URL, "/contact")
	require.NoError(t, err)
	require.Equal(t, "hello", page.Body)
}

func TestClient_Fetch_invalidBase(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")

		return nil, nil
	}, httpfetcher.Options{})

	_, err := c.Fetch(context.Background(), "http://[::1", "/contact")
	require.ErrorIs(t, err, serrors.ErrInvalidURL)
}
