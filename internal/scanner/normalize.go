package scanner

import (
	"extractor/pkg/serrors"
	"net"
	"net/url"
	"strings"
)

// NormalizeURL turns a raw website value into the canonical root URL of the
// site, scheme://host[:port], that page paths are resolved against.
//
// The rules are:
//   - Trim whitespace; an empty value is rejected with serrors.ErrNoURL
//   - Prepend "https://" when the value carries no scheme
//   - Lower-case the scheme and host
//   - Drop default ports (http:80, https:443), keep non-default ports
//   - Discard path, query, fragment and user info
//
// Values that do not parse, use a scheme other than http(s) or have no host
// are rejected with serrors.ErrInvalidURL.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", serrors.With(serrors.ErrNoURL, "website is empty")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + strings.TrimPrefix(raw, "//")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrInvalidURL, err, "could not parse website")
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", serrors.With(serrors.ErrInvalidURL, "unsupported scheme %q", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", serrors.With(serrors.ErrInvalidURL, "website %q has no host", raw)
	}
	if strings.ContainsAny(host, " \t") {
		return "", serrors.With(serrors.ErrInvalidURL, "website %q has an invalid host", raw)
	}

	// drop default ports for common schemes
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}

	out := url.URL{Scheme: scheme, Host: host}
	if port != "" {
		out.Host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		// bare IPv6 literal
		out.Host = "[" + host + "]"
	}

	return out.String(), nil
}
