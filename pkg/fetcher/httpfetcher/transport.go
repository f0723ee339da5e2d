package httpfetcher

import (
	"extractor/pkg/logger"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// loggingTransport logs every outgoing request once its response headers
// arrive or the round trip fails.
type loggingTransport struct {
	next http.RoundTripper
}

// WithLogging wraps next so that each request is logged at debug level with
// the logger carried by the request context. A nil next uses
// http.DefaultTransport.
func WithLogging(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &loggingTransport{next: next}
}

// RoundTrip implements http.RoundTripper.
func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	if !logger.IsDebug(ctx) {
		return t.next.RoundTrip(r)
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(r)

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
		zap.String("user_agent", r.UserAgent()),
		zap.Float64("latency", time.Since(start).Seconds()),
	}
	if err != nil {
		logger.Debug(ctx, "request failed", append(fields, zap.Error(err))...)

		return nil, err
	}

	logger.Debug(ctx, "request log", append(fields,
		zap.Int("status_code", resp.StatusCode),
		zap.String("content_type", resp.Header.Get("Content-Type")),
	)...)

	return resp, nil
}
