package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/retailhub/pkg/idx"
)

// Transport logs outbound requests at debug level and failures at warn.
// Header values are never logged so credentials cannot leak into logs.
type Transport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, logger *slog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Logger: logger}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	logger := t.Logger
	if logger == nil {
		logger = FromContext(req.Context())
	}

	start := time.Now()
	resp, err := t.Base.RoundTrip(req)
	attrs := []any{
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"req_id", req.Header.Get(idx.RequestIDHeader),
		"duration_ms", time.Since(start).Milliseconds(),
	}

	if err != nil {
		logger.Warn("backend_request_failed", append(attrs, "error", err)...)
		return nil, err
	}

	logger.Debug("backend_request", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}
