package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/retailhub/internal/session"
	"github.com/aussiebroadwan/retailhub/pkg/httpx"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestBackendProxyRewritesPath(t *testing.T) {
	t.Parallel()

	backend, err := url.Parse("http://backend.internal/base")
	require.NoError(t, err)

	var seen *http.Request
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": {"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"success":true}`)),
			Request:    r,
		}, nil
	})

	req := httptest.NewRequest(http.MethodGet, BackendPrefix+"/api/v1/products?page=2", nil)
	req.Header.Set("Authorization", "Bearer from-browser")
	req.Header.Set("Cookie", "sid=1")
	rec := httptest.NewRecorder()
	NewBackendProxy(backend, rt).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "backend.internal", seen.URL.Host)
	assert.Equal(t, "/base/api/v1/products", seen.URL.Path)
	assert.Equal(t, "page=2", seen.URL.RawQuery)
	assert.Empty(t, seen.Header.Get("Authorization"))
	assert.Empty(t, seen.Header.Get("Cookie"))
}

func TestBackendProxyErrors(t *testing.T) {
	t.Parallel()

	backend, err := url.Parse("http://backend.internal")
	require.NoError(t, err)

	tests := []struct {
		name    string
		err     error
		code    int
		errCode string
	}{
		{"terminal", fmt.Errorf("gateway: %w", session.ErrRefreshRejected), http.StatusUnauthorized, "session_expired"},
		{"no refresh token", fmt.Errorf("gateway: %w", session.ErrNoRefreshToken), http.StatusUnauthorized, "session_expired"},
		{"network", fmt.Errorf("dial tcp: connection refused"), http.StatusBadGateway, "bad_gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := roundTripFunc(func(*http.Request) (*http.Response, error) { return nil, tt.err })

			rec := httptest.NewRecorder()
			NewBackendProxy(backend, rt).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, BackendPrefix+"/x", nil))

			require.Equal(t, tt.code, rec.Code)
			var body httpx.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.errCode, body.Error)
		})
	}
}
