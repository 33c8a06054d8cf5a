package app_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/retailhub/internal/dashboard/app"
	httpapi "github.com/aussiebroadwan/retailhub/internal/dashboard/http"
	"github.com/aussiebroadwan/retailhub/internal/guard"
	"github.com/aussiebroadwan/retailhub/pkg/retailapi"
	"github.com/aussiebroadwan/retailhub/pkg/retailapi/retailapitest"
)

type harness struct {
	backend *retailapitest.Server
	handler http.Handler
}

func testConfig(backendURL string) app.Config {
	return app.Config{
		BackendURL:          backendURL,
		StorageDriver:       "memory",
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "text",
		Port:                0,
		ShutdownGracePeriod: time.Second,
		BackendTimeout:      5 * time.Second,
		VerifyTimeout:       5 * time.Second,
		VerifyWait:          2 * time.Second,
		LogoutTimeout:       time.Second,
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := retailapitest.NewServer(t)
	a, err := app.New(testConfig(backend.URL()))
	require.NoError(t, err)

	return &harness{backend: backend, handler: a.Handler()}
}

func (h *harness) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/session/login", httpapi.LoginRequest{
		Identifier: retailapitest.DefaultIdentifier,
		Password:   retailapitest.DefaultPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func (h *harness) session(t *testing.T) httpapi.SessionResponse {
	t.Helper()
	rec := h.do(t, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httpapi.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func location(t *testing.T, rec *httptest.ResponseRecorder) *url.URL {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	u, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	return u
}

func TestSignedOutDashboardRedirectsToLogin(t *testing.T) {
	h := newHarness(t)

	u := location(t, h.do(t, http.MethodGet, "/dashboard/sales", nil))
	assert.Equal(t, guard.PathLogin, u.Path)
	assert.Equal(t, "/dashboard/sales", u.Query().Get("next"))

	rec := h.do(t, http.MethodGet, guard.PathLogin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginThenDashboardRenders(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	rec := h.do(t, http.MethodGet, guard.PathDashboard, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page httpapi.PageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, guard.PathDashboard, page.Page)
	require.NotNil(t, page.Profile)
	assert.Equal(t, retailapitest.DefaultIdentifier, page.Profile.Email)

	sess := h.session(t)
	assert.True(t, sess.Authenticated)
	assert.False(t, sess.Onboarding)
	require.NotNil(t, sess.Verification.Outcome)
	assert.Equal(t, "dashboard", string(sess.Verification.Outcome.Destination))

	// Authorized sessions never reach the completeness or location checks.
	assert.Zero(t, h.backend.Calls(retailapi.PathDataStatus))
	assert.Zero(t, h.backend.Calls(retailapi.PathLocations))

	// Guest pages bounce signed-in users to the dashboard.
	u := location(t, h.do(t, http.MethodGet, guard.PathLogin, nil))
	assert.Equal(t, guard.PathDashboard, u.Path)
}

func TestPendingIncompleteRetailerLandsOnOnboarding(t *testing.T) {
	h := newHarness(t)
	h.backend.SetVerification(retailapi.VerificationStatus{Status: retailapi.StatusPending})
	h.backend.SetDataStatus(retailapi.DataStatus{IsComplete: false, MissingFields: []string{"abn", "address"}})
	h.login(t)

	u := location(t, h.do(t, http.MethodGet, guard.PathDashboard, nil))
	assert.Equal(t, guard.PathOnboarding, u.Path)
	assert.Equal(t, "abn,address", u.Query().Get("missing"))
	assert.Equal(t, "1", u.Query().Get("resume"))

	// Following the redirect renders the onboarding page with the fields.
	rec := h.do(t, http.MethodGet, u.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page httpapi.PageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, []string{"abn", "address"}, page.Nav.MissingFields)

	assert.True(t, h.session(t).Onboarding)
}

func TestRetryVerificationAfterApproval(t *testing.T) {
	h := newHarness(t)
	h.backend.SetVerification(retailapi.VerificationStatus{Status: retailapi.StatusPending})
	h.login(t)

	u := location(t, h.do(t, http.MethodGet, guard.PathDashboard, nil))
	assert.Equal(t, guard.PathPending, u.Path)

	h.backend.SetVerification(retailapi.VerificationStatus{Status: retailapi.StatusAuthorized})

	rec := h.do(t, http.MethodPost, "/api/session/verification/retry", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp httpapi.RetryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "render", resp.State)
	assert.Equal(t, guard.PathDashboard, resp.Location)
	assert.False(t, h.session(t).Onboarding)
}

func TestBackendProxyCarriesCredentialsAndLocation(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	rec := h.do(t, http.MethodPut, "/api/session/location", httpapi.LocationRequest{LocationID: "loc_main"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Access token revoked upstream: the gateway refreshes and replays once.
	h.backend.ExpireAccessTokens()

	rec = h.do(t, http.MethodPost, "/api/backend"+retailapitest.PathEcho, map[string]string{"name": "milk"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Data retailapitest.Echo `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.Equal(t, http.MethodPost, env.Data.Method)
	assert.Equal(t, "loc_main", env.Data.LocationID)
	assert.JSONEq(t, `{"name":"milk"}`, env.Data.Body)
	assert.Equal(t, 1, h.backend.Calls(retailapi.PathRefresh))
}

func TestRejectedRefreshTearsDownAndRedirects(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodGet, guard.PathDashboard, nil).Code)

	h.backend.ExpireAccessTokens()
	h.backend.RejectRefresh(true)

	rec := h.do(t, http.MethodGet, "/api/backend"+retailapitest.PathEcho, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())

	sess := h.session(t)
	assert.False(t, sess.Authenticated)
	assert.Equal(t, guard.PathLogin, sess.Redirect)

	u := location(t, h.do(t, http.MethodGet, "/dashboard/orders", nil))
	assert.Equal(t, guard.PathLogin, u.Path)
}

func TestLogoutSucceedsWithBackendDown(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.backend.FailLogout(true)

	rec := h.do(t, http.MethodPost, "/api/session/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, h.session(t).Authenticated)

	// Idempotent.
	rec = h.do(t, http.MethodPost, "/api/session/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLoginErrors(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/session/login", httpapi.LoginRequest{Identifier: "owner@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/session/login", httpapi.LoginRequest{
		Identifier: retailapitest.DefaultIdentifier,
		Password:   "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, h.session(t).Authenticated)
}

func TestRegisterStartsOnboarding(t *testing.T) {
	h := newHarness(t)
	h.backend.SetVerification(retailapi.VerificationStatus{Status: retailapi.StatusPending})
	h.backend.SetDataStatus(retailapi.DataStatus{IsComplete: false, MissingFields: []string{"abn"}})

	rec := h.do(t, http.MethodPost, "/api/session/register", httpapi.RegisterRequest{
		BusinessName: "Corner Store",
		OwnerName:    "Sam Taylor",
		Email:        "sam@example.com",
		Password:     "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sess httpapi.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sess))
	assert.True(t, sess.Onboarding)

	// Onboarding users may stay on onboarding entry pages.
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, guard.PathOnboarding, nil).Code)
}

func TestHealthEndpoints(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/livez", nil).Code)

	rec := h.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health httpapi.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/metrics", nil).Code)
}

func TestSessionSurvivesRestartWithSealedSQLite(t *testing.T) {
	backend := retailapitest.NewServer(t)
	cfg := testConfig(backend.URL())
	cfg.StorageDriver = "sqlite"
	cfg.StorageFile = filepath.Join(t.TempDir(), "dashboard.db")
	cfg.SealKey = "test-seal-key"

	first, err := app.New(cfg)
	require.NoError(t, err)
	h := &harness{backend: backend, handler: first.Handler()}
	h.login(t)
	require.NoError(t, first.Shutdown())

	second, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Shutdown() })

	h.handler = second.Handler()
	assert.True(t, h.session(t).Authenticated)
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig("not a url")
	_, err := app.New(cfg)
	require.Error(t, err)

	cfg = testConfig("http://localhost:1")
	cfg.StorageDriver = "etcd"
	_, err = app.New(cfg)
	require.Error(t, err)
}
