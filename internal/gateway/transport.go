// Package gateway decorates outbound backend calls with the session
// credential and owns the single-flight refresh protocol.
//
// Every request is sent with the latest access token and the active
// location. When the backend answers 401, the first such request starts a
// refresh; every other 401 that arrives while it is in flight waits for the
// same refresh instead of starting another. Once the refresh lands, each
// waiting request is replayed exactly once with the new token. A replay that
// is rejected again is returned to the caller as is.
//
//	gw := gateway.New(store, gateway.WithNavigator(nav), gateway.WithLogger(logger))
//	api := retailapi.NewClient(baseURL, gw.Client())
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/retailhub/internal/session"
	"github.com/aussiebroadwan/retailhub/pkg/idx"
	"github.com/aussiebroadwan/retailhub/pkg/jwtx"
	"github.com/aussiebroadwan/retailhub/pkg/retailapi"
	"github.com/aussiebroadwan/retailhub/pkg/slogx"
)

const (
	// DefaultRefreshTimeout bounds a single refresh call.
	DefaultRefreshTimeout = 15 * time.Second

	// DefaultExpiryBuffer is how close to expiry a JWT access token may get
	// before requests refresh it up front.
	DefaultExpiryBuffer = 30 * time.Second

	// DefaultLoginPath is where the navigator is sent when the session is
	// torn down.
	DefaultLoginPath = "/login"
)

// DefaultExcludedPaths are backend paths whose 401 never triggers a refresh.
var DefaultExcludedPaths = []string{
	retailapi.PathLogin,
	retailapi.PathRegister,
	retailapi.PathRefresh,
	retailapi.PathLogout,
}

// DefaultPublicPaths are UI paths that do not need a redirect after teardown.
var DefaultPublicPaths = []string{"/login", "/register"}

// TokenSource is the view of the session the transport needs. Implemented by
// *session.Store.
type TokenSource interface {
	AccessToken() string
	LocationID() string
	Refresh(ctx context.Context) (string, error)
	ClearAuth(ctx context.Context)
}

// Navigator moves the UI after the session is torn down.
type Navigator interface {
	CurrentPath() string
	Redirect(path string)
}

type refreshResult struct {
	token string
	err   error
}

// Transport is an http.RoundTripper implementing the refresh protocol.
type Transport struct {
	base           http.RoundTripper
	tokens         TokenSource
	nav            Navigator
	log            *slog.Logger
	excluded       []string
	public         []string
	loginPath      string
	refreshTimeout time.Duration
	expiryBuffer   time.Duration
	now            func() time.Time

	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshResult
}

// Option configures a Transport.
type Option func(*Transport)

// WithBase sets the underlying transport. Defaults to http.DefaultTransport.
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) { t.base = rt }
}

// WithNavigator sets where teardown redirects go.
func WithNavigator(nav Navigator) Option {
	return func(t *Transport) { t.nav = nav }
}

// WithLogger sets the logger used for protocol events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) { t.log = logger }
}

// WithExcludedPaths replaces the paths whose 401 is returned untouched.
func WithExcludedPaths(paths ...string) Option {
	return func(t *Transport) { t.excluded = paths }
}

// WithPublicPaths replaces the UI paths that skip the teardown redirect.
func WithPublicPaths(paths ...string) Option {
	return func(t *Transport) { t.public = paths }
}

// WithLoginPath sets the teardown redirect target.
func WithLoginPath(path string) Option {
	return func(t *Transport) { t.loginPath = path }
}

// WithRefreshTimeout bounds each refresh call.
func WithRefreshTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.refreshTimeout = d
		}
	}
}

// WithExpiryBuffer sets the proactive refresh window. Zero disables it.
func WithExpiryBuffer(d time.Duration) Option {
	return func(t *Transport) { t.expiryBuffer = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Transport) { t.now = now }
}

// New creates a Transport reading credentials from tokens.
func New(tokens TokenSource, opts ...Option) *Transport {
	t := &Transport{
		base:           http.DefaultTransport,
		tokens:         tokens,
		log:            slog.Default(),
		excluded:       DefaultExcludedPaths,
		public:         DefaultPublicPaths,
		loginPath:      DefaultLoginPath,
		refreshTimeout: DefaultRefreshTimeout,
		expiryBuffer:   DefaultExpiryBuffer,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With("component", "gateway")
	return t
}

// Client returns an *http.Client using t. No client timeout is set; callers
// bound requests with their context.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.isExcluded(req) {
		return t.send(req, nil, "")
	}

	getBody, err := rewindable(req)
	if err != nil {
		return nil, err
	}

	log := slogx.FromContext(req.Context())

	token := t.tokens.AccessToken()
	if token != "" && t.expiryBuffer > 0 && jwtx.ExpiresWithin(token, t.expiryBuffer, t.now()) {
		fresh, _, err := t.awaitRefresh(req.Context(), token)
		switch {
		case err == nil:
			token = fresh
		case session.IsTerminal(err):
			return nil, fmt.Errorf("gateway: %w", err)
		default:
			// The old token may still be accepted; a 401 below retries.
			log.Warn("proactive refresh failed", "error", err)
		}
	}

	resp, err := t.send(req, getBody, token)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	drain(resp)

	// 401: obtain a token that can succeed, then replay exactly once.
	next, refreshed, err := t.awaitRefresh(req.Context(), token)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}

	retried, err := t.send(req, getBody, next)
	if err != nil {
		return nil, err
	}

	reason, outcome := "stale_token", "ok"
	if refreshed {
		reason = "refreshed"
	}
	if retried.StatusCode == http.StatusUnauthorized {
		outcome = "unauthorized"
		log.Warn("request rejected after refresh",
			"method", req.Method,
			"path", req.URL.Path,
		)
	}
	replayTotal.WithLabelValues(reason, outcome).Inc()

	return retried, nil
}

// send clones req with a fresh body and the given credential and hands it to
// the base transport. An empty token leaves any caller-set Authorization
// header in place.
func (t *Transport) send(
	req *http.Request,
	getBody func() (io.ReadCloser, error),
	token string,
) (*http.Response, error) {
	out := req.Clone(req.Context())
	if getBody != nil {
		body, err := getBody()
		if err != nil {
			return nil, fmt.Errorf("gateway: rewind request body: %w", err)
		}
		out.Body = body
		out.GetBody = getBody
	}

	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	if loc := t.tokens.LocationID(); loc != "" {
		out.Header.Set(retailapi.LocationHeader, loc)
	}
	if out.Header.Get(idx.RequestIDHeader) == "" {
		reqID := slogx.RequestID(req.Context())
		if reqID == "" {
			reqID = idx.NewRequestID()
		}
		out.Header.Set(idx.RequestIDHeader, reqID)
	}

	return t.base.RoundTrip(out)
}

// awaitRefresh returns a token to replay a request that failed with failed.
//
// If the store already holds a different token, another request refreshed
// in the meantime and that token is returned without a new refresh.
// Otherwise the caller joins the in-flight refresh, starting one if none is
// running; refreshed is true in that case.
func (t *Transport) awaitRefresh(ctx context.Context, failed string) (token string, refreshed bool, err error) {
	t.mu.Lock()

	if current := t.tokens.AccessToken(); current != "" && current != failed {
		t.mu.Unlock()
		return current, false, nil
	}

	ch := make(chan refreshResult, 1)
	t.waiters = append(t.waiters, ch)
	if !t.refreshing {
		t.refreshing = true
		go t.runRefresh(slogx.RequestID(ctx))
	}
	t.mu.Unlock()

	select {
	case res := <-ch:
		return res.token, true, res.err
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// runRefresh performs the one refresh call and releases every waiter. It is
// detached from any single request so a cancelled first caller does not
// fail the others.
func (t *Transport) runRefresh(reqID string) {
	ctx, cancel := context.WithTimeout(context.Background(), t.refreshTimeout)
	defer cancel()

	log := t.log
	if reqID != "" {
		ctx = slogx.WithRequestID(ctx, reqID)
		log = log.With("req_id", reqID)
	}
	ctx = slogx.WithContext(ctx, log)

	token, err := t.tokens.Refresh(ctx)
	switch {
	case err == nil:
		refreshTotal.WithLabelValues("success").Inc()
	case session.IsTerminal(err):
		refreshTotal.WithLabelValues("rejected").Inc()
		log.Info("session torn down after refresh failure", "error", err)
		t.tokens.ClearAuth(ctx)
		t.redirectToLogin()
	default:
		refreshTotal.WithLabelValues("error").Inc()
		log.Warn("refresh failed", "error", err)
	}

	t.mu.Lock()
	waiters := t.waiters
	t.waiters = nil
	t.refreshing = false
	t.mu.Unlock()

	refreshWaiters.Observe(float64(len(waiters)))
	for _, w := range waiters {
		w <- refreshResult{token: token, err: err}
	}
}

func (t *Transport) redirectToLogin() {
	if t.nav == nil {
		return
	}
	if slices.Contains(t.public, t.nav.CurrentPath()) {
		return
	}
	t.nav.Redirect(t.loginPath)
}

func (t *Transport) isExcluded(req *http.Request) bool {
	for _, p := range t.excluded {
		if req.URL.Path == p || strings.HasSuffix(req.URL.Path, p) {
			return true
		}
	}
	return false
}

// rewindable returns a function producing fresh copies of the request body.
// Bodies without GetBody are buffered once.
func rewindable(req *http.Request) (func() (io.ReadCloser, error), error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody != nil {
		_ = req.Body.Close()
		return req.GetBody, nil
	}

	buf, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("gateway: buffer request body: %w", err)
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}, nil
}

// drain discards a response body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
