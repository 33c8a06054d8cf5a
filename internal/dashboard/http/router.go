package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/retailhub/api/dashboard" // Swagger docs
	"github.com/aussiebroadwan/retailhub/internal/guard"
	"github.com/aussiebroadwan/retailhub/internal/session"
	"github.com/aussiebroadwan/retailhub/internal/storage"
	"github.com/aussiebroadwan/retailhub/pkg/httpx"
	"github.com/aussiebroadwan/retailhub/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	kv      storage.KV
	store   *session.Store
	backend *url.URL

	AuthGate  *guard.AuthGate
	GuestGate *guard.GuestGate
	Navigator *Navigator

	// Gateway is the credentialed transport used for backend calls
	Gateway  http.RoundTripper
	Profiles session.ProfileFetcher
	Probe    BackendProbe

	// VerifyWait is how long page and retry requests wait for verification
	// before answering with a loading state
	VerifyWait time.Duration
}

func NewRouter(
	buildVersion string,
	kv storage.KV,
	store *session.Store,
	backend *url.URL,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		kv:           kv,
		store:        store,
		backend:      backend,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	if r.Navigator == nil {
		r.Navigator = NewNavigator()
	}

	r.registerSession()
	r.registerPages()
	r.registerBackend()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			RetailHub Dashboard API
//	@version		0.1.0
//	@description	Session and authorization layer of the RetailHub retailer dashboard.
//	@description
//	@description	The dashboard holds the backend credentials. The UI signs in through the session API, reads guarded page descriptors and reaches the backend through /api/backend.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/retailhub
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	h := &SessionHandler{
		Store:      r.store,
		Gate:       r.AuthGate,
		Navigator:  r.Navigator,
		Profiles:   r.Profiles,
		VerifyWait: r.VerifyWait,
	}

	r.Mux.Handle("GET /api/session",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Credential endpoints: limited by IP + identifier to slow down guessing
	r.Mux.Handle("POST /api/session/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "identifier"),
		),
	)
	r.Mux.Handle("POST /api/session/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/session/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /api/session/verification/retry",
		httpx.Chain(http.HandlerFunc(h.HandleRetryVerification),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT /api/session/location",
		httpx.Chain(http.HandlerFunc(h.HandleSetLocation),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerPages() {
	h := &PageHandler{Store: r.store}

	guest := func(page string) http.Handler {
		return httpx.Chain(h.Page(page),
			r.Navigator.Middleware(),
			r.GuestGate.Middleware(),
		)
	}
	authed := httpx.Chain(h.Page(guard.PathDashboard),
		r.Navigator.Middleware(),
		r.AuthGate.Middleware(r.VerifyWait),
	)

	r.Mux.Handle("GET "+guard.PathLogin, guest(guard.PathLogin))
	r.Mux.Handle("GET "+guard.PathRegister, guest(guard.PathRegister))
	r.Mux.Handle("GET "+guard.PathOnboarding, guest(guard.PathOnboarding))
	r.Mux.Handle("GET "+guard.PathOnboardingLocation, guest(guard.PathOnboardingLocation))
	r.Mux.Handle("GET "+guard.PathPending, guest(guard.PathPending))

	r.Mux.Handle("GET "+guard.PathDashboard, authed)
	r.Mux.Handle("GET "+guard.PathDashboard+"/{rest...}", authed)

	r.Mux.Handle("GET /{$}", http.RedirectHandler(guard.PathDashboard, http.StatusSeeOther))
}

func (r *Router) registerBackend() {
	if r.backend == nil || r.Gateway == nil {
		return
	}
	r.Mux.Handle(BackendPrefix+"/",
		httpx.Chain(NewBackendProxy(r.backend, r.Gateway),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.kv, r.Probe),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
