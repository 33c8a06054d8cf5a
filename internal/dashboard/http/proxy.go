package http

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/retailhub/internal/session"
	"github.com/aussiebroadwan/retailhub/pkg/httpx"
	"github.com/aussiebroadwan/retailhub/pkg/slogx"
)

// BackendPrefix is where the backend API is mounted on the dashboard.
const BackendPrefix = "/api/backend"

// NewBackendProxy forwards /api/backend/* to the backend through transport,
// which supplies credentials and handles refresh. Inbound credentials are
// dropped.
func NewBackendProxy(backend *url.URL, transport http.RoundTripper) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(backend)
			pr.Out.URL.Path = joinPath(backend.Path, strings.TrimPrefix(pr.In.URL.Path, BackendPrefix))
			pr.Out.URL.RawPath = ""
			pr.Out.Header.Del("Authorization")
			pr.Out.Header.Del("Cookie")
			pr.SetXForwarded()
		},
		Transport:     transport,
		FlushInterval: -1,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log := slogx.FromContext(r.Context())
			switch {
			case session.IsTerminal(err), errors.Is(err, session.ErrNoCredential):
				log.Info("backend call without a usable session", "error", err)
				httpx.WriteError(w, http.StatusUnauthorized, "session_expired", "Your session has expired. Please sign in again.")
			default:
				log.Warn("backend call failed", "error", err)
				httpx.WriteError(w, http.StatusBadGateway, "bad_gateway", "The service is unreachable. Please try again.")
			}
		},
	}
}

func joinPath(base, p string) string {
	if p == "" {
		p = "/"
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(p, "/")
}
