package guard

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/retailhub/pkg/httpx"
	"github.com/aussiebroadwan/retailhub/pkg/slogx"
)

// LoadingRetryAfter is the Retry-After sent with loading responses.
const LoadingRetryAfter = time.Second

// LoadingResponse is the body of a 202 loading response.
type LoadingResponse struct {
	State        string        `json:"state"`
	Reason       LoadingReason `json:"reason"`
	RetryAfterMS int64         `json:"retry_after_ms"`
}

type decisionKey struct{}

// DecisionFromContext returns the decision that let the request through.
func DecisionFromContext(ctx context.Context) (Decision, bool) {
	d, ok := ctx.Value(decisionKey{}).(Decision)
	return d, ok
}

// Middleware protects authenticated pages. With wait > 0 the request blocks
// up to wait for a pending verification before falling back to loading.
func (g *AuthGate) Middleware(wait time.Duration) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var d Decision
			if wait > 0 {
				ctx, cancel := context.WithTimeout(r.Context(), wait)
				d = g.Wait(ctx, r.URL.RequestURI())
				cancel()
			} else {
				d = g.Check(r.Context(), r.URL.RequestURI())
			}
			serve(w, r, d, next)
		})
	}
}

// Middleware protects guest pages. The resume hint is read from ?resume=1.
func (g *GuestGate) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resume := r.URL.Query().Get("resume") == "1"
			serve(w, r, g.Check(r.URL.Path, resume), next)
		})
	}
}

func serve(w http.ResponseWriter, r *http.Request, d Decision, next http.Handler) {
	switch d.Kind {
	case KindRender:
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), decisionKey{}, d)))

	case KindRedirect:
		slogx.FromContext(r.Context()).Debug("guard redirect", "from", r.URL.Path, "to", d.Target)
		httpx.NoCache(w)
		http.Redirect(w, r, d.Location(), http.StatusSeeOther)

	default:
		w.Header().Set("Retry-After", strconv.Itoa(int(LoadingRetryAfter.Seconds())))
		httpx.WriteJSON(w, http.StatusAccepted, LoadingResponse{
			State:        "loading",
			Reason:       d.Loading,
			RetryAfterMS: LoadingRetryAfter.Milliseconds(),
		})
	}
}
