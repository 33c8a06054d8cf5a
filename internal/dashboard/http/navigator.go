package http

import (
	"net/http"
	"slices"
	"sync"

	"github.com/aussiebroadwan/retailhub/internal/guard"
	"github.com/aussiebroadwan/retailhub/pkg/httpx"
	"github.com/aussiebroadwan/retailhub/pkg/slogx"
)

// Navigator tracks the page the user is on and holds a redirect requested
// by the gateway when it tears the session down. It implements
// gateway.Navigator.
type Navigator struct {
	mu      sync.Mutex
	current string
	pending string
	public  []string
}

// NewNavigator creates a Navigator. Public pages never receive a pending
// redirect.
func NewNavigator(publicPaths ...string) *Navigator {
	if len(publicPaths) == 0 {
		publicPaths = []string{guard.PathLogin, guard.PathRegister}
	}
	return &Navigator{public: publicPaths}
}

// CurrentPath returns the last page visited.
func (n *Navigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Redirect records path as the next navigation.
func (n *Navigator) Redirect(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = path
}

// Pending returns the recorded redirect, if any.
func (n *Navigator) Pending() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending
}

// Clear drops a recorded redirect.
func (n *Navigator) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = ""
}

// visit records path and returns the pending redirect to follow instead,
// consuming it.
func (n *Navigator) visit(path string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.current = path
	if n.pending == "" || slices.Contains(n.public, path) {
		return ""
	}
	target := n.pending
	n.pending = ""
	return target
}

// Middleware records page visits and applies a pending redirect.
func (n *Navigator) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if target := n.visit(r.URL.Path); target != "" {
				slogx.FromContext(r.Context()).Info("following session teardown redirect", "to", target)
				httpx.NoCache(w)
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
