package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/retailhub/internal/guard"
	"github.com/aussiebroadwan/retailhub/internal/session"
	"github.com/aussiebroadwan/retailhub/pkg/httpx"
)

// PageHandler returns JSON page descriptors. Rendering is the UI's job; the
// descriptor carries the navigation state a guard attached on the way here.
type PageHandler struct {
	Store *session.Store
}

// navFromQuery reads navigation state carried by a guard redirect.
func navFromQuery(r *http.Request) guard.Nav {
	q := r.URL.Query()
	nav := guard.Nav{
		Next:    q.Get("next"),
		Message: q.Get("message"),
		Resume:  q.Get("resume") == "1",
	}
	if m := q.Get("missing"); m != "" {
		nav.MissingFields = strings.Split(m, ",")
	}
	return nav
}

// Page returns a handler describing page.
//
//	@Summary		Page descriptor
//	@Description	Guarded UI page. Returns 202 while the session is loading or verifying, 303 to redirect, 200 to render.
//	@Tags			Pages
//	@Produce		json
//	@Success		200	{object}	PageResponse
//	@Success		202	{object}	guard.LoadingResponse
//	@Success		303
//	@Router			/dashboard [get].
func (h *PageHandler) Page(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := h.Store.Snapshot()
		resp := PageResponse{
			Page:       page,
			Nav:        navFromQuery(r),
			Profile:    snap.Profile,
			LocationID: snap.LocationID,
		}
		if page == guard.PathDashboard {
			resp.Page = r.URL.Path
		}
		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}
