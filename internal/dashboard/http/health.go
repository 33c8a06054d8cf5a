package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/retailhub/internal/storage"
	"github.com/aussiebroadwan/retailhub/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe returning uptime and version. Always 200 while the process is running.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// BackendProbe reports whether the backend answers at all.
type BackendProbe func(ctx context.Context) error

// HTTPProbe returns a probe that treats any HTTP response from baseURL as
// reachable.
func HTTPProbe(client *http.Client, baseURL string) BackendProbe {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking session storage and backend reachability
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, kv storage.KV, probe BackendProbe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{Storage: "ok", Backend: "ok"}
		status := "ok"
		code := http.StatusOK

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := kv.Ping(ctx); err != nil {
			checks.Storage = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		// Backend reachability is reported but never fails readiness.
		if probe != nil {
			if err := probe(ctx); err != nil {
				checks.Backend = "unreachable"
				if status == "ok" {
					status = "degraded"
				}
			}
		}

		httpx.WriteJSON(w, code, HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
