package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/retailhub/internal/guard"
	"github.com/aussiebroadwan/retailhub/internal/session"
	"github.com/aussiebroadwan/retailhub/pkg/httpx"
	"github.com/aussiebroadwan/retailhub/pkg/retailapi"
	"github.com/aussiebroadwan/retailhub/pkg/slogx"
)

// SessionHandler serves the session API used by the dashboard UI.
type SessionHandler struct {
	Store     *session.Store
	Gate      *guard.AuthGate
	Navigator *Navigator
	Profiles  session.ProfileFetcher

	// VerifyWait bounds how long a retry waits for verification to finish
	VerifyWait time.Duration
}

// HandleGet returns the current session.
//
//	@Summary		Get session
//	@Description	Returns authentication, onboarding and verification state of the dashboard session
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	SessionResponse
//	@Router			/api/session [get].
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, newSessionResponse(h.Store.Snapshot(), h.Navigator.Pending()))
}

// HandleLogin signs in with an identifier and password.
//
//	@Summary		Sign in
//	@Description	Exchanges credentials for a backend token pair and starts a new verification round
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest			true	"Credentials"
//	@Success		200		{object}	SessionResponse
//	@Failure		400		{object}	ValidationErrorResponse	"Missing fields"
//	@Failure		401		{object}	httpx.ErrorResponse		"Credentials rejected"
//	@Failure		429		{object}	httpx.ErrorResponse		"Too many attempts"
//	@Failure		502		{object}	httpx.ErrorResponse		"Backend unreachable"
//	@Failure		500		{object}	httpx.ErrorResponse		"Session could not be saved"
//	@Router			/api/session/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON")
		return
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if errs := req.Validate(); errs != nil {
		writeValidation(w, errs)
		return
	}

	if _, err := h.Store.Login(r.Context(), req.Identifier, req.Password); err != nil {
		h.writeCredentialError(w, r, "login", err)
		return
	}
	h.Navigator.Clear()

	httpx.WriteJSON(w, http.StatusOK, newSessionResponse(h.Store.Snapshot(), ""))
}

// HandleRegister creates an account and signs it in.
//
//	@Summary		Register
//	@Description	Creates a retailer account. The new session starts in onboarding.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest			true	"Account details"
//	@Success		201		{object}	SessionResponse
//	@Failure		400		{object}	ValidationErrorResponse	"Missing fields"
//	@Failure		401		{object}	httpx.ErrorResponse		"Registration rejected"
//	@Failure		500		{object}	httpx.ErrorResponse		"Session could not be saved"
//	@Router			/api/session/register [post].
func (h *SessionHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if errs := req.Validate(); errs != nil {
		writeValidation(w, errs)
		return
	}

	if _, err := h.Store.Register(r.Context(), req.toAPI()); err != nil {
		h.writeCredentialError(w, r, "register", err)
		return
	}
	h.Navigator.Clear()

	httpx.WriteJSON(w, http.StatusCreated, newSessionResponse(h.Store.Snapshot(), ""))
}

// HandleLogout ends the session. It always succeeds.
//
//	@Summary		Sign out
//	@Description	Revokes the refresh token on a best-effort basis and clears the local session. Succeeds even when the backend is unreachable.
//	@Tags			Session
//	@Success		204
//	@Router			/api/session/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Store.Logout(r.Context())
	h.Navigator.Clear()
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleRetryVerification re-runs the post-login checks.
//
//	@Summary		Retry verification
//	@Description	Refreshes the cached profile, forgets the last verification outcome and runs the checks again, waiting briefly for the result
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	RetryResponse	"Where the dashboard should go next"
//	@Success		202	{object}	RetryResponse	"Verification still running"
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Router			/api/session/verification/retry [post].
func (h *SessionHandler) HandleRetryVerification(w http.ResponseWriter, r *http.Request) {
	if !h.Store.IsAuthenticated() {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Not signed in")
		return
	}

	log := slogx.FromContext(r.Context())
	if h.Profiles != nil {
		if err := h.Store.SyncProfile(r.Context(), h.Profiles); err != nil {
			log.Warn("profile sync failed", "error", err)
		}
	}

	h.Store.ResetVerification()

	ctx, cancel := context.WithTimeout(r.Context(), h.VerifyWait)
	defer cancel()
	d := h.Gate.Wait(ctx, guard.PathDashboard)

	code := http.StatusOK
	resp := RetryResponse{State: d.Kind.String()}
	switch d.Kind {
	case guard.KindRedirect:
		resp.Location = d.Location()
	case guard.KindRender:
		resp.Location = guard.PathDashboard
	default:
		code = http.StatusAccepted
		resp.Loading = d.Loading
	}
	httpx.WriteJSON(w, code, resp)
}

// HandleSetLocation switches the active location.
//
//	@Summary		Set active location
//	@Description	Persists the location sent as X-Location-ID on every backend call
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LocationRequest	true	"Location"
//	@Success		200		{object}	SessionResponse
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/api/session/location [put].
func (h *SessionHandler) HandleSetLocation(w http.ResponseWriter, r *http.Request) {
	if !h.Store.IsAuthenticated() {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Not signed in")
		return
	}

	var req LocationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON")
		return
	}
	req.LocationID = strings.TrimSpace(req.LocationID)
	if req.LocationID == "" {
		writeValidation(w, map[string]string{"location_id": "is required"})
		return
	}

	if err := h.Store.SetActiveLocation(r.Context(), req.LocationID); err != nil {
		slogx.FromContext(r.Context()).Error("failed to save active location", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Could not save the active location")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newSessionResponse(h.Store.Snapshot(), h.Navigator.Pending()))
}

func (h *SessionHandler) writeCredentialError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		var apiErr *retailapi.APIError
		if !errors.As(err, &apiErr) {
			slogx.FromContext(r.Context()).Warn(op+" failed: backend unavailable", "error", err)
			httpx.WriteError(w, http.StatusBadGateway, "backend_unavailable", verr.Message)
			return
		}
		slogx.FromContext(r.Context()).Info(op+" rejected", "error", err)
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", verr.Message)
		return
	}
	slogx.FromContext(r.Context()).Error(op+" failed", "error", err)
	httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Could not save the session")
}

func writeValidation(w http.ResponseWriter, fields map[string]string) {
	httpx.WriteJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:            "validation_error",
		ErrorDescription: "validation failed for some fields",
		Fields:           fields,
	})
}
