package http

import (
	"github.com/aussiebroadwan/retailhub/internal/guard"
	"github.com/aussiebroadwan/retailhub/internal/session"
	"github.com/aussiebroadwan/retailhub/pkg/retailapi"
)

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	Storage string `json:"storage"`
	Backend string `json:"backend"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// LoginRequest is the body of POST /api/session/login.
type LoginRequest struct {
	Identifier string `json:"identifier" example:"owner@example.com"`
	Password   string `json:"password"   example:"correct-horse"`
}

// Validate returns field errors, or nil.
func (r LoginRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.Identifier == "" {
		errs["identifier"] = "is required"
	}
	if r.Password == "" {
		errs["password"] = "is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// RegisterRequest is the body of POST /api/session/register.
type RegisterRequest struct {
	BusinessName string `json:"business_name" example:"Corner Store"`
	OwnerName    string `json:"owner_name"    example:"Sam Taylor"`
	Email        string `json:"email"         example:"owner@example.com"`
	Phone        string `json:"phone"         example:"+61400000000"`
	Password     string `json:"password"`
}

// Validate returns field errors, or nil.
func (r RegisterRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.BusinessName == "" {
		errs["business_name"] = "is required"
	}
	if r.OwnerName == "" {
		errs["owner_name"] = "is required"
	}
	if r.Email == "" && r.Phone == "" {
		errs["email"] = "email or phone is required"
	}
	if r.Password == "" {
		errs["password"] = "is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r RegisterRequest) toAPI() retailapi.RegisterRequest {
	return retailapi.RegisterRequest{
		BusinessName: r.BusinessName,
		OwnerName:    r.OwnerName,
		Email:        r.Email,
		Phone:        r.Phone,
		Password:     r.Password,
	}
}

// LocationRequest is the body of PUT /api/session/location.
type LocationRequest struct {
	LocationID string `json:"location_id" example:"loc_main"`
}

// ValidationErrorResponse carries per-field validation errors.
type ValidationErrorResponse struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description"`
	Fields           map[string]string `json:"fields"`
}

// VerificationState is the verification part of a session response.
type VerificationState struct {
	Checked bool             `json:"checked"`
	Outcome *session.Outcome `json:"outcome,omitempty"`
}

// SessionResponse describes the dashboard session.
type SessionResponse struct {
	Bootstrapped  bool               `json:"bootstrapped"`
	Authenticated bool               `json:"authenticated"`
	Onboarding    bool               `json:"onboarding"`
	Verification  VerificationState  `json:"verification"`
	Profile       *retailapi.Profile `json:"profile,omitempty"`
	LocationID    string             `json:"location_id,omitempty"`

	// Redirect is a navigation requested after the session was torn down
	Redirect string `json:"redirect,omitempty"`
}

func newSessionResponse(s session.Snapshot, redirect string) SessionResponse {
	resp := SessionResponse{
		Bootstrapped:  s.Bootstrapped,
		Authenticated: s.Authenticated,
		Onboarding:    s.Onboarding,
		Verification:  VerificationState{Checked: s.Checked},
		Profile:       s.Profile,
		LocationID:    s.LocationID,
		Redirect:      redirect,
	}
	if s.Checked {
		out := s.Outcome
		resp.Verification.Outcome = &out
	}
	return resp
}

// RetryResponse is returned by POST /api/session/verification/retry.
type RetryResponse struct {
	// State is render, redirect or loading
	State    string              `json:"state"`
	Location string              `json:"location,omitempty"`
	Loading  guard.LoadingReason `json:"loading,omitempty"`
}

// PageResponse describes a page the UI should render.
type PageResponse struct {
	Page       string             `json:"page"`
	Nav        guard.Nav          `json:"nav"`
	Profile    *retailapi.Profile `json:"profile,omitempty"`
	LocationID string             `json:"location_id,omitempty"`
}
