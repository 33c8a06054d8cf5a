// Package guard decides what a page request gets to see: the page itself,
// a loading state, or a redirect.
//
// The decisions are pure functions of a session.Snapshot so they can be
// re-evaluated on every state change. AuthGate adds the one side effect the
// authenticated area needs, which is starting verification exactly once when
// a signed-in session has not been checked yet.
package guard

import (
	"net/url"
	"strings"

	"github.com/aussiebroadwan/retailhub/internal/session"
)

// UI routes.
const (
	PathLogin              = "/login"
	PathRegister           = "/register"
	PathOnboarding         = "/onboarding"
	PathOnboardingLocation = "/onboarding/location"
	PathPending            = "/pending"
	PathDashboard          = "/dashboard"
)

// RouteFor maps a destination to its UI route.
func RouteFor(d session.Destination) string {
	switch d {
	case session.DestinationDashboard:
		return PathDashboard
	case session.DestinationOnboardingLocation:
		return PathOnboardingLocation
	case session.DestinationPending:
		return PathPending
	default:
		return PathOnboarding
	}
}

// IsOnboardingEntry reports whether page may be shown to an authenticated
// user who is mid-onboarding.
func IsOnboardingEntry(page string) bool {
	switch page {
	case PathRegister, PathOnboarding, PathOnboardingLocation, PathPending:
		return true
	}
	return false
}

// Kind is the shape of a decision.
type Kind int

const (
	KindLoading Kind = iota
	KindRender
	KindRedirect
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindRender:
		return "render"
	case KindRedirect:
		return "redirect"
	}
	return "unknown"
}

// LoadingReason says what a loading decision is waiting for.
type LoadingReason string

const (
	LoadingBootstrap LoadingReason = "bootstrap"
	LoadingVerifying LoadingReason = "verifying"
)

// Nav is the navigation state carried by a redirect.
type Nav struct {
	// Next is the page the user tried to open, restored after login
	Next string `json:"next,omitempty"`

	MissingFields []string `json:"missing_fields,omitempty"`
	Message       string   `json:"message,omitempty"`

	// Resume tells onboarding pages the user is returning, not registering
	Resume bool `json:"resume,omitempty"`
}

// Decision is the result of evaluating a gate.
type Decision struct {
	Kind    Kind          `json:"-"`
	Loading LoadingReason `json:"loading,omitempty"`
	Target  string        `json:"target,omitempty"`
	Nav     Nav           `json:"nav"`
}

// Location renders a redirect target with its navigation state as query
// parameters.
func (d Decision) Location() string {
	q := url.Values{}
	if d.Nav.Next != "" {
		q.Set("next", d.Nav.Next)
	}
	if len(d.Nav.MissingFields) > 0 {
		q.Set("missing", strings.Join(d.Nav.MissingFields, ","))
	}
	if d.Nav.Message != "" {
		q.Set("message", d.Nav.Message)
	}
	if d.Nav.Resume {
		q.Set("resume", "1")
	}
	if len(q) == 0 {
		return d.Target
	}
	return d.Target + "?" + q.Encode()
}

func render() Decision { return Decision{Kind: KindRender} }

func loading(reason LoadingReason) Decision {
	return Decision{Kind: KindLoading, Loading: reason}
}

func redirect(target string, nav Nav) Decision {
	return Decision{Kind: KindRedirect, Target: target, Nav: nav}
}

func outcomeRedirect(o session.Outcome) Decision {
	return redirect(RouteFor(o.Destination), Nav{
		MissingFields: o.MissingFields,
		Message:       o.Message,
		Resume:        true,
	})
}

// EvaluateAuthenticated decides an authenticated-area request for attempted.
func EvaluateAuthenticated(s session.Snapshot, attempted string) Decision {
	if !s.Authenticated {
		if !s.Bootstrapped {
			return loading(LoadingBootstrap)
		}
		return redirect(PathLogin, Nav{Next: attempted})
	}
	if !s.Checked {
		return loading(LoadingVerifying)
	}
	if s.Outcome.Destination == session.DestinationDashboard {
		return render()
	}
	return outcomeRedirect(s.Outcome)
}

// EvaluateGuest decides a guest-area request for page. resume is the
// explicit resume hint carried by the request.
//
// Authenticated users are sent to the dashboard, except while onboarding (or
// resuming) where onboarding entry pages still render. On any other guest
// page an onboarding user is sent to their onboarding route.
func EvaluateGuest(s session.Snapshot, page string, resume bool) Decision {
	if !s.Authenticated {
		if !s.Bootstrapped {
			return loading(LoadingBootstrap)
		}
		return render()
	}

	if !s.Onboarding && !resume {
		return redirect(PathDashboard, Nav{})
	}
	if IsOnboardingEntry(page) {
		return render()
	}
	if s.Checked {
		return outcomeRedirect(s.Outcome)
	}
	// Not checked yet: the authenticated gate will verify and route.
	return redirect(PathDashboard, Nav{})
}
