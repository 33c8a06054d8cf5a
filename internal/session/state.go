package session

import "github.com/aussiebroadwan/retailhub/pkg/retailapi"

// Destination is where a verified session belongs.
type Destination string

const (
	DestinationDashboard          Destination = "dashboard"
	DestinationOnboarding         Destination = "onboarding"
	DestinationOnboardingLocation Destination = "onboarding-location"
	DestinationPending            Destination = "pending"
)

// Valid reports whether d is one of the four destinations.
func (d Destination) Valid() bool {
	switch d {
	case DestinationDashboard, DestinationOnboarding, DestinationOnboardingLocation, DestinationPending:
		return true
	}
	return false
}

// Outcome is the result of post-login verification.
type Outcome struct {
	Destination   Destination `json:"destination"`
	Message       string      `json:"message,omitempty"`
	MissingFields []string    `json:"missing_fields,omitempty"`
}

// Credentials is the access/refresh pair. Empty means absent.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Snapshot is a consistent view of the session taken under one lock.
type Snapshot struct {
	// Bootstrapped is false until Restore has run once
	Bootstrapped bool

	Authenticated bool
	Onboarding    bool

	// Checked is true once verification reached a destination this session
	Checked bool
	Outcome Outcome

	Profile    *retailapi.Profile
	LocationID string
	Epoch      uint64
}
