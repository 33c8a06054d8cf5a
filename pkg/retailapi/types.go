package retailapi

import "encoding/json"

// Envelope is the response wrapper used by every backend endpoint.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ============================================================================
// Auth Types
// ============================================================================

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	// Identifier is the retailer's email address or phone number
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// RegisterRequest is the body of POST /api/v1/auth/register.
type RegisterRequest struct {
	BusinessName string `json:"business_name"`
	OwnerName    string `json:"owner_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
}

// TokenPair is an access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	TokenPair

	User Profile `json:"user"`
}

// RefreshRequest is the body of POST /api/v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest is the body of POST /api/v1/auth/logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Profile is the retailer user record returned by login and "who am I".
type Profile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
}

// ============================================================================
// Retailer Check Types
// ============================================================================

// Verification status values reported by the backend. Any other value is
// treated as not authorized.
const (
	StatusAuthorized  = "authorized"
	StatusPending     = "pending"
	StatusDeactivated = "deactivated"
)

// VerificationStatus is the retailer's authorization record.
type VerificationStatus struct {
	Status             string `json:"status"`
	Message            string `json:"message,omitempty"`
	DeactivationReason string `json:"deactivation_reason,omitempty"`
}

// Authorized reports whether the retailer is fully approved.
func (v VerificationStatus) Authorized() bool { return v.Status == StatusAuthorized }

// DataStatus is the retailer's profile completeness record.
type DataStatus struct {
	IsComplete    bool     `json:"is_complete"`
	MissingFields []string `json:"missing_fields"`
}

// Location is a store/location owned by the retailer.
type Location struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// LocationList is the retailer's store-existence record.
type LocationList struct {
	HasLocation bool       `json:"has_location"`
	Locations   []Location `json:"locations"`
}
