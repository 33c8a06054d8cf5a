package retailapi

import (
	"net/http"
	"strings"
	"time"
)

// Backend endpoint paths.
const (
	PathLogin              = "/api/v1/auth/login"
	PathRegister           = "/api/v1/auth/register"
	PathRefresh            = "/api/v1/auth/refresh"
	PathLogout             = "/api/v1/auth/logout"
	PathMe                 = "/api/v1/auth/me"
	PathVerificationStatus = "/api/v1/retailer/verification-status"
	PathDataStatus         = "/api/v1/retailer/data-status"
	PathLocations          = "/api/v1/retailer/locations"
)

// LocationHeader carries the active location (tenant) on every outbound request.
const LocationHeader = "X-Location-ID"

// Client is a client for the retailer backend.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a backend client. A nil httpClient gets a plain client
// with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: httpClient,
	}
}
