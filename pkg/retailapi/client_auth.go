package retailapi

import (
	"context"
	"net/http"
)

// Login exchanges retailer credentials for a token pair and profile.
func (c *Client) Login(ctx context.Context, identifier, password string) (*AuthResponse, error) {
	req := LoginRequest{Identifier: identifier, Password: password}

	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, PathLogin, req, &resp, nil); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Register creates a new retailer account and signs it in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, PathRegister, req, &resp, nil); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	req := RefreshRequest{RefreshToken: refreshToken}

	var pair TokenPair
	if err := c.doJSON(ctx, http.MethodPost, PathRefresh, req, &pair, nil); err != nil {
		return nil, err
	}

	return &pair, nil
}

// Logout revokes the refresh token. The access token, when present, is sent
// as a bearer token since some deployments require it.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	var headers map[string]string
	if accessToken != "" {
		headers = map[string]string{"Authorization": "Bearer " + accessToken}
	}

	req := LogoutRequest{RefreshToken: refreshToken}
	return c.doJSON(ctx, http.MethodPost, PathLogout, req, nil, headers)
}

// Me fetches the profile of the signed-in retailer.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.doJSON(ctx, http.MethodGet, PathMe, nil, &profile, nil); err != nil {
		return nil, err
	}

	return &profile, nil
}
