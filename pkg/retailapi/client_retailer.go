package retailapi

import (
	"context"
	"net/http"
)

// VerificationStatus fetches the retailer's authorization record.
func (c *Client) VerificationStatus(ctx context.Context) (*VerificationStatus, error) {
	var status VerificationStatus
	if err := c.doJSON(ctx, http.MethodGet, PathVerificationStatus, nil, &status, nil); err != nil {
		return nil, err
	}

	return &status, nil
}

// DataStatus fetches the retailer's profile completeness record.
func (c *Client) DataStatus(ctx context.Context) (*DataStatus, error) {
	var status DataStatus
	if err := c.doJSON(ctx, http.MethodGet, PathDataStatus, nil, &status, nil); err != nil {
		return nil, err
	}

	if status.MissingFields == nil {
		status.MissingFields = []string{}
	}

	return &status, nil
}

// Locations lists the retailer's stores.
func (c *Client) Locations(ctx context.Context) (*LocationList, error) {
	var list LocationList
	if err := c.doJSON(ctx, http.MethodGet, PathLocations, nil, &list, nil); err != nil {
		return nil, err
	}

	return &list, nil
}
