/*
Package retailapi is a typed client for the retailer backend REST API.

Every backend endpoint answers with the same JSON envelope:

	{"success": true, "message": "optional", "data": {...}}

The client decodes the envelope, returns the typed payload on success and an
*APIError for non-2xx responses or envelopes with success=false.

# Unauthenticated vs authenticated calls

Client does not attach credentials itself. Login, Register, Refresh and Logout
are meant to be called with a plain *http.Client, while the retailer checks
(VerificationStatus, DataStatus, Locations, Me) are meant to be called through
the refresh-aware gateway transport:

	authAPI := retailapi.NewClient(baseURL, &http.Client{Timeout: 10 * time.Second})
	api := retailapi.NewClient(baseURL, gw.Client())

	status, err := api.VerificationStatus(ctx)

# Errors

	_, err := authAPI.Login(ctx, "owner@example.com", "wrong")
	var apiErr *retailapi.APIError
	if errors.As(err, &apiErr) {
		fmt.Println(apiErr.StatusCode, apiErr.Message) // 401 Invalid credentials
	}

The retailapitest sub-package provides an in-memory fake backend for tests.
*/
package retailapi
