// Package retailapitest provides an in-memory fake of the retailer backend
// for tests. Access tokens are real HS256 JWTs so that expiry-aware callers
// can be exercised; refresh tokens are opaque random strings.
package retailapitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/retailhub/pkg/cryptox"
	"github.com/aussiebroadwan/retailhub/pkg/jwtx"
	"github.com/aussiebroadwan/retailhub/pkg/retailapi"
)

// PathEcho is a protected endpoint that echoes what it received.
const PathEcho = "/api/v1/products"

// Default test account.
const (
	DefaultIdentifier = "owner@example.com"
	DefaultPassword   = "correct-horse"
)

// Echo is the payload returned by PathEcho.
type Echo struct {
	Method     string `json:"method"`
	LocationID string `json:"location_id"`
	Body       string `json:"body"`
}

type account struct {
	password string
	profile  retailapi.Profile
}

// Server is a fake retailer backend.
type Server struct {
	srv    *httptest.Server
	secret []byte

	mu            sync.Mutex
	accessTTL     time.Duration
	accounts      map[string]account // identifier -> account
	access        map[string]string  // access token -> user id
	refresh       map[string]string  // refresh token -> user id
	rejectRefresh bool
	refreshDelay  time.Duration
	failLogout    bool
	forced401     map[string]bool
	verification  retailapi.VerificationStatus
	dataStatus    retailapi.DataStatus
	locations     retailapi.LocationList
	failures      map[string]int
	calls         map[string]int
	lastHeaders   map[string]http.Header
	userSeq       int
}

// NewServer starts a fake backend with one registered account
// (DefaultIdentifier / DefaultPassword). The retailer starts fully authorized
// with one location. The server is closed when the test ends.
func NewServer(t testing.TB) *Server {
	s := &Server{
		secret:      []byte("retailapitest-signing-secret"),
		accessTTL:   jwtx.DefaultAccessTokenTTL,
		accounts:    make(map[string]account),
		access:      make(map[string]string),
		refresh:     make(map[string]string),
		forced401:   make(map[string]bool),
		failures:    make(map[string]int),
		calls:       make(map[string]int),
		lastHeaders: make(map[string]http.Header),
		verification: retailapi.VerificationStatus{
			Status: retailapi.StatusAuthorized,
		},
		dataStatus: retailapi.DataStatus{IsComplete: true, MissingFields: []string{}},
		locations: retailapi.LocationList{
			HasLocation: true,
			Locations:   []retailapi.Location{{ID: "loc_main", Name: "Main Street"}},
		},
	}
	s.addAccount(DefaultIdentifier, DefaultPassword, retailapi.Profile{
		Name:         "Olive Owner",
		Email:        DefaultIdentifier,
		Role:         "retailer",
		BusinessName: "Olive's Groceries",
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+retailapi.PathLogin, s.handleLogin)
	mux.HandleFunc("POST "+retailapi.PathRegister, s.handleRegister)
	mux.HandleFunc("POST "+retailapi.PathRefresh, s.handleRefresh)
	mux.HandleFunc("POST "+retailapi.PathLogout, s.handleLogout)
	mux.HandleFunc("GET "+retailapi.PathMe, s.protected(s.handleMe))
	mux.HandleFunc("GET "+retailapi.PathVerificationStatus, s.protected(s.handleVerification))
	mux.HandleFunc("GET "+retailapi.PathDataStatus, s.protected(s.handleDataStatus))
	mux.HandleFunc("GET "+retailapi.PathLocations, s.protected(s.handleLocations))
	mux.HandleFunc(PathEcho, s.protected(s.handleEcho))

	s.srv = httptest.NewServer(s.record(mux))
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the base URL of the fake backend.
func (s *Server) URL() string { return s.srv.URL }

// ============================================================================
// Controls
// ============================================================================

// SetAccessTTL changes the lifetime of access tokens issued from now on.
func (s *Server) SetAccessTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTTL = ttl
}

// ExpireAccessTokens revokes every issued access token, so that the next
// protected call answers 401 until the client refreshes.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.access)
}

// RejectRefresh makes the refresh endpoint answer 401.
func (s *Server) RejectRefresh(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectRefresh = reject
}

// SetRefreshDelay makes the refresh endpoint wait before answering.
func (s *Server) SetRefreshDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshDelay = d
}

// FailLogout makes the logout endpoint answer 500.
func (s *Server) FailLogout(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLogout = fail
}

// ForceUnauthorized makes path answer 401 regardless of the credential.
func (s *Server) ForceUnauthorized(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced401[path] = true
}

// FailNext makes the next n calls to path answer 500.
func (s *Server) FailNext(path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = n
}

// SetVerification sets the authorization record.
func (s *Server) SetVerification(v retailapi.VerificationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verification = v
}

// SetDataStatus sets the completeness record.
func (s *Server) SetDataStatus(d retailapi.DataStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataStatus = d
}

// SetLocations sets the store-existence record.
func (s *Server) SetLocations(l retailapi.LocationList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = l
}

// Calls returns how many requests reached path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// LastHeader returns a header of the last request to path.
func (s *Server) LastHeader(path, key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.lastHeaders[path]; ok {
		return h.Get(key)
	}
	return ""
}

// ActiveRefreshTokens returns how many refresh tokens are currently valid.
func (s *Server) ActiveRefreshTokens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.refresh)
}

// IssueTokens mints a token pair for the default account without a login call.
func (s *Server) IssueTokens() retailapi.TokenPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(s.accounts[DefaultIdentifier].profile)
}

// ============================================================================
// Handlers
// ============================================================================

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		s.lastHeaders[r.URL.Path] = r.Header.Clone()
		failing := s.failures[r.URL.Path] > 0
		if failing {
			s.failures[r.URL.Path]--
		}
		s.mu.Unlock()

		if failing {
			writeFailure(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) protected(next func(http.ResponseWriter, *http.Request, retailapi.Profile)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		s.mu.Lock()
		userID, ok := s.access[token]
		forced := s.forced401[r.URL.Path]
		profile := s.profileLocked(userID)
		s.mu.Unlock()

		if forced || !ok || token == "" {
			writeFailure(w, http.StatusUnauthorized, "Token expired")
			return
		}
		if exp, err := jwtx.ExpiresAt(token); err != nil || time.Now().After(exp) {
			writeFailure(w, http.StatusUnauthorized, "Token expired")
			return
		}

		next(w, r, profile)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req retailapi.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[strings.ToLower(req.Identifier)]
	if !ok || acc.password != req.Password {
		writeFailure(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeData(w, http.StatusOK, retailapi.AuthResponse{
		TokenPair: s.issueLocked(acc.profile),
		User:      acc.profile,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req retailapi.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeFailure(w, http.StatusUnprocessableEntity, "Email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[strings.ToLower(req.Email)]; exists {
		writeFailure(w, http.StatusConflict, "An account with this email already exists")
		return
	}

	profile := s.addAccountLocked(req.Email, req.Password, retailapi.Profile{
		Name:         req.OwnerName,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         "retailer",
		BusinessName: req.BusinessName,
	})

	writeData(w, http.StatusCreated, retailapi.AuthResponse{
		TokenPair: s.issueLocked(profile),
		User:      profile,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req retailapi.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	delay := s.refreshDelay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.refresh[req.RefreshToken]
	if s.rejectRefresh || !ok {
		writeFailure(w, http.StatusUnauthorized, "Refresh token is invalid or expired")
		return
	}

	// Rotation: the presented refresh token is single use.
	delete(s.refresh, req.RefreshToken)
	writeData(w, http.StatusOK, s.issueLocked(s.profileLocked(userID)))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req retailapi.LogoutRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failLogout {
		writeFailure(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	delete(s.refresh, req.RefreshToken)
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request, profile retailapi.Profile) {
	writeData(w, http.StatusOK, profile)
}

func (s *Server) handleVerification(w http.ResponseWriter, _ *http.Request, _ retailapi.Profile) {
	s.mu.Lock()
	v := s.verification
	s.mu.Unlock()
	writeData(w, http.StatusOK, v)
}

func (s *Server) handleDataStatus(w http.ResponseWriter, _ *http.Request, _ retailapi.Profile) {
	s.mu.Lock()
	d := s.dataStatus
	s.mu.Unlock()
	writeData(w, http.StatusOK, d)
}

func (s *Server) handleLocations(w http.ResponseWriter, _ *http.Request, _ retailapi.Profile) {
	s.mu.Lock()
	l := s.locations
	s.mu.Unlock()
	writeData(w, http.StatusOK, l)
}

func (s *Server) handleEcho(w http.ResponseWriter, r *http.Request, _ retailapi.Profile) {
	body, _ := io.ReadAll(r.Body)
	writeData(w, http.StatusOK, Echo{
		Method:     r.Method,
		LocationID: r.Header.Get(retailapi.LocationHeader),
		Body:       string(body),
	})
}

// ============================================================================
// Helpers
// ============================================================================

func (s *Server) addAccount(identifier, password string, profile retailapi.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addAccountLocked(identifier, password, profile)
}

func (s *Server) addAccountLocked(identifier, password string, profile retailapi.Profile) retailapi.Profile {
	s.userSeq++
	profile.ID = fmt.Sprintf("usr_%d", s.userSeq)
	s.accounts[strings.ToLower(identifier)] = account{password: password, profile: profile}
	return profile
}

func (s *Server) profileLocked(userID string) retailapi.Profile {
	for _, acc := range s.accounts {
		if acc.profile.ID == userID {
			return acc.profile
		}
	}
	return retailapi.Profile{}
}

func (s *Server) issueLocked(profile retailapi.Profile) retailapi.TokenPair {
	claims := jwtx.NewAccessClaims(profile.ID, profile.Role, s.accessTTL, time.Now())
	access, err := jwtx.SignHS256(claims, s.secret)
	if err != nil {
		panic("retailapitest: sign access token: " + err.Error())
	}
	refresh, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		panic("retailapitest: generate refresh token: " + err.Error())
	}

	s.access[access] = profile.ID
	s.refresh[refresh] = profile.ID
	return retailapi.TokenPair{AccessToken: access, RefreshToken: refresh}
}

func writeData(w http.ResponseWriter, code int, data any) {
	env := map[string]any{"success": true}
	if data != nil {
		env["data"] = data
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}

func writeFailure(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
