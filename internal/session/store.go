// Package session is the single source of truth for the retailer's
// credentials, cached profile and verification state.
//
// A Store is an explicit object: construct one per dashboard session and
// inject it into the gateway transport, the verification orchestrator and
// the route guards. Every mutation writes durable storage before swapping
// the in-memory state, inside the same critical section, so readers in any
// goroutine never observe memory and storage disagreeing.
//
// Authentication is derived: IsAuthenticated is true exactly when an access
// token is held. There is no separately settable flag.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/retailhub/internal/storage"
	"github.com/aussiebroadwan/retailhub/pkg/cryptox"
	"github.com/aussiebroadwan/retailhub/pkg/retailapi"
	"github.com/aussiebroadwan/retailhub/pkg/slogx"
)

// DefaultLogoutTimeout bounds the best-effort remote revocation.
const DefaultLogoutTimeout = 5 * time.Second

// unreachableMessage is shown when the backend could not be reached at all.
const unreachableMessage = "Unable to reach the server. Please check your connection and try again."

// AuthAPI is the subset of the backend used to obtain and revoke credentials.
// Implemented by *retailapi.Client.
type AuthAPI interface {
	Login(ctx context.Context, identifier, password string) (*retailapi.AuthResponse, error)
	Register(ctx context.Context, req retailapi.RegisterRequest) (*retailapi.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*retailapi.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

// ProfileFetcher fetches the signed-in user's profile ("who am I").
type ProfileFetcher interface {
	Me(ctx context.Context) (*retailapi.Profile, error)
}

// Store holds one retailer session.
type Store struct {
	kv            storage.KV
	auth          AuthAPI
	log           *slog.Logger
	logoutTimeout time.Duration

	mu           sync.RWMutex
	rec          record
	locationID   string
	bootstrapped bool
	checked      bool
	outcome      Outcome
	epoch        uint64
	changed      chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithLogoutTimeout bounds the remote revocation performed by Logout.
func WithLogoutTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.logoutTimeout = d
		}
	}
}

// New creates an empty, not yet bootstrapped Store. Call Restore to load any
// persisted session.
func New(kv storage.KV, auth AuthAPI, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		kv:            kv,
		auth:          auth,
		log:           logger.With("component", "session"),
		logoutTimeout: DefaultLogoutTimeout,
		changed:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================================
// Lifecycle
// ============================================================================

// Restore loads the persisted session and marks the store bootstrapped.
// Unreadable values are discarded rather than failing startup; only a
// storage outage is returned.
func (s *Store) Restore(ctx context.Context) error {
	raw, err := s.load(ctx, SessionKey)
	if err != nil {
		return err
	}

	var rec record
	if raw != nil {
		if err := json.Unmarshal(raw, &rec); err != nil {
			s.log.Warn("discarding undecodable session record", "error", err)
			_ = s.kv.Delete(ctx, SessionKey)
			rec = record{}
		}
	}

	loc, err := s.load(ctx, LocationKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = rec
	s.locationID = string(loc)
	s.bootstrapped = true
	s.resetVerificationLocked()
	s.notifyLocked()

	s.log.Info("session restored",
		"authenticated", rec.AccessToken != "",
		"onboarding", rec.Onboarding,
		"location_id", s.locationID,
	)
	return nil
}

// Login exchanges credentials for a token pair. On success the pair, the
// cached profile and onboarding=false are committed together and the
// verification state is reset. On failure nothing changes and the error is a
// *ValidationError carrying a displayable message.
func (s *Store) Login(ctx context.Context, identifier, secret string) (*retailapi.Profile, error) {
	resp, err := s.auth.Login(ctx, identifier, secret)
	if err != nil {
		return nil, credentialFailure(err)
	}
	return s.establish(ctx, resp, false)
}

// Register creates an account and signs it in. The session starts in
// onboarding.
func (s *Store) Register(ctx context.Context, req retailapi.RegisterRequest) (*retailapi.Profile, error) {
	resp, err := s.auth.Register(ctx, req)
	if err != nil {
		return nil, credentialFailure(err)
	}
	return s.establish(ctx, resp, true)
}

func credentialFailure(err error) error {
	var apiErr *retailapi.APIError
	if errors.As(err, &apiErr) {
		return &ValidationError{Message: retailapi.MessageOf(err, retailapi.DefaultErrorMessage), Err: err}
	}
	return &ValidationError{Message: unreachableMessage, Err: err}
}

func (s *Store) establish(ctx context.Context, resp *retailapi.AuthResponse, onboarding bool) (*retailapi.Profile, error) {
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		return nil, &ValidationError{
			Message: retailapi.DefaultErrorMessage,
			Err:     errors.New("session: backend returned an incomplete token pair"),
		}
	}

	profile := resp.User
	next := record{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Profile:      &profile,
		Onboarding:   onboarding,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeRecordLocked(ctx, next); err != nil {
		return nil, err
	}

	// A different user must not inherit the previous user's store.
	if s.locationID != "" && (s.rec.Profile == nil || s.rec.Profile.ID != profile.ID) {
		if err := s.writeLocationLocked(ctx, ""); err != nil {
			s.log.Error("login: failed to clear persisted location", "error", err)
		}
		s.locationID = ""
	}

	s.rec = next
	s.bootstrapped = true
	s.resetVerificationLocked()
	s.notifyLocked()

	s.log.Info("session established", "user_id", profile.ID, "onboarding", onboarding)

	out := profile
	return &out, nil
}

// Refresh exchanges the refresh token for a new pair and returns the new
// access token. A 400, 401 or 403 from the backend is ErrRefreshRejected.
// Throttling, timeouts and transport failures are returned wrapped and leave
// the session untouched.
func (s *Store) Refresh(ctx context.Context) (string, error) {
	s.mu.RLock()
	refreshToken := s.rec.RefreshToken
	s.mu.RUnlock()

	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	log := slogx.FromContext(ctx).With("component", "session", "refresh_fp", cryptox.Fingerprint(refreshToken))

	pair, err := s.auth.Refresh(ctx, refreshToken)
	if err != nil {
		if retailapi.IsRefreshRejection(err) {
			log.Info("refresh token rejected", "error", err)
			return "", fmt.Errorf("%w: %w", ErrRefreshRejected, err)
		}
		return "", fmt.Errorf("session: refresh: %w", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return "", fmt.Errorf("%w: backend returned an incomplete token pair", ErrRefreshRejected)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The pair moved on while the call was in flight. Verification resets
	// leave the pair alone and do not make the result stale.
	if s.rec.RefreshToken != refreshToken {
		if s.rec.AccessToken == "" {
			return "", ErrNoCredential
		}
		return s.rec.AccessToken, nil
	}

	next := s.rec
	next.AccessToken = pair.AccessToken
	next.RefreshToken = pair.RefreshToken

	if err := s.writeRecordLocked(ctx, next); err != nil {
		return "", err
	}

	s.rec = next
	s.notifyLocked()

	log.Debug("credentials refreshed")
	return next.AccessToken, nil
}

// Logout revokes the refresh token remotely on a best-effort basis and then
// clears the credentials, profile, onboarding flag, active location and
// verification state. It never fails and is safe to call repeatedly.
func (s *Store) Logout(ctx context.Context) {
	s.mu.RLock()
	access, refresh := s.rec.AccessToken, s.rec.RefreshToken
	s.mu.RUnlock()

	if refresh != "" {
		s.revoke(ctx, access, refresh)
	}

	// Local clearing must not depend on the caller's deadline.
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeRecordLocked(ctx, record{}); err != nil {
		s.log.Error("logout: failed to clear persisted session", "error", err)
	}
	if err := s.writeLocationLocked(ctx, ""); err != nil {
		s.log.Error("logout: failed to clear persisted location", "error", err)
	}

	s.rec = record{}
	s.locationID = ""
	s.resetVerificationLocked()
	s.notifyLocked()
}

func (s *Store) revoke(ctx context.Context, access, refresh string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("logout: revocation panicked", "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.logoutTimeout)
	defer cancel()

	if err := s.auth.Logout(ctx, access, refresh); err != nil {
		s.log.Warn("logout: remote revocation failed", "error", err)
	}
}

// ClearAuth drops the credentials, profile and onboarding flag without a
// remote call. Used when the refresh token is rejected. The active location
// is kept.
func (s *Store) ClearAuth(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeRecordLocked(ctx, record{}); err != nil {
		s.log.Error("clear auth: failed to clear persisted session", "error", err)
	}

	s.rec = record{}
	s.resetVerificationLocked()
	s.notifyLocked()
}

// ============================================================================
// Readers
// ============================================================================

// AccessToken returns the current access token, or "".
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.AccessToken
}

// RefreshToken returns the current refresh token, or "".
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.RefreshToken
}

// Credentials returns the current pair.
func (s *Store) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Credentials{AccessToken: s.rec.AccessToken, RefreshToken: s.rec.RefreshToken}
}

// IsAuthenticated reports whether an access token is held.
func (s *Store) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// IsOnboarding reports whether the session is mid-onboarding.
func (s *Store) IsOnboarding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.Onboarding
}

// Profile returns a copy of the cached profile, or nil.
func (s *Store) Profile() *retailapi.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec.Profile == nil {
		return nil
	}
	p := *s.rec.Profile
	return &p
}

// LocationID returns the active location, or "".
func (s *Store) LocationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locationID
}

// Snapshot returns a consistent view for route decisions.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Bootstrapped:  s.bootstrapped,
		Authenticated: s.rec.AccessToken != "",
		Onboarding:    s.rec.Onboarding,
		Checked:       s.checked,
		Outcome:       s.outcome,
		LocationID:    s.locationID,
		Epoch:         s.epoch,
	}
	if s.rec.Profile != nil {
		p := *s.rec.Profile
		snap.Profile = &p
	}
	if s.outcome.MissingFields != nil {
		snap.Outcome.MissingFields = append([]string(nil), s.outcome.MissingFields...)
	}
	return snap
}

// Changed returns a channel that is closed on the next mutation.
func (s *Store) Changed() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed
}

// ============================================================================
// Other mutations
// ============================================================================

// SetActiveLocation selects the location sent with every backend request.
// An empty id clears the selection.
func (s *Store) SetActiveLocation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.locationID {
		return nil
	}
	if err := s.writeLocationLocked(ctx, id); err != nil {
		return err
	}

	s.locationID = id
	s.notifyLocked()
	return nil
}

// SyncProfile replaces the cached profile with a fresh fetch. A result that
// arrives after the session changed is dropped.
func (s *Store) SyncProfile(ctx context.Context, fetcher ProfileFetcher) error {
	s.mu.RLock()
	epoch := s.epoch
	authenticated := s.rec.AccessToken != ""
	s.mu.RUnlock()

	if !authenticated {
		return ErrNoCredential
	}

	profile, err := fetcher.Me(ctx)
	if err != nil {
		return fmt.Errorf("session: sync profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch || s.rec.AccessToken == "" {
		return nil
	}

	next := s.rec
	next.Profile = profile
	if err := s.writeRecordLocked(ctx, next); err != nil {
		return err
	}

	s.rec = next
	s.notifyLocked()
	return nil
}

// ============================================================================
// Verification state
// ============================================================================

// Epoch identifies the current verification round. It changes on login,
// logout, clear and ResetVerification.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// CompleteVerification records the outcome of the round started at epoch and
// marks the session checked. It returns false, changing nothing, when the
// round is stale or the session is no longer authenticated.
//
// The onboarding flag follows the outcome. If persisting it fails the old
// flag is kept, but the session is still marked checked.
func (s *Store) CompleteVerification(ctx context.Context, epoch uint64, outcome Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || s.rec.AccessToken == "" {
		return false
	}

	onboarding := outcome.Destination != DestinationDashboard
	if onboarding != s.rec.Onboarding {
		next := s.rec
		next.Onboarding = onboarding
		if err := s.writeRecordLocked(ctx, next); err != nil {
			s.log.Error("verification: failed to persist onboarding flag", "error", err)
		} else {
			s.rec = next
		}
	}

	s.checked = true
	s.outcome = outcome
	s.notifyLocked()
	return true
}

// ResetVerification forgets the current outcome so the next guard
// evaluation runs verification again. Any in-flight round becomes stale.
func (s *Store) ResetVerification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetVerificationLocked()
	s.notifyLocked()
}

func (s *Store) resetVerificationLocked() {
	s.checked = false
	s.outcome = Outcome{}
	s.epoch++
}

func (s *Store) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}
