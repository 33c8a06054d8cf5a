package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/retailhub/internal/storage"
	"github.com/aussiebroadwan/retailhub/pkg/retailapi"
)

// Persisted keys. Values are opaque to everything but this package.
const (
	SessionKey  = "retailhub.session"
	LocationKey = "retailhub.location"
)

// record is the value stored under SessionKey.
type record struct {
	AccessToken  string             `json:"access_token,omitempty"`
	RefreshToken string             `json:"refresh_token,omitempty"`
	Profile      *retailapi.Profile `json:"profile,omitempty"`
	Onboarding   bool               `json:"onboarding,omitempty"`
}

func (r record) empty() bool {
	return r.AccessToken == "" && r.RefreshToken == "" && r.Profile == nil && !r.Onboarding
}

// writeRecordLocked persists rec. An empty record deletes the key.
func (s *Store) writeRecordLocked(ctx context.Context, rec record) error {
	if rec.empty() {
		if err := s.kv.Delete(ctx, SessionKey); err != nil {
			return fmt.Errorf("session: persist: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := s.kv.Put(ctx, SessionKey, raw); err != nil {
		return fmt.Errorf("session: persist: %w", err)
	}
	return nil
}

func (s *Store) writeLocationLocked(ctx context.Context, id string) error {
	var err error
	if id == "" {
		err = s.kv.Delete(ctx, LocationKey)
	} else {
		err = s.kv.Put(ctx, LocationKey, []byte(id))
	}
	if err != nil {
		return fmt.Errorf("session: persist location: %w", err)
	}
	return nil
}

// load reads a key, treating missing and undecodable values as absent.
// Undecodable values are removed so they are not retried on every start.
func (s *Store) load(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.kv.Get(ctx, key)
	switch {
	case err == nil:
		return raw, nil
	case errors.Is(err, storage.ErrNotFound):
		return nil, nil
	case errors.Is(err, storage.ErrCorrupt):
		s.log.Warn("discarding unreadable session value", "key", key, "error", err)
		_ = s.kv.Delete(ctx, key)
		return nil, nil
	default:
		return nil, fmt.Errorf("session: load %s: %w", key, err)
	}
}
