// Package storage persists the dashboard session as opaque key/value blobs.
//
// The session layer only ever reads and writes whole values under a handful
// of well known keys, so a KV contract is all a driver has to satisfy.
// Drivers live under drivers/ (sqlite for a single agent, redis when several
// agents share state); Memory is used in tests and for throwaway sessions.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key holds no value.
	ErrNotFound = errors.New("storage: not found")

	// ErrCorrupt is returned by Get when a value exists but cannot be decoded.
	ErrCorrupt = errors.New("storage: corrupt value")
)

// KV is the durable storage contract used by the session store.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}
