package storage

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/retailhub/pkg/cryptox"
)

// Sealed encrypts every value before it reaches the wrapped KV. The key is
// bound as additional data, so a value copied under another key fails to
// open.
type Sealed struct {
	KV
	sealer *cryptox.Sealer
}

// NewSealed wraps kv so values are sealed at rest.
func NewSealed(kv KV, sealer *cryptox.Sealer) *Sealed {
	return &Sealed{KV: kv, sealer: sealer}
}

func (s *Sealed) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.KV.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	plain, err := s.sealer.Open(sealed, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return plain, nil
}

func (s *Sealed) Put(ctx context.Context, key string, value []byte) error {
	sealed, err := s.sealer.Seal(value, []byte(key))
	if err != nil {
		return fmt.Errorf("storage: seal %s: %w", key, err)
	}
	return s.KV.Put(ctx, key, sealed)
}
