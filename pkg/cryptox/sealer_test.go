package cryptox_test

import (
	"bytes"
	"testing"

	"github.com/aussiebroadwan/retailhub/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestSealer_RoundTrip(t *testing.T) {
	t.Parallel()

	s, err := cryptox.NewSealer([]byte("development-seal-key"))
	require.NoError(t, err)

	plaintext := []byte(`{"access_token":"a","refresh_token":"r"}`)
	sealed, err := s.Seal(plaintext, []byte("retailhub.session"))
	require.NoError(t, err)
	require.False(t, bytes.Contains(sealed, []byte("access_token")))

	opened, err := s.Open(sealed, []byte("retailhub.session"))
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)
}

func TestSealer_UniqueNonces(t *testing.T) {
	t.Parallel()

	s, err := cryptox.NewSealer([]byte("k"))
	require.NoError(t, err)

	a, err := s.Seal([]byte("same"), nil)
	require.NoError(t, err)
	b, err := s.Seal([]byte("same"), nil)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestSealer_Rejects(t *testing.T) {
	t.Parallel()

	s, err := cryptox.NewSealer([]byte("key-one"))
	require.NoError(t, err)
	other, err := cryptox.NewSealer([]byte("key-two"))
	require.NoError(t, err)

	sealed, err := s.Seal([]byte("secret"), []byte("retailhub.session"))
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		_, err := other.Open(sealed, []byte("retailhub.session"))
		require.Error(t, err)
	})

	t.Run("wrong additional data", func(t *testing.T) {
		_, err := s.Open(sealed, []byte("retailhub.location"))
		require.Error(t, err)
	})

	t.Run("tampered", func(t *testing.T) {
		tampered := bytes.Clone(sealed)
		tampered[len(tampered)-1] ^= 0xff
		_, err := s.Open(tampered, []byte("retailhub.session"))
		require.Error(t, err)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := s.Open([]byte("short"), nil)
		require.ErrorIs(t, err, cryptox.ErrSealedTooShort)
	})
}

func TestNewSealer_EmptyKey(t *testing.T) {
	t.Parallel()

	_, err := cryptox.NewSealer(nil)
	require.ErrorIs(t, err, cryptox.ErrEmptyKey)
}
