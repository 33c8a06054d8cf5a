package storage_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/retailhub/internal/storage"
	"github.com/aussiebroadwan/retailhub/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := storage.NewMemory()

	_, err := kv.Get(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)

	value := []byte("v1")
	require.NoError(t, kv.Put(ctx, "k", value))
	value[0] = 'x'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got, "stored value must not alias the caller's slice")

	require.NoError(t, kv.Delete(ctx, "k"))
	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSealed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sealer, err := cryptox.NewSealer([]byte("test-key"))
	require.NoError(t, err)

	inner := storage.NewMemory()
	kv := storage.NewSealed(inner, sealer)

	require.NoError(t, kv.Put(ctx, "retailhub.session", []byte(`{"access_token":"abc"}`)))

	raw, err := inner.Get(ctx, "retailhub.session")
	require.NoError(t, err)
	require.NotContains(t, string(raw), "access_token")

	got, err := kv.Get(ctx, "retailhub.session")
	require.NoError(t, err)
	require.JSONEq(t, `{"access_token":"abc"}`, string(got))

	t.Run("value moved to another key", func(t *testing.T) {
		require.NoError(t, inner.Put(ctx, "retailhub.location", raw))
		_, err := kv.Get(ctx, "retailhub.location")
		require.ErrorIs(t, err, storage.ErrCorrupt)
	})

	t.Run("plaintext left by an unsealed agent", func(t *testing.T) {
		require.NoError(t, inner.Put(ctx, "plain", []byte(`{"access_token":"abc"}`)))
		_, err := kv.Get(ctx, "plain")
		require.ErrorIs(t, err, storage.ErrCorrupt)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := kv.Get(ctx, "nope")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestInstrumented(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := storage.NewInstrumented(storage.NewMemory(), "memory")

	require.NoError(t, kv.Put(ctx, "k", []byte("v")))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
	require.NoError(t, kv.Delete(ctx, "k"))
	require.NoError(t, kv.Ping(ctx))
}
