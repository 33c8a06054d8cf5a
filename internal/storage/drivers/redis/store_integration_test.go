//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/retailhub/internal/storage"
	storeredis "github.com/aussiebroadwan/retailhub/internal/storage/drivers/redis"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestStore_Redis(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	st, err := storeredis.Open(ctx, url, "test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	_, err = st.Get(ctx, "retailhub.session")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, st.Put(ctx, "retailhub.session", []byte("v1")))
	got, err := st.Get(ctx, "retailhub.session")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)

	t.Run("prefix isolates agents", func(t *testing.T) {
		other, err := storeredis.Open(ctx, url, "other:")
		require.NoError(t, err)
		defer other.Close()

		_, err = other.Get(ctx, "retailhub.session")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	require.NoError(t, st.Delete(ctx, "retailhub.session"))
	_, err = st.Get(ctx, "retailhub.session")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
