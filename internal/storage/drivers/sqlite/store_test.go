package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/retailhub/internal/storage"
	"github.com/aussiebroadwan/retailhub/internal/storage/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestStore_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newStore(t)

	_, err := st.Get(ctx, "retailhub.session")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, st.Put(ctx, "retailhub.session", []byte("v1")))
	require.NoError(t, st.Put(ctx, "retailhub.session", []byte("v2")))

	got, err := st.Get(ctx, "retailhub.session")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got)

	require.NoError(t, st.Delete(ctx, "retailhub.session"))
	_, err = st.Get(ctx, "retailhub.session")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, st.Ping(ctx))
}

func TestStore_MigrationsIdempotent(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	require.NoError(t, st.ApplyMigrations())
}

func TestStore_SurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	first, err := sqlite.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.ApplyMigrations())
	require.NoError(t, first.Put(ctx, "retailhub.location", []byte("loc_1")))
	require.NoError(t, first.Close())

	second, err := sqlite.NewStore(path)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.ApplyMigrations())

	got, err := second.Get(ctx, "retailhub.location")
	require.NoError(t, err)
	require.Equal(t, []byte("loc_1"), got)
}
