package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rankwise/dashboard/pkg/credstore"
)

func newTestStore(t *testing.T, mirror credstore.Mirror) *Store {
	t.Helper()

	store, err := New("file:"+filepath.Join(t.TempDir(), "creds.db"), mirror)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.ApplyMigrations())
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t, nil)

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, credstore.ErrNoCredential)

	cred := credstore.Credential{AccessToken: "acc-1", RefreshToken: "ref-1"}
	require.NoError(t, store.Save(ctx, cred))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, cred, got)
}

func TestStoreSaveReplaces(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t, nil)

	require.NoError(t, store.Save(ctx, credstore.Credential{AccessToken: "acc-1", RefreshToken: "ref-1"}))
	require.NoError(t, store.Save(ctx, credstore.Credential{AccessToken: "acc-2", RefreshToken: "ref-2"}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "acc-2", got.AccessToken)
	require.Equal(t, "ref-2", got.RefreshToken)
}

func TestStoreClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t, nil)

	require.NoError(t, store.Save(ctx, credstore.Credential{AccessToken: "acc-1", RefreshToken: "ref-1"}))
	require.NoError(t, store.Clear(ctx))

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, credstore.ErrNoCredential)

	// Clearing again is a no-op.
	require.NoError(t, store.Clear(ctx))
}

func TestStoreKeepsMirrorInSync(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mirror := credstore.NewCookieMirror("", false)
	store := newTestStore(t, mirror)

	require.NoError(t, store.Save(ctx, credstore.Credential{AccessToken: "acc-1", RefreshToken: "ref-1"}))
	require.Equal(t, "acc-1", mirror.Value())

	require.NoError(t, store.Clear(ctx))
	require.Empty(t, mirror.Value())
}

func TestStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := "file:" + filepath.Join(t.TempDir(), "creds.db")

	first, err := New(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.ApplyMigrations())

	cred := credstore.Credential{AccessToken: "acc-1", RefreshToken: "ref-1"}
	require.NoError(t, first.Save(ctx, cred))
	require.NoError(t, first.Close())

	second, err := New(path, nil)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.ApplyMigrations())

	got, err := second.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, cred, got)
}

func TestStorePing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, nil)
	require.NoError(t, store.Ping(context.Background()))
}
