package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/photobridge/internal/adapter/storage/storetest"
	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/port"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) port.MediaLibrary {
		return newTestStore(t)
	})
}

func TestNewStore(t *testing.T) {
	t.Run("creates database in nested data dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		store, err := NewStore(dir)
		require.NoError(t, err)
		defer store.Close() //nolint:errcheck

		assert.Equal(t, filepath.Join(dir, "photobridge.db"), store.Path())
		assert.FileExists(t, store.Path())
	})

	t.Run("enables foreign keys", func(t *testing.T) {
		store := newTestStore(t)
		var on int
		require.NoError(t, store.DB().QueryRow("PRAGMA foreign_keys").Scan(&on))
		assert.Equal(t, 1, on)
	})

	t.Run("reopen keeps data and skips applied migrations", func(t *testing.T) {
		ctx := context.Background()
		dir := t.TempDir()

		store, err := NewStore(dir)
		require.NoError(t, err)
		a := domain.NewAsset(domain.MediaTypeVideo, "clip.mov", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, store.InsertAsset(ctx, a, nil, nil, nil))
		require.NoError(t, store.Close())

		reopened, err := NewStore(dir)
		require.NoError(t, err)
		defer reopened.Close() //nolint:errcheck

		r, err := reopened.FetchAssets(ctx, domain.FetchParams{})
		require.NoError(t, err)
		assert.Equal(t, []string{a.LocalIdentifier}, r.Identifiers())
	})
}

func TestStore_LargeIdentifierLists(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// More identifiers than one IN list holds.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 1200; i++ {
		a := domain.NewAsset(domain.MediaTypeImage, "img.jpg", base.Add(time.Duration(i)*time.Second))
		require.NoError(t, store.InsertAsset(ctx, a, nil, nil, nil))
		ids = append(ids, a.LocalIdentifier)
	}

	r, err := store.FetchAssetsWithLocalIdentifiers(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, ids, r.Identifiers())

	last, err := r.AssetAt(ctx, 1199)
	require.NoError(t, err)
	assert.Equal(t, ids[1199], last.LocalIdentifier)

	require.NoError(t, store.DeleteAssets(ctx, ids))
	r, err = store.FetchAssets(ctx, domain.FetchParams{})
	require.NoError(t, err)
	assert.Equal(t, 0, r.Count())
}
