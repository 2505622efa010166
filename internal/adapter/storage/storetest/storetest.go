// Package storetest holds the behaviour every media library backend must
// share. Backend packages run it from their own tests.
package storetest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/port"
)

// Factory returns an empty library rooted in a fresh temporary directory.
type Factory func(t *testing.T) port.MediaLibrary

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	lib    port.MediaLibrary
	dir    string
	assets map[string]*domain.Asset
	album  *domain.Album
}

// seed inserts five assets: p0..p2 are plain photos one hour apart, v3 is a
// favorite video, h4 is hidden. b5 is a burst member. p1 and v3 are in the
// album "Trip".
func seed(t *testing.T, lib port.MediaLibrary) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	album := &domain.Album{ID: "TRIP/L0/040", Title: "Trip", Type: domain.AlbumTypeAlbum, CreatedAt: epoch}
	require.NoError(t, lib.CreateAlbum(ctx, album))

	mk := func(id string, mt domain.MediaType, mime string, hour int) *domain.Asset {
		return &domain.Asset{
			LocalIdentifier:  id,
			MediaType:        mt,
			MimeType:         mime,
			Filename:         id + ".file",
			PixelWidth:       100 * (hour + 1),
			PixelHeight:      50,
			CreationDate:     epoch.Add(time.Duration(hour) * time.Hour),
			ModificationDate: epoch.Add(time.Duration(10-hour) * time.Hour),
			SourceType:       domain.SourceTypeUserLibrary,
		}
	}

	p0 := mk("p0", domain.MediaTypeImage, "image/jpeg", 0)
	p1 := mk("p1", domain.MediaTypeImage, "image/heic", 1)
	p1.Location = &domain.Location{Latitude: 48.8566, Longitude: 2.3522, Altitude: 35, Timestamp: epoch}
	p2 := mk("p2", domain.MediaTypeImage, "image/png", 2)
	v3 := mk("v3", domain.MediaTypeVideo, "video/quicktime", 3)
	v3.Favorite = true
	v3.Duration = 12.5
	h4 := mk("h4", domain.MediaTypeImage, "image/jpeg", 4)
	h4.Hidden = true
	b5 := mk("b5", domain.MediaTypeImage, "image/jpeg", 5)
	b5.BurstIdentifier = "BURST"

	f := &fixture{lib: lib, dir: dir, assets: map[string]*domain.Asset{}, album: album}
	for _, a := range []*domain.Asset{p0, p1, p2, v3, h4, b5} {
		path := filepath.Join(dir, a.LocalIdentifier+".bin")
		require.NoError(t, os.WriteFile(path, []byte(a.LocalIdentifier), 0644))
		resources := []domain.Resource{{
			Type:             domain.PrimaryResourceType(a.MediaType),
			OriginalFilename: a.Filename,
			MimeType:         a.MimeType,
			FileSize:         int64(len(a.LocalIdentifier)),
			Path:             path,
			Checksum:         "sum-" + a.LocalIdentifier,
		}}
		var albums []string
		var edition *domain.Edition
		switch a.LocalIdentifier {
		case "p1":
			albums = []string{album.ID}
			resources = append(resources, domain.Resource{
				Type:             domain.ResourceTypeAdjustmentData,
				OriginalFilename: "p1.AAE",
				MimeType:         "application/xml",
				FileSize:         10,
				Path:             filepath.Join(dir, "p1.AAE"),
				Checksum:         "sum-p1-aae",
			})
			edition = &domain.Edition{
				FormatIdentifier: "com.apple.photo",
				FormatVersion:    "1.4",
				BaseVersion:      1,
				Editor:           "com.apple.Photos",
				EditedAt:         epoch.Add(48 * time.Hour),
				AdjustmentData:   []byte("crop"),
			}
		case "v3":
			albums = []string{album.ID}
		}
		require.NoError(t, lib.InsertAsset(ctx, a, resources, edition, albums))
		f.assets[a.LocalIdentifier] = a
	}
	return f
}

func ids(t *testing.T, r port.FetchResult) []string {
	t.Helper()
	out := make([]string, r.Count())
	for i := range out {
		a, err := r.AssetAt(context.Background(), i)
		require.NoError(t, err)
		out[i] = a.LocalIdentifier
	}
	assert.Equal(t, out, r.Identifiers())
	return out
}

// Run exercises a backend against the shared library contract.
func Run(t *testing.T, newLibrary Factory) {
	ctx := context.Background()

	t.Run("fetch defaults to visible assets oldest first", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		r, err := f.lib.FetchAssets(ctx, domain.FetchParams{})
		require.NoError(t, err)
		assert.Equal(t, []string{"p0", "p1", "p2", "v3"}, ids(t, r))
	})

	t.Run("fetch includes hidden and burst on request", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		r, err := f.lib.FetchAssets(ctx, domain.FetchParams{IncludeHiddenAssets: true, IncludeAllBurstAssets: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"p0", "p1", "p2", "v3", "h4", "b5"}, ids(t, r))
	})

	t.Run("fetch filters", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		tests := []struct {
			name   string
			params domain.FetchParams
			want   []string
		}{
			{"media type", domain.FetchParams{MediaTypes: []domain.MediaType{domain.MediaTypeVideo}}, []string{"v3"}},
			{"mime type", domain.FetchParams{MimeTypes: []string{"IMAGE/HEIC", "image/png"}}, []string{"p1", "p2"}},
			{"favorites", domain.FetchParams{FavoritesOnly: true}, []string{"v3"}},
			{"date range", domain.FetchParams{StartDate: epoch.Add(time.Hour), EndDate: epoch.Add(2 * time.Hour)}, []string{"p1", "p2"}},
			{"album", domain.FetchParams{AlbumID: f.album.ID}, []string{"p1", "v3"}},
			{"limit", domain.FetchParams{FetchLimit: 2}, []string{"p0", "p1"}},
		}
		for _, tt := range tests {
			r, err := f.lib.FetchAssets(ctx, tt.params)
			require.NoError(t, err, tt.name)
			assert.Equal(t, tt.want, ids(t, r), tt.name)
		}
	})

	t.Run("fetch sorts by descriptors", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		r, err := f.lib.FetchAssets(ctx, domain.FetchParams{
			SortDescriptors: []domain.SortDescriptor{{Key: domain.SortKeyCreationDate, Ascending: false}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"v3", "p2", "p1", "p0"}, ids(t, r))

		r, err = f.lib.FetchAssets(ctx, domain.FetchParams{
			SortDescriptors: []domain.SortDescriptor{
				{Key: domain.SortKeyPixelHeight, Ascending: true},
				{Key: domain.SortKeyModificationDate, Ascending: true},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"v3", "p2", "p1", "p0"}, ids(t, r))
	})

	t.Run("fetch unknown album", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		_, err := f.lib.FetchAssets(ctx, domain.FetchParams{AlbumID: "NOPE/L0/040"})
		assert.ErrorIs(t, err, domain.ErrAlbumNotFound)
	})

	t.Run("fetch result materializes assets", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		r, err := f.lib.FetchAssets(ctx, domain.FetchParams{IncludeHiddenAssets: true})
		require.NoError(t, err)

		a, err := r.AssetAt(ctx, 1)
		require.NoError(t, err)
		want := f.assets["p1"]
		assert.Equal(t, want.Filename, a.Filename)
		assert.Equal(t, want.PixelWidth, a.PixelWidth)
		assert.True(t, want.CreationDate.Equal(a.CreationDate))
		assert.True(t, want.ModificationDate.Equal(a.ModificationDate))
		require.NotNil(t, a.Location)
		assert.InDelta(t, 48.8566, a.Location.Latitude, 1e-9)
		assert.InDelta(t, 35, a.Location.Altitude, 1e-9)

		// Handed-out assets are copies.
		a.Filename = "changed"
		again, err := r.AssetAt(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, want.Filename, again.Filename)

		_, err = r.AssetAt(ctx, r.Count())
		assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
		_, err = r.AssetAt(ctx, -1)
		assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	})

	t.Run("resolve identifiers", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		r, err := f.lib.FetchAssetsWithLocalIdentifiers(ctx, []string{"v3", "missing", "p0", "v3", "h4"})
		require.NoError(t, err)
		assert.Equal(t, []string{"v3", "p0", "h4"}, ids(t, r))

		empty, err := f.lib.FetchAssetsWithLocalIdentifiers(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, empty.Count())
	})

	t.Run("resources", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		res, err := f.lib.AssetResources(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, domain.ResourceTypePhoto, res[0].Type)
		assert.Equal(t, domain.ResourceTypeAdjustmentData, res[1].Type)
		assert.Equal(t, "sum-p1", res[0].Checksum)

		_, err = f.lib.AssetResources(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("edition", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		e, err := f.lib.AssetEdition(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "com.apple.photo", e.FormatIdentifier)
		assert.Equal(t, 1, e.BaseVersion)
		assert.Equal(t, []byte("crop"), e.AdjustmentData)
		assert.True(t, e.EditedAt.Equal(epoch.Add(48*time.Hour)))

		_, err = f.lib.AssetEdition(ctx, "p0")
		assert.ErrorIs(t, err, domain.ErrEditionUnavailable)

		_, err = f.lib.AssetEdition(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		err := f.lib.UpdateAsset(ctx, "p0", map[string]any{
			"favorite": true,
			"location": map[string]any{"latitude": 40.0, "longitude": -74.0},
		})
		require.NoError(t, err)

		r, err := f.lib.FetchAssetsWithLocalIdentifiers(ctx, []string{"p0"})
		require.NoError(t, err)
		a, err := r.AssetAt(ctx, 0)
		require.NoError(t, err)
		assert.True(t, a.Favorite)
		require.NotNil(t, a.Location)
		assert.InDelta(t, -74.0, a.Location.Longitude, 1e-9)
		assert.True(t, a.ModificationDate.After(f.assets["p0"].ModificationDate))

		err = f.lib.UpdateAsset(ctx, "p0", map[string]any{"title": "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidChange)

		err = f.lib.UpdateAsset(ctx, "missing", map[string]any{"hidden": true})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete is all or nothing", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		err := f.lib.DeleteAssets(ctx, []string{"p0", "missing"})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		r, err := f.lib.FetchAssetsWithLocalIdentifiers(ctx, []string{"p0"})
		require.NoError(t, err)
		assert.Equal(t, 1, r.Count())
		_, err = os.Stat(filepath.Join(f.dir, "p0.bin"))
		assert.NoError(t, err)
	})

	t.Run("delete removes assets and files", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		require.NoError(t, f.lib.DeleteAssets(ctx, []string{"p1", "v3"}))

		r, err := f.lib.FetchAssets(ctx, domain.FetchParams{})
		require.NoError(t, err)
		assert.Equal(t, []string{"p0", "p2"}, ids(t, r))

		_, err = os.Stat(filepath.Join(f.dir, "p1.bin"))
		assert.True(t, os.IsNotExist(err))

		albums, err := f.lib.Albums(ctx)
		require.NoError(t, err)
		require.Len(t, albums, 1)
		assert.Equal(t, 0, albums[0].AssetCount)

		ok, err := f.lib.HasChecksum(ctx, "sum-p1")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, f.lib.DeleteAssets(ctx, nil))
	})

	t.Run("checksums", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		ok, err := f.lib.HasChecksum(ctx, "sum-p2")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = f.lib.HasChecksum(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("albums", func(t *testing.T) {
		f := seed(t, newLibrary(t))
		second := &domain.Album{ID: "LATER/L0/040", Title: "Later", Type: domain.AlbumTypeAlbum, CreatedAt: epoch.Add(time.Hour)}
		require.NoError(t, f.lib.CreateAlbum(ctx, second))

		albums, err := f.lib.Albums(ctx)
		require.NoError(t, err)
		require.Len(t, albums, 2)
		assert.Equal(t, "Trip", albums[0].Title)
		assert.Equal(t, 2, albums[0].AssetCount)
		assert.Equal(t, domain.AlbumTypeAlbum, albums[0].Type)
		assert.Equal(t, "Later", albums[1].Title)

		found, err := f.lib.FindAlbumByTitle(ctx, "Later")
		require.NoError(t, err)
		assert.Equal(t, second.ID, found.ID)

		_, err = f.lib.FindAlbumByTitle(ctx, "Nope")
		assert.ErrorIs(t, err, domain.ErrAlbumNotFound)
	})

	t.Run("insert into unknown album fails", func(t *testing.T) {
		lib := newLibrary(t)
		a := domain.NewAsset(domain.MediaTypeImage, "x.jpg", epoch)
		err := lib.InsertAsset(ctx, a, nil, nil, []string{"NOPE/L0/040"})
		assert.ErrorIs(t, err, domain.ErrAlbumNotFound)

		r, err := lib.FetchAssets(ctx, domain.FetchParams{})
		require.NoError(t, err)
		assert.Equal(t, 0, r.Count())
	})
}
