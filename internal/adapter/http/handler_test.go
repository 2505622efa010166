package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/port/mocks"
	"github.com/bnema/photobridge/internal/service"
)

type fakeImporter struct {
	save func(ctx context.Context, src, filename string, mediaType domain.MediaType) (*domain.Asset, error)
}

func (f *fakeImporter) SaveToLibrary(ctx context.Context, src, filename string, mediaType domain.MediaType) (*domain.Asset, error) {
	return f.save(ctx, src, filename, mediaType)
}

type testEnv struct {
	server   *Server
	lib      *mocks.MediaLibraryMock
	bus      *service.EventBus
	importer *fakeImporter
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	lib := mocks.NewMediaLibraryMock(t)
	pool := service.NewWorkerPool(2, 8)
	pool.Start(ctx)
	bus := service.NewEventBus()
	imp := &fakeImporter{}

	if opts.MaxUploadMB == 0 {
		opts.MaxUploadMB = 10
	}
	srv := NewServer(service.NewAssetService(lib, pool, bus), imp, bus, opts)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, lib: lib, bus: bus, importer: imp}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func testAssets(n int) []*domain.Asset {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	assets := make([]*domain.Asset, n)
	for i := range n {
		assets[i] = &domain.Asset{
			LocalIdentifier: fmt.Sprintf("ASSET-%d/L0/001", i),
			MediaType:       domain.MediaTypeImage,
			MimeType:        "image/jpeg",
			Filename:        fmt.Sprintf("IMG_%04d.JPG", i),
			PixelWidth:      4032,
			PixelHeight:     3024,
			CreationDate:    base.Add(time.Duration(i) * time.Hour),
			SourceType:      domain.SourceTypeUserLibrary,
		}
	}
	return assets
}

func collectionIndices(t *testing.T, records []domain.Record) []int {
	t.Helper()
	out := make([]int, len(records))
	for i, r := range records {
		v, ok := r[domain.KeyCollectionIndex].(float64)
		require.True(t, ok, "record %d has no collection index", i)
		out[i] = int(v)
	}
	return out
}

func assetPath(id, suffix string) string {
	return "/assets/" + url.PathEscape(id) + suffix
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[errorBody](t, rec).Error.Code
}

func TestHandlers_Query(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []int
	}{
		{name: "window start to end", body: `{"params":{},"startIndex":0,"endIndex":1}`, want: []int{0, 1}},
		{name: "window end to start", body: `{"params":{},"startIndex":0,"endIndex":1,"assetDisplayStartToEnd":false}`, want: []int{4, 3}},
		{name: "bottom up flips order", body: `{"params":{},"startIndex":0,"endIndex":1,"assetDisplayBottomUp":true}`, want: []int{1, 0}},
		{name: "whole result by default", body: `{"params":{}}`, want: []int{0, 1, 2, 3, 4}},
		{name: "end clamped", body: `{"params":{},"startIndex":3,"endIndex":99}`, want: []int{3, 4}},
		{name: "explicit indices", body: `{"params":{},"indices":[4,0,2]}`, want: []int{4, 0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, Options{})
			env.lib.EXPECT().FetchAssets(mock.Anything, domain.FetchParams{}).
				Return(mocks.NewStaticFetchResult(testAssets(5)...), nil).Once()

			rec := env.do(t, http.MethodPost, "/assets/query", tt.body)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			resp := decodeBody[assetsResponse](t, rec)
			assert.Equal(t, 5, resp.Count)
			assert.Equal(t, tt.want, collectionIndices(t, resp.Assets))
		})
	}
}

func TestHandlers_Query_Metadata(t *testing.T) {
	env := newTestEnv(t, Options{})
	assets := testAssets(1)
	env.lib.EXPECT().FetchAssets(mock.Anything, domain.FetchParams{MediaTypes: []domain.MediaType{domain.MediaTypeImage}}).
		Return(mocks.NewStaticFetchResult(assets...), nil).Once()
	env.lib.EXPECT().AssetResources(mock.Anything, assets[0].LocalIdentifier).
		Return([]domain.Resource{{Type: domain.ResourceTypePhoto, OriginalFilename: "IMG_0000.JPG", FileSize: 2048}}, nil).Once()

	rec := env.do(t, http.MethodPost, "/assets/query",
		`{"params":{"mediaTypes":["photo"]},"includeMetadata":true,"includeResourcesMetadata":true}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[assetsResponse](t, rec)
	require.Len(t, resp.Assets, 1)
	r := resp.Assets[0]
	assert.Equal(t, "ph://ASSET-0/L0/001", r[domain.KeyURI])
	assert.Equal(t, "IMG_0000.JPG", r[domain.KeyFilename])
	assert.Equal(t, float64(4032), r[domain.KeyPixelWidth])
	require.Len(t, r[domain.KeyResourcesMetadata], 1)
}

func TestHandlers_Query_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		fetches  bool
		wantCode int
		wantErr  string
	}{
		{name: "unknown param", body: `{"params":{"colour":"red"}}`, wantCode: http.StatusBadRequest, wantErr: CodeInvalidParams},
		{name: "bad sort key", body: `{"params":{"sortDescriptors":[{"key":"size","ascending":true}]}}`, wantCode: http.StatusBadRequest, wantErr: CodeInvalidParams},
		{name: "unknown body field", body: `{"params":{},"limit":3}`, wantCode: http.StatusBadRequest, wantErr: CodeInvalidParams},
		{name: "malformed json", body: `{"params":`, wantCode: http.StatusBadRequest, wantErr: CodeInvalidParams},
		{name: "start after end", body: `{"params":{},"startIndex":3,"endIndex":1}`, fetches: true, wantCode: http.StatusBadRequest, wantErr: CodeInvalidParams},
		{name: "negative end", body: `{"params":{},"endIndex":-1}`, fetches: true, wantCode: http.StatusBadRequest, wantErr: CodeInvalidParams},
		{name: "index out of range", body: `{"params":{},"indices":[0,9]}`, fetches: true, wantCode: http.StatusBadRequest, wantErr: CodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, Options{})
			if tt.fetches {
				env.lib.EXPECT().FetchAssets(mock.Anything, domain.FetchParams{}).
					Return(mocks.NewStaticFetchResult(testAssets(3)...), nil).Once()
			}

			rec := env.do(t, http.MethodPost, "/assets/query", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, errorCode(t, rec))
		})
	}
}

func TestHandlers_Query_LibraryFailure(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.lib.EXPECT().FetchAssets(mock.Anything, mock.Anything).Return(nil, errors.New("disk I/O error")).Once()

	rec := env.do(t, http.MethodPost, "/assets/query", `{"params":{}}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeUnableToLoad, errorCode(t, rec))
	assert.NotContains(t, rec.Body.String(), "disk I/O")
}

func TestHandlers_Resolve(t *testing.T) {
	env := newTestEnv(t, Options{})
	assets := testAssets(2)
	ids := []string{assets[1].LocalIdentifier, "GONE/L0/001", assets[0].LocalIdentifier}
	env.lib.EXPECT().FetchAssetsWithLocalIdentifiers(mock.Anything, ids).
		Return(mocks.NewStaticFetchResult(assets[1], assets[0]), nil).Once()

	body, _ := json.Marshal(resolveRequest{LocalIdentifiers: ids})
	rec := env.do(t, http.MethodPost, "/assets/resolve", string(body))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[assetsResponse](t, rec)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Assets, 2)
	assert.Equal(t, assets[1].LocalIdentifier, resp.Assets[0][domain.KeyLocalIdentifier])
	assert.Equal(t, assets[0].LocalIdentifier, resp.Assets[1][domain.KeyLocalIdentifier])
}

func TestHandlers_Resolve_NoneKnown(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.lib.EXPECT().FetchAssetsWithLocalIdentifiers(mock.Anything, []string{"X"}).
		Return(mocks.NewStaticFetchResult(), nil).Once()

	rec := env.do(t, http.MethodPost, "/assets/resolve", `{"localIdentifiers":["X"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[assetsResponse](t, rec)
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Assets)
}

func TestHandlers_Edition(t *testing.T) {
	a := testAssets(1)[0]

	t.Run("attached", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		env.lib.EXPECT().FetchAssetsWithLocalIdentifiers(mock.Anything, []string{a.LocalIdentifier}).
			Return(mocks.NewStaticFetchResult(a), nil).Once()
		env.lib.EXPECT().AssetEdition(mock.Anything, a.LocalIdentifier).Return(&domain.Edition{
			FormatIdentifier: "com.apple.photo",
			FormatVersion:    "1.4",
			AdjustmentData:   []byte("crop"),
		}, nil).Once()

		rec := env.do(t, http.MethodGet, assetPath(a.LocalIdentifier, "/edition"), "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeBody[editionResponse](t, rec)
		assert.Equal(t, "attached", resp.Status)
		edition, ok := resp.Asset[domain.KeyEditionMetadata].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Y3JvcA==", edition["adjustmentData"])
		assert.Empty(t, resp.Reason)
	})

	t.Run("unavailable", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		env.lib.EXPECT().FetchAssetsWithLocalIdentifiers(mock.Anything, []string{a.LocalIdentifier}).
			Return(mocks.NewStaticFetchResult(a), nil).Once()
		env.lib.EXPECT().AssetEdition(mock.Anything, a.LocalIdentifier).
			Return(nil, domain.ErrEditionUnavailable).Once()

		rec := env.do(t, http.MethodGet, assetPath(a.LocalIdentifier, "/edition?includeMetadata=true"), "")

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[editionResponse](t, rec)
		assert.Equal(t, "unavailable", resp.Status)
		assert.NotContains(t, resp.Asset, domain.KeyEditionMetadata)
		assert.Equal(t, a.Filename, resp.Asset[domain.KeyFilename])
		assert.Empty(t, resp.Reason)
	})

	t.Run("unknown asset", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		env.lib.EXPECT().FetchAssetsWithLocalIdentifiers(mock.Anything, []string{"NOPE/L0/001"}).
			Return(mocks.NewStaticFetchResult(), nil).Once()

		rec := env.do(t, http.MethodGet, assetPath("NOPE/L0/001", "/edition"), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, CodeNotFound, errorCode(t, rec))
	})
}

func TestHandlers_Delete(t *testing.T) {
	assets := testAssets(2)
	ids := []string{assets[0].LocalIdentifier, assets[1].LocalIdentifier}

	t.Run("success publishes events", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		events := env.bus.Subscribe(service.AllAssets)
		defer env.bus.Unsubscribe(service.AllAssets, events)

		env.lib.EXPECT().FetchAssetsWithLocalIdentifiers(mock.Anything, ids).
			Return(mocks.NewStaticFetchResult(assets...), nil).Once()
		env.lib.EXPECT().DeleteAssets(mock.Anything, ids).Return(nil).Once()

		body, _ := json.Marshal(deleteRequest{LocalIdentifiers: ids})
		rec := env.do(t, http.MethodPost, "/assets/delete", string(body))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeBody[deleteResponse](t, rec)
		assert.True(t, resp.Success)
		assert.Equal(t, ids, resp.LocalIdentifiers)

		select {
		case ev := <-events:
			assert.Equal(t, service.EventDeleted, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("no delete event")
		}
	})

	t.Run("library failure", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		env.lib.EXPECT().FetchAssetsWithLocalIdentifiers(mock.Anything, ids).
			Return(mocks.NewStaticFetchResult(assets...), nil).Once()
		env.lib.EXPECT().DeleteAssets(mock.Anything, ids).Return(errors.New("user declined")).Once()

		body, _ := json.Marshal(deleteRequest{LocalIdentifiers: ids})
		rec := env.do(t, http.MethodPost, "/assets/delete", string(body))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, CodeUnableToDelete, errorCode(t, rec))
	})

	t.Run("nothing to delete", func(t *testing.T) {
		env := newTestEnv(t, Options{})

		rec := env.do(t, http.MethodPost, "/assets/delete", `{"localIdentifiers":[]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("all unknown", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		env.lib.EXPECT().FetchAssetsWithLocalIdentifiers(mock.Anything, []string{"X"}).
			Return(mocks.NewStaticFetchResult(), nil).Once()

		rec := env.do(t, http.MethodPost, "/assets/delete", `{"localIdentifiers":["X"]}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandlers_Update(t *testing.T) {
	a := testAssets(1)[0]

	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		env.lib.EXPECT().FetchAssetsWithLocalIdentifiers(mock.Anything, []string{a.LocalIdentifier}).
			Return(mocks.NewStaticFetchResult(a), nil).Once()
		env.lib.EXPECT().UpdateAsset(mock.Anything, a.LocalIdentifier, map[string]any{"favorite": true}).
			Return(nil).Once()

		rec := env.do(t, http.MethodPatch, assetPath(a.LocalIdentifier, ""), `{"favorite":true}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeBody[updateResponse](t, rec)
		assert.True(t, resp.Success)
		assert.Equal(t, a.LocalIdentifier, resp.LocalIdentifier)
	})

	t.Run("invalid change", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		env.lib.EXPECT().FetchAssetsWithLocalIdentifiers(mock.Anything, []string{a.LocalIdentifier}).
			Return(mocks.NewStaticFetchResult(a), nil).Once()
		env.lib.EXPECT().UpdateAsset(mock.Anything, a.LocalIdentifier, mock.Anything).
			Return(fmt.Errorf("%w: title", domain.ErrInvalidChange)).Once()

		rec := env.do(t, http.MethodPatch, assetPath(a.LocalIdentifier, ""), `{"title":"x"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, CodeInvalidParams, errorCode(t, rec))
	})

	t.Run("library failure", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		env.lib.EXPECT().FetchAssetsWithLocalIdentifiers(mock.Anything, []string{a.LocalIdentifier}).
			Return(mocks.NewStaticFetchResult(a), nil).Once()
		env.lib.EXPECT().UpdateAsset(mock.Anything, a.LocalIdentifier, mock.Anything).
			Return(errors.New("database is locked")).Once()

		rec := env.do(t, http.MethodPatch, assetPath(a.LocalIdentifier, ""), `{"hidden":true}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, CodeUnableToSave, errorCode(t, rec))
	})
}

func TestHandlers_Albums(t *testing.T) {
	env := newTestEnv(t, Options{})
	trip := domain.Album{ID: "TRIP/L0/040", Title: "Trip", Type: domain.AlbumTypeAlbum}
	empty := domain.Album{ID: "EMPTY/L0/040", Title: "Empty", Type: domain.AlbumTypeAlbum}
	assets := testAssets(3)
	env.lib.EXPECT().Albums(mock.Anything).Return([]domain.Album{trip, empty}, nil).Once()
	env.lib.EXPECT().FetchAssets(mock.Anything, domain.FetchParams{}).
		Return(mocks.NewStaticFetchResult(assets...), nil).Once()
	env.lib.EXPECT().FetchAssets(mock.Anything, domain.FetchParams{AlbumID: trip.ID}).
		Return(mocks.NewStaticFetchResult(assets[1]), nil).Once()
	env.lib.EXPECT().FetchAssets(mock.Anything, domain.FetchParams{AlbumID: empty.ID}).
		Return(mocks.NewStaticFetchResult(), nil).Once()

	rec := env.do(t, http.MethodGet, "/albums", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[albumsResponse](t, rec)
	require.Len(t, resp.Albums, 2)
	assert.Equal(t, service.AllPhotosTitle, resp.Albums[0]["title"])
	assert.Equal(t, float64(3), resp.Albums[0]["assetCount"])
	assert.Equal(t, "Trip", resp.Albums[1]["title"])
	assert.Equal(t, float64(1), resp.Albums[1]["assetCount"])
}

func TestHandlers_Photos(t *testing.T) {
	t.Run("first page newest first", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		env.lib.EXPECT().FetchAssets(mock.Anything, domain.FetchParams{}).
			Return(mocks.NewStaticFetchResult(testAssets(5)...), nil).Once()

		rec := env.do(t, http.MethodGet, "/photos?first=2", "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeBody[photosResponse](t, rec)
		assert.Equal(t, []int{4, 3}, collectionIndices(t, resp.Assets))
		assert.Equal(t, 2, resp.PageInfo.EndCursor)
		assert.True(t, resp.PageInfo.HasNextPage)
		assert.Equal(t, 5, resp.TotalCount)
	})

	t.Run("last page", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		env.lib.EXPECT().FetchAssets(mock.Anything, domain.FetchParams{
			AlbumID:    "TRIP/L0/040",
			MediaTypes: []domain.MediaType{domain.MediaTypeVideo},
		}).Return(mocks.NewStaticFetchResult(testAssets(5)...), nil).Once()

		rec := env.do(t, http.MethodGet, "/photos?first=4&after=2&albumId=TRIP%2FL0%2F040&mediaType=video", "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeBody[photosResponse](t, rec)
		assert.Equal(t, []int{2, 1, 0}, collectionIndices(t, resp.Assets))
		assert.Equal(t, 5, resp.PageInfo.EndCursor)
		assert.False(t, resp.PageInfo.HasNextPage)
	})

	t.Run("mime type filter", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		env.lib.EXPECT().FetchAssets(mock.Anything, domain.FetchParams{
			MimeTypes: []string{"image/heic", "image/png"},
		}).Return(mocks.NewStaticFetchResult(testAssets(1)...), nil).Once()

		rec := env.do(t, http.MethodGet, "/photos?mimeTypes=image/heic,image/png", "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeBody[photosResponse](t, rec)
		assert.Equal(t, 1, resp.TotalCount)
	})

	t.Run("bad paging", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		for _, target := range []string{"/photos?first=abc", "/photos?first=0", "/photos?first=501", "/photos?after=x", "/photos?mediaType=hologram"} {
			rec := env.do(t, http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	})
}

func newUpload(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandlers_Save(t *testing.T) {
	t.Run("stores upload", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		saved := &domain.Asset{
			LocalIdentifier: "NEW/L0/001",
			MediaType:       domain.MediaTypeVideo,
			Filename:        "clip.mov",
		}
		env.importer.save = func(_ context.Context, src, filename string, mt domain.MediaType) (*domain.Asset, error) {
			data, err := os.ReadFile(src)
			require.NoError(t, err)
			assert.Equal(t, "movie bytes", string(data))
			assert.Equal(t, "clip.mov", filename)
			assert.Equal(t, domain.MediaTypeVideo, mt)
			return saved, nil
		}

		body, ct := newUpload(t, map[string]string{"type": "video"}, "clip.mov", []byte("movie bytes"))
		req := httptest.NewRequest(http.MethodPost, "/assets/save", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		resp := decodeBody[saveResponse](t, rec)
		assert.Equal(t, "NEW/L0/001", resp.Asset[domain.KeyLocalIdentifier])
		assert.Equal(t, "clip.mov", resp.Asset[domain.KeyFilename])
	})

	t.Run("importer errors", func(t *testing.T) {
		tests := []struct {
			err      error
			wantCode int
			wantErr  string
		}{
			{err: fmt.Errorf("%w: notes.txt", domain.ErrUnsupportedMedia), wantCode: http.StatusUnsupportedMediaType, wantErr: CodeUnsupported},
			{err: fmt.Errorf("%w: a.jpg", domain.ErrDuplicateAsset), wantCode: http.StatusConflict, wantErr: CodeDuplicate},
			{err: errors.New("no space left on device"), wantCode: http.StatusInternalServerError, wantErr: CodeUnableToSave},
		}
		for _, tt := range tests {
			env := newTestEnv(t, Options{})
			env.importer.save = func(context.Context, string, string, domain.MediaType) (*domain.Asset, error) {
				return nil, tt.err
			}

			body, ct := newUpload(t, nil, "a.jpg", []byte("x"))
			req := httptest.NewRequest(http.MethodPost, "/assets/save", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			env.server.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, errorCode(t, rec))
		}
	})

	t.Run("bad form", func(t *testing.T) {
		env := newTestEnv(t, Options{})

		body, ct := newUpload(t, map[string]string{"type": "hologram"}, "a.jpg", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/assets/save", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		body, ct = newUpload(t, nil, "", nil)
		req = httptest.NewRequest(http.MethodPost, "/assets/save", body)
		req.Header.Set("Content-Type", ct)
		rec = httptest.NewRecorder()
		env.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too large", func(t *testing.T) {
		env := newTestEnv(t, Options{MaxUploadMB: 1})

		body, ct := newUpload(t, nil, "big.jpg", bytes.Repeat([]byte("x"), 2<<20))
		req := httptest.NewRequest(http.MethodPost, "/assets/save", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}
