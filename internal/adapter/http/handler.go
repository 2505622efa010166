package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/infrastructure/logger"
	"github.com/bnema/photobridge/internal/port"
	"github.com/bnema/photobridge/internal/service"
)

type AssetService interface {
	GetAssetsForRawParams(ctx context.Context, raw map[string]any) (port.FetchResult, error)
	AssetsInRange(ctx context.Context, result port.FetchResult, startIndex, endIndex int, startToEnd, bottomUp bool) ([]domain.IndexedAsset, error)
	AssetsAtIndices(ctx context.Context, result port.FetchResult, indices []int) ([]domain.IndexedAsset, error)
	AssetsFromLocalIdentifiers(ctx context.Context, ids []string) (port.FetchResult, error)
	AssetsToRecords(ctx context.Context, assets []*domain.Asset, includeMetadata, includeResources bool) ([]domain.Record, error)
	IndexedAssetsToRecords(ctx context.Context, items []domain.IndexedAsset, includeMetadata, includeResources bool) ([]domain.Record, error)
	ExtendWithEditionMetadata(ctx context.Context, r domain.Record, a *domain.Asset) *service.Completion[service.EditionResult]
	DeleteAssets(ctx context.Context, result port.FetchResult) *service.Completion[service.DeleteResult]
	UpdateAsset(ctx context.Context, a *domain.Asset, changes map[string]any) *service.Completion[service.UpdateResult]
	Albums(ctx context.Context) ([]domain.Record, error)
	Page(ctx context.Context, params domain.FetchParams, first, after int, includeMetadata bool) (*service.Page, error)
}

type Importer interface {
	SaveToLibrary(ctx context.Context, src, filename string, mediaType domain.MediaType) (*domain.Asset, error)
}

const (
	defaultPageSize = 20
	maxPageSize     = 500
)

type Handlers struct {
	assets    AssetService
	importer  Importer
	maxSizeMB int
}

func NewHandlers(assets AssetService, importer Importer, maxSizeMB int) *Handlers {
	return &Handlers{
		assets:    assets,
		importer:  importer,
		maxSizeMB: maxSizeMB,
	}
}

type queryRequest struct {
	Params                   map[string]any `json:"params"`
	StartIndex               int            `json:"startIndex"`
	EndIndex                 *int           `json:"endIndex"`
	Indices                  []int          `json:"indices"`
	StartToEnd               *bool          `json:"assetDisplayStartToEnd"`
	BottomUp                 bool           `json:"assetDisplayBottomUp"`
	IncludeMetadata          bool           `json:"includeMetadata"`
	IncludeResourcesMetadata bool           `json:"includeResourcesMetadata"`
}

type assetsResponse struct {
	Count  int             `json:"count"`
	Assets []domain.Record `json:"assets"`
}

// Query fetches with the given params and returns a display window or an
// explicit index list of the result.
func (h *Handlers) Query() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		ctx := r.Context()

		result, err := h.assets.GetAssetsForRawParams(ctx, req.Params)
		if err != nil {
			writeServiceError(w, err, CodeUnableToLoad)
			return
		}

		var items []domain.IndexedAsset
		if req.Indices != nil {
			items, err = h.assets.AssetsAtIndices(ctx, result, req.Indices)
		} else {
			startToEnd := req.StartToEnd == nil || *req.StartToEnd
			switch {
			case req.EndIndex != nil:
				items, err = h.assets.AssetsInRange(ctx, result, req.StartIndex, *req.EndIndex, startToEnd, req.BottomUp)
			case result.Count() == 0:
				items = []domain.IndexedAsset{}
			default:
				items, err = h.assets.AssetsInRange(ctx, result, req.StartIndex, result.Count()-1, startToEnd, req.BottomUp)
			}
		}
		if err != nil {
			writeServiceError(w, err, CodeUnableToLoad)
			return
		}

		records, err := h.assets.IndexedAssetsToRecords(ctx, items, req.IncludeMetadata, req.IncludeResourcesMetadata)
		if err != nil {
			writeServiceError(w, err, CodeUnableToLoad)
			return
		}
		writeJSON(w, http.StatusOK, assetsResponse{Count: result.Count(), Assets: records})
	}
}

type resolveRequest struct {
	LocalIdentifiers         []string `json:"localIdentifiers"`
	IncludeMetadata          bool     `json:"includeMetadata"`
	IncludeResourcesMetadata bool     `json:"includeResourcesMetadata"`
}

// Resolve returns records for the known identifiers, in request order.
func (h *Handlers) Resolve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		ctx := r.Context()

		result, err := h.assets.AssetsFromLocalIdentifiers(ctx, req.LocalIdentifiers)
		if err != nil {
			writeServiceError(w, err, CodeUnableToLoad)
			return
		}
		items := []domain.IndexedAsset{}
		if result.Count() > 0 {
			items, err = h.assets.AssetsInRange(ctx, result, 0, result.Count()-1, true, false)
			if err != nil {
				writeServiceError(w, err, CodeUnableToLoad)
				return
			}
		}
		records, err := h.assets.IndexedAssetsToRecords(ctx, items, req.IncludeMetadata, req.IncludeResourcesMetadata)
		if err != nil {
			writeServiceError(w, err, CodeUnableToLoad)
			return
		}
		writeJSON(w, http.StatusOK, assetsResponse{Count: result.Count(), Assets: records})
	}
}

// lookup resolves a single identifier from the request path.
func (h *Handlers) lookup(w http.ResponseWriter, r *http.Request) (*domain.Asset, bool) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidParams, "missing asset identifier")
		return nil, false
	}
	result, err := h.assets.AssetsFromLocalIdentifiers(r.Context(), []string{id})
	if err != nil {
		writeServiceError(w, err, CodeUnableToLoad)
		return nil, false
	}
	if result.Count() == 0 {
		writeError(w, http.StatusNotFound, CodeNotFound, "asset not found: "+id)
		return nil, false
	}
	a, err := result.AssetAt(r.Context(), 0)
	if err != nil {
		writeServiceError(w, err, CodeUnableToLoad)
		return nil, false
	}
	return a, true
}

type editionResponse struct {
	Status string        `json:"status"`
	Asset  domain.Record `json:"asset"`
	Reason string        `json:"reason,omitempty"`
}

func (h *Handlers) Edition() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := h.lookup(w, r)
		if !ok {
			return
		}
		ctx := r.Context()

		records, err := h.assets.AssetsToRecords(ctx, []*domain.Asset{a}, queryBool(r, "includeMetadata"), false)
		if err != nil {
			writeServiceError(w, err, CodeUnableToLoad)
			return
		}

		res, err := h.assets.ExtendWithEditionMetadata(ctx, records[0], a).Wait(ctx)
		if err != nil {
			// Client went away; the load finishes on its own.
			return
		}

		resp := editionResponse{Status: res.Status.String(), Asset: res.Record}
		if res.Cause != nil && !errors.Is(res.Cause, domain.ErrEditionUnavailable) {
			resp.Reason = res.Cause.Error()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type deleteRequest struct {
	LocalIdentifiers []string `json:"localIdentifiers"`
}

type deleteResponse struct {
	Success          bool     `json:"success"`
	LocalIdentifiers []string `json:"localIdentifiers"`
}

func (h *Handlers) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.LocalIdentifiers) == 0 {
			writeError(w, http.StatusBadRequest, CodeInvalidParams, "localIdentifiers is required")
			return
		}
		ctx := r.Context()

		result, err := h.assets.AssetsFromLocalIdentifiers(ctx, req.LocalIdentifiers)
		if err != nil {
			writeServiceError(w, err, CodeUnableToLoad)
			return
		}
		if result.Count() == 0 {
			writeError(w, http.StatusNotFound, CodeNotFound, "none of the assets exist")
			return
		}

		res, err := h.assets.DeleteAssets(ctx, result).Wait(ctx)
		if err != nil {
			return
		}
		if !res.Success {
			writeServiceError(w, res.Err, CodeUnableToDelete)
			return
		}
		writeJSON(w, http.StatusOK, deleteResponse{Success: true, LocalIdentifiers: res.LocalIdentifiers})
	}
}

type updateResponse struct {
	Success         bool   `json:"success"`
	LocalIdentifier string `json:"localIdentifier"`
}

func (h *Handlers) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var changes map[string]any
		if !decodeJSON(w, r, &changes) {
			return
		}
		a, ok := h.lookup(w, r)
		if !ok {
			return
		}
		ctx := r.Context()

		res, err := h.assets.UpdateAsset(ctx, a, changes).Wait(ctx)
		if err != nil {
			return
		}
		if !res.Success {
			writeServiceError(w, res.Err, CodeUnableToSave)
			return
		}
		writeJSON(w, http.StatusOK, updateResponse{Success: true, LocalIdentifier: res.LocalIdentifier})
	}
}

type albumsResponse struct {
	Albums []domain.Record `json:"albums"`
}

func (h *Handlers) Albums() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		albums, err := h.assets.Albums(r.Context())
		if err != nil {
			writeServiceError(w, err, CodeUnableToLoad)
			return
		}
		writeJSON(w, http.StatusOK, albumsResponse{Albums: albums})
	}
}

type pageInfo struct {
	EndCursor   int  `json:"endCursor"`
	HasNextPage bool `json:"hasNextPage"`
}

type photosResponse struct {
	Assets     []domain.Record `json:"assets"`
	PageInfo   pageInfo        `json:"pageInfo"`
	TotalCount int             `json:"totalCount"`
}

// Photos pages through the library newest first. Query: first, after,
// albumId, mediaType (comma separated), includeMetadata.
func (h *Handlers) Photos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		first, err := queryInt(r, "first", defaultPageSize)
		if err != nil || first > maxPageSize {
			writeError(w, http.StatusBadRequest, CodeInvalidParams, "first must be between 1 and "+strconv.Itoa(maxPageSize))
			return
		}
		after, err := queryInt(r, "after", 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeInvalidParams, "after must be a number")
			return
		}

		raw := map[string]any{}
		if v := q.Get("albumId"); v != "" {
			raw["albumId"] = v
		}
		if v := q.Get("mediaType"); v != "" {
			raw["mediaTypes"] = strings.Split(v, ",")
		}
		if v := q.Get("mimeTypes"); v != "" {
			raw["mimeTypes"] = strings.Split(v, ",")
		}
		params, err := domain.ParseFetchParams(raw)
		if err != nil {
			writeServiceError(w, err, CodeUnableToLoad)
			return
		}

		page, err := h.assets.Page(r.Context(), params, first, after, queryBool(r, "includeMetadata"))
		if err != nil {
			writeServiceError(w, err, CodeUnableToLoad)
			return
		}
		writeJSON(w, http.StatusOK, photosResponse{
			Assets:     page.Records,
			PageInfo:   pageInfo{EndCursor: page.After, HasNextPage: page.HasMore},
			TotalCount: page.TotalCount,
		})
	}
}

type saveResponse struct {
	Asset domain.Record `json:"asset"`
}

// Save stores an uploaded file in the library. Form fields: file, and an
// optional type ("photo" or "video") overriding detection.
func (h *Handlers) Save() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.maxSizeMB > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, int64(h.maxSizeMB)<<20)
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, CodeTooLarge, "file too large")
				return
			}
			writeError(w, http.StatusBadRequest, CodeInvalidParams, "invalid multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll() //nolint:errcheck

		var mediaType domain.MediaType
		if v := r.FormValue("type"); v != "" {
			mt, ok := domain.ParseMediaType(v)
			if !ok {
				writeError(w, http.StatusBadRequest, CodeInvalidParams, "unknown type: "+v)
				return
			}
			mediaType = mt
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeInvalidParams, "missing file")
			return
		}
		defer file.Close() //nolint:errcheck

		tmpFile, err := os.CreateTemp("", "upload-*.tmp")
		if err != nil {
			logger.Error.Printf("create temp file: %v", err)
			writeError(w, http.StatusInternalServerError, CodeUnableToSave, "failed to process upload")
			return
		}
		defer os.Remove(tmpFile.Name()) //nolint:errcheck

		_, err = io.Copy(tmpFile, file)
		if cerr := tmpFile.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			logger.Error.Printf("write temp file: %v", err)
			writeError(w, http.StatusInternalServerError, CodeUnableToSave, "failed to process upload")
			return
		}

		ctx := r.Context()
		asset, err := h.importer.SaveToLibrary(ctx, tmpFile.Name(), header.Filename, mediaType)
		if err != nil {
			writeServiceError(w, err, CodeUnableToSave)
			return
		}

		records, err := h.assets.AssetsToRecords(ctx, []*domain.Asset{asset}, true, false)
		if err != nil {
			writeServiceError(w, err, CodeUnableToLoad)
			return
		}
		writeJSON(w, http.StatusCreated, saveResponse{Asset: records[0]})
	}
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
