package service

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/infrastructure/logger"
	"github.com/bnema/photobridge/internal/port"
)

// AssetService is the asset façade handed to the application shell. It
// queries the library, turns assets into records and runs the asynchronous
// calls on the worker pool.
type AssetService struct {
	library port.MediaLibrary
	pool    *WorkerPool
	events  EventPublisher
}

func NewAssetService(library port.MediaLibrary, pool *WorkerPool, events EventPublisher) *AssetService {
	return &AssetService{
		library: library,
		pool:    pool,
		events:  events,
	}
}

func (s *AssetService) GetAssetsForParams(ctx context.Context, params domain.FetchParams) (port.FetchResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.library.FetchAssets(ctx, params)
}

// GetAssetsForRawParams decodes a parameter mapping first. Unknown keys are
// an error.
func (s *AssetService) GetAssetsForRawParams(ctx context.Context, raw map[string]any) (port.FetchResult, error) {
	params, err := domain.ParseFetchParams(raw)
	if err != nil {
		return nil, err
	}
	return s.library.FetchAssets(ctx, params)
}

// AssetsToRecords converts assets to records in input order.
func (s *AssetService) AssetsToRecords(ctx context.Context, assets []*domain.Asset, includeMetadata, includeResources bool) ([]domain.Record, error) {
	records := make([]domain.Record, 0, len(assets))
	for _, a := range assets {
		r, err := s.record(ctx, a, includeMetadata, includeResources)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// IndexedAssetsToRecords is AssetsToRecords plus the collectionIndex key.
func (s *AssetService) IndexedAssetsToRecords(ctx context.Context, items []domain.IndexedAsset, includeMetadata, includeResources bool) ([]domain.Record, error) {
	records := make([]domain.Record, 0, len(items))
	for _, item := range items {
		r, err := s.record(ctx, item.Asset, includeMetadata, includeResources)
		if err != nil {
			return nil, err
		}
		r[domain.KeyCollectionIndex] = item.CollectionIndex
		records = append(records, r)
	}
	return records, nil
}

func (s *AssetService) record(ctx context.Context, a *domain.Asset, includeMetadata, includeResources bool) (domain.Record, error) {
	r := baseRecord(a)
	if includeMetadata {
		ExtendWithAssetMetadata(r, a)
	}
	if includeResources {
		if _, err := s.ExtendWithResourcesMetadata(ctx, r, a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ExtendWithResourcesMetadata adds the resourcesMetadata list to r. On error
// r is left untouched.
func (s *AssetService) ExtendWithResourcesMetadata(ctx context.Context, r domain.Record, a *domain.Asset) (domain.Record, error) {
	resources, err := s.library.AssetResources(ctx, a.LocalIdentifier)
	if err != nil {
		return nil, fmt.Errorf("load resources for %s: %w", a.LocalIdentifier, err)
	}
	r[domain.KeyResourcesMetadata] = resourcesMetadata(resources)
	return r, nil
}

// AssetsInRange returns the assets of result between startIndex and endIndex
// (inclusive) in display order. When startToEnd is false the indices count
// from the end of the result. bottomUp reverses the enumeration within the
// window.
func (s *AssetService) AssetsInRange(ctx context.Context, result port.FetchResult, startIndex, endIndex int, startToEnd, bottomUp bool) ([]domain.IndexedAsset, error) {
	if startIndex < 0 || endIndex < 0 || startIndex > endIndex {
		return nil, fmt.Errorf("%w: startIndex=%d endIndex=%d", domain.ErrIndexOutOfRange, startIndex, endIndex)
	}

	lo, hi, ok := displayWindow(result.Count(), startIndex, endIndex, startToEnd)
	if !ok {
		return []domain.IndexedAsset{}, nil
	}

	ascending := startToEnd != bottomUp
	out := make([]domain.IndexedAsset, 0, hi-lo+1)
	for k := 0; k <= hi-lo; k++ {
		idx := lo + k
		if !ascending {
			idx = hi - k
		}
		a, err := result.AssetAt(ctx, idx)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.IndexedAsset{Asset: a, CollectionIndex: idx})
	}
	return out, nil
}

// displayWindow maps a display range onto real indices [lo, hi]. ok is false
// when the range falls entirely past the end.
func displayWindow(count, start, end int, startToEnd bool) (lo, hi int, ok bool) {
	if count == 0 || start > count-1 {
		return 0, 0, false
	}
	if end > count-1 {
		end = count - 1
	}
	if startToEnd {
		return start, end, true
	}
	return count - 1 - end, count - 1 - start, true
}

// AssetsAtIndices returns the assets at the given indices, in the given
// order. Any out-of-range index fails the whole call.
func (s *AssetService) AssetsAtIndices(ctx context.Context, result port.FetchResult, indices []int) ([]domain.IndexedAsset, error) {
	count := result.Count()
	for _, idx := range indices {
		if idx < 0 || idx >= count {
			return nil, fmt.Errorf("%w: %d (count %d)", domain.ErrIndexOutOfRange, idx, count)
		}
	}

	out := make([]domain.IndexedAsset, 0, len(indices))
	for _, idx := range indices {
		a, err := result.AssetAt(ctx, idx)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.IndexedAsset{Asset: a, CollectionIndex: idx})
	}
	return out, nil
}

// AssetsFromLocalIdentifiers resolves identifiers; unknown ones are skipped.
func (s *AssetService) AssetsFromLocalIdentifiers(ctx context.Context, ids []string) (port.FetchResult, error) {
	return s.library.FetchAssetsWithLocalIdentifiers(ctx, ids)
}

// ExtendWithEditionMetadata loads the asset's edition in the background. The
// record in the result is a copy of r; r itself is never touched.
func (s *AssetService) ExtendWithEditionMetadata(ctx context.Context, r domain.Record, a *domain.Asset) *Completion[EditionResult] {
	c := newCompletion[EditionResult]()
	ctx = context.WithoutCancel(ctx)
	base := maps.Clone(r)
	id := a.LocalIdentifier

	s.pool.Submit(domain.JobTypeEdition, id, func() error {
		edition, err := s.library.AssetEdition(ctx, id)
		if err != nil {
			if !errors.Is(err, domain.ErrEditionUnavailable) {
				logger.Warn.Printf("edition lookup for %s failed: %v", logger.SanitizeForLog(id), err)
			}
			c.resolve(EditionResult{Record: base, Status: EditionUnavailable, Cause: err})
			return nil
		}
		extended := maps.Clone(base)
		extended[domain.KeyEditionMetadata] = editionMetadata(edition)
		c.resolve(EditionResult{Record: extended, Status: EditionAttached})
		return nil
	})
	return c
}

// DeleteAssets deletes every asset of result in one library call. Library
// errors are passed through unchanged.
func (s *AssetService) DeleteAssets(ctx context.Context, result port.FetchResult) *Completion[DeleteResult] {
	c := newCompletion[DeleteResult]()
	ctx = context.WithoutCancel(ctx)
	ids := result.Identifiers()

	s.pool.Submit(domain.JobTypeDelete, fmt.Sprintf("%d assets", len(ids)), func() error {
		if err := s.library.DeleteAssets(ctx, ids); err != nil {
			c.resolve(DeleteResult{Success: false, Err: err})
			return err
		}
		for _, id := range ids {
			s.events.Publish(id, Event{Type: EventDeleted, LocalIdentifier: id})
		}
		c.resolve(DeleteResult{Success: true, LocalIdentifiers: ids})
		return nil
	})
	return c
}

// UpdateAsset forwards changes to the library, which validates them.
func (s *AssetService) UpdateAsset(ctx context.Context, a *domain.Asset, changes map[string]any) *Completion[UpdateResult] {
	c := newCompletion[UpdateResult]()
	ctx = context.WithoutCancel(ctx)
	id := a.LocalIdentifier

	s.pool.Submit(domain.JobTypeUpdate, id, func() error {
		if err := s.library.UpdateAsset(ctx, id, changes); err != nil {
			c.resolve(UpdateResult{Success: false, Err: err, LocalIdentifier: id})
			return err
		}
		s.events.Publish(id, Event{Type: EventUpdated, LocalIdentifier: id})
		c.resolve(UpdateResult{Success: true, LocalIdentifier: id})
		return nil
	})
	return c
}

// AllPhotosTitle names the smart album that spans the whole library.
const AllPhotosTitle = "All Photos"

// Albums lists the library's albums, led by the all-photos smart album. Each
// record carries the asset count and the album's most recent asset as a
// preview. Albums without assets are left out.
func (s *AssetService) Albums(ctx context.Context) ([]domain.Record, error) {
	albums, err := s.library.Albums(ctx)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}

	all := domain.Album{Title: AllPhotosTitle, Type: domain.AlbumTypeSmartAlbum}
	records := make([]domain.Record, 0, len(albums)+1)
	for _, album := range append([]domain.Album{all}, albums...) {
		r, err := s.albumRecord(ctx, album)
		if err != nil {
			return nil, err
		}
		if r != nil {
			records = append(records, r)
		}
	}
	return records, nil
}

// albumRecord returns nil for an empty album.
func (s *AssetService) albumRecord(ctx context.Context, album domain.Album) (domain.Record, error) {
	result, err := s.library.FetchAssets(ctx, domain.FetchParams{AlbumID: album.ID})
	if err != nil {
		return nil, fmt.Errorf("fetch album %q: %w", album.Title, err)
	}

	n := result.Count()
	if n == 0 {
		return nil, nil
	}
	latest, err := result.AssetAt(ctx, n-1)
	if err != nil {
		return nil, err
	}

	return domain.Record{
		"id":            album.ID,
		"title":         album.Title,
		"type":          string(album.Type),
		"assetCount":    n,
		"previewAssets": []domain.Record{ExtendWithAssetMetadata(baseRecord(latest), latest)},
	}, nil
}

// Page is one page of a cursor walk over a fetch result, newest first.
type Page struct {
	Records    []domain.Record
	After      int
	HasMore    bool
	TotalCount int
}

// Page returns up to first records starting after the given cursor. The
// returned After is the cursor for the next page.
func (s *AssetService) Page(ctx context.Context, params domain.FetchParams, first, after int, includeMetadata bool) (*Page, error) {
	if first < 1 {
		return nil, fmt.Errorf("%w: first must be positive", domain.ErrInvalidParam)
	}
	if after < 0 {
		return nil, fmt.Errorf("%w: after must not be negative", domain.ErrInvalidParam)
	}

	result, err := s.GetAssetsForParams(ctx, params)
	if err != nil {
		return nil, err
	}

	// One extra item tells whether another page exists.
	items, err := s.AssetsInRange(ctx, result, after, after+first, false, false)
	if err != nil {
		return nil, err
	}
	hasMore := len(items) > first
	if hasMore {
		items = items[:first]
	}

	records, err := s.IndexedAssetsToRecords(ctx, items, includeMetadata, false)
	if err != nil {
		return nil, err
	}
	return &Page{
		Records:    records,
		After:      after + len(items),
		HasMore:    hasMore,
		TotalCount: result.Count(),
	}, nil
}
