package sqlstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/port"
)

// pageSize is how many assets one AssetAt miss loads ahead.
const pageSize = 64

// fetchResult holds the ordered identifiers of a query and materializes
// assets a page at a time as they are accessed.
type fetchResult struct {
	lib *Library
	ids []string

	mu    sync.Mutex
	cache map[int]*domain.Asset
}

func newFetchResult(lib *Library, ids []string) *fetchResult {
	return &fetchResult{
		lib:   lib,
		ids:   ids,
		cache: make(map[int]*domain.Asset),
	}
}

func (r *fetchResult) Count() int {
	return len(r.ids)
}

func (r *fetchResult) Identifiers() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

func (r *fetchResult) AssetAt(ctx context.Context, index int) (*domain.Asset, error) {
	if index < 0 || index >= len(r.ids) {
		return nil, fmt.Errorf("%w: %d (count %d)", domain.ErrIndexOutOfRange, index, len(r.ids))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.cache[index]; ok {
		return a.Clone(), nil
	}

	end := min(index+pageSize, len(r.ids))
	var want []string
	var positions []int
	for i := index; i < end; i++ {
		if _, ok := r.cache[i]; !ok {
			want = append(want, r.ids[i])
			positions = append(positions, i)
		}
	}

	loaded, err := r.lib.loadAssets(ctx, want)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	for j, id := range want {
		if a, ok := loaded[id]; ok {
			r.cache[positions[j]] = a
		}
	}

	a, ok := r.cache[index]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, r.ids[index])
	}
	return a.Clone(), nil
}

var _ port.FetchResult = (*fetchResult)(nil)
