package mocks

import (
	"context"
	"fmt"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/port"
)

// StaticFetchResult is a slice-backed fetch result. It counts AssetAt calls
// so tests can check what was materialized.
type StaticFetchResult struct {
	Assets   []*domain.Asset
	Accessed []int
}

func NewStaticFetchResult(assets ...*domain.Asset) *StaticFetchResult {
	return &StaticFetchResult{Assets: assets}
}

func (r *StaticFetchResult) Count() int {
	return len(r.Assets)
}

func (r *StaticFetchResult) AssetAt(_ context.Context, index int) (*domain.Asset, error) {
	if index < 0 || index >= len(r.Assets) {
		return nil, fmt.Errorf("%w: %d", domain.ErrIndexOutOfRange, index)
	}
	r.Accessed = append(r.Accessed, index)
	return r.Assets[index], nil
}

func (r *StaticFetchResult) Identifiers() []string {
	ids := make([]string, len(r.Assets))
	for i, a := range r.Assets {
		ids[i] = a.LocalIdentifier
	}
	return ids
}

var _ port.FetchResult = (*StaticFetchResult)(nil)
