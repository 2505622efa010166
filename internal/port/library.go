package port

import (
	"context"

	"github.com/bnema/photobridge/internal/domain"
)

// MediaLibrary is the capability a platform media store offers. Every
// mutation is all-or-nothing: a failed call leaves the library unchanged.
type MediaLibrary interface {
	FetchAssets(ctx context.Context, params domain.FetchParams) (FetchResult, error)
	// FetchAssetsWithLocalIdentifiers skips identifiers the library does not
	// know.
	FetchAssetsWithLocalIdentifiers(ctx context.Context, ids []string) (FetchResult, error)
	AssetResources(ctx context.Context, id string) ([]domain.Resource, error)
	// AssetEdition returns domain.ErrEditionUnavailable when the asset has
	// no adjustments.
	AssetEdition(ctx context.Context, id string) (*domain.Edition, error)
	DeleteAssets(ctx context.Context, ids []string) error
	// UpdateAsset validates changes itself and rejects unknown fields.
	UpdateAsset(ctx context.Context, id string, changes map[string]any) error

	InsertAsset(ctx context.Context, asset *domain.Asset, resources []domain.Resource, edition *domain.Edition, albumIDs []string) error
	HasChecksum(ctx context.Context, checksum string) (bool, error)
	Albums(ctx context.Context) ([]domain.Album, error)
	CreateAlbum(ctx context.Context, album *domain.Album) error
	FindAlbumByTitle(ctx context.Context, title string) (*domain.Album, error)

	Close() error
}

// FetchResult is an ordered, read-only view over the assets matching a
// query. Assets are materialized on access.
type FetchResult interface {
	Count() int
	AssetAt(ctx context.Context, index int) (*domain.Asset, error)
	Identifiers() []string
}
