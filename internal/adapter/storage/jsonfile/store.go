package jsonfile

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/infrastructure/logger"
	"github.com/bnema/photobridge/internal/port"
)

type entry struct {
	Asset     *domain.Asset     `json:"asset"`
	Resources []domain.Resource `json:"resources"`
	Edition   *domain.Edition   `json:"edition,omitempty"`
	AlbumIDs  []string          `json:"album_ids,omitempty"`
}

type catalog struct {
	Assets []*entry        `json:"assets"`
	Albums []*domain.Album `json:"albums"`
}

// Store is a media library kept in one JSON catalog file. Every mutation
// rewrites the file atomically; a failed write leaves memory unchanged too.
type Store struct {
	mu     sync.RWMutex
	path   string
	assets map[string]*entry
	albums map[string]*domain.Album
	now    func() time.Time
}

func NewStore(dataDir string) (*Store, error) {
	path := filepath.Join(dataDir, "library.json")

	store := &Store{
		path:   path,
		assets: make(map[string]*entry),
		albums: make(map[string]*domain.Album),
		now:    time.Now,
	}

	if err := store.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return store, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	if len(data) == 0 {
		return nil
	}

	var c catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}

	for _, e := range c.Assets {
		if e.Asset == nil {
			continue
		}
		s.assets[e.Asset.LocalIdentifier] = e
	}
	for _, a := range c.Albums {
		s.albums[a.ID] = a
	}

	return nil
}

func (s *Store) save() error {
	tmpPath := s.path + ".tmp"

	c := catalog{
		Assets: make([]*entry, 0, len(s.assets)),
		Albums: make([]*domain.Album, 0, len(s.albums)),
	}
	for _, e := range s.assets {
		c.Assets = append(c.Assets, e)
	}
	for _, a := range s.albums {
		c.Albums = append(c.Albums, a)
	}
	slices.SortFunc(c.Assets, func(a, b *entry) int {
		return strings.Compare(a.Asset.LocalIdentifier, b.Asset.LocalIdentifier)
	})
	slices.SortFunc(c.Albums, func(a, b *domain.Album) int {
		return strings.Compare(a.ID, b.ID)
	})

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.path)
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) FetchAssets(_ context.Context, params domain.FetchParams) (port.FetchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.AlbumID != "" {
		if _, ok := s.albums[params.AlbumID]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrAlbumNotFound, params.AlbumID)
		}
	}

	var matched []*domain.Asset
	for _, e := range s.assets {
		if params.AlbumID != "" && !slices.Contains(e.AlbumIDs, params.AlbumID) {
			continue
		}
		if !params.Matches(e.Asset) {
			continue
		}
		matched = append(matched, e.Asset.Clone())
	}

	sorts := params.Sort()
	slices.SortFunc(matched, func(a, b *domain.Asset) int {
		for _, sd := range sorts {
			c := compareBy(a, b, sd.Key)
			if c == 0 {
				continue
			}
			if sd.Ascending {
				return c
			}
			return -c
		}
		return strings.Compare(a.LocalIdentifier, b.LocalIdentifier)
	})

	if params.FetchLimit > 0 && len(matched) > params.FetchLimit {
		matched = matched[:params.FetchLimit]
	}
	return &fetchResult{assets: matched}, nil
}

func compareBy(a, b *domain.Asset, key domain.SortKey) int {
	switch key {
	case domain.SortKeyModificationDate:
		return a.ModificationDate.Compare(b.ModificationDate)
	case domain.SortKeyPixelWidth:
		return cmp.Compare(a.PixelWidth, b.PixelWidth)
	case domain.SortKeyPixelHeight:
		return cmp.Compare(a.PixelHeight, b.PixelHeight)
	case domain.SortKeyDuration:
		return cmp.Compare(a.Duration, b.Duration)
	case domain.SortKeyFilename:
		return strings.Compare(a.Filename, b.Filename)
	default:
		return a.CreationDate.Compare(b.CreationDate)
	}
}

func (s *Store) FetchAssetsWithLocalIdentifiers(_ context.Context, ids []string) (port.FetchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool, len(ids))
	assets := make([]*domain.Asset, 0, len(ids))
	for _, id := range ids {
		e, ok := s.assets[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		assets = append(assets, e.Asset.Clone())
	}
	return &fetchResult{assets: assets}, nil
}

func (s *Store) AssetResources(_ context.Context, id string) ([]domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.assets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	out := make([]domain.Resource, len(e.Resources))
	copy(out, e.Resources)
	return out, nil
}

func (s *Store) AssetEdition(_ context.Context, id string) (*domain.Edition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.assets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if e.Edition == nil {
		return nil, domain.ErrEditionUnavailable
	}
	ed := *e.Edition
	return &ed, nil
}

func (s *Store) DeleteAssets(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make(map[string]*entry, len(ids))
	for _, id := range ids {
		e, ok := s.assets[id]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		removed[id] = e
	}
	if len(removed) == 0 {
		return nil
	}

	for id := range removed {
		delete(s.assets, id)
	}
	if err := s.save(); err != nil {
		for id, e := range removed {
			s.assets[id] = e
		}
		return fmt.Errorf("save catalog: %w", err)
	}

	for _, e := range removed {
		for _, r := range e.Resources {
			if err := os.Remove(r.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
				logger.Warn.Printf("failed to remove %s: %v", logger.SanitizeForLog(r.Path), err)
			}
		}
	}
	logger.Info.Printf("deleted %d assets", len(removed))
	return nil
}

func (s *Store) UpdateAsset(_ context.Context, id string, changes map[string]any) error {
	c, err := domain.ParseAssetChanges(changes)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.assets[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	previous := e.Asset
	updated := previous.Clone()
	c.Apply(updated, s.now())
	e.Asset = updated
	if err := s.save(); err != nil {
		e.Asset = previous
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

func (s *Store) InsertAsset(_ context.Context, a *domain.Asset, resources []domain.Resource, edition *domain.Edition, albumIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.assets[a.LocalIdentifier]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateAsset, a.LocalIdentifier)
	}
	for _, albumID := range albumIDs {
		if _, ok := s.albums[albumID]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrAlbumNotFound, albumID)
		}
	}

	e := &entry{
		Asset:     a.Clone(),
		Resources: slices.Clone(resources),
		AlbumIDs:  slices.Compact(slices.Sorted(slices.Values(albumIDs))),
	}
	if edition != nil {
		ed := *edition
		e.Edition = &ed
	}

	s.assets[a.LocalIdentifier] = e
	if err := s.save(); err != nil {
		delete(s.assets, a.LocalIdentifier)
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

func (s *Store) HasChecksum(_ context.Context, checksum string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.assets {
		for _, r := range e.Resources {
			if r.Checksum == checksum {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *Store) Albums(_ context.Context) ([]domain.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int, len(s.albums))
	for _, e := range s.assets {
		for _, id := range e.AlbumIDs {
			counts[id]++
		}
	}

	albums := make([]domain.Album, 0, len(s.albums))
	for _, a := range s.albums {
		album := *a
		album.AssetCount = counts[a.ID]
		albums = append(albums, album)
	}
	slices.SortFunc(albums, func(a, b domain.Album) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return albums, nil
}

func (s *Store) CreateAlbum(_ context.Context, album *domain.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.albums[album.ID]; exists {
		return fmt.Errorf("album %s already exists", album.ID)
	}
	a := *album
	s.albums[a.ID] = &a
	if err := s.save(); err != nil {
		delete(s.albums, a.ID)
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

func (s *Store) FindAlbumByTitle(ctx context.Context, title string) (*domain.Album, error) {
	albums, err := s.Albums(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range albums {
		if a.Title == title {
			return &a, nil
		}
	}
	return nil, domain.ErrAlbumNotFound
}

// fetchResult is a snapshot taken at query time.
type fetchResult struct {
	assets []*domain.Asset
}

func (r *fetchResult) Count() int {
	return len(r.assets)
}

func (r *fetchResult) AssetAt(_ context.Context, index int) (*domain.Asset, error) {
	if index < 0 || index >= len(r.assets) {
		return nil, fmt.Errorf("%w: %d (count %d)", domain.ErrIndexOutOfRange, index, len(r.assets))
	}
	return r.assets[index].Clone(), nil
}

func (r *fetchResult) Identifiers() []string {
	ids := make([]string, len(r.assets))
	for i, a := range r.assets {
		ids[i] = a.LocalIdentifier
	}
	return ids
}

var (
	_ port.MediaLibrary = (*Store)(nil)
	_ port.FetchResult  = (*fetchResult)(nil)
)
