package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type AlbumType string

const (
	AlbumTypeAlbum      AlbumType = "album"
	AlbumTypeSmartAlbum AlbumType = "smartAlbum"
)

type Album struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Type       AlbumType `json:"type"`
	AssetCount int       `json:"asset_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewAlbum(title string) *Album {
	return &Album{
		ID:        strings.ToUpper(uuid.NewString()) + "/L0/040",
		Title:     title,
		Type:      AlbumTypeAlbum,
		CreatedAt: time.Now(),
	}
}

// IndexedAsset pairs an asset with its position in the fetch result it was
// read from.
type IndexedAsset struct {
	Asset           *Asset
	CollectionIndex int
}
