package domain

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MediaType string

const (
	MediaTypeImage   MediaType = "image"
	MediaTypeVideo   MediaType = "video"
	MediaTypeAudio   MediaType = "audio"
	MediaTypeUnknown MediaType = "unknown"
)

// ParseMediaType accepts the library names plus the "photo" alias used by
// Android shells.
func ParseMediaType(s string) (MediaType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image", "photo":
		return MediaTypeImage, true
	case "video":
		return MediaTypeVideo, true
	case "audio":
		return MediaTypeAudio, true
	case "unknown":
		return MediaTypeUnknown, true
	}
	return "", false
}

type SourceType string

const (
	SourceTypeUserLibrary  SourceType = "userLibrary"
	SourceTypeCloudShared  SourceType = "cloudShared"
	SourceTypeITunesSynced SourceType = "iTunesSynced"
)

type Location struct {
	Latitude  float64   `json:"latitude" mapstructure:"latitude"`
	Longitude float64   `json:"longitude" mapstructure:"longitude"`
	Altitude  float64   `json:"altitude" mapstructure:"altitude"`
	Timestamp time.Time `json:"timestamp" mapstructure:"timestamp"`
}

// Asset is one photo or video as the library describes it. Assets are
// values: the library hands out copies and never expects them back mutated.
type Asset struct {
	LocalIdentifier  string     `json:"local_identifier"`
	MediaType        MediaType  `json:"media_type"`
	MimeType         string     `json:"mime_type"`
	Filename         string     `json:"filename"`
	PixelWidth       int        `json:"pixel_width"`
	PixelHeight      int        `json:"pixel_height"`
	Duration         float64    `json:"duration"`
	CreationDate     time.Time  `json:"creation_date"`
	ModificationDate time.Time  `json:"modification_date"`
	Location         *Location  `json:"location,omitempty"`
	Favorite         bool       `json:"favorite"`
	Hidden           bool       `json:"hidden"`
	BurstIdentifier  string     `json:"burst_identifier,omitempty"`
	RepresentsBurst  bool       `json:"represents_burst"`
	SourceType       SourceType `json:"source_type"`
}

func NewAsset(mediaType MediaType, filename string, createdAt time.Time) *Asset {
	return &Asset{
		LocalIdentifier:  NewLocalIdentifier(),
		MediaType:        mediaType,
		Filename:         filename,
		CreationDate:     createdAt,
		ModificationDate: createdAt,
		SourceType:       SourceTypeUserLibrary,
	}
}

// NewLocalIdentifier returns an identifier in the "UUID/L0/001" shape apps
// already persist for library assets.
func NewLocalIdentifier() string {
	return strings.ToUpper(uuid.NewString()) + "/L0/001"
}

// AssetURI is the URI handed to the shell for an asset.
func AssetURI(localIdentifier string) string {
	return "ph://" + localIdentifier
}

// Clone returns a deep copy, so callers may hand assets out without sharing
// state.
func (a *Asset) Clone() *Asset {
	c := *a
	if a.Location != nil {
		loc := *a.Location
		c.Location = &loc
	}
	return &c
}

// IsBurstMember reports whether the asset belongs to a burst without being
// the burst's representative.
func (a *Asset) IsBurstMember() bool {
	return a.BurstIdentifier != "" && !a.RepresentsBurst
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".heic": true, ".heif": true, ".bmp": true,
	".tif": true, ".tiff": true, ".dng": true,
}

var videoExts = map[string]bool{
	".mp4": true, ".m4v": true, ".mov": true, ".webm": true,
	".mkv": true, ".avi": true, ".3gp": true,
}

var audioExts = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".aac": true,
	".flac": true, ".ogg": true, ".opus": true,
}

// DetectMediaType guesses from the file extension. Used when content
// sniffing is inconclusive.
func DetectMediaType(filename string) MediaType {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case imageExts[ext]:
		return MediaTypeImage
	case videoExts[ext]:
		return MediaTypeVideo
	case audioExts[ext]:
		return MediaTypeAudio
	}
	return MediaTypeUnknown
}
