package service

import (
	"encoding/base64"
	"time"

	"github.com/bnema/photobridge/internal/domain"
)

func unixSeconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / 1e9
}

func baseRecord(a *domain.Asset) domain.Record {
	return domain.Record{
		domain.KeyLocalIdentifier: a.LocalIdentifier,
		domain.KeyURI:             domain.AssetURI(a.LocalIdentifier),
		domain.KeyMediaType:       string(a.MediaType),
	}
}

// ExtendWithAssetMetadata adds the asset's descriptive attributes to r and
// returns it.
func ExtendWithAssetMetadata(r domain.Record, a *domain.Asset) domain.Record {
	r[domain.KeyPixelWidth] = a.PixelWidth
	r[domain.KeyPixelHeight] = a.PixelHeight
	r[domain.KeyCreationDate] = unixSeconds(a.CreationDate)
	r[domain.KeyModificationDate] = unixSeconds(a.ModificationDate)
	r[domain.KeyDuration] = a.Duration
	r[domain.KeyFilename] = a.Filename
	r[domain.KeyMimeType] = a.MimeType
	r[domain.KeyIsFavorite] = a.Favorite
	r[domain.KeyIsHidden] = a.Hidden
	r[domain.KeySourceType] = string(a.SourceType)
	if a.BurstIdentifier != "" {
		r[domain.KeyBurstIdentifier] = a.BurstIdentifier
	}
	if a.Location != nil {
		r[domain.KeyLocation] = map[string]any{
			"latitude":  a.Location.Latitude,
			"longitude": a.Location.Longitude,
			"altitude":  a.Location.Altitude,
			"timestamp": unixSeconds(a.Location.Timestamp),
		}
	}
	return r
}

func resourcesMetadata(resources []domain.Resource) []map[string]any {
	out := make([]map[string]any, 0, len(resources))
	for _, res := range resources {
		out = append(out, map[string]any{
			"originalFilename": res.OriginalFilename,
			"fileSize":         res.FileSize,
			"mimeType":         res.MimeType,
			"type":             string(res.Type),
			"checksum":         res.Checksum,
		})
	}
	return out
}

func editionMetadata(e *domain.Edition) map[string]any {
	return map[string]any{
		"formatIdentifier": e.FormatIdentifier,
		"formatVersion":    e.FormatVersion,
		"baseVersion":      e.BaseVersion,
		"editor":           e.Editor,
		"editedAt":         unixSeconds(e.EditedAt),
		"adjustmentData":   base64.StdEncoding.EncodeToString(e.AdjustmentData),
	}
}
