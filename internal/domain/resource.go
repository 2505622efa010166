package domain

import "time"

type ResourceType string

const (
	ResourceTypePhoto               ResourceType = "photo"
	ResourceTypeVideo               ResourceType = "video"
	ResourceTypeAudio               ResourceType = "audio"
	ResourceTypeAlternatePhoto      ResourceType = "alternatePhoto"
	ResourceTypeFullSizePhoto       ResourceType = "fullSizePhoto"
	ResourceTypeFullSizeVideo       ResourceType = "fullSizeVideo"
	ResourceTypeAdjustmentData      ResourceType = "adjustmentData"
	ResourceTypeAdjustmentBasePhoto ResourceType = "adjustmentBasePhoto"
	ResourceTypePairedVideo         ResourceType = "pairedVideo"
)

// Resource is one file backing an asset.
type Resource struct {
	Type             ResourceType `json:"type"`
	OriginalFilename string       `json:"original_filename"`
	MimeType         string       `json:"mime_type"`
	FileSize         int64        `json:"file_size"`
	Path             string       `json:"path"`
	Checksum         string       `json:"checksum"`
}

// PrimaryResourceType is the resource type holding an asset's original
// content.
func PrimaryResourceType(mediaType MediaType) ResourceType {
	switch mediaType {
	case MediaTypeVideo:
		return ResourceTypeVideo
	case MediaTypeAudio:
		return ResourceTypeAudio
	default:
		return ResourceTypePhoto
	}
}

// Edition describes the adjustments applied to an asset's content.
type Edition struct {
	FormatIdentifier string    `json:"format_identifier"`
	FormatVersion    string    `json:"format_version"`
	BaseVersion      int       `json:"base_version"`
	Editor           string    `json:"editor"`
	EditedAt         time.Time `json:"edited_at"`
	AdjustmentData   []byte    `json:"adjustment_data"`
}
