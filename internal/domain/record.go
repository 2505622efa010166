package domain

// Record is the plain mapping form of an asset handed across the bridge.
type Record map[string]any

const (
	KeyLocalIdentifier = "localIdentifier"
	KeyURI             = "uri"
	KeyMediaType       = "mediaType"
	KeyCollectionIndex = "collectionIndex"

	KeyPixelWidth       = "pixelWidth"
	KeyPixelHeight      = "pixelHeight"
	KeyCreationDate     = "creationDate"
	KeyModificationDate = "modificationDate"
	KeyDuration         = "duration"
	KeyFilename         = "filename"
	KeyMimeType         = "mimeType"
	KeyIsFavorite       = "isFavorite"
	KeyIsHidden         = "isHidden"
	KeySourceType       = "sourceType"
	KeyBurstIdentifier  = "burstIdentifier"
	KeyLocation         = "location"

	KeyResourcesMetadata = "resourcesMetadata"
	KeyEditionMetadata   = "editionMetadata"
)

// MetadataKeys lists every key the metadata enrichment may add.
var MetadataKeys = []string{
	KeyPixelWidth,
	KeyPixelHeight,
	KeyCreationDate,
	KeyModificationDate,
	KeyDuration,
	KeyFilename,
	KeyMimeType,
	KeyIsFavorite,
	KeyIsHidden,
	KeySourceType,
	KeyBurstIdentifier,
	KeyLocation,
}

func (r Record) LocalIdentifier() string {
	id, _ := r[KeyLocalIdentifier].(string)
	return id
}
