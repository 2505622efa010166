package domain

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

type SortKey string

const (
	SortKeyCreationDate     SortKey = "creationDate"
	SortKeyModificationDate SortKey = "modificationDate"
	SortKeyPixelWidth       SortKey = "pixelWidth"
	SortKeyPixelHeight      SortKey = "pixelHeight"
	SortKeyDuration         SortKey = "duration"
	SortKeyFilename         SortKey = "filename"
)

var sortKeys = map[SortKey]bool{
	SortKeyCreationDate:     true,
	SortKeyModificationDate: true,
	SortKeyPixelWidth:       true,
	SortKeyPixelHeight:      true,
	SortKeyDuration:         true,
	SortKeyFilename:         true,
}

type SortDescriptor struct {
	Key       SortKey `mapstructure:"key"`
	Ascending bool    `mapstructure:"ascending"`
}

// FetchParams selects and orders assets. The zero value matches every
// visible asset, oldest first.
type FetchParams struct {
	AlbumID               string
	MediaTypes            []MediaType
	MimeTypes             []string
	StartDate             time.Time
	EndDate               time.Time
	SortDescriptors       []SortDescriptor
	IncludeHiddenAssets   bool
	IncludeAllBurstAssets bool
	FavoritesOnly         bool
	FetchLimit            int
}

// Sort returns the effective ordering, defaulting to creation date
// ascending.
func (p FetchParams) Sort() []SortDescriptor {
	if len(p.SortDescriptors) == 0 {
		return []SortDescriptor{{Key: SortKeyCreationDate, Ascending: true}}
	}
	return p.SortDescriptors
}

// Matches applies the filters to a single asset. Album membership is not
// known to an asset and is left to the caller.
func (p FetchParams) Matches(a *Asset) bool {
	if !p.IncludeHiddenAssets && a.Hidden {
		return false
	}
	if !p.IncludeAllBurstAssets && a.IsBurstMember() {
		return false
	}
	if p.FavoritesOnly && !a.Favorite {
		return false
	}
	if len(p.MediaTypes) > 0 && !containsMediaType(p.MediaTypes, a.MediaType) {
		return false
	}
	if len(p.MimeTypes) > 0 && !containsFold(p.MimeTypes, a.MimeType) {
		return false
	}
	if !p.StartDate.IsZero() && a.CreationDate.Before(p.StartDate) {
		return false
	}
	if !p.EndDate.IsZero() && a.CreationDate.After(p.EndDate) {
		return false
	}
	return true
}

type fetchOptions struct {
	IncludeHiddenAssets   *bool `mapstructure:"includeHiddenAssets"`
	IncludeAllBurstAssets *bool `mapstructure:"includeAllBurstAssets"`
}

type rawFetchParams struct {
	AlbumID               string           `mapstructure:"albumId"`
	MediaTypes            []string         `mapstructure:"mediaTypes"`
	MimeTypes             []string         `mapstructure:"mimeTypes"`
	StartDate             time.Time        `mapstructure:"startDate"`
	EndDate               time.Time        `mapstructure:"endDate"`
	SortDescriptors       []SortDescriptor `mapstructure:"sortDescriptors"`
	IncludeHiddenAssets   *bool            `mapstructure:"includeHiddenAssets"`
	IncludeAllBurstAssets *bool            `mapstructure:"includeAllBurstAssets"`
	Favorite              bool             `mapstructure:"favorite"`
	FetchLimit            int              `mapstructure:"fetchLimit"`
	FetchOptions          *fetchOptions    `mapstructure:"fetchOptions"`
}

// ParseFetchParams decodes a loosely-typed parameter mapping, as sent by the
// application shell. Keys outside the recognized set are rejected with
// ErrUnrecognizedParam.
func ParseFetchParams(m map[string]any) (FetchParams, error) {
	var raw rawFetchParams
	if err := decodeStrict(m, &raw, ErrUnrecognizedParam); err != nil {
		return FetchParams{}, err
	}

	p := FetchParams{
		AlbumID:         raw.AlbumID,
		MimeTypes:       raw.MimeTypes,
		StartDate:       raw.StartDate,
		EndDate:         raw.EndDate,
		SortDescriptors: raw.SortDescriptors,
		FavoritesOnly:   raw.Favorite,
		FetchLimit:      raw.FetchLimit,
	}

	// Top-level flags win over the nested fetchOptions block.
	if raw.FetchOptions != nil {
		if raw.FetchOptions.IncludeHiddenAssets != nil {
			p.IncludeHiddenAssets = *raw.FetchOptions.IncludeHiddenAssets
		}
		if raw.FetchOptions.IncludeAllBurstAssets != nil {
			p.IncludeAllBurstAssets = *raw.FetchOptions.IncludeAllBurstAssets
		}
	}
	if raw.IncludeHiddenAssets != nil {
		p.IncludeHiddenAssets = *raw.IncludeHiddenAssets
	}
	if raw.IncludeAllBurstAssets != nil {
		p.IncludeAllBurstAssets = *raw.IncludeAllBurstAssets
	}

	for _, s := range raw.MediaTypes {
		mt, ok := ParseMediaType(s)
		if !ok {
			return FetchParams{}, fmt.Errorf("%w: mediaTypes: %q", ErrInvalidParam, s)
		}
		p.MediaTypes = append(p.MediaTypes, mt)
	}

	if err := p.Validate(); err != nil {
		return FetchParams{}, err
	}
	return p, nil
}

func (p FetchParams) Validate() error {
	for _, sd := range p.SortDescriptors {
		if !sortKeys[sd.Key] {
			return fmt.Errorf("%w: sortDescriptors: unknown key %q", ErrInvalidParam, sd.Key)
		}
	}
	if p.FetchLimit < 0 {
		return fmt.Errorf("%w: fetchLimit must not be negative", ErrInvalidParam)
	}
	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.StartDate.After(p.EndDate) {
		return fmt.Errorf("%w: startDate is after endDate", ErrInvalidParam)
	}
	return nil
}

// AssetChanges is a decoded update request. Nil fields are left untouched.
type AssetChanges struct {
	Favorite     *bool      `mapstructure:"favorite"`
	Hidden       *bool      `mapstructure:"hidden"`
	CreationDate *time.Time `mapstructure:"creationDate"`
	Location     *Location  `mapstructure:"location"`
}

// ParseAssetChanges is for library implementations; the façade forwards the
// raw mapping untouched.
func ParseAssetChanges(m map[string]any) (AssetChanges, error) {
	var c AssetChanges
	if err := decodeStrict(m, &c, ErrInvalidChange); err != nil {
		return AssetChanges{}, err
	}
	if c.IsEmpty() {
		return AssetChanges{}, fmt.Errorf("%w: no changes requested", ErrInvalidChange)
	}
	if c.Location != nil {
		if math.Abs(c.Location.Latitude) > 90 || math.Abs(c.Location.Longitude) > 180 {
			return AssetChanges{}, fmt.Errorf("%w: location out of bounds", ErrInvalidChange)
		}
	}
	return c, nil
}

func (c AssetChanges) IsEmpty() bool {
	return c.Favorite == nil && c.Hidden == nil && c.CreationDate == nil && c.Location == nil
}

// Apply writes the changes onto a and stamps the modification date.
func (c AssetChanges) Apply(a *Asset, now time.Time) {
	if c.Favorite != nil {
		a.Favorite = *c.Favorite
	}
	if c.Hidden != nil {
		a.Hidden = *c.Hidden
	}
	if c.CreationDate != nil {
		a.CreationDate = *c.CreationDate
	}
	if c.Location != nil {
		loc := *c.Location
		a.Location = &loc
	}
	a.ModificationDate = now
}

func decodeStrict(input map[string]any, out any, unusedErr error) error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(timeHook, integralHook),
		Metadata:   &md,
		Result:     out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}
	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return fmt.Errorf("%w: %s", unusedErr, strings.Join(md.Unused, ", "))
	}
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

// timeHook accepts RFC 3339 strings and unix seconds, the two shapes dates
// take on the bridge.
func timeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return time.Parse(time.RFC3339, v)
	case float64:
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	case int:
		return time.Unix(int64(v), 0).UTC(), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	}
	return data, nil
}

// integralHook refuses fractional numbers for integer fields instead of
// truncating them.
func integralHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	if v, ok := data.(float64); ok && v != math.Trunc(v) {
		return nil, fmt.Errorf("%v is not a whole number", v)
	}
	return data, nil
}

func containsMediaType(list []MediaType, mt MediaType) bool {
	for _, v := range list {
		if v == mt {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
