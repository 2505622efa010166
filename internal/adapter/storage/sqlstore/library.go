// Package sqlstore is the SQL media library shared by the sqlite and mysql
// backends. Queries stick to the subset both dialects accept.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/infrastructure/logger"
	"github.com/bnema/photobridge/internal/port"
)

// maxParams bounds the size of generated IN lists.
const maxParams = 500

type Library struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Library {
	return &Library{db: db, now: time.Now}
}

func (l *Library) DB() *sql.DB {
	return l.db
}

func (l *Library) Close() error {
	return l.db.Close()
}

const assetColumns = `local_identifier, media_type, mime_type, filename, pixel_width, pixel_height,
	duration, creation_date, modification_date, has_location, latitude, longitude, altitude,
	location_timestamp, favorite, hidden, burst_identifier, represents_burst, source_type`

var sortColumns = map[domain.SortKey]string{
	domain.SortKeyCreationDate:     "a.creation_date",
	domain.SortKeyModificationDate: "a.modification_date",
	domain.SortKeyPixelWidth:       "a.pixel_width",
	domain.SortKeyPixelHeight:      "a.pixel_height",
	domain.SortKeyDuration:         "a.duration",
	domain.SortKeyFilename:         "a.filename",
}

func (l *Library) FetchAssets(ctx context.Context, params domain.FetchParams) (port.FetchResult, error) {
	if params.AlbumID != "" {
		if err := l.albumExists(ctx, params.AlbumID); err != nil {
			return nil, err
		}
	}

	var (
		query strings.Builder
		where []string
		args  []any
	)
	query.WriteString("SELECT a.local_identifier FROM assets a")
	if params.AlbumID != "" {
		query.WriteString(" JOIN album_assets aa ON aa.local_identifier = a.local_identifier AND aa.album_id = ?")
		args = append(args, params.AlbumID)
	}
	if !params.IncludeHiddenAssets {
		where = append(where, "a.hidden = 0")
	}
	if !params.IncludeAllBurstAssets {
		where = append(where, "(a.burst_identifier = '' OR a.represents_burst = 1)")
	}
	if params.FavoritesOnly {
		where = append(where, "a.favorite = 1")
	}
	if len(params.MediaTypes) > 0 {
		where = append(where, "a.media_type IN ("+placeholders(len(params.MediaTypes))+")")
		for _, mt := range params.MediaTypes {
			args = append(args, string(mt))
		}
	}
	if len(params.MimeTypes) > 0 {
		where = append(where, "LOWER(a.mime_type) IN ("+placeholders(len(params.MimeTypes))+")")
		for _, m := range params.MimeTypes {
			args = append(args, strings.ToLower(m))
		}
	}
	if !params.StartDate.IsZero() {
		where = append(where, "a.creation_date >= ?")
		args = append(args, toMillis(params.StartDate))
	}
	if !params.EndDate.IsZero() {
		where = append(where, "a.creation_date <= ?")
		args = append(args, toMillis(params.EndDate))
	}
	if len(where) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(where, " AND "))
	}

	order := make([]string, 0, len(params.Sort())+1)
	for _, sd := range params.Sort() {
		dir := "DESC"
		if sd.Ascending {
			dir = "ASC"
		}
		order = append(order, sortColumns[sd.Key]+" "+dir)
	}
	order = append(order, "a.local_identifier ASC")
	query.WriteString(" ORDER BY ")
	query.WriteString(strings.Join(order, ", "))

	if params.FetchLimit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, params.FetchLimit)
	}

	ids, err := l.queryStrings(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("fetch assets: %w", err)
	}
	return newFetchResult(l, ids), nil
}

func (l *Library) FetchAssetsWithLocalIdentifiers(ctx context.Context, ids []string) (port.FetchResult, error) {
	known := make(map[string]bool, len(ids))
	for _, chunk := range chunks(uniqueStrings(ids)) {
		query := "SELECT local_identifier FROM assets WHERE local_identifier IN (" + placeholders(len(chunk)) + ")"
		found, err := l.queryStrings(ctx, query, toArgs(chunk)...)
		if err != nil {
			return nil, fmt.Errorf("resolve identifiers: %w", err)
		}
		for _, id := range found {
			known[id] = true
		}
	}

	out := make([]string, 0, len(known))
	for _, id := range uniqueStrings(ids) {
		if known[id] {
			out = append(out, id)
		}
	}
	return newFetchResult(l, out), nil
}

// loadAssets returns the assets for ids keyed by identifier. Missing ids are
// absent from the map.
func (l *Library) loadAssets(ctx context.Context, ids []string) (map[string]*domain.Asset, error) {
	out := make(map[string]*domain.Asset, len(ids))
	for _, chunk := range chunks(ids) {
		query := "SELECT " + assetColumns + " FROM assets WHERE local_identifier IN (" + placeholders(len(chunk)) + ")"
		rows, err := l.db.QueryContext(ctx, query, toArgs(chunk)...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			a, err := scanAsset(rows)
			if err != nil {
				rows.Close() //nolint:errcheck
				return nil, err
			}
			out[a.LocalIdentifier] = a
		}
		err = rows.Err()
		rows.Close() //nolint:errcheck
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(row scanner) (*domain.Asset, error) {
	var (
		a                                   domain.Asset
		mediaType, sourceType               string
		created, modified, locTimestamp     int64
		hasLocation, favorite, hidden, reps bool
		lat, lon, alt                       float64
	)
	err := row.Scan(
		&a.LocalIdentifier,
		&mediaType,
		&a.MimeType,
		&a.Filename,
		&a.PixelWidth,
		&a.PixelHeight,
		&a.Duration,
		&created,
		&modified,
		&hasLocation,
		&lat,
		&lon,
		&alt,
		&locTimestamp,
		&favorite,
		&hidden,
		&a.BurstIdentifier,
		&reps,
		&sourceType,
	)
	if err != nil {
		return nil, err
	}
	a.MediaType = domain.MediaType(mediaType)
	a.SourceType = domain.SourceType(sourceType)
	a.CreationDate = fromMillis(created)
	a.ModificationDate = fromMillis(modified)
	a.Favorite = favorite
	a.Hidden = hidden
	a.RepresentsBurst = reps
	if hasLocation {
		a.Location = &domain.Location{
			Latitude:  lat,
			Longitude: lon,
			Altitude:  alt,
			Timestamp: fromMillis(locTimestamp),
		}
	}
	return &a, nil
}

func (l *Library) AssetResources(ctx context.Context, id string) ([]domain.Resource, error) {
	query := `
		SELECT type, original_filename, mime_type, file_size, path, checksum
		FROM asset_resources
		WHERE local_identifier = ?
		ORDER BY ordinal
	`
	rows, err := l.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}

	var resources []domain.Resource
	for rows.Next() {
		var r domain.Resource
		var resType string
		if err := rows.Scan(&resType, &r.OriginalFilename, &r.MimeType, &r.FileSize, &r.Path, &r.Checksum); err != nil {
			rows.Close() //nolint:errcheck
			return nil, err
		}
		r.Type = domain.ResourceType(resType)
		resources = append(resources, r)
	}
	err = rows.Err()
	rows.Close() //nolint:errcheck
	if err != nil {
		return nil, err
	}

	if len(resources) == 0 {
		if err := l.assetExists(ctx, id); err != nil {
			return nil, err
		}
		return []domain.Resource{}, nil
	}
	return resources, nil
}

func (l *Library) AssetEdition(ctx context.Context, id string) (*domain.Edition, error) {
	query := `
		SELECT format_identifier, format_version, base_version, editor, edited_at, adjustment_data
		FROM asset_editions
		WHERE local_identifier = ?
	`
	var e domain.Edition
	var editedAt int64
	err := l.db.QueryRowContext(ctx, query, id).Scan(
		&e.FormatIdentifier,
		&e.FormatVersion,
		&e.BaseVersion,
		&e.Editor,
		&editedAt,
		&e.AdjustmentData,
	)
	if errors.Is(err, sql.ErrNoRows) {
		if err := l.assetExists(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrEditionUnavailable
	}
	if err != nil {
		return nil, err
	}
	e.EditedAt = fromMillis(editedAt)
	return &e, nil
}

// DeleteAssets removes the assets and their files. Either every asset is
// removed or none is.
func (l *Library) DeleteAssets(ctx context.Context, ids []string) error {
	ids = uniqueStrings(ids)
	if len(ids) == 0 {
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	var paths []string
	for _, chunk := range chunks(ids) {
		in := placeholders(len(chunk))
		args := toArgs(chunk)

		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets WHERE local_identifier IN ("+in+")", args...).Scan(&n); err != nil {
			return err
		}
		if n != len(chunk) {
			return fmt.Errorf("%w: %d of %d assets missing", domain.ErrNotFound, len(chunk)-n, len(chunk))
		}

		found, err := queryStrings(ctx, tx, "SELECT path FROM asset_resources WHERE local_identifier IN ("+in+")", args...)
		if err != nil {
			return err
		}
		paths = append(paths, found...)

		for _, table := range []string{"album_assets", "asset_editions", "asset_resources", "assets"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE local_identifier IN ("+in+")", args...); err != nil {
				return fmt.Errorf("delete from %s: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn.Printf("failed to remove %s: %v", logger.SanitizeForLog(p), err)
		}
	}
	logger.Info.Printf("deleted %d assets", len(ids))
	return nil
}

func (l *Library) UpdateAsset(ctx context.Context, id string, changes map[string]any) error {
	c, err := domain.ParseAssetChanges(changes)
	if err != nil {
		return err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	row := tx.QueryRowContext(ctx, "SELECT "+assetColumns+" FROM assets WHERE local_identifier = ?", id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	c.Apply(a, l.now())

	query := `
		UPDATE assets
		SET favorite = ?, hidden = ?, creation_date = ?, modification_date = ?,
			has_location = ?, latitude = ?, longitude = ?, altitude = ?, location_timestamp = ?
		WHERE local_identifier = ?
	`
	hasLoc, lat, lon, alt, locTS := locationColumns(a.Location)
	if _, err := tx.ExecContext(ctx, query,
		boolInt(a.Favorite),
		boolInt(a.Hidden),
		toMillis(a.CreationDate),
		toMillis(a.ModificationDate),
		hasLoc, lat, lon, alt, locTS,
		id,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (l *Library) InsertAsset(ctx context.Context, a *domain.Asset, resources []domain.Resource, edition *domain.Edition, albumIDs []string) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	hasLoc, lat, lon, alt, locTS := locationColumns(a.Location)
	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		a.LocalIdentifier,
		string(a.MediaType),
		a.MimeType,
		a.Filename,
		a.PixelWidth,
		a.PixelHeight,
		a.Duration,
		toMillis(a.CreationDate),
		toMillis(a.ModificationDate),
		hasLoc, lat, lon, alt, locTS,
		boolInt(a.Favorite),
		boolInt(a.Hidden),
		a.BurstIdentifier,
		boolInt(a.RepresentsBurst),
		string(a.SourceType),
	); err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}

	for i, r := range resources {
		query := `
			INSERT INTO asset_resources (local_identifier, ordinal, type, original_filename, mime_type, file_size, path, checksum)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, query,
			a.LocalIdentifier, i, string(r.Type), r.OriginalFilename, r.MimeType, r.FileSize, r.Path, r.Checksum,
		); err != nil {
			return fmt.Errorf("insert resource: %w", err)
		}
	}

	if edition != nil {
		query := `
			INSERT INTO asset_editions (local_identifier, format_identifier, format_version, base_version, editor, edited_at, adjustment_data)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, query,
			a.LocalIdentifier,
			edition.FormatIdentifier,
			edition.FormatVersion,
			edition.BaseVersion,
			edition.Editor,
			toMillis(edition.EditedAt),
			edition.AdjustmentData,
		); err != nil {
			return fmt.Errorf("insert edition: %w", err)
		}
	}

	for _, albumID := range uniqueStrings(albumIDs) {
		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM albums WHERE id = ?", albumID).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", domain.ErrAlbumNotFound, albumID)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO album_assets (album_id, local_identifier) VALUES (?, ?)", albumID, a.LocalIdentifier); err != nil {
			return fmt.Errorf("add to album: %w", err)
		}
	}

	return tx.Commit()
}

func (l *Library) HasChecksum(ctx context.Context, checksum string) (bool, error) {
	var n int
	err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM asset_resources WHERE checksum = ?", checksum).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (l *Library) Albums(ctx context.Context) ([]domain.Album, error) {
	query := `
		SELECT a.id, a.title, a.type, a.created_at,
			(SELECT COUNT(*) FROM album_assets aa WHERE aa.album_id = a.id)
		FROM albums a
		ORDER BY a.created_at, a.id
	`
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	albums := []domain.Album{}
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, *album)
	}
	return albums, rows.Err()
}

func scanAlbum(row scanner) (*domain.Album, error) {
	var album domain.Album
	var albumType string
	var createdAt int64
	if err := row.Scan(&album.ID, &album.Title, &albumType, &createdAt, &album.AssetCount); err != nil {
		return nil, err
	}
	album.Type = domain.AlbumType(albumType)
	album.CreatedAt = fromMillis(createdAt)
	return &album, nil
}

func (l *Library) CreateAlbum(ctx context.Context, album *domain.Album) error {
	query := `
		INSERT INTO albums (id, title, type, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := l.db.ExecContext(ctx, query, album.ID, album.Title, string(album.Type), toMillis(album.CreatedAt))
	return err
}

func (l *Library) FindAlbumByTitle(ctx context.Context, title string) (*domain.Album, error) {
	query := `
		SELECT a.id, a.title, a.type, a.created_at,
			(SELECT COUNT(*) FROM album_assets aa WHERE aa.album_id = a.id)
		FROM albums a
		WHERE a.title = ?
		ORDER BY a.created_at, a.id
		LIMIT 1
	`
	album, err := scanAlbum(l.db.QueryRowContext(ctx, query, title))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAlbumNotFound
	}
	return album, err
}

func (l *Library) albumExists(ctx context.Context, id string) error {
	var n int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM albums WHERE id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAlbumNotFound, id)
	}
	return nil
}

func (l *Library) assetExists(ctx context.Context, id string) error {
	var n int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets WHERE local_identifier = ?", id).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return nil
}

func (l *Library) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	return queryStrings(ctx, l.db, query, args...)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// queryStrings reads a single string column. Rows are fully drained before
// returning so the connection is free for the next statement.
func queryStrings(ctx context.Context, q querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func locationColumns(loc *domain.Location) (has int, lat, lon, alt float64, ts int64) {
	if loc == nil {
		return 0, 0, 0, 0, 0
	}
	return 1, loc.Latitude, loc.Longitude, loc.Altitude, toMillis(loc.Timestamp)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toArgs(ss []string) []any {
	args := make([]any, len(ss))
	for i, s := range ss {
		args[i] = s
	}
	return args
}

func chunks(ids []string) [][]string {
	var out [][]string
	for len(ids) > maxParams {
		out = append(out, ids[:maxParams])
		ids = ids[maxParams:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

func uniqueStrings(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

var _ port.MediaLibrary = (*Library)(nil)
