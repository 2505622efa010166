package service

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/crypto/blake2b"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/infrastructure/logger"
	"github.com/bnema/photobridge/internal/port"
)

// Importer brings files from disk into the library. Files are copied under
// the library directory; the originals are never modified. Each file is
// imported as one job on the worker pool, so shutdown waits for it.
type Importer struct {
	library    port.MediaLibrary
	prober     port.MediaProber
	pool       *WorkerPool
	events     EventPublisher
	libraryDir string
	maxSize    int64
}

// NewImporter stores files under dataDir/library. maxSize of zero disables
// the size limit.
func NewImporter(library port.MediaLibrary, prober port.MediaProber, pool *WorkerPool, events EventPublisher, dataDir string, maxSize int64) *Importer {
	return &Importer{
		library:    library,
		prober:     prober,
		pool:       pool,
		events:     events,
		libraryDir: filepath.Join(dataDir, "library"),
		maxSize:    maxSize,
	}
}

type importResult struct {
	asset *domain.Asset
	err   error
}

// submit queues the import of one candidate. The job outlives ctx: once
// queued it either stores the asset completely or not at all.
func (im *Importer) submit(ctx context.Context, c candidate, mediaType domain.MediaType, albumIDs []string) *Completion[importResult] {
	done := newCompletion[importResult]()
	ctx = context.WithoutCancel(ctx)

	im.pool.Submit(domain.JobTypeImport, c.name, func() error {
		a, err := im.importOne(ctx, c, mediaType, albumIDs)
		done.resolve(importResult{asset: a, err: err})
		if errors.Is(err, domain.ErrDuplicateAsset) || errors.Is(err, domain.ErrUnsupportedMedia) {
			return nil
		}
		return err
	})
	return done
}

func (im *Importer) run(ctx context.Context, c candidate, mediaType domain.MediaType, albumIDs []string) (*domain.Asset, error) {
	res, err := im.submit(ctx, c, mediaType, albumIDs).Wait(ctx)
	if err != nil {
		return nil, err
	}
	return res.asset, res.err
}

// ImportReport summarizes one directory import.
type ImportReport struct {
	Imported   int      `json:"imported"`
	Duplicates int      `json:"duplicates"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
	Bytes      int64    `json:"bytes"`
	AlbumIDs   []string `json:"albumIds"`
}

// SaveToLibrary copies src into the library as a new asset named filename.
// An empty mediaType is detected from the content.
func (im *Importer) SaveToLibrary(ctx context.Context, src, filename string, mediaType domain.MediaType) (*domain.Asset, error) {
	if filename == "" {
		filename = filepath.Base(src)
	}
	return im.run(ctx, candidate{path: src, name: domain.SanitizeFilename(filename)}, mediaType, nil)
}

type candidate struct {
	path    string
	name    string
	paired  string
	sidecar string
}

func (im *Importer) importOne(ctx context.Context, c candidate, mediaType domain.MediaType, albumIDs []string) (*domain.Asset, error) {
	fi, err := os.Stat(c.path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", c.name, err)
	}
	if im.maxSize > 0 && fi.Size() > im.maxSize {
		return nil, fmt.Errorf("%w: %s is %s, limit is %s", domain.ErrUnsupportedMedia, c.name,
			humanize.Bytes(uint64(fi.Size())), humanize.Bytes(uint64(im.maxSize)))
	}

	info, err := im.prober.Probe(c.path)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", c.name, err)
	}
	if mediaType == "" {
		mediaType = info.MediaType
	}
	if mediaType == domain.MediaTypeUnknown {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, c.name)
	}

	checksum, err := fileChecksum(c.path)
	if err != nil {
		return nil, fmt.Errorf("checksum %s: %w", c.name, err)
	}
	dup, err := im.library.HasChecksum(ctx, checksum)
	if err != nil {
		return nil, fmt.Errorf("check duplicate %s: %w", c.name, err)
	}
	if dup {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateAsset, c.name)
	}

	createdAt := info.CreatedAt
	if createdAt.IsZero() {
		createdAt = fi.ModTime().UTC()
	}
	asset := domain.NewAsset(mediaType, c.name, createdAt)
	asset.MimeType = info.MimeType
	asset.PixelWidth = info.Width
	asset.PixelHeight = info.Height
	asset.Duration = info.Duration

	var copied []string
	cleanup := func() {
		for _, p := range copied {
			os.Remove(p) //nolint:errcheck
		}
	}

	dest, err := im.copyIntoLibrary(c.path, c.name, mediaType)
	if err != nil {
		return nil, err
	}
	copied = append(copied, dest)
	resources := []domain.Resource{{
		Type:             domain.PrimaryResourceType(mediaType),
		OriginalFilename: c.name,
		MimeType:         info.MimeType,
		FileSize:         fi.Size(),
		Path:             dest,
		Checksum:         checksum,
	}}

	if c.paired != "" {
		res, err := im.pairedResource(c.paired, domain.ResourceTypePairedVideo, domain.MediaTypeVideo)
		if err != nil {
			cleanup()
			return nil, err
		}
		copied = append(copied, res.Path)
		resources = append(resources, *res)
	}

	var edition *domain.Edition
	if c.sidecar != "" {
		edition, err = readSidecar(c.sidecar)
		if err != nil {
			logger.Warn.Printf("ignoring sidecar %s: %v", logger.SanitizeForLog(c.sidecar), err)
		} else {
			res, err := im.pairedResource(c.sidecar, domain.ResourceTypeAdjustmentData, domain.MediaTypeImage)
			if err != nil {
				cleanup()
				return nil, err
			}
			res.MimeType = "application/xml"
			copied = append(copied, res.Path)
			resources = append(resources, *res)
		}
	}

	if err := im.library.InsertAsset(ctx, asset, resources, edition, albumIDs); err != nil {
		cleanup()
		logger.Error.Printf("failed to save asset %s: %v", asset.LocalIdentifier, err)
		return nil, fmt.Errorf("failed to save asset: %w", err)
	}

	logger.Info.Printf("asset imported: id=%s, filename=%s, size=%s", asset.LocalIdentifier,
		logger.SanitizeForLog(c.name), humanize.Bytes(uint64(fi.Size())))
	if im.events != nil {
		im.events.Publish(asset.LocalIdentifier, Event{Type: EventInserted, LocalIdentifier: asset.LocalIdentifier})
	}
	return asset, nil
}

func (im *Importer) pairedResource(path string, resType domain.ResourceType, mediaType domain.MediaType) (*domain.Resource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	name := domain.SanitizeFilename(filepath.Base(path))
	checksum, err := fileChecksum(path)
	if err != nil {
		return nil, fmt.Errorf("checksum %s: %w", name, err)
	}
	dest, err := im.copyIntoLibrary(path, name, mediaType)
	if err != nil {
		return nil, err
	}
	mimeType := ""
	if resType == domain.ResourceTypePairedVideo {
		mimeType = "video/quicktime"
	}
	return &domain.Resource{
		Type:             resType,
		OriginalFilename: name,
		MimeType:         mimeType,
		FileSize:         fi.Size(),
		Path:             dest,
		Checksum:         checksum,
	}, nil
}

func libraryFolder(mediaType domain.MediaType) string {
	switch mediaType {
	case domain.MediaTypeVideo:
		return "Movies"
	case domain.MediaTypeAudio:
		return "Music"
	default:
		return "Pictures"
	}
}

func (im *Importer) copyIntoLibrary(src, name string, mediaType domain.MediaType) (string, error) {
	dir := filepath.Join(im.libraryDir, libraryFolder(mediaType))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create library directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", name, err)
	}
	defer in.Close() //nolint:errcheck

	out, dest, err := createUnique(dir, name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()     //nolint:errcheck
		os.Remove(dest) //nolint:errcheck
		return "", fmt.Errorf("copy %s: %w", name, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest) //nolint:errcheck
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return dest, nil
}

// createUnique creates dir/name, or dir/name_N.ext when that is taken.
func createUnique(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i < 10000; i++ {
		fname := name
		if i > 0 {
			fname = stem + "_" + strconv.Itoa(i) + ext
		}
		dest := filepath.Join(dir, fname)
		f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, dest, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create %s: %w", fname, err)
		}
	}
	return nil, "", fmt.Errorf("no free filename for %s in %s", name, dir)
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ImportDir imports every supported file below dir. Files in a
// subdirectory also join an album named after it. A still and a
// same-named .mov form one live photo; a same-named .AAE sidecar carries
// the still's edits.
func (im *Importer) ImportDir(ctx context.Context, dir string) (*ImportReport, error) {
	groups := make(map[string][]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !d.Type().IsRegular() {
			return nil
		}
		parent := filepath.Dir(path)
		groups[parent] = append(groups[parent], path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	report := &ImportReport{}
	parents := make([]string, 0, len(groups))
	for p := range groups {
		parents = append(parents, p)
	}
	sort.Strings(parents)

	for _, parent := range parents {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		var albumIDs []string
		if filepath.Clean(parent) != filepath.Clean(dir) {
			album, err := im.albumFor(ctx, filepath.Base(parent))
			if err != nil {
				return report, err
			}
			albumIDs = []string{album.ID}
			report.AlbumIDs = append(report.AlbumIDs, album.ID)
		}

		candidates, skipped := groupCandidates(groups[parent])
		report.Skipped += skipped
		for _, c := range candidates {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			_, err := im.run(ctx, c, "", albumIDs)
			switch {
			case err != nil && errors.Is(err, ctx.Err()):
				// Shutdown; the file already queued still finishes on the pool.
				return report, err
			case err == nil:
				report.Imported++
				if fi, statErr := os.Stat(c.path); statErr == nil {
					report.Bytes += fi.Size()
				}
			case errors.Is(err, domain.ErrDuplicateAsset):
				report.Duplicates++
				logger.Debug.Printf("skipping duplicate %s", logger.SanitizeForLog(c.path))
			case errors.Is(err, domain.ErrUnsupportedMedia):
				report.Skipped++
				logger.Debug.Printf("skipping %s: %v", logger.SanitizeForLog(c.path), err)
			default:
				report.Failed++
				logger.Error.Printf("import of %s failed: %v", logger.SanitizeForLog(c.path), err)
			}
		}
	}

	logger.Info.Printf("import of %s done: imported=%d duplicates=%d skipped=%d failed=%d size=%s",
		logger.SanitizeForLog(dir), report.Imported, report.Duplicates, report.Skipped, report.Failed,
		humanize.Bytes(uint64(report.Bytes)))
	return report, nil
}

func (im *Importer) albumFor(ctx context.Context, title string) (*domain.Album, error) {
	album, err := im.library.FindAlbumByTitle(ctx, title)
	if err == nil {
		return album, nil
	}
	if !errors.Is(err, domain.ErrAlbumNotFound) {
		return nil, fmt.Errorf("find album %q: %w", title, err)
	}
	album = domain.NewAlbum(title)
	if err := im.library.CreateAlbum(ctx, album); err != nil {
		return nil, fmt.Errorf("create album %q: %w", title, err)
	}
	logger.Info.Printf("album created: id=%s, title=%s", album.ID, logger.SanitizeForLog(title))
	return album, nil
}

// groupCandidates pairs stills with their live-photo video and sidecar.
// Sidecars without a still are counted as skipped.
func groupCandidates(paths []string) ([]candidate, int) {
	sort.Strings(paths)
	byStem := make(map[string][]string)
	for _, p := range paths {
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)))
		byStem[stem] = append(byStem[stem], p)
	}

	consumed := make(map[string]bool)
	var out []candidate
	for _, p := range paths {
		if domain.DetectMediaType(p) != domain.MediaTypeImage {
			continue
		}
		c := candidate{path: p, name: domain.SanitizeFilename(filepath.Base(p))}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)))
		for _, sib := range byStem[stem] {
			if sib == p || consumed[sib] {
				continue
			}
			switch strings.ToLower(filepath.Ext(sib)) {
			case ".mov":
				if c.paired == "" {
					c.paired = sib
					consumed[sib] = true
				}
			case ".aae":
				if c.sidecar == "" {
					c.sidecar = sib
					consumed[sib] = true
				}
			}
		}
		consumed[p] = true
		out = append(out, c)
	}

	skipped := 0
	for _, p := range paths {
		if consumed[p] {
			continue
		}
		if strings.EqualFold(filepath.Ext(p), ".aae") {
			skipped++
			continue
		}
		out = append(out, candidate{path: p, name: domain.SanitizeFilename(filepath.Base(p))})
	}
	return out, skipped
}

func readSidecar(path string) (*domain.Edition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck
	return parseAAE(f)
}

// parseAAE reads the adjustment plist the camera roll writes next to an
// edited still.
func parseAAE(r io.Reader) (*domain.Edition, error) {
	dec := xml.NewDecoder(r)
	values := make(map[string]string)
	var key string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse sidecar: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "plist", "dict":
		case "key":
			if err := dec.DecodeElement(&key, &se); err != nil {
				return nil, fmt.Errorf("parse sidecar: %w", err)
			}
		default:
			var v string
			if err := dec.DecodeElement(&v, &se); err != nil {
				return nil, fmt.Errorf("parse sidecar: %w", err)
			}
			if key != "" {
				values[key] = strings.TrimSpace(v)
				key = ""
			}
		}
	}

	e := &domain.Edition{
		FormatIdentifier: values["adjustmentFormatIdentifier"],
		FormatVersion:    values["adjustmentFormatVersion"],
		Editor:           values["adjustmentEditorBundleID"],
	}
	if e.FormatIdentifier == "" {
		return nil, fmt.Errorf("%w: sidecar has no format identifier", domain.ErrEditionUnavailable)
	}
	if v := values["adjustmentBaseVersion"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse sidecar base version: %w", err)
		}
		e.BaseVersion = n
	}
	if v := values["adjustmentTimestamp"]; v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("parse sidecar timestamp: %w", err)
		}
		e.EditedAt = ts
	}
	if v := values["adjustmentData"]; v != "" {
		data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(v), ""))
		if err != nil {
			return nil, fmt.Errorf("parse sidecar data: %w", err)
		}
		e.AdjustmentData = data
	}
	return e, nil
}
