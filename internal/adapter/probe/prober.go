// Package probe identifies media files from their content and reads the
// dimensions, duration and capture date the library records.
package probe

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abema/go-mp4"
	"github.com/h2non/filetype"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/infrastructure/logger"
	"github.com/bnema/photobridge/internal/port"
)

// headerSize is what filetype needs to match every type it knows.
const headerSize = 261

// Seconds between the QuickTime epoch (1904-01-01) and the unix epoch.
const quickTimeEpochOffset = 2082844800

// isoContainers are the ISO base media extensions go-mp4 can walk.
var isoContainers = map[string]bool{
	"mp4": true, "mov": true, "m4v": true, "m4a": true, "3gp": true,
}

// Prober sniffs content and reads container headers natively. Files it
// cannot fully describe go to the fallback prober when one is set.
type Prober struct {
	fallback port.MediaProber
}

func New(fallback port.MediaProber) *Prober {
	return &Prober{fallback: fallback}
}

func (p *Prober) Probe(path string) (*domain.ProbeInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: %w", err)
	}
	head = head[:n]

	info := sniff(head, path)

	switch {
	case info.MediaType == domain.MediaTypeImage:
		if err := readImageConfig(f, info); err != nil {
			logger.Debug.Printf("image config %s: %v", logger.SanitizeForLog(filepath.Base(path)), err)
		}
	case isoContainers[info.Extension]:
		if err := readISOHeaders(f, info); err != nil {
			logger.Debug.Printf("mp4 headers %s: %v", logger.SanitizeForLog(filepath.Base(path)), err)
		}
	}

	if p.fallback != nil && incomplete(info) {
		fb, err := p.fallback.Probe(path)
		if err != nil {
			logger.Debug.Printf("fallback probe %s: %v", logger.SanitizeForLog(filepath.Base(path)), err)
			return info, nil
		}
		merge(info, fb)
	}
	return info, nil
}

// sniff classifies by magic bytes, then by extension.
func sniff(head []byte, path string) *domain.ProbeInfo {
	info := &domain.ProbeInfo{MediaType: domain.MediaTypeUnknown}

	kind, _ := filetype.Match(head)
	if kind != filetype.Unknown {
		info.MimeType = kind.MIME.Value
		info.Extension = kind.Extension
		switch {
		case filetype.IsImage(head):
			info.MediaType = domain.MediaTypeImage
		case filetype.IsVideo(head):
			info.MediaType = domain.MediaTypeVideo
		case filetype.IsAudio(head):
			info.MediaType = domain.MediaTypeAudio
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if info.MediaType == domain.MediaTypeUnknown {
		info.MediaType = domain.DetectMediaType(path)
	}
	if info.Extension == "" {
		info.Extension = strings.TrimPrefix(ext, ".")
	}
	if info.MimeType == "" && ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			info.MimeType, _, _ = strings.Cut(t, ";")
		}
	}
	return info
}

func readImageConfig(r io.ReadSeeker, info *domain.ProbeInfo) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return err
	}
	info.Width, info.Height = cfg.Width, cfg.Height
	return nil
}

// readISOHeaders takes duration and creation time from mvhd and the largest
// track dimensions from tkhd.
func readISOHeaders(r io.ReadSeeker, info *domain.ProbeInfo) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	boxes, err := mp4.ExtractBoxesWithPayload(r, nil, []mp4.BoxPath{
		{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()},
		{mp4.BoxTypeMoov(), mp4.BoxTypeTrak(), mp4.BoxTypeTkhd()},
	})
	if err != nil {
		return err
	}

	for _, b := range boxes {
		switch box := b.Payload.(type) {
		case *mp4.Mvhd:
			created, duration := uint64(box.CreationTimeV0), uint64(box.DurationV0)
			if box.GetVersion() == 1 {
				created, duration = box.CreationTimeV1, box.DurationV1
			}
			if box.Timescale > 0 {
				info.Duration = float64(duration) / float64(box.Timescale)
			}
			if created > quickTimeEpochOffset {
				info.CreatedAt = time.Unix(int64(created-quickTimeEpochOffset), 0).UTC()
			}
		case *mp4.Tkhd:
			w, h := int(box.Width>>16), int(box.Height>>16)
			if w*h > info.Width*info.Height {
				info.Width, info.Height = w, h
			}
		}
	}
	return nil
}

func incomplete(info *domain.ProbeInfo) bool {
	switch info.MediaType {
	case domain.MediaTypeUnknown:
		return true
	case domain.MediaTypeImage:
		return info.Width == 0
	case domain.MediaTypeVideo:
		return info.Width == 0 || info.Duration == 0
	case domain.MediaTypeAudio:
		return info.Duration == 0
	}
	return false
}

// merge fills what sniffing left unknown. Sniffed values win.
func merge(info, fb *domain.ProbeInfo) {
	if info.MediaType == domain.MediaTypeUnknown {
		info.MediaType = fb.MediaType
	}
	if info.MimeType == "" {
		info.MimeType = fb.MimeType
	}
	if info.Width == 0 && info.Height == 0 {
		info.Width, info.Height = fb.Width, fb.Height
	}
	if info.Duration == 0 {
		info.Duration = fb.Duration
	}
	if info.CreatedAt.IsZero() {
		info.CreatedAt = fb.CreatedAt
	}
}

var _ port.MediaProber = (*Prober)(nil)
