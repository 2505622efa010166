package probe

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abema/go-mp4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/port/mocks"
)

func writeImage(t *testing.T, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	switch filepath.Ext(name) {
	case ".png":
		require.NoError(t, png.Encode(f, img))
	default:
		require.NoError(t, jpeg.Encode(f, img, nil))
	}
	return path
}

// writeMP4 builds a header-only ISO file: ftyp, then moov with mvhd and a
// single video track header.
func writeMP4(t *testing.T, created time.Time, seconds uint32, w, h uint32) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	mw := mp4.NewWriter(f)
	put := func(typ mp4.BoxType, box mp4.IImmutableBox) {
		_, err := mw.StartBox(&mp4.BoxInfo{Type: typ})
		require.NoError(t, err)
		if box != nil {
			_, err = mp4.Marshal(mw, box, mp4.Context{})
			require.NoError(t, err)
			_, err = mw.EndBox()
			require.NoError(t, err)
		}
	}
	end := func() {
		_, err := mw.EndBox()
		require.NoError(t, err)
	}

	put(mp4.BoxTypeFtyp(), &mp4.Ftyp{
		MajorBrand:       [4]byte{'i', 's', 'o', 'm'},
		MinorVersion:     512,
		CompatibleBrands: []mp4.CompatibleBrandElem{{CompatibleBrand: [4]byte{'i', 's', 'o', 'm'}}},
	})
	put(mp4.BoxTypeMoov(), nil)
	put(mp4.BoxTypeMvhd(), &mp4.Mvhd{
		CreationTimeV0: uint32(created.Unix() + quickTimeEpochOffset),
		Timescale:      1000,
		DurationV0:     seconds * 1000,
		Rate:           0x00010000,
		Volume:         0x0100,
		NextTrackID:    2,
	})
	put(mp4.BoxTypeTrak(), nil)
	put(mp4.BoxTypeTkhd(), &mp4.Tkhd{
		FullBox:    mp4.FullBox{Flags: [3]byte{0, 0, 3}},
		TrackID:    1,
		DurationV0: seconds * 1000,
		Width:      w << 16,
		Height:     h << 16,
	})
	end() // trak
	end() // moov
	return path
}

func TestProber_Images(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		wantMime string
	}{
		{name: "png", file: "a.png", wantMime: "image/png"},
		{name: "jpeg", file: "b.jpg", wantMime: "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeImage(t, tt.file, 64, 48)

			info, err := New(nil).Probe(path)
			require.NoError(t, err)
			assert.Equal(t, domain.MediaTypeImage, info.MediaType)
			assert.Equal(t, tt.wantMime, info.MimeType)
			assert.Equal(t, 64, info.Width)
			assert.Equal(t, 48, info.Height)
		})
	}
}

func TestProber_ContentWinsOverExtension(t *testing.T) {
	path := writeImage(t, "a.png", 10, 10)
	renamed := filepath.Join(filepath.Dir(path), "looks-like-video.mov")
	require.NoError(t, os.Rename(path, renamed))

	info, err := New(nil).Probe(renamed)
	require.NoError(t, err)
	assert.Equal(t, domain.MediaTypeImage, info.MediaType)
	assert.Equal(t, "png", info.Extension)
}

func TestProber_MP4Headers(t *testing.T) {
	created := time.Date(2024, 7, 14, 18, 30, 0, 0, time.UTC)
	path := writeMP4(t, created, 9, 1920, 1080)

	info, err := New(nil).Probe(path)
	require.NoError(t, err)
	assert.Equal(t, domain.MediaTypeVideo, info.MediaType)
	assert.Equal(t, "video/mp4", info.MimeType)
	assert.Equal(t, 1920, info.Width)
	assert.Equal(t, 1080, info.Height)
	assert.InDelta(t, 9.0, info.Duration, 1e-9)
	assert.True(t, created.Equal(info.CreatedAt), "created at %v", info.CreatedAt)
}

func TestProber_Fallback(t *testing.T) {
	t.Run("fills what sniffing could not read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "clip.mkv")
		require.NoError(t, os.WriteFile(path, []byte("not really matroska"), 0644))

		fb := mocks.NewMediaProberMock(t)
		fb.EXPECT().Probe(path).Return(&domain.ProbeInfo{
			MediaType: domain.MediaTypeVideo,
			Width:     640,
			Height:    360,
			Duration:  4,
		}, nil).Once()

		info, err := New(fb).Probe(path)
		require.NoError(t, err)
		assert.Equal(t, domain.MediaTypeVideo, info.MediaType)
		assert.Equal(t, 640, info.Width)
		assert.Equal(t, 4.0, info.Duration)
	})

	t.Run("fallback failure keeps sniffed info", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

		fb := mocks.NewMediaProberMock(t)
		fb.EXPECT().Probe(path).Return(nil, errors.New("ffprobe failed")).Once()

		info, err := New(fb).Probe(path)
		require.NoError(t, err)
		assert.Equal(t, domain.MediaTypeUnknown, info.MediaType)
	})

	t.Run("complete info skips fallback", func(t *testing.T) {
		path := writeImage(t, "a.png", 3, 2)
		fb := mocks.NewMediaProberMock(t)

		info, err := New(fb).Probe(path)
		require.NoError(t, err)
		assert.Equal(t, 3, info.Width)
	})
}

func TestProber_MissingFile(t *testing.T) {
	_, err := New(nil).Probe(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMerge(t *testing.T) {
	info := &domain.ProbeInfo{MediaType: domain.MediaTypeImage, MimeType: "image/heif"}
	merge(info, &domain.ProbeInfo{
		MediaType: domain.MediaTypeVideo,
		MimeType:  "video/mp4",
		Width:     4032,
		Height:    3024,
	})
	assert.Equal(t, domain.MediaTypeImage, info.MediaType)
	assert.Equal(t, "image/heif", info.MimeType)
	assert.Equal(t, 4032, info.Width)
}
