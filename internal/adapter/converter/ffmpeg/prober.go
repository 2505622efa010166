package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/port"
)

var (
	ErrEmptyPath   = errors.New("path is empty")
	ErrInvalidPath = errors.New("path contains invalid characters")
)

func validatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(path, 0) {
		return ErrInvalidPath
	}
	return nil
}

const defaultProbeTimeout = 10 * time.Second

// Prober reads container metadata with ffprobe.
type Prober struct {
	binary  string
	timeout time.Duration
}

// NewProber uses binary, or "ffprobe" from PATH when empty.
func NewProber(binary string) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{binary: binary, timeout: defaultProbeTimeout}
}

// Available reports whether the ffprobe binary can be found.
func (p *Prober) Available() bool {
	_, err := exec.LookPath(p.binary)
	return err == nil
}

func (p *Prober) Probe(inputPath string) (*domain.ProbeInfo, error) {
	result, err := p.ProbeResult(inputPath)
	if err != nil {
		return nil, err
	}
	return infoFromResult(result), nil
}

// ProbeResult returns ffprobe's format and stream description of a file.
func (p *Prober) ProbeResult(inputPath string) (*domain.ProbeResult, error) {
	if err := validatePath(inputPath); err != nil {
		return nil, fmt.Errorf("invalid input path: %w", err)
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.binary, args...)
	cmd.WaitDelay = time.Second

	output, err := cmd.Output()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("ffprobe timed out after %s: %w", p.timeout, ctx.Err())
	}
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbeOutput(output)
}

func parseProbeOutput(output []byte) (*domain.ProbeResult, error) {
	var result domain.ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &result, nil
}

// stillFormats are ffprobe demuxers that read single images.
var stillFormats = []string{"image2", "_pipe", "png", "gif", "webp"}

func infoFromResult(r *domain.ProbeResult) *domain.ProbeInfo {
	info := &domain.ProbeInfo{
		MediaType: domain.MediaTypeUnknown,
		Duration:  domain.ParseDuration(r.Format.Duration),
		CreatedAt: r.CreationTime(),
	}
	info.Width, info.Height = r.Dimensions()

	hasAudio := false
	for _, s := range r.Streams {
		if s.CodecType == "audio" {
			hasAudio = true
		}
	}

	switch {
	case r.VideoStream() != nil && isStill(r.Format.FormatName):
		info.MediaType = domain.MediaTypeImage
		info.Duration = 0
	case r.VideoStream() != nil:
		info.MediaType = domain.MediaTypeVideo
		if info.Duration == 0 {
			info.Duration = domain.ParseDuration(r.VideoStream().Duration)
		}
	case hasAudio:
		info.MediaType = domain.MediaTypeAudio
	}
	return info
}

func isStill(formatName string) bool {
	for _, f := range stillFormats {
		if strings.Contains(formatName, f) {
			return true
		}
	}
	return false
}

var _ port.MediaProber = (*Prober)(nil)
