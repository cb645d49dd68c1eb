package domain

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MediaKind is the kind of file a transfer produces
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

const (
	// DefaultOutputDir is where files land when no directory is given
	DefaultOutputDir = "downloads"
	// DefaultAudioQuality is the target MP3 bitrate in kbps
	DefaultAudioQuality = "192"
	// DefaultAudioFormat is the codec audio is transcoded to
	DefaultAudioFormat = "mp3"

	// audioFormatExpression picks the best audio-only stream
	audioFormatExpression = "bestaudio/best"
	// outputTemplate names files after the source title and extension
	outputTemplate = "%(title)s.%(ext)s"
)

// DownloadRequest is built once from CLI input and never mutated
type DownloadRequest struct {
	ID        string
	URL       string
	OutputDir string
	Quality   string
	Volume    *string
}

// NewDownloadRequest creates a request, filling in the default output directory
func NewDownloadRequest(url, outputDir, quality string, volume *string) *DownloadRequest {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	return &DownloadRequest{
		ID:        uuid.New().String(),
		URL:       url,
		OutputDir: outputDir,
		Quality:   quality,
		Volume:    volume,
	}
}

// OutputTemplate returns the yt-dlp output template inside the output directory
func (r *DownloadRequest) OutputTemplate() string {
	return filepath.Join(r.OutputDir, outputTemplate)
}

// VideoMetadata describes a remote video
type VideoMetadata struct {
	Title           string
	Uploader        string
	DurationSeconds int
}

// FormattedDuration renders the duration as M:SS
func (m *VideoMetadata) FormattedDuration() string {
	return FormatDuration(m.DurationSeconds)
}

// FormatDuration renders seconds as M:SS. Minutes are not folded into hours.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatDescriptor describes one stream offered by the source
type FormatDescriptor struct {
	FormatID       string
	Container      string
	Height         *int
	AudioBitrate   *float64
	ApproxFileSize *int64
	Note           string
}

// FormatSet partitions the offered streams. Streams without any codec are
// left out.
type FormatSet struct {
	Video []FormatDescriptor // video and audio muxed together
	Audio []FormatDescriptor // audio only
}

// NormalizeAudioQuality turns "192", "192k" or "192K" into the yt-dlp
// constant bitrate form "192K". An empty value yields the default.
func NormalizeAudioQuality(quality string) (string, error) {
	q := strings.TrimSpace(quality)
	if q == "" {
		q = DefaultAudioQuality
	}
	q = strings.TrimSuffix(strings.TrimSuffix(q, "k"), "K")
	kbps, err := strconv.Atoi(q)
	if err != nil || kbps <= 0 {
		return "", fmt.Errorf("%w: %q (expected a bitrate in kbps such as 128 or 192)", ErrInvalidAudioQuality, quality)
	}
	return strconv.Itoa(kbps) + "K", nil
}
