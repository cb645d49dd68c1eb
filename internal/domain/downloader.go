package domain

import (
	"context"
	"time"
)

// ProgressStatus is the state carried by a progress event
type ProgressStatus string

const (
	ProgressDownloading ProgressStatus = "downloading"
	ProgressFinished    ProgressStatus = "finished"
)

// ProgressEvent is reported synchronously from inside a download.
// TotalBytes is zero when the size is not known.
type ProgressEvent struct {
	Status          ProgressStatus
	DownloadedBytes int64
	TotalBytes      int64
}

// HasTotal reports whether the total size is known
func (e ProgressEvent) HasTotal() bool {
	return e.TotalBytes > 0
}

// Percent returns completion in the 0-100 range, or -1 when the total is unknown
func (e ProgressEvent) Percent() float64 {
	if !e.HasTotal() {
		return -1
	}
	p := float64(e.DownloadedBytes) / float64(e.TotalBytes) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// ProgressFunc receives progress events. It must not block.
type ProgressFunc func(ProgressEvent)

// PostProcessor describes an ffmpeg step run after the raw stream is fetched
type PostProcessor struct {
	Codec         string
	TargetBitrate string
	FilterArgs    []string
}

// ExtractorOptions is the full set of knobs passed to the extraction library
type ExtractorOptions struct {
	Quiet          bool
	Timeout        time.Duration
	OutputTemplate string
	Format         string
	PostProcessors []PostProcessor
	OnProgress     ProgressFunc
}

// Extractor defines the interface to the external extraction library
type Extractor interface {
	// FetchMetadata queries title, uploader and duration without downloading
	FetchMetadata(ctx context.Context, url string) (*VideoMetadata, error)

	// FetchFormats queries the available streams without downloading
	FetchFormats(ctx context.Context, url string) (*FormatSet, error)

	// Download fetches url and runs the configured post-processors
	Download(ctx context.Context, opts ExtractorOptions, url string) error
}

// ToolProbe checks that an external binary can be executed
type ToolProbe interface {
	Probe(ctx context.Context) error
}

// BuildVideoOptions returns the extractor options for a plain video download
func BuildVideoOptions(req *DownloadRequest, onProgress ProgressFunc) ExtractorOptions {
	return ExtractorOptions{
		Quiet:          true,
		OutputTemplate: req.OutputTemplate(),
		Format:         SelectFormatExpression(req.Quality),
		OnProgress:     onProgress,
	}
}

// BuildAudioOptions returns the extractor options for an audio transcode.
// bitrate must already be normalized and volume may be empty.
func BuildAudioOptions(req *DownloadRequest, codec, bitrate string, volume VolumeExpression, onProgress ProgressFunc) ExtractorOptions {
	if codec == "" {
		codec = DefaultAudioFormat
	}
	pp := PostProcessor{
		Codec:         codec,
		TargetBitrate: bitrate,
	}
	if volume != "" {
		pp.FilterArgs = []string{"-af", volume.String()}
	}
	return ExtractorOptions{
		Quiet:          true,
		OutputTemplate: req.OutputTemplate(),
		Format:         audioFormatExpression,
		PostProcessors: []PostProcessor{pp},
		OnProgress:     onProgress,
	}
}
