package domain

import "errors"

// Error kinds surfaced by the transfer pipeline. All of them are terminal
// for the current invocation.
var (
	ErrInvalidURL          = errors.New("invalid YouTube URL")
	ErrMetadataFetch       = errors.New("failed to fetch video info")
	ErrFormatFetch         = errors.New("failed to fetch formats")
	ErrInvalidVolume       = errors.New("invalid volume format")
	ErrInvalidAudioQuality = errors.New("invalid audio quality")
	ErrMissingTool         = errors.New("required tool is not available")
	ErrDownloadFailed      = errors.New("download failed")
)
