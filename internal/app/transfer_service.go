package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yourusername/yt-transfer/internal/domain"
	"go.uber.org/zap"
)

// Reporter receives user-facing updates from the transfer pipeline
type Reporter interface {
	FetchingInfo(url string)
	VideoInfo(meta *domain.VideoMetadata)
	DownloadStarting(kind domain.MediaKind)
	Progress(kind domain.MediaKind, event domain.ProgressEvent)
	DownloadFinished(kind domain.MediaKind, outputDir string)
}

// Notifier sends out-of-band notifications about finished transfers
type Notifier interface {
	NotifyTransferCompleted(title string, kind domain.MediaKind)
	NotifyTransferFailed(url string, err error)
}

// TransferService runs one validate, fetch, download pipeline per call
type TransferService struct {
	extractor domain.Extractor
	reporter  Reporter
	notifier  Notifier
	config    *domain.DownloadConfig
	logger    *zap.Logger
}

// NewTransferService creates a new transfer service. reporter, notifier and
// logger may be nil.
func NewTransferService(
	extractor domain.Extractor,
	reporter Reporter,
	notifier Notifier,
	config *domain.DownloadConfig,
	logger *zap.Logger,
) *TransferService {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config == nil {
		config = &domain.DefaultConfig().Download
	}
	return &TransferService{
		extractor: extractor,
		reporter:  reporter,
		notifier:  notifier,
		config:    config,
		logger:    logger,
	}
}

// DownloadVideo downloads the stream matching req.Quality without transcoding
func (s *TransferService) DownloadVideo(ctx context.Context, req *domain.DownloadRequest) error {
	log := s.requestLogger(req)

	if err := domain.ValidateURL(req.URL); err != nil {
		return err
	}
	if !domain.IsKnownVideoQuality(req.Quality) {
		log.Debug("Unknown quality label, using best", zap.String("quality", req.Quality))
	}

	meta, err := s.prepare(ctx, req, log)
	if err != nil {
		return err
	}

	opts := domain.BuildVideoOptions(req, s.progressFunc(domain.MediaVideo))
	return s.run(ctx, req, meta, domain.MediaVideo, opts, log)
}

// DownloadAudio downloads the best audio stream and transcodes it with ffmpeg.
// The volume expression and bitrate are checked before anything touches
// the network.
func (s *TransferService) DownloadAudio(ctx context.Context, req *domain.DownloadRequest) error {
	log := s.requestLogger(req)

	if err := domain.ValidateURL(req.URL); err != nil {
		return err
	}

	var volume domain.VolumeExpression
	if req.Volume != nil {
		parsed, err := domain.ParseVolume(*req.Volume)
		if err != nil {
			return err
		}
		volume = parsed
		log.Debug("Volume filter parsed", zap.String("filter", volume.String()))
	}

	bitrate, err := domain.NormalizeAudioQuality(req.Quality)
	if err != nil {
		return err
	}

	meta, err := s.prepare(ctx, req, log)
	if err != nil {
		return err
	}

	opts := domain.BuildAudioOptions(req, s.config.AudioFormat, bitrate, volume, s.progressFunc(domain.MediaAudio))
	return s.run(ctx, req, meta, domain.MediaAudio, opts, log)
}

// Info fetches metadata and the available formats of url
func (s *TransferService) Info(ctx context.Context, url string) (*domain.VideoMetadata, *domain.FormatSet, error) {
	if err := domain.ValidateURL(url); err != nil {
		return nil, nil, err
	}

	s.reporter.FetchingInfo(url)
	meta, err := s.extractor.FetchMetadata(ctx, url)
	if err != nil {
		return nil, nil, withKind(domain.ErrMetadataFetch, err)
	}

	formats, err := s.extractor.FetchFormats(ctx, url)
	if err != nil {
		return nil, nil, withKind(domain.ErrFormatFetch, err)
	}

	s.logger.Debug("Formats fetched",
		zap.String("url", url),
		zap.Int("video", len(formats.Video)),
		zap.Int("audio", len(formats.Audio)))

	return meta, formats, nil
}

// prepare creates the output directory and fetches the video metadata
func (s *TransferService) prepare(ctx context.Context, req *domain.DownloadRequest, log *zap.Logger) (*domain.VideoMetadata, error) {
	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", req.OutputDir, err)
	}

	s.reporter.FetchingInfo(req.URL)
	meta, err := s.extractor.FetchMetadata(ctx, req.URL)
	if err != nil {
		log.Debug("Metadata fetch failed", zap.Error(err))
		return nil, withKind(domain.ErrMetadataFetch, err)
	}
	s.reporter.VideoInfo(meta)

	return meta, nil
}

func (s *TransferService) run(
	ctx context.Context,
	req *domain.DownloadRequest,
	meta *domain.VideoMetadata,
	kind domain.MediaKind,
	opts domain.ExtractorOptions,
	log *zap.Logger,
) error {
	log.Info("Starting download",
		zap.String("kind", string(kind)),
		zap.String("format", opts.Format),
		zap.String("output", opts.OutputTemplate))

	s.reporter.DownloadStarting(kind)
	if err := s.extractor.Download(ctx, opts, req.URL); err != nil {
		log.Debug("Download failed", zap.Error(err))
		if s.notifier != nil {
			s.notifier.NotifyTransferFailed(req.URL, err)
		}
		return withKind(domain.ErrDownloadFailed, err)
	}

	log.Info("Download completed", zap.String("title", meta.Title))
	s.reporter.DownloadFinished(kind, req.OutputDir)
	if s.notifier != nil {
		s.notifier.NotifyTransferCompleted(meta.Title, kind)
	}

	return nil
}

func (s *TransferService) progressFunc(kind domain.MediaKind) domain.ProgressFunc {
	return func(event domain.ProgressEvent) {
		s.reporter.Progress(kind, event)
	}
}

func (s *TransferService) requestLogger(req *domain.DownloadRequest) *zap.Logger {
	return s.logger.With(
		zap.String("request_id", req.ID),
		zap.String("url", req.URL))
}

// withKind makes sure err matches kind under errors.Is
func withKind(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

type nopReporter struct{}

func (nopReporter) FetchingInfo(string) {}
func (nopReporter) VideoInfo(*domain.VideoMetadata) {}
func (nopReporter) DownloadStarting(domain.MediaKind) {}
func (nopReporter) Progress(domain.MediaKind, domain.ProgressEvent) {}
func (nopReporter) DownloadFinished(domain.MediaKind, string) {}
