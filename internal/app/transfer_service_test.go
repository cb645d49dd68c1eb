package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/yt-transfer/internal/domain"
)

// mockExtractor implements domain.Extractor for testing
type mockExtractor struct {
	metadata    *domain.VideoMetadata
	formats     *domain.FormatSet
	metadataErr error
	formatsErr  error
	downloadErr error
	events      []domain.ProgressEvent

	metadataCalls int
	formatsCalls  int
	downloads     []domain.ExtractorOptions
}

func newMockExtractor() *mockExtractor {
	return &mockExtractor{
		metadata: &domain.VideoMetadata{Title: "Test Song", Uploader: "Tester", DurationSeconds: 212},
		formats:  &domain.FormatSet{},
		events: []domain.ProgressEvent{
			{Status: domain.ProgressDownloading, DownloadedBytes: 50, TotalBytes: 100},
			{Status: domain.ProgressFinished, DownloadedBytes: 100, TotalBytes: 100},
		},
	}
}

func (m *mockExtractor) FetchMetadata(ctx context.Context, url string) (*domain.VideoMetadata, error) {
	m.metadataCalls++
	if m.metadataErr != nil {
		return nil, m.metadataErr
	}
	return m.metadata, nil
}

func (m *mockExtractor) FetchFormats(ctx context.Context, url string) (*domain.FormatSet, error) {
	m.formatsCalls++
	if m.formatsErr != nil {
		return nil, m.formatsErr
	}
	return m.formats, nil
}

func (m *mockExtractor) Download(ctx context.Context, opts domain.ExtractorOptions, url string) error {
	m.downloads = append(m.downloads, opts)
	if m.downloadErr != nil {
		return m.downloadErr
	}
	for _, event := range m.events {
		if opts.OnProgress != nil {
			opts.OnProgress(event)
		}
	}
	return nil
}

func (m *mockExtractor) calls() int {
	return m.metadataCalls + m.formatsCalls + len(m.downloads)
}

// recordingReporter captures reporter callbacks in order
type recordingReporter struct {
	steps    []string
	meta     *domain.VideoMetadata
	progress []domain.ProgressEvent
	finished string
}

func (r *recordingReporter) FetchingInfo(url string) { r.steps = append(r.steps, "fetching") }
func (r *recordingReporter) VideoInfo(meta *domain.VideoMetadata) {
	r.steps = append(r.steps, "info")
	r.meta = meta
}
func (r *recordingReporter) DownloadStarting(kind domain.MediaKind) {
	r.steps = append(r.steps, "start:"+string(kind))
}
func (r *recordingReporter) Progress(kind domain.MediaKind, event domain.ProgressEvent) {
	r.progress = append(r.progress, event)
}
func (r *recordingReporter) DownloadFinished(kind domain.MediaKind, outputDir string) {
	r.steps = append(r.steps, "done:"+string(kind))
	r.finished = outputDir
}

type recordingNotifier struct {
	completed []string
	failed    []string
}

func (n *recordingNotifier) NotifyTransferCompleted(title string, kind domain.MediaKind) {
	n.completed = append(n.completed, title)
}

func (n *recordingNotifier) NotifyTransferFailed(url string, err error) {
	n.failed = append(n.failed, url)
}

func newTestService(extractor domain.Extractor) (*TransferService, *recordingReporter, *recordingNotifier) {
	reporter := &recordingReporter{}
	notifier := &recordingNotifier{}
	config := domain.DefaultConfig().Download
	return NewTransferService(extractor, reporter, notifier, &config, nil), reporter, notifier
}

func strPtr(s string) *string {
	return &s
}

func TestDownloadAudio_Success(t *testing.T) {
	extractor := newMockExtractor()
	service, reporter, notifier := newTestService(extractor)
	outDir := filepath.Join(t.TempDir(), "out")
	req := domain.NewDownloadRequest("https://youtu.be/abc123", outDir, "128", strPtr("150%"))

	err := service.DownloadAudio(context.Background(), req)
	require.NoError(t, err)

	assert.DirExists(t, outDir)
	require.Len(t, extractor.downloads, 1)
	opts := extractor.downloads[0]
	assert.Equal(t, "bestaudio/best", opts.Format)
	assert.Equal(t, filepath.Join(outDir, "%(title)s.%(ext)s"), opts.OutputTemplate)
	require.Len(t, opts.PostProcessors, 1)
	assert.Equal(t, "mp3", opts.PostProcessors[0].Codec)
	assert.Equal(t, "128K", opts.PostProcessors[0].TargetBitrate)
	assert.Equal(t, []string{"-af", "volume=1.5"}, opts.PostProcessors[0].FilterArgs)

	assert.Equal(t, []string{"fetching", "info", "start:audio", "done:audio"}, reporter.steps)
	assert.Equal(t, "Test Song", reporter.meta.Title)
	assert.Len(t, reporter.progress, 2)
	assert.Equal(t, outDir, reporter.finished)
	assert.Equal(t, []string{"Test Song"}, notifier.completed)
	assert.Empty(t, notifier.failed)
}

func TestDownloadAudio_NoVolume(t *testing.T) {
	extractor := newMockExtractor()
	service, _, _ := newTestService(extractor)
	req := domain.NewDownloadRequest("https://youtu.be/abc123", t.TempDir(), "", nil)

	require.NoError(t, service.DownloadAudio(context.Background(), req))

	require.Len(t, extractor.downloads, 1)
	assert.Equal(t, "192K", extractor.downloads[0].PostProcessors[0].TargetBitrate)
	assert.Empty(t, extractor.downloads[0].PostProcessors[0].FilterArgs)
}

func TestDownloadAudio_ValidationFailuresTouchNothing(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		quality string
		volume  *string
		wantErr error
	}{
		{name: "invalid url", url: "https://example.com/v", quality: "192", wantErr: domain.ErrInvalidURL},
		{name: "invalid volume", url: "https://youtu.be/abc123", quality: "192", volume: strPtr("notanumber"), wantErr: domain.ErrInvalidVolume},
		{name: "invalid quality", url: "https://youtu.be/abc123", quality: "loud", wantErr: domain.ErrInvalidAudioQuality},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := newMockExtractor()
			service, reporter, _ := newTestService(extractor)
			outDir := filepath.Join(t.TempDir(), "out")
			req := domain.NewDownloadRequest(tt.url, outDir, tt.quality, tt.volume)

			err := service.DownloadAudio(context.Background(), req)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, extractor.calls())
			assert.Empty(t, reporter.steps)
			assert.NoDirExists(t, outDir)
		})
	}
}

func TestDownloadAudio_MetadataFailure(t *testing.T) {
	extractor := newMockExtractor()
	extractor.metadataErr = errors.New("HTTP Error 403: Forbidden")
	service, _, notifier := newTestService(extractor)
	req := domain.NewDownloadRequest("https://youtu.be/abc123", t.TempDir(), "192", nil)

	err := service.DownloadAudio(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMetadataFetch)
	assert.Contains(t, err.Error(), "HTTP Error 403")
	assert.Empty(t, extractor.downloads)
	assert.Empty(t, notifier.completed)
}

func TestDownloadAudio_DownloadFailure(t *testing.T) {
	extractor := newMockExtractor()
	extractor.downloadErr = errors.New("ffmpeg exited with status 1")
	service, reporter, notifier := newTestService(extractor)
	req := domain.NewDownloadRequest("https://youtu.be/abc123", t.TempDir(), "192", nil)

	err := service.DownloadAudio(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDownloadFailed)
	assert.Contains(t, err.Error(), "ffmpeg exited with status 1")
	assert.NotContains(t, reporter.steps, "done:audio")
	assert.Equal(t, []string{"https://youtu.be/abc123"}, notifier.failed)
}

func TestDownloadAudio_AlreadyClassifiedErrorIsNotDoubleWrapped(t *testing.T) {
	extractor := newMockExtractor()
	extractor.downloadErr = errors.Join(domain.ErrDownloadFailed, errors.New("boom"))
	service, _, _ := newTestService(extractor)
	req := domain.NewDownloadRequest("https://youtu.be/abc123", t.TempDir(), "192", nil)

	err := service.DownloadAudio(context.Background(), req)

	assert.Same(t, extractor.downloadErr, err)
}

func TestDownloadAudio_OutputDirIsAFile(t *testing.T) {
	extractor := newMockExtractor()
	service, _, _ := newTestService(extractor)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	req := domain.NewDownloadRequest("https://youtu.be/abc123", blocker, "192", nil)

	err := service.DownloadAudio(context.Background(), req)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output directory")
	assert.Zero(t, extractor.calls())
}

func TestDownloadVideo_Quality(t *testing.T) {
	tests := []struct {
		quality  string
		expected string
	}{
		{"720p", "best[height<=720][ext=mp4]/best[height<=720]"},
		{"worst", "worst[ext=mp4]/worst"},
		{"unknown-label", "best[ext=mp4]/best"},
	}

	for _, tt := range tests {
		t.Run(tt.quality, func(t *testing.T) {
			extractor := newMockExtractor()
			service, reporter, _ := newTestService(extractor)
			req := domain.NewDownloadRequest("https://www.youtube.com/watch?v=abc123", t.TempDir(), tt.quality, nil)

			require.NoError(t, service.DownloadVideo(context.Background(), req))

			require.Len(t, extractor.downloads, 1)
			assert.Equal(t, tt.expected, extractor.downloads[0].Format)
			assert.Empty(t, extractor.downloads[0].PostProcessors)
			assert.Equal(t, []string{"fetching", "info", "start:video", "done:video"}, reporter.steps)
		})
	}
}

func TestDownloadVideo_InvalidURL(t *testing.T) {
	extractor := newMockExtractor()
	service, _, _ := newTestService(extractor)
	req := domain.NewDownloadRequest("not-a-url", t.TempDir(), "best", nil)

	err := service.DownloadVideo(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrInvalidURL)
	assert.Zero(t, extractor.calls())
}

func TestInfo(t *testing.T) {
	extractor := newMockExtractor()
	height := 720
	extractor.formats = &domain.FormatSet{
		Video: []domain.FormatDescriptor{{FormatID: "22", Container: "mp4", Height: &height}},
	}
	service, _, _ := newTestService(extractor)

	meta, formats, err := service.Info(context.Background(), "https://youtu.be/abc123")
	require.NoError(t, err)

	assert.Equal(t, "Test Song", meta.Title)
	require.Len(t, formats.Video, 1)
	assert.Equal(t, "22", formats.Video[0].FormatID)
	assert.Equal(t, 1, extractor.metadataCalls)
	assert.Equal(t, 1, extractor.formatsCalls)
	assert.Empty(t, extractor.downloads)
}

func TestInfo_Failures(t *testing.T) {
	t.Run("metadata", func(t *testing.T) {
		extractor := newMockExtractor()
		extractor.metadataErr = errors.New("timed out")
		service, _, _ := newTestService(extractor)

		_, _, err := service.Info(context.Background(), "https://youtu.be/abc123")

		assert.ErrorIs(t, err, domain.ErrMetadataFetch)
		assert.Zero(t, extractor.formatsCalls)
	})

	t.Run("formats", func(t *testing.T) {
		extractor := newMockExtractor()
		extractor.formatsErr = errors.New("timed out")
		service, _, _ := newTestService(extractor)

		_, _, err := service.Info(context.Background(), "https://youtu.be/abc123")

		assert.ErrorIs(t, err, domain.ErrFormatFetch)
	})

	t.Run("invalid url", func(t *testing.T) {
		extractor := newMockExtractor()
		service, _, _ := newTestService(extractor)

		_, _, err := service.Info(context.Background(), "https://example.com")

		assert.ErrorIs(t, err, domain.ErrInvalidURL)
		assert.Zero(t, extractor.calls())
	})
}

func TestNewTransferService_NilCollaborators(t *testing.T) {
	extractor := newMockExtractor()
	service := NewTransferService(extractor, nil, nil, nil, nil)
	req := domain.NewDownloadRequest("https://youtu.be/abc123", t.TempDir(), "", nil)

	require.NoError(t, service.DownloadAudio(context.Background(), req))
	assert.Len(t, extractor.downloads, 1)
}
