package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alessio/shellescape"
	"github.com/lrstanley/go-ytdlp"
	"github.com/yourusername/yt-transfer/internal/domain"
	"go.uber.org/zap"
)

const (
	// progressInterval is how often go-ytdlp delivers progress updates
	progressInterval = 250 * time.Millisecond
	// defaultQueryLimit caps a whole metadata query, well above any
	// healthy extraction
	defaultQueryLimit = 2 * time.Minute
)

// YTDLPClient implements domain.Extractor on top of yt-dlp
type YTDLPClient struct {
	config     *domain.ToolsConfig
	logger     *zap.Logger
	queryLimit time.Duration
}

// NewYTDLPClient creates a new yt-dlp client
func NewYTDLPClient(config *domain.ToolsConfig, logger *zap.Logger) *YTDLPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YTDLPClient{
		config:     config,
		logger:     logger,
		queryLimit: defaultQueryLimit,
	}
}

// FetchMetadata queries title, uploader and duration without downloading
func (c *YTDLPClient) FetchMetadata(ctx context.Context, url string) (*domain.VideoMetadata, error) {
	info, err := c.query(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMetadataFetch, err)
	}
	return info.metadata(), nil
}

// FetchFormats queries the available streams without downloading
func (c *YTDLPClient) FetchFormats(ctx context.Context, url string) (*domain.FormatSet, error) {
	info, err := c.query(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFormatFetch, err)
	}
	return classifyFormats(info.Formats), nil
}

// Download fetches url and runs the configured post-processors. Progress
// callbacks run on go-ytdlp's reader goroutine; a panicking callback
// cancels the download.
func (c *YTDLPClient) Download(ctx context.Context, opts domain.ExtractorOptions, url string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dl := c.command().
		NoPlaylist().
		Format(opts.Format).
		Output(opts.OutputTemplate)

	if opts.Quiet {
		dl = dl.Quiet()
	}
	if opts.Timeout > 0 {
		dl = dl.SocketTimeout(opts.Timeout.Seconds())
	}

	for _, pp := range opts.PostProcessors {
		dl = dl.ExtractAudio().AudioFormat(pp.Codec)
		if pp.TargetBitrate != "" {
			dl = dl.AudioQuality(pp.TargetBitrate)
		}
		if len(pp.FilterArgs) > 0 {
			dl = dl.PostProcessorArgs("ExtractAudio:" + shellescape.QuoteCommand(pp.FilterArgs))
		}
	}

	if len(opts.PostProcessors) > 0 && c.config.FFmpegBinary != "" && c.config.FFmpegBinary != "ffmpeg" {
		dl = dl.FFmpegLocation(c.config.FFmpegBinary)
	}

	var guard *progressGuard
	if opts.OnProgress != nil {
		guard = newProgressGuard(opts.OnProgress, cancel)
		dl = dl.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
			if event, ok := toProgressEvent(update); ok {
				guard.emit(event)
			}
		})
	}

	result, err := dl.Run(ctx, url)
	c.logResult("Download finished", result, err)

	if guard != nil {
		if perr := guard.err(); perr != nil {
			return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, perr)
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, describeRunError(err, result))
	}

	return nil
}

// command returns a fresh yt-dlp command bound to the configured binary
func (c *YTDLPClient) command() *ytdlp.Command {
	dl := ytdlp.New()
	if c.config.YTDLPBinary != "" {
		dl = dl.SetExecutable(c.config.YTDLPBinary)
	}
	return dl
}

// query runs one no-download metadata query. The metadata timeout bounds
// each network wait inside yt-dlp; queryLimit only catches a hung process.
func (c *YTDLPClient) query(ctx context.Context, url string) (*videoInfo, error) {
	timeout := c.config.MetadataTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, c.queryLimit)
	defer cancel()

	dl := c.command().
		DumpSingleJSON().
		SkipDownload().
		NoPlaylist().
		Quiet().
		NoWarnings().
		SocketTimeout(timeout.Seconds())

	result, err := dl.Run(ctx, url)
	c.logResult("Metadata query finished", result, err)
	if err != nil {
		return nil, describeRunError(err, result)
	}

	return parseVideoInfo([]byte(result.Stdout))
}

func (c *YTDLPClient) logResult(msg string, result *ytdlp.Result, err error) {
	if result == nil {
		c.logger.Debug(msg, zap.Error(err))
		return
	}
	c.logger.Debug(msg,
		zap.String("command", shellescape.QuoteCommand(append([]string{result.Executable}, result.Args...))),
		zap.Int("exit_code", result.ExitCode),
		zap.Error(err))
}

// describeRunError adds the last line yt-dlp wrote to stderr, which usually
// carries the actual reason ("ERROR: [youtube] ...: Video unavailable")
func describeRunError(err error, result *ytdlp.Result) error {
	if result == nil {
		return err
	}
	if line := lastLine(result.Stderr); line != "" && !strings.Contains(err.Error(), line) {
		return fmt.Errorf("%w: %s", err, line)
	}
	return err
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// toProgressEvent maps go-ytdlp updates onto the two events the console
// cares about; every other status is dropped
func toProgressEvent(update ytdlp.ProgressUpdate) (domain.ProgressEvent, bool) {
	event := domain.ProgressEvent{
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
	}
	switch update.Status {
	case ytdlp.ProgressStatusDownloading:
		event.Status = domain.ProgressDownloading
	case ytdlp.ProgressStatusFinished:
		event.Status = domain.ProgressFinished
	default:
		return domain.ProgressEvent{}, false
	}
	return event, true
}

// progressGuard serializes progress callbacks and turns a panic into an
// error that aborts the running download
type progressGuard struct {
	fn     domain.ProgressFunc
	cancel context.CancelFunc

	mu     sync.Mutex
	failed error
}

func newProgressGuard(fn domain.ProgressFunc, cancel context.CancelFunc) *progressGuard {
	return &progressGuard{fn: fn, cancel: cancel}
}

func (g *progressGuard) emit(event domain.ProgressEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failed != nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			g.failed = fmt.Errorf("progress callback panicked: %v", r)
			g.cancel()
		}
	}()

	g.fn(event)
}

func (g *progressGuard) err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.failed
}

// videoInfo is the subset of yt-dlp's info JSON this tool reads
type videoInfo struct {
	Title    *string      `json:"title"`
	Uploader *string      `json:"uploader"`
	Duration *float64     `json:"duration"`
	Formats  []formatInfo `json:"formats"`
}

type formatInfo struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	Height         *float64 `json:"height"`
	VCodec         *string  `json:"vcodec"`
	ACodec         *string  `json:"acodec"`
	ABR            *float64 `json:"abr"`
	FileSize       *float64 `json:"filesize"`
	FileSizeApprox *float64 `json:"filesize_approx"`
	FormatNote     string   `json:"format_note"`
}

func parseVideoInfo(data []byte) (*videoInfo, error) {
	var info videoInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	return &info, nil
}

func (i *videoInfo) metadata() *domain.VideoMetadata {
	meta := &domain.VideoMetadata{
		Title:    stringOr(i.Title, "Unknown"),
		Uploader: stringOr(i.Uploader, "Unknown"),
	}
	if i.Duration != nil && *i.Duration > 0 {
		meta.DurationSeconds = int(*i.Duration)
	}
	return meta
}

// classifyFormats splits formats into muxed video and audio-only streams.
// Formats reporting neither codec are dropped.
func classifyFormats(formats []formatInfo) *domain.FormatSet {
	set := &domain.FormatSet{
		Video: []domain.FormatDescriptor{},
		Audio: []domain.FormatDescriptor{},
	}
	for _, f := range formats {
		hasVideo := !codecAbsent(f.VCodec)
		hasAudio := !codecAbsent(f.ACodec)
		switch {
		case hasVideo && hasAudio:
			set.Video = append(set.Video, f.descriptor())
		case hasAudio:
			set.Audio = append(set.Audio, f.descriptor())
		}
	}
	return set
}

func (f formatInfo) descriptor() domain.FormatDescriptor {
	d := domain.FormatDescriptor{
		FormatID:  f.FormatID,
		Container: f.Ext,
		Note:      f.FormatNote,
	}
	if f.Height != nil {
		h := int(*f.Height)
		d.Height = &h
	}
	if f.ABR != nil {
		abr := *f.ABR
		d.AudioBitrate = &abr
	}
	size := f.FileSize
	if size == nil {
		size = f.FileSizeApprox
	}
	if size != nil {
		n := int64(*size)
		d.ApproxFileSize = &n
	}
	return d
}

func codecAbsent(codec *string) bool {
	return codec == nil || *codec == "" || *codec == "none"
}

func stringOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
