package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/yt-transfer/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultProbeTimeout = 5 * time.Second
	ffmpegInstallHint   = "install ffmpeg from https://ffmpeg.org/download.html or your package manager"
)

// FFmpegProbe checks that ffmpeg is installed and runnable
type FFmpegProbe struct {
	binary  string
	timeout time.Duration
	runner  CommandRunner
	logger  *zap.Logger
}

// NewFFmpegProbe creates a probe for the given ffmpeg binary. A nil runner
// executes the real binary.
func NewFFmpegProbe(config *domain.ToolsConfig, runner CommandRunner, logger *zap.Logger) *FFmpegProbe {
	if runner == nil {
		runner = ExecCommandRunner{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	binary := config.FFmpegBinary
	if binary == "" {
		binary = "ffmpeg"
	}
	timeout := config.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	return &FFmpegProbe{
		binary:  binary,
		timeout: timeout,
		runner:  runner,
		logger:  logger,
	}
}

// Probe runs `ffmpeg -version`. Any failure, including the timeout, is
// reported as domain.ErrMissingTool.
func (p *FFmpegProbe) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	output, err := p.runner.Output(ctx, p.binary, "-version")
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("no response within %s", p.timeout)
		}
		p.logger.Debug("ffmpeg probe failed",
			zap.String("binary", p.binary),
			zap.Error(err))
		return fmt.Errorf("%w: ffmpeg (%s) is not installed or not runnable, %s: %v",
			domain.ErrMissingTool, p.binary, ffmpegInstallHint, err)
	}

	p.logger.Debug("ffmpeg available",
		zap.String("binary", p.binary),
		zap.String("version", firstLine(string(output))))

	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
