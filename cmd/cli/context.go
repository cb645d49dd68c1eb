package main

import (
	"io"

	"github.com/yourusername/yt-transfer/internal/app"
	"github.com/yourusername/yt-transfer/internal/domain"
	"github.com/yourusername/yt-transfer/internal/infrastructure"
	"github.com/yourusername/yt-transfer/pkg/logger"
	"go.uber.org/zap"
)

// dependencies builds the collaborators that touch external binaries, so
// tests can swap in fakes
type dependencies struct {
	newExtractor func(cfg *domain.ToolsConfig, log *zap.Logger) domain.Extractor
	newProbe     func(cfg *domain.ToolsConfig, log *zap.Logger) domain.ToolProbe
	newNotifier  func(cfg *domain.NotificationConfig, log *zap.Logger) app.Notifier
}

func defaultDependencies() dependencies {
	return dependencies{
		newExtractor: func(cfg *domain.ToolsConfig, log *zap.Logger) domain.Extractor {
			return infrastructure.NewYTDLPClient(cfg, log)
		},
		newProbe: func(cfg *domain.ToolsConfig, log *zap.Logger) domain.ToolProbe {
			return infrastructure.NewFFmpegProbe(cfg, nil, log)
		},
		newNotifier: func(cfg *domain.NotificationConfig, log *zap.Logger) app.Notifier {
			return infrastructure.NewNotificationService(cfg, nil, log)
		},
	}
}

// cliContext carries the persistent flags and lazily loaded state shared
// by every subcommand
type cliContext struct {
	configPath string
	verbose    bool

	stdout io.Writer
	stderr io.Writer
	deps   dependencies

	config *domain.Config
	logger *zap.Logger
}

func newCLIContext(stdout, stderr io.Writer, deps dependencies) *cliContext {
	return &cliContext{
		stdout: stdout,
		stderr: stderr,
		deps:   deps,
	}
}

func (c *cliContext) ensureConfig() (*domain.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, err := app.LoadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	c.config = cfg
	return cfg, nil
}

func (c *cliContext) ensureLogger() (*zap.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logCfg := logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	}
	if c.verbose {
		logCfg.Level = "debug"
	}

	var log *zap.Logger
	switch logCfg.OutputPath {
	case "", "stderr":
		log = logger.NewWithWriter(logCfg, c.stderr)
	default:
		log, err = logger.New(logCfg)
		if err != nil {
			return nil, err
		}
	}

	c.logger = log
	return log, nil
}

// transferService wires the service for one command run
func (c *cliContext) transferService() (*app.TransferService, *infrastructure.ConsoleReporter, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	reporter := infrastructure.NewConsoleReporter(c.stdout, cfg.Download.AudioFormat)
	service := app.NewTransferService(
		c.deps.newExtractor(&cfg.Tools, log),
		reporter,
		c.deps.newNotifier(&cfg.Notification, log),
		&cfg.Download,
		log,
	)
	return service, reporter, nil
}

func (c *cliContext) sync() {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
