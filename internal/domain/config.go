package domain

import (
	"runtime"
	"time"
)

// Config represents the application configuration
type Config struct {
	Download     DownloadConfig     `mapstructure:"download"`
	Tools        ToolsConfig        `mapstructure:"tools"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// DownloadConfig holds the defaults used when CLI flags are not given
type DownloadConfig struct {
	OutputDir    string `mapstructure:"output_dir"`
	VideoQuality string `mapstructure:"video_quality"`
	AudioQuality string `mapstructure:"audio_quality"`
	AudioFormat  string `mapstructure:"audio_format"`
}

// ToolsConfig locates the external binaries and bounds their queries
type ToolsConfig struct {
	YTDLPBinary     string        `mapstructure:"ytdlp_binary"`
	FFmpegBinary    string        `mapstructure:"ffmpeg_binary"`
	MetadataTimeout time.Duration `mapstructure:"metadata_timeout"`
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Download: DownloadConfig{
			OutputDir:    DefaultOutputDir,
			VideoQuality: DefaultVideoQuality,
			AudioQuality: DefaultAudioQuality,
			AudioFormat:  DefaultAudioFormat,
		},
		Tools: ToolsConfig{
			YTDLPBinary:     "yt-dlp",
			FFmpegBinary:    "ffmpeg",
			MetadataTimeout: 10 * time.Second,
			ProbeTimeout:    5 * time.Second,
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  defaultNotificationMethod(),
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}

func defaultNotificationMethod() string {
	if runtime.GOOS == "darwin" {
		return "osascript"
	}
	return "notify-send"
}
