package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/yt-transfer/internal/domain"
)

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	// Start with default config
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, config)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.yt-transfer")
		v.AddConfigPath("/etc/yt-transfer")
	}

	// Read environment variables, e.g. YTTRANSFER_DOWNLOAD_OUTPUT_DIR
	v.SetEnvPrefix("YTTRANSFER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// never appear in a config file
func setDefaults(v *viper.Viper, config *domain.Config) {
	v.SetDefault("download.output_dir", config.Download.OutputDir)
	v.SetDefault("download.video_quality", config.Download.VideoQuality)
	v.SetDefault("download.audio_quality", config.Download.AudioQuality)
	v.SetDefault("download.audio_format", config.Download.AudioFormat)
	v.SetDefault("tools.ytdlp_binary", config.Tools.YTDLPBinary)
	v.SetDefault("tools.ffmpeg_binary", config.Tools.FFmpegBinary)
	v.SetDefault("tools.metadata_timeout", config.Tools.MetadataTimeout)
	v.SetDefault("tools.probe_timeout", config.Tools.ProbeTimeout)
	v.SetDefault("notification.enabled", config.Notification.Enabled)
	v.SetDefault("notification.method", config.Notification.Method)
	v.SetDefault("logging.level", config.Logging.Level)
	v.SetDefault("logging.format", config.Logging.Format)
	v.SetDefault("logging.output_path", config.Logging.OutputPath)
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.OutputDir = expandPath(config.Download.OutputDir)
	config.Tools.YTDLPBinary = expandPath(config.Tools.YTDLPBinary)
	config.Tools.FFmpegBinary = expandPath(config.Tools.FFmpegBinary)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Download.OutputDir == "" {
		return fmt.Errorf("download output directory not configured")
	}

	if !domain.IsKnownVideoQuality(config.Download.VideoQuality) {
		return fmt.Errorf("unknown video quality %q (expected one of %s)",
			config.Download.VideoQuality, strings.Join(domain.VideoQualities(), ", "))
	}

	if _, err := domain.NormalizeAudioQuality(config.Download.AudioQuality); err != nil {
		return err
	}

	if config.Tools.YTDLPBinary == "" {
		return fmt.Errorf("yt-dlp binary not configured")
	}

	if config.Tools.FFmpegBinary == "" {
		return fmt.Errorf("ffmpeg binary not configured")
	}

	if config.Tools.MetadataTimeout <= 0 {
		return fmt.Errorf("metadata timeout must be positive")
	}

	if config.Tools.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive")
	}

	if config.Logging.Format != "" && config.Logging.Format != "console" && config.Logging.Format != "json" {
		return fmt.Errorf("unknown log format %q", config.Logging.Format)
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "warn"
	}

	return nil
}
