package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
download:
  output_dir: /tmp/music
  video_quality: 720p
  audio_quality: "320"
tools:
  ffmpeg_binary: /opt/ffmpeg/bin/ffmpeg
  metadata_timeout: 30s
notification:
  enabled: true
logging:
  level: debug
  format: json
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/music", config.Download.OutputDir)
	assert.Equal(t, "720p", config.Download.VideoQuality)
	assert.Equal(t, "320", config.Download.AudioQuality)
	assert.Equal(t, "mp3", config.Download.AudioFormat)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", config.Tools.FFmpegBinary)
	assert.Equal(t, "yt-dlp", config.Tools.YTDLPBinary)
	assert.Equal(t, 30*time.Second, config.Tools.MetadataTimeout)
	assert.Equal(t, 5*time.Second, config.Tools.ProbeTimeout)
	assert.True(t, config.Notification.Enabled)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	path := writeConfigFile(t, "download:\n  output_dir: from-file\n")
	t.Setenv("YTTRANSFER_DOWNLOAD_OUTPUT_DIR", "from-env")
	t.Setenv("YTTRANSFER_DOWNLOAD_AUDIO_QUALITY", "128")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", config.Download.OutputDir)
	assert.Equal(t, "128", config.Download.AudioQuality)
}

func TestLoadConfig_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeConfigFile(t, "download:\n  output_dir: ~/Music/yt\n")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "Music", "yt"), config.Download.OutputDir)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{
			name:        "unknown video quality",
			content:     "download:\n  video_quality: 4k\n",
			errContains: "unknown video quality",
		},
		{
			name:        "bad audio quality",
			content:     "download:\n  audio_quality: loud\n",
			errContains: "invalid audio quality",
		},
		{
			name:        "zero probe timeout",
			content:     "tools:\n  probe_timeout: 0s\n",
			errContains: "probe timeout",
		},
		{
			name:        "unknown log format",
			content:     "logging:\n  format: xml\n",
			errContains: "unknown log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("YT_TEST_DIR", "/data")

	assert.Equal(t, "/data/out", expandPath("$YT_TEST_DIR/out"))
	assert.Equal(t, "relative/dir", expandPath("relative/dir"))
}
