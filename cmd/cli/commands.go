package main

import (
	"github.com/spf13/cobra"
	"github.com/yourusername/yt-transfer/internal/domain"
	"go.uber.org/zap"
)

func newVideoCommand(cli *cliContext) *cobra.Command {
	var outputDir, quality string

	cmd := &cobra.Command{
		Use:   "video <url>",
		Short: "Download a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer cli.sync()

			cfg, err := cli.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("output-dir") {
				outputDir = cfg.Download.OutputDir
			}
			if !cmd.Flags().Changed("quality") {
				quality = cfg.Download.VideoQuality
			}

			service, _, err := cli.transferService()
			if err != nil {
				return err
			}

			req := domain.NewDownloadRequest(args[0], outputDir, quality, nil)
			return service.DownloadVideo(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", domain.DefaultOutputDir, "Output directory")
	cmd.Flags().StringVarP(&quality, "quality", "q", domain.DefaultVideoQuality, "Video quality (best, 1080p, 720p, 480p, 360p, worst)")

	return cmd
}

func newAudioCommand(cli *cliContext) *cobra.Command {
	var outputDir, quality, volume string

	cmd := &cobra.Command{
		Use:   "audio <url>",
		Short: "Extract the audio track as MP3",
		Example: `  yt-transfer audio "https://www.youtube.com/watch?v=VIDEO_ID"
  yt-transfer audio "https://youtu.be/VIDEO_ID" -o my_music -q 320 --volume 150%
  yt-transfer "https://youtu.be/VIDEO_ID" -o my_music`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer cli.sync()

			cfg, err := cli.ensureConfig()
			if err != nil {
				return err
			}
			log, err := cli.ensureLogger()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("output-dir") {
				outputDir = cfg.Download.OutputDir
			}
			if !cmd.Flags().Changed("quality") {
				quality = cfg.Download.AudioQuality
			}

			service, reporter, err := cli.transferService()
			if err != nil {
				return err
			}
			reporter.Banner("YouTube to MP3 Downloader")

			probe := cli.deps.newProbe(&cfg.Tools, log)
			if err := probe.Probe(cmd.Context()); err != nil {
				return err
			}
			log.Debug("ffmpeg probe passed", zap.String("binary", cfg.Tools.FFmpegBinary))

			var volumeArg *string
			if cmd.Flags().Changed("volume") {
				volumeArg = &volume
			}

			req := domain.NewDownloadRequest(args[0], outputDir, quality, volumeArg)
			return service.DownloadAudio(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", domain.DefaultOutputDir, "Output directory")
	cmd.Flags().StringVarP(&quality, "quality", "q", domain.DefaultAudioQuality, "Audio bitrate in kbps")
	cmd.Flags().StringVar(&volume, "volume", "", "Volume adjustment (e.g. 1.5, 150%, 3dB, -2dB, 2x)")

	return cmd
}

func newInfoCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <url>",
		Short: "Show video details and available formats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer cli.sync()

			service, reporter, err := cli.transferService()
			if err != nil {
				return err
			}

			meta, formats, err := service.Info(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			reporter.VideoInfo(meta)
			printFormats(cli.stdout, formats)
			return nil
		},
	}
}
