package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lyricforge/lyricforge/internal/api"
	"github.com/lyricforge/lyricforge/internal/config"
	ffmpegWrap "github.com/lyricforge/lyricforge/internal/ffmpeg"
	"github.com/lyricforge/lyricforge/internal/logging"
	"github.com/lyricforge/lyricforge/internal/project"
	"github.com/lyricforge/lyricforge/internal/render"
	"github.com/lyricforge/lyricforge/internal/store"
	"github.com/lyricforge/lyricforge/pkg/lyricvideo"
	"github.com/lyricforge/lyricforge/pkg/types"
)

var (
	rootCmd = &cobra.Command{
		Use:   "lyricforge",
		Short: "A lyric-video rendering tool and service",
		Long: `lyricforge overlays timed captions onto videos.

Examples:
  # Run the HTTP API
  lyricforge serve

  # Render a lyric video locally
  lyricforge render -i input.mp4 -s lyrics.srt -o output.mp4 --style-preset minimal-white`,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Render a lyric video from local files",
		Long: fmt.Sprintf(`Burn timed captions from an SRT file into a video.
When no subtitle file is given, a built-in sample caption set is used.

Supported style presets:
%s
Example:
  lyricforge render -i input.mp4 -s lyrics.srt -o output.mp4 --style-preset cinematic`,
			formatSupportedPresets()),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &lyricvideo.RenderOptions{}

			inputPath, _ := cmd.Flags().GetString("input")
			subtitlePath, _ := cmd.Flags().GetString("subtitles")
			outputPath, _ := cmd.Flags().GetString("output")
			preset, _ := cmd.Flags().GetString("style-preset")
			animation, _ := cmd.Flags().GetString("animation")
			align, _ := cmd.Flags().GetString("align")
			position, _ := cmd.Flags().GetString("position")
			opacity, _ := cmd.Flags().GetFloat64("opacity")
			verbose, _ := cmd.Flags().GetBool("verbose")

			opts.InputPath = inputPath
			opts.SubtitlePath = subtitlePath
			opts.OutputPath = outputPath
			opts.Preset = types.StylePreset(preset)
			opts.Animation = animation
			opts.Align = align
			opts.Position = position
			opts.Opacity = opacity
			opts.Verbose = verbose

			if opts.InputPath == "" || opts.OutputPath == "" {
				return fmt.Errorf("input and output paths are required")
			}

			return lyricvideo.Render(cmd.Context(), opts)
		},
	}
)

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(cfg.Verbose)
	log := logging.WithComponent("serve")

	objects, err := store.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, logging.WithComponent("store"))
	if err != nil {
		return err
	}

	// The project store is optional; the service renders without it.
	var projects *project.Store
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		projects, err = project.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logging.WithComponent("project"))
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("project store unavailable, bookkeeping disabled")
			projects = nil
		}
	} else {
		log.Info().Msg("no MONGODB_URI set, bookkeeping disabled")
	}

	var bookkeeping render.ProjectStore
	if projects != nil {
		bookkeeping = projects
	}

	orchestrator := render.New(
		ffmpegWrap.NewProcessor(logging.WithComponent("ffmpeg")),
		objects,
		bookkeeping,
		cfg.TempDir,
		cfg.UploadFolder,
		logging.WithComponent("render"),
	)

	server := api.NewServer(orchestrator, objects, projects, cfg.RenderTimeout, logging.WithComponent("api"))

	log.Info().Str("port", cfg.Port).Msg("starting API server")
	return server.Router().Run(":" + cfg.Port)
}

func formatSupportedPresets() string {
	var sb strings.Builder
	for _, preset := range lyricvideo.GetSupportedPresets() {
		sb.WriteString(fmt.Sprintf("- %s\n", preset))
	}
	return sb.String()
}

func init() {
	renderCmd.Flags().StringP("input", "i", "", "Input video file")
	renderCmd.Flags().StringP("subtitles", "s", "", "SRT subtitle file (optional, sample captions used when omitted)")
	renderCmd.Flags().StringP("output", "o", "", "Output video path")
	renderCmd.Flags().String("style-preset", "minimal-white",
		fmt.Sprintf("Style preset (%s)", strings.Join(lyricvideo.GetSupportedPresets(), ", ")))
	renderCmd.Flags().String("animation", "", "Override animation (fade, slide, pop, none)")
	renderCmd.Flags().String("align", "", "Override alignment (left, center, right)")
	renderCmd.Flags().String("position", "", "Override position (top, middle, bottom)")
	renderCmd.Flags().Float64("opacity", 0, "Override caption opacity (0-1]")
	renderCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	renderCmd.MarkFlagRequired("input")
	renderCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
