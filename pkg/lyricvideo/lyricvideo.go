// Package lyricvideo is the public facade for local, store-free renders:
// a source video plus an SRT document in, a captioned mp4 out.
package lyricvideo

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/lyricforge/lyricforge/internal/ffmpeg"
	"github.com/lyricforge/lyricforge/internal/logging"
	"github.com/lyricforge/lyricforge/internal/overlay"
	"github.com/lyricforge/lyricforge/internal/style"
	"github.com/lyricforge/lyricforge/internal/subtitle"
	"github.com/lyricforge/lyricforge/pkg/types"
)

// RenderOptions defines options for a local render.
type RenderOptions struct {
	InputPath    string
	SubtitlePath string // empty selects the built-in sample captions
	OutputPath   string
	Preset       types.StylePreset
	Animation    string // optional preset overrides
	Align        string
	Position     string
	Opacity      float64
	Verbose      bool
}

// Render parses the subtitle document, compiles the overlay chain for the
// chosen style and encodes the output file.
func Render(ctx context.Context, opts *RenderOptions) error {
	if opts.InputPath == "" || opts.OutputPath == "" {
		return errors.New("input and output paths are required")
	}

	logging.Init(opts.Verbose)
	log := logging.WithComponent("lyricvideo")

	cfg, err := style.GetPreset(string(opts.Preset))
	if err != nil {
		return err
	}
	if opts.Animation != "" {
		cfg.Animation = style.Animation(opts.Animation)
	}
	if opts.Align != "" {
		cfg.Align = style.Align(opts.Align)
	}
	if opts.Position != "" {
		cfg.Position = style.Position(opts.Position)
	}
	if opts.Opacity > 0 {
		cfg.Opacity = opts.Opacity
	}

	resolved, err := style.Resolve(cfg)
	if err != nil {
		return err
	}

	cues := subtitle.Sample()
	if opts.SubtitlePath != "" {
		raw, err := os.ReadFile(opts.SubtitlePath)
		if err != nil {
			return errors.Wrap(err, "failed to read subtitle file")
		}
		cues = subtitle.Parse(string(raw))
		if len(cues) == 0 {
			return errors.Errorf("no usable cues in %s", opts.SubtitlePath)
		}
	}

	chain, err := overlay.Compile(cues, resolved)
	if err != nil {
		return err
	}

	processor := ffmpeg.NewProcessor(log)
	meta, err := processor.Probe(opts.InputPath)
	if err != nil {
		return err
	}

	log.Info().
		Str("input", opts.InputPath).
		Str("output", opts.OutputPath).
		Int("cues", len(cues)).
		Msg("rendering lyric video")

	return processor.Render(ctx, opts.InputPath, opts.OutputPath, chain, meta.HasAudio)
}

// GetSupportedPresets lists the built-in style preset names.
func GetSupportedPresets() []string {
	return style.GetSupportedPresets()
}
