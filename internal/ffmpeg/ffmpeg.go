// Package ffmpeg wraps probing and encoding through the external ffmpeg
// binary via ffmpeg-go.
package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/lyricforge/lyricforge/internal/overlay"
)

// Fixed output encoding: streaming-friendly mp4, low-latency preset.
const (
	VideoCodec = "libx264"
	AudioCodec = "aac"
	Preset     = "ultrafast"
	Tune       = "zerolatency"
	MovFlags   = "+faststart"
	PixFmt     = "yuv420p"
)

// Metadata describes a probed video file.
type Metadata struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
	HasAudio bool
}

// Processor runs ffmpeg/ffprobe invocations.
type Processor struct {
	log zerolog.Logger
}

// NewProcessor creates a Processor that logs through the given logger.
func NewProcessor(log zerolog.Logger) *Processor {
	return &Processor{log: log}
}

// Probe retrieves metadata about a video file.
func (p *Processor) Probe(inputPath string) (*Metadata, error) {
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, errors.Wrap(err, "error probing video")
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	streams, ok := data["streams"].([]interface{})
	if !ok || len(streams) == 0 {
		return nil, errors.New("no streams found in video")
	}

	var videoStream map[string]interface{}
	hasAudio := false
	for _, stream := range streams {
		s, ok := stream.(map[string]interface{})
		if !ok {
			continue
		}
		switch s["codec_type"] {
		case "video":
			if videoStream == nil {
				videoStream = s
			}
		case "audio":
			hasAudio = true
		}
	}

	if videoStream == nil {
		return nil, errors.New("no video stream found")
	}

	var duration float64

	// First try video stream duration
	if durationStr, ok := videoStream["duration"].(string); ok {
		if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
			duration = d
		}
	}

	// If stream duration is not available, try format duration
	if duration == 0 {
		if format, ok := data["format"].(map[string]interface{}); ok {
			if durationStr, ok := format["duration"].(string); ok {
				if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
					duration = d
				}
			}
		}
	}

	width, _ := videoStream["width"].(float64)
	height, _ := videoStream["height"].(float64)
	codec, _ := videoStream["codec_name"].(string)

	return &Metadata{
		Duration: duration,
		Width:    int(width),
		Height:   int(height),
		Codec:    codec,
		HasAudio: hasAudio,
	}, nil
}

// Render burns the overlay chain into the source video, writing the fixed
// mp4 encode to outputPath. The ffmpeg process is killed when ctx is
// cancelled, so a caller-side timeout stops the in-flight encode.
func (p *Processor) Render(ctx context.Context, inputPath, outputPath string, chain *overlay.Chain, hasAudio bool) error {
	outputKwargs := ffmpeg.KwArgs{
		"c:v":            VideoCodec,
		"preset":         Preset,
		"tune":           Tune,
		"movflags":       MovFlags,
		"pix_fmt":        PixFmt,
		"filter_complex": chain.FilterComplex(),
		"threads":        GetOptimalThreadCount(),
	}
	if hasAudio {
		outputKwargs["c:a"] = AudioCodec
		outputKwargs["map"] = []string{chain.OutputLabel(), "0:a"}
	} else {
		outputKwargs["map"] = chain.OutputLabel()
	}

	cmd := ffmpeg.Input(inputPath).
		Output(outputPath, outputKwargs).
		OverWriteOutput().
		Compile()

	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr

	p.log.Debug().
		Str("input", inputPath).
		Str("output", outputPath).
		Int("operations", len(chain.Ops)).
		Msg("starting encode")

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start ffmpeg")
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		p.log.Warn().Str("output", outputPath).Msg("encode cancelled")
		return ctx.Err()
	case err := <-done:
		if err != nil {
			// Diagnostic output stays in operator logs; callers only see
			// the wrapped top-level error.
			p.log.Error().Str("stderr", tail(stderr.String(), 2048)).Msg("ffmpeg failed")
			return errors.Wrap(err, "ffmpeg encode failed")
		}
	}

	p.log.Debug().Str("output", outputPath).Msg("encode completed")
	return nil
}

// GetOptimalThreadCount uses 75% of available cores to prevent overload.
func GetOptimalThreadCount() int {
	cpuCount := runtime.NumCPU()
	return int(math.Max(1, float64(cpuCount)*0.75))
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
