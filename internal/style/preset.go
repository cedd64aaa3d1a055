package style

import (
	"fmt"
	"sort"
)

// Built-in style presets.
var presets = map[string]Config{
	"minimal-white": {
		FontFamily: "Inter, sans-serif",
		FontSize:   42,
		Color:      "#ffffff",
		Background: "rgba(0, 0, 0, 0.3)",
		Animation:  AnimationFade,
		Align:      AlignCenter,
		Position:   PositionBottom,
		Opacity:    1.0,
	},
	"retro-neon": {
		FontFamily: "Courier New, monospace",
		FontSize:   48,
		Color:      "#ff6ec7",
		Background: "rgba(255, 110, 199, 0.1)",
		Animation:  AnimationFade,
		Align:      AlignCenter,
		Position:   PositionMiddle,
		Opacity:    1.0,
	},
	"lofi-type": {
		FontFamily: "Courier, monospace",
		FontSize:   38,
		Color:      "#c9ada7",
		Background: "rgba(201, 173, 167, 0.2)",
		Animation:  AnimationSlide,
		Align:      AlignCenter,
		Position:   PositionBottom,
		Opacity:    1.0,
	},
	"cinematic": {
		FontFamily: "Georgia, serif",
		FontSize:   52,
		Color:      "#f5f5f5",
		Background: "rgba(0, 0, 0, 0.5)",
		Animation:  AnimationPop,
		Align:      AlignCenter,
		Position:   PositionMiddle,
		Opacity:    1.0,
	},
}

// GetPreset returns the named built-in style preset.
func GetPreset(name string) (Config, error) {
	preset, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown style preset: %s", name)
	}
	return preset, nil
}

// GetSupportedPresets lists the built-in preset names.
func GetSupportedPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
