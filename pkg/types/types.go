package types

// StylePreset names a built-in caption style.
type StylePreset string

const (
	StylePresetMinimalWhite StylePreset = "minimal-white"
	StylePresetRetroNeon    StylePreset = "retro-neon"
	StylePresetLofiType     StylePreset = "lofi-type"
	StylePresetCinematic    StylePreset = "cinematic"
)
