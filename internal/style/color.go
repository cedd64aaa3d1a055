package style

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	hexPat  = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)
	rgbaPat = regexp.MustCompile(`(?i)rgba\s*\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*([0-9.]+)\s*\)`)
)

// NormalizeColor resolves a color to a bare 6-hex-digit value. Accepted
// forms are "#RRGGBB", bare "RRGGBB" and "rgba(r,g,b,a)" (alpha dropped,
// components clamped to [0,255]). Anything else yields the fallback.
func NormalizeColor(color, fallback string) string {
	if color == "" {
		return fallback
	}
	if m := hexPat.FindStringSubmatch(color); m != nil {
		return strings.ToLower(m[1])
	}
	if hex, _, ok := parseRGBA(color); ok {
		return hex
	}
	return fallback
}

// NormalizeColorAlpha resolves a color the same way as NormalizeColor and
// pairs it with an alpha: the rgba alpha channel when present, otherwise
// defaultAlpha.
func NormalizeColorAlpha(color string, defaultAlpha float64, fallback string) (string, float64) {
	if color == "" {
		return fallback, defaultAlpha
	}
	if hex, alpha, ok := parseRGBA(color); ok {
		return hex, alpha
	}
	return NormalizeColor(color, fallback), defaultAlpha
}

func parseRGBA(color string) (hex string, alpha float64, ok bool) {
	m := rgbaPat.FindStringSubmatch(color)
	if m == nil {
		return "", 0, false
	}

	r, _ := strconv.Atoi(m[1])
	g, _ := strconv.Atoi(m[2])
	b, _ := strconv.Atoi(m[3])
	a, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		a = 1
	}

	return fmt.Sprintf("%02x%02x%02x", clamp255(r), clamp255(g), clamp255(b)),
		clamp01(a), true
}

func clamp255(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EscapeText escapes caption text for use inside a drawtext filter:
// backslashes are doubled, colons and single quotes backslash-escaped so
// literal text cannot be read as filter syntax.
func EscapeText(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `:`, `\:`)
	text = strings.ReplaceAll(text, `'`, `\'`)
	return text
}
