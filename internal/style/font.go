package style

import "os"

// Font fallback across OSes. drawtext falls back to its built-in default
// when none of these exist on the host.
var fontCandidates = []string{
	"C:/Windows/Fonts/arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/Library/Fonts/Arial.ttf",
}

// FindFontFile returns the first available font file from the candidate
// list, or empty when none exists.
func FindFontFile() string {
	for _, path := range fontCandidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
