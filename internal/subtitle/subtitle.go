package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cue is a single timed caption entry.
type Cue struct {
	Index int     `json:"index" bson:"index"`
	Start float64 `json:"start" bson:"start"`
	End   float64 `json:"end" bson:"end"`
	Text  string  `json:"text" bson:"text"`
}

var (
	blockSep    = regexp.MustCompile(`\n\s*\n`)
	timelinePat = regexp.MustCompile(`(\d{2}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2},\d{3})`)
	markupPat   = regexp.MustCompile(`<[^>]*>`)
)

// Parse reads an SRT document into cues. Malformed blocks (fewer than three
// lines, or an unparsable timestamp line) are skipped rather than failing
// the whole document. Inline markup tags are stripped from text lines.
//
// Cues are returned in document order. Out-of-order or overlapping
// timestamps are passed through unchanged; callers that need a different
// policy must apply it themselves.
func Parse(content string) []Cue {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	blocks := blockSep.Split(strings.TrimSpace(content), -1)

	cues := make([]Cue, 0, len(blocks))
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			continue
		}

		match := timelinePat.FindStringSubmatch(lines[1])
		if match == nil {
			continue
		}

		start, err := ParseTimestamp(match[1])
		if err != nil {
			continue
		}
		end, err := ParseTimestamp(match[2])
		if err != nil {
			continue
		}

		index, _ := strconv.Atoi(strings.TrimSpace(lines[0]))
		text := markupPat.ReplaceAllString(strings.Join(lines[2:], "\n"), "")

		cues = append(cues, Cue{
			Index: index,
			Start: start,
			End:   end,
			Text:  text,
		})
	}

	return cues
}

// ParseTimestamp converts an SRT timestamp (HH:MM:SS,mmm) to seconds.
func ParseTimestamp(ts string) (float64, error) {
	parts := strings.SplitN(ts, ",", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid timestamp: %s", ts)
	}

	clock := strings.Split(parts[0], ":")
	if len(clock) != 3 {
		return 0, fmt.Errorf("invalid timestamp: %s", ts)
	}

	h, err := strconv.Atoi(clock[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in timestamp: %s", ts)
	}
	m, err := strconv.Atoi(clock[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in timestamp: %s", ts)
	}
	s, err := strconv.Atoi(clock[2])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in timestamp: %s", ts)
	}
	ms, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid milliseconds in timestamp: %s", ts)
	}

	return float64(h*3600+m*60+s) + float64(ms)/1000, nil
}

// FormatTimestamp renders seconds as an SRT timestamp with millisecond
// precision.
func FormatTimestamp(seconds float64) string {
	totalMs := int64(seconds*1000 + 0.5)
	ms := totalMs % 1000
	totalSec := totalMs / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d",
		totalSec/3600, (totalSec/60)%60, totalSec%60, ms)
}

// Format serializes cues back to an SRT document.
func Format(cues []Cue) string {
	var sb strings.Builder
	for i, cue := range cues {
		if i > 0 {
			sb.WriteString("\n")
		}
		index := cue.Index
		if index == 0 {
			index = i + 1
		}
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n",
			index, FormatTimestamp(cue.Start), FormatTimestamp(cue.End), cue.Text)
	}
	return sb.String()
}

// Sample returns the built-in caption set used when no subtitle file was
// supplied.
func Sample() []Cue {
	return []Cue{
		{Index: 1, Start: 0.5, End: 3.0, Text: "Welcome to LyricAI"},
		{Index: 2, Start: 3.5, End: 6.0, Text: "Create beautiful lyric videos"},
		{Index: 3, Start: 6.5, End: 9.0, Text: "With stunning animations"},
		{Index: 4, Start: 9.5, End: 12.0, Text: "And professional styles"},
	}
}
