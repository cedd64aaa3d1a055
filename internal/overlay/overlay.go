// Package overlay translates caption cues and a resolved style into the
// chain of drawtext operations handed to the encoder.
package overlay

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lyricforge/lyricforge/internal/style"
	"github.com/lyricforge/lyricforge/internal/subtitle"
)

// Operation composites a single caption line onto the visual stream for its
// time window. Each operation consumes the stream labelled InLabel and
// produces OutLabel.
type Operation struct {
	Text      string // escaped for drawtext
	Start     float64
	End       float64
	XExpr     string
	YExpr     string
	AlphaExpr string
	FontColor string // bare 6-hex
	BoxColor  string // bare 6-hex
	BoxAlpha  float64
	FontSize  int
	FontFile  string
	InLabel   string
	OutLabel  string
}

// Chain is the ordered, append-only sequence of overlay operations for one
// render. Operation 0 consumes the decoded input stream; the last
// operation's output label is mapped into the encode stage.
type Chain struct {
	Ops []Operation
}

const inputLabel = "[0:v]"

// Compile produces exactly one operation per cue, in document order, each
// gated to the cue's own [start,end] window. Empty or whitespace text still
// yields an operation; the result is simply invisible.
func Compile(cues []subtitle.Cue, resolved style.Resolved) (*Chain, error) {
	if len(cues) == 0 {
		return nil, fmt.Errorf("cannot compile an empty caption sequence")
	}

	chain := &Chain{Ops: make([]Operation, 0, len(cues))}
	in := inputLabel
	for i, cue := range cues {
		out := fmt.Sprintf("[ov%d]", i+1)
		chain.Ops = append(chain.Ops, Operation{
			Text:      style.EscapeText(cue.Text),
			Start:     cue.Start,
			End:       cue.End,
			XExpr:     resolved.XExprFor(cue.Start, cue.End),
			YExpr:     resolved.YExprFor(cue.Start, cue.End),
			AlphaExpr: resolved.AlphaExprFor(cue.Start, cue.End),
			FontColor: resolved.FontColorHex,
			BoxColor:  resolved.BoxColorHex,
			BoxAlpha:  resolved.BoxAlpha,
			FontSize:  resolved.FontSize,
			FontFile:  resolved.FontFile,
			InLabel:   in,
			OutLabel:  out,
		})
		in = out
	}

	return chain, nil
}

// OutputLabel returns the label of the final operation's output stream.
func (c *Chain) OutputLabel() string {
	return c.Ops[len(c.Ops)-1].OutLabel
}

// FilterComplex renders the chain as an ffmpeg filter_complex graph.
func (c *Chain) FilterComplex() string {
	parts := make([]string, 0, len(c.Ops))
	for _, op := range c.Ops {
		parts = append(parts, op.InLabel+op.drawtext()+op.OutLabel)
	}
	return strings.Join(parts, ";")
}

// EnableExpr returns the window-gating expression for the operation.
func (op Operation) EnableExpr() string {
	return fmt.Sprintf("between(t,%s,%s)", formatSeconds(op.Start), formatSeconds(op.End))
}

func (op Operation) drawtext() string {
	var sb strings.Builder
	sb.WriteString("drawtext=")
	fmt.Fprintf(&sb, "text='%s'", op.Text)
	fmt.Fprintf(&sb, ":fontcolor=0x%s", op.FontColor)
	fmt.Fprintf(&sb, ":fontsize=%d", op.FontSize)
	fmt.Fprintf(&sb, ":x='%s'", op.XExpr)
	fmt.Fprintf(&sb, ":y='%s'", op.YExpr)
	sb.WriteString(":box=1")
	fmt.Fprintf(&sb, ":boxcolor=0x%s@%s", op.BoxColor, formatSeconds(op.BoxAlpha))
	fmt.Fprintf(&sb, ":boxborderw=%d", style.BoxBorderWidth)
	fmt.Fprintf(&sb, ":alpha='%s'", op.AlphaExpr)
	fmt.Fprintf(&sb, ":enable='%s'", op.EnableExpr())
	if op.FontFile != "" {
		fmt.Fprintf(&sb, ":fontfile=%s", op.FontFile)
	}
	return sb.String()
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
