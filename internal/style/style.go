package style

import (
	"fmt"
	"strconv"

	"golang.org/x/exp/slices"
)

// Animation selects the per-cue motion applied to a caption line.
type Animation string

// Align selects the horizontal anchor of a caption line.
type Align string

// Position selects the vertical anchor of a caption line.
type Position string

const (
	AnimationFade  Animation = "fade"
	AnimationSlide Animation = "slide"
	AnimationPop   Animation = "pop"
	AnimationNone  Animation = "none"

	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"

	PositionTop    Position = "top"
	PositionMiddle Position = "middle"
	PositionBottom Position = "bottom"
)

var (
	animations = []Animation{AnimationFade, AnimationSlide, AnimationPop, AnimationNone}
	aligns     = []Align{AlignLeft, AlignCenter, AlignRight}
	positions  = []Position{PositionTop, PositionMiddle, PositionBottom}
)

// Layout constants shared by every render.
const (
	MarginX = 50 // px from left/right edges
	MarginY = 50 // px from top/bottom edges

	FadeDuration  = 0.25 // seconds of fade-in and fade-out
	SlideDuration = 0.3  // seconds to ease into position
	SlideOffset   = 20   // px below the anchor at slide start
	PopDuration   = 0.2  // seconds held above the anchor
	PopOffset     = 5    // px above the anchor during the pop

	BoxBorderWidth = 10

	DefaultFontSize        = 32
	DefaultOpacity         = 1.0
	DefaultBackgroundAlpha = 0.1

	defaultFontColorHex = "ffffff"
	defaultBoxColorHex  = "000000"
)

// Config is the user-facing caption style. Enumerated fields are validated
// at the boundary; empty fields fall back to documented defaults during
// Resolve.
type Config struct {
	FontFamily string    `json:"fontFamily" bson:"fontFamily"`
	FontSize   float64   `json:"fontSize" bson:"fontSize"`
	Color      string    `json:"color" bson:"color"`
	Background string    `json:"background" bson:"background"`
	Animation  Animation `json:"animation" bson:"animation"`
	Align      Align     `json:"align" bson:"align"`
	Position   Position  `json:"position" bson:"position"`
	Opacity    float64   `json:"opacity" bson:"opacity"`
}

// Validate rejects enum values outside the supported sets. Empty enum
// fields are allowed and resolve to defaults.
func (c Config) Validate() error {
	if c.Animation != "" && !slices.Contains(animations, c.Animation) {
		return fmt.Errorf("unsupported animation %q", c.Animation)
	}
	if c.Align != "" && !slices.Contains(aligns, c.Align) {
		return fmt.Errorf("unsupported align %q", c.Align)
	}
	if c.Position != "" && !slices.Contains(positions, c.Position) {
		return fmt.Errorf("unsupported position %q", c.Position)
	}
	if c.Opacity < 0 || c.Opacity > 1 {
		return fmt.Errorf("opacity %v outside [0,1]", c.Opacity)
	}
	if c.FontSize < 0 {
		return fmt.Errorf("font size %v is negative", c.FontSize)
	}
	return nil
}

// Resolved holds the renderer-primitive form of a Config: hex colors with
// separate alpha, pixel anchor expressions and an optional font file.
type Resolved struct {
	FontColorHex string
	BoxColorHex  string
	BoxAlpha     float64
	FontSize     int
	FontFile     string
	XExpr        string
	YExpr        string
	Animation    Animation
	Opacity      float64
}

// Resolve normalizes a Config into renderer primitives. The zero values of
// enum fields resolve to none/center/bottom; a zero font size resolves to
// DefaultFontSize and a zero opacity to full opacity.
func Resolve(c Config) (Resolved, error) {
	if err := c.Validate(); err != nil {
		return Resolved{}, err
	}

	animation := c.Animation
	if animation == "" {
		animation = AnimationNone
	}
	align := c.Align
	if align == "" {
		align = AlignCenter
	}
	position := c.Position
	if position == "" {
		position = PositionBottom
	}

	fontSize := int(c.FontSize)
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	opacity := c.Opacity
	if opacity == 0 {
		opacity = DefaultOpacity
	}

	boxHex, boxAlpha := NormalizeColorAlpha(c.Background, DefaultBackgroundAlpha, defaultBoxColorHex)

	return Resolved{
		FontColorHex: NormalizeColor(c.Color, defaultFontColorHex),
		BoxColorHex:  boxHex,
		BoxAlpha:     boxAlpha,
		FontSize:     fontSize,
		FontFile:     FindFontFile(),
		XExpr:        xAnchor(align),
		YExpr:        yAnchor(position),
		Animation:    animation,
		Opacity:      opacity,
	}, nil
}

func yAnchor(p Position) string {
	switch p {
	case PositionTop:
		return strconv.Itoa(MarginY)
	case PositionMiddle:
		return "(h-text_h)/2"
	default:
		return fmt.Sprintf("h-text_h-%d", MarginY)
	}
}

func xAnchor(a Align) string {
	switch a {
	case AlignLeft:
		return strconv.Itoa(MarginX)
	case AlignRight:
		return fmt.Sprintf("w-text_w-%d", MarginX)
	default:
		return "(w-text_w)/2"
	}
}

// XExprFor returns the horizontal position expression for a cue window.
// No animation moves lines horizontally, so this is always the anchor.
func (r Resolved) XExprFor(start, end float64) string {
	return r.XExpr
}

// YExprFor returns the vertical position expression for a cue window,
// applying the slide and pop offsets relative to the window start.
func (r Resolved) YExprFor(start, end float64) string {
	s := formatSeconds(start)
	switch r.Animation {
	case AnimationSlide:
		// Ease up from SlideOffset px below the anchor over SlideDuration.
		return fmt.Sprintf("if(between(t,%s,%s+%v), %s+%d*(1-((t-%s)/%v)), %s)",
			s, s, SlideDuration, r.YExpr, SlideOffset, s, SlideDuration, r.YExpr)
	case AnimationPop:
		return fmt.Sprintf("if(between(t,%s,%s+%v), %s-%d, %s)",
			s, s, PopDuration, r.YExpr, PopOffset, r.YExpr)
	default:
		return r.YExpr
	}
}

// AlphaExprFor returns the opacity expression for a cue window. Fade ramps
// from zero to the configured opacity over the first FadeDuration seconds
// and back to zero over the last; every other animation uses the static
// configured opacity.
func (r Resolved) AlphaExprFor(start, end float64) string {
	if r.Animation != AnimationFade {
		return formatSeconds(r.Opacity)
	}
	s := formatSeconds(start)
	e := formatSeconds(end)
	o := formatSeconds(r.Opacity)
	return fmt.Sprintf("if(between(t,%s,%s+%v),%s*((t-%s)/%v),if(between(t,%s-%v,%s),%s*((%s-t)/%v),%s))",
		s, s, FadeDuration, o, s, FadeDuration,
		e, FadeDuration, e, o, e, FadeDuration, o)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
