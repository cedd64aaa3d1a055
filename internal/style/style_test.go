package style

import (
	"fmt"
	"strings"
	"testing"
)

func TestNormalizeColor(t *testing.T) {
	cases := []struct {
		in       string
		fallback string
		want     string
	}{
		{"#ff0000", "ffffff", "ff0000"},
		{"#FF0000", "ffffff", "ff0000"},
		{"00ff00", "ffffff", "00ff00"},
		{"rgba(0, 0, 0, 0.5)", "ffffff", "000000"},
		{"rgba(18,52,86,1)", "ffffff", "123456"},
		{"", "ffffff", "ffffff"},
		{"blue", "ffffff", "ffffff"},
		{"#fff", "ffffff", "ffffff"},
	}
	for _, tc := range cases {
		if got := NormalizeColor(tc.in, tc.fallback); got != tc.want {
			t.Errorf("NormalizeColor(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeColorClampsComponents(t *testing.T) {
	if got := NormalizeColor("rgba(300, 0, 0, 0.5)", "ffffff"); got != "ff0000" {
		t.Errorf("got %q, want ff0000", got)
	}
}

func TestNormalizeColorAlphaRGBA(t *testing.T) {
	// hex encoding of (r,g,b) paired with the rgba alpha channel
	for r := 0; r <= 255; r += 85 {
		in := fmt.Sprintf("rgba(%d, 34, 56, 0.25)", r)
		hex, alpha := NormalizeColorAlpha(in, 0.1, "000000")
		want := fmt.Sprintf("%02x2238", r)
		if hex != want {
			t.Errorf("hex for %q = %q, want %q", in, hex, want)
		}
		if alpha != 0.25 {
			t.Errorf("alpha for %q = %v, want 0.25", in, alpha)
		}
	}
}

func TestNormalizeColorAlphaDefault(t *testing.T) {
	hex, alpha := NormalizeColorAlpha("#102030", 0.1, "000000")
	if hex != "102030" || alpha != 0.1 {
		t.Errorf("got (%q, %v), want (102030, 0.1)", hex, alpha)
	}

	hex, alpha = NormalizeColorAlpha("", 0.1, "000000")
	if hex != "000000" || alpha != 0.1 {
		t.Errorf("got (%q, %v), want (000000, 0.1)", hex, alpha)
	}
}

func TestResolveScenario(t *testing.T) {
	resolved, err := Resolve(Config{
		Color:      "#ff0000",
		Background: "rgba(0,0,0,0.5)",
		Opacity:    0.9,
		Animation:  AnimationFade,
		Align:      AlignCenter,
		Position:   PositionBottom,
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if resolved.FontColorHex != "ff0000" {
		t.Errorf("font color = %q, want ff0000", resolved.FontColorHex)
	}
	if resolved.BoxColorHex != "000000" || resolved.BoxAlpha != 0.5 {
		t.Errorf("box = (%q, %v), want (000000, 0.5)", resolved.BoxColorHex, resolved.BoxAlpha)
	}

	alpha := resolved.AlphaExprFor(1.0, 4.0)
	if !strings.Contains(alpha, "0.9*((t-1)/0.25)") {
		t.Errorf("fade alpha does not ramp to configured opacity: %s", alpha)
	}
	if !strings.Contains(alpha, "0.9*((4-t)/0.25)") {
		t.Errorf("fade alpha does not ramp back down: %s", alpha)
	}
}

func TestResolveRejectsUnknownEnums(t *testing.T) {
	cases := []Config{
		{Animation: "sparkle"},
		{Align: "justified"},
		{Position: "floating"},
		{Opacity: 1.5},
		{FontSize: -1},
	}
	for _, cfg := range cases {
		if _, err := Resolve(cfg); err == nil {
			t.Errorf("Resolve(%+v) succeeded, want error", cfg)
		}
	}
}

func TestResolveDefaults(t *testing.T) {
	resolved, err := Resolve(Config{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.FontColorHex != "ffffff" {
		t.Errorf("default font color = %q, want ffffff", resolved.FontColorHex)
	}
	if resolved.BoxAlpha != DefaultBackgroundAlpha {
		t.Errorf("default box alpha = %v, want %v", resolved.BoxAlpha, DefaultBackgroundAlpha)
	}
	if resolved.FontSize != DefaultFontSize {
		t.Errorf("default font size = %d, want %d", resolved.FontSize, DefaultFontSize)
	}
	if resolved.Opacity != DefaultOpacity {
		t.Errorf("default opacity = %v, want %v", resolved.Opacity, DefaultOpacity)
	}
	if resolved.Animation != AnimationNone {
		t.Errorf("default animation = %q, want none", resolved.Animation)
	}
	if resolved.XExpr != "(w-text_w)/2" {
		t.Errorf("default x anchor = %q", resolved.XExpr)
	}
	if resolved.YExpr != "h-text_h-50" {
		t.Errorf("default y anchor = %q", resolved.YExpr)
	}
}

func TestAnchors(t *testing.T) {
	cases := []struct {
		align    Align
		position Position
		x, y     string
	}{
		{AlignLeft, PositionTop, "50", "50"},
		{AlignRight, PositionMiddle, "w-text_w-50", "(h-text_h)/2"},
		{AlignCenter, PositionBottom, "(w-text_w)/2", "h-text_h-50"},
	}
	for _, tc := range cases {
		resolved, err := Resolve(Config{Align: tc.align, Position: tc.position})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if resolved.XExpr != tc.x {
			t.Errorf("x anchor for %s = %q, want %q", tc.align, resolved.XExpr, tc.x)
		}
		if resolved.YExpr != tc.y {
			t.Errorf("y anchor for %s = %q, want %q", tc.position, resolved.YExpr, tc.y)
		}
	}
}

func TestSlideExpression(t *testing.T) {
	resolved, err := Resolve(Config{Animation: AnimationSlide, Position: PositionBottom})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	y := resolved.YExprFor(2.0, 5.0)
	if !strings.Contains(y, "between(t,2,2+0.3)") {
		t.Errorf("slide window missing: %s", y)
	}
	if !strings.Contains(y, "h-text_h-50+20*(1-((t-2)/0.3))") {
		t.Errorf("slide offset missing: %s", y)
	}
	if resolved.XExprFor(2.0, 5.0) != resolved.XExpr {
		t.Error("slide must not move lines horizontally")
	}
}

func TestPopExpression(t *testing.T) {
	resolved, err := Resolve(Config{Animation: AnimationPop, Position: PositionTop})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	y := resolved.YExprFor(1.0, 2.0)
	if !strings.Contains(y, "between(t,1,1+0.2)") || !strings.Contains(y, "50-5") {
		t.Errorf("unexpected pop expression: %s", y)
	}
}

func TestStaticAlphaWithoutFade(t *testing.T) {
	resolved, err := Resolve(Config{Animation: AnimationNone, Opacity: 0.9})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := resolved.AlphaExprFor(0, 10); got != "0.9" {
		t.Errorf("static alpha = %q, want 0.9", got)
	}
}

func TestEscapeText(t *testing.T) {
	cases := []struct{ in, want string }{
		{`plain`, `plain`},
		{`it's 5:00`, `it\'s 5\:00`},
		{`back\slash`, `back\\slash`},
	}
	for _, tc := range cases {
		if got := EscapeText(tc.in); got != tc.want {
			t.Errorf("EscapeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPresets(t *testing.T) {
	names := GetSupportedPresets()
	if len(names) == 0 {
		t.Fatal("no presets registered")
	}
	for _, name := range names {
		preset, err := GetPreset(name)
		if err != nil {
			t.Fatalf("GetPreset(%q) failed: %v", name, err)
		}
		if _, err := Resolve(preset); err != nil {
			t.Errorf("preset %q does not resolve: %v", name, err)
		}
	}

	if _, err := GetPreset("nope"); err == nil {
		t.Error("unknown preset succeeded, want error")
	}
}
