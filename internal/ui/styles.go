// Package ui renders cm output for terminals: ANSI colors keyed to the
// taxonomy styles and terminal capability checks.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/alfredjeanlab/cinemap/internal/taxonomy"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = 74  // blue
	colorCmd    = 250 // light gray
	colorMuted  = 245 // medium gray
	colorWarn   = 214 // orange
)

var noColor bool

func render256(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render256(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render256(colorMuted, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return render256(colorCmd, s) }

// RenderWarn returns s in the warning (orange) color.
func RenderWarn(s string) string { return render256(colorWarn, s) }

// RenderHex returns s in the 24-bit color given as "#rrggbb". Malformed
// colors leave s unstyled.
func RenderHex(hex, s string) string {
	if noColor {
		return s
	}
	r, g, b, ok := parseHex(hex)
	if !ok {
		return s
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", r, g, b, s)
}

func parseHex(hex string) (r, g, b uint8, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// RenderStyle prefixes s with the style's glyph, both in the style's color.
func RenderStyle(st taxonomy.Style, s string) string {
	return RenderHex(st.Color, st.Glyph+" "+s)
}

// RenderNode renders a node title with its layer or domain style. Unclear
// nodes get a trailing marker.
func RenderNode(n model.Node) string {
	out := RenderStyle(taxonomy.StyleFor(n.Layer, n.Domain), n.Title)
	if n.Unclear {
		out += " " + RenderWarn("?")
	}
	return out
}

// RenderStrength draws a connection strength as a five-step bar.
func RenderStrength(strength int) string {
	strength = model.ClampStrength(strength)
	return RenderAccent(strings.Repeat("●", strength)) + RenderMuted(strings.Repeat("○", model.MaxStrength-strength))
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
