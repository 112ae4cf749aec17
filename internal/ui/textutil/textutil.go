// Package textutil provides unicode-aware text utilities for card rendering.
package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateEllipsis is the unicode ellipsis character used for truncation.
const TruncateEllipsis = "…"

// VisualWidth returns the number of terminal columns s occupies.
// s must not contain ANSI escape codes.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most maxWidth columns, ending with an ellipsis
// when anything was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisualWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, TruncateEllipsis)
}

// Clip shortens s to at most maxWidth columns without an ellipsis. Controls
// are clipped rather than ellipsized so their hit areas stay aligned with
// what is drawn.
func Clip(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "")
}

// Column returns a vertical strip of height lines, each cell repeated width
// times.
func Column(cell string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	line := strings.Repeat(cell, width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
