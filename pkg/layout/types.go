// Package layout implements the text layout engine (L): word wrapping,
// greedy hyphenation, horizontal alignment, and per-paragraph line
// placement over a styled-run model, per spec.md §4.7.
package layout

import (
	"github.com/leafreader/core/pkg/body"
)

// FontMetrics is the minimal per-style metrics surface the layout engine
// needs from a font: the advance width of a word (a run of non-whitespace
// bytes), of a space, and of a hyphen in the given style. Implementations
// of this, and the full font contract §6 consumes, live in pkg/render.
type FontMetrics interface {
	WordWidth(style body.FontStyle, word string) int
	SpaceWidth(style body.FontStyle) int
	DashWidth(style body.FontStyle) int
}

// Options mirrors spec.md's LayoutOptions: a value type cheap to copy,
// holding the line width, the hyphenation language, and the font metrics
// surface.
type Options struct {
	Width    int
	Language string
	Font     FontMetrics
}

// Text is one placed word within a Line: the text slice, its x offset
// from the line's left edge, and the style it should render in.
type Text struct {
	Text  string
	X     int
	Style body.FontStyle
}

// Line is one line of placed Texts, plus whether it ends in a hyphen
// inserted by the layout engine (as opposed to a natural word break).
type Line struct {
	Texts      []Text
	Hyphenated bool
}
