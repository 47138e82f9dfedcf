// Package body implements a styled-run builder: an XHTML body traversal
// over pkg/xmlstream events that emits a Chapter of Paragraphs, folding
// inline style attributes and stylesheet matches (pkg/css) into a style
// stack as it walks the document tree.
package body

import "github.com/leafreader/core/pkg/css"

// FontStyle is the closed set of font styles a Run can carry.
type FontStyle int

const (
	Regular FontStyle = iota
	Bold
	Italic
	BoldItalic
)

func styleFor(bold, italic bool) FontStyle {
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	default:
		return Regular
	}
}

// Run is a maximal span of text sharing one font style within a
// Paragraph. Breaking marks a Run that forces a line break after it
// during layout (from a <br> or <tr> element).
type Run struct {
	Text     string
	Style    FontStyle
	Breaking bool
}

// Paragraph is an ordered list of Runs plus an optional alignment/indent
// override picked up from CSS while the paragraph's block element was
// open.
type Paragraph struct {
	Runs      []Run
	Alignment css.Alignment // css.AlignUnset if unset
	IndentPx  int
	HasIndent bool
}

// Chapter is the traversal's output: an optional title (from the NCX, set
// by the caller, not by this package) and an ordered list of Paragraphs.
type Chapter struct {
	Title      string
	Paragraphs []Paragraph
}
