package layout

import (
	"strings"

	"github.com/leafreader/core/pkg/body"
	"github.com/leafreader/core/pkg/css"
)

// Layout lays runs into a sequence of Lines at the given alignment and
// first-line indent, per the greedy per-run, per-word algorithm of
// spec.md §4.7.
func Layout(runs []body.Run, opts Options, align css.Alignment, indentPx int) []Line {
	lo := &layouter{
		width:    opts.Width,
		language: opts.Language,
		font:     opts.Font,
		align:    align,
		x:        indentPx,
	}
	for _, run := range runs {
		words := strings.Fields(run.Text)
		for _, w := range words {
			lo.placeWord(w, run.Style)
		}
		if run.Breaking {
			if len(lo.current) > 0 || len(lo.lines) > 0 {
				lo.flushLine(false)
				lo.x = 0
			}
		}
	}
	if len(lo.current) > 0 {
		lo.lines = append(lo.lines, nudgeAlign(lo.current, lo.align, lo.width, lo.x))
	}
	return lo.lines
}

type layouter struct {
	width    int
	language string
	font     FontMetrics
	align    css.Alignment

	lines   []Line
	current []Text
	x       int
}

func (lo *layouter) placeWord(word string, style body.FontStyle) {
	for {
		spaceBefore := 0
		if len(lo.current) > 0 {
			spaceBefore = lo.font.SpaceWidth(style)
		}
		wordW := lo.font.WordWidth(style, word)

		if lo.x+spaceBefore+wordW < lo.width {
			lo.x += spaceBefore
			lo.current = append(lo.current, Text{Text: word, X: lo.x, Style: style})
			lo.x += wordW
			return
		}

		dashW := lo.font.DashWidth(style)
		budget := lo.width - (lo.x + spaceBefore + dashW)
		prefix, suffix, ok := Hyphenate(word, lo.language, budget, style, lo.font)
		hyphenated := false
		if ok {
			px := lo.x + spaceBefore
			prefixW := lo.font.WordWidth(style, prefix)
			lo.current = append(lo.current, Text{Text: prefix, X: px, Style: style})
			lo.x = px + prefixW + dashW
			hyphenated = true
		}
		lo.flushLine(hyphenated)
		lo.x = 0

		if ok {
			word = suffix
			continue
		}
		if lo.font.WordWidth(style, word) >= lo.width {
			// Nothing fits a fresh line either; place it anyway so
			// layout always makes forward progress.
			lo.current = append(lo.current, Text{Text: word, X: 0, Style: style})
			lo.x = lo.font.WordWidth(style, word)
			return
		}
	}
}

func (lo *layouter) flushLine(hyphenated bool) {
	var line Line
	if lo.align == css.AlignJustify {
		line = justifyAlign(lo.current, lo.width, lo.x)
	} else {
		line = nudgeAlign(lo.current, lo.align, lo.width, lo.x)
	}
	line.Hyphenated = hyphenated
	lo.lines = append(lo.lines, line)
	lo.current = nil
}

// nudgeAlign handles Start/Center/End (and Justify's last-line fallback,
// which is never justified): it shifts every placed Text by a constant
// offset derived from the unused trailing space.
func nudgeAlign(texts []Text, align css.Alignment, width, usedX int) Line {
	unused := width - usedX
	if unused < 0 {
		unused = 0
	}
	var dx int
	switch align {
	case css.AlignCenter:
		dx = unused / 2
	case css.AlignEnd:
		dx = unused
	default: // AlignStart, AlignUnset, AlignJustify-as-last-line
		dx = 0
	}
	out := make([]Text, len(texts))
	for i, t := range texts {
		t.X += dx
		out[i] = t
	}
	return Line{Texts: out}
}

// justifyAlign distributes unused trailing space evenly across the gaps
// between words, with any remainder (space mod gapCount) given one pixel
// at a time to the leftmost gaps first.
func justifyAlign(texts []Text, width, usedX int) Line {
	out := make([]Text, len(texts))
	copy(out, texts)
	if len(out) < 2 {
		return Line{Texts: out}
	}
	space := width - usedX
	if space <= 0 {
		return Line{Texts: out}
	}
	gapCount := len(out) - 1
	base := space / gapCount
	rem := space % gapCount

	cum := 0
	for i := 1; i < len(out); i++ {
		inc := base
		if i-1 < rem {
			inc++
		}
		cum += inc
		out[i].X += cum
	}
	return Line{Texts: out}
}
