package paginate

import (
	"github.com/leafreader/core/pkg/body"
	"github.com/leafreader/core/pkg/layout"
)

// consumeBackward consumes lines[:upTo] from the end (highest index)
// downward while budget allows one opts.LineAdvance at a time. It
// returns the index of the first line NOT consumed (the new start line
// within this paragraph if stopping here), how much budget it spent, and
// whether every line up to upTo was consumed.
func consumeBackward(lines []layout.Line, upTo, budget, lineAdvance int) (stopLine, used int, full bool) {
	if upTo < 0 || upTo > len(lines) {
		upTo = len(lines)
	}
	i := upTo
	for i > 0 && used+lineAdvance <= budget {
		used += lineAdvance
		i--
	}
	return i, used, i == 0
}

// backward computes the new start Progress by laying out paragraphs
// backward from start and consuming their lines from the last line
// upward. It returns exhausted=true if it ran off the beginning of the
// chapter with page budget still unspent, meaning the caller should
// continue into the previous chapter.
func backward(ch *body.Chapter, start Progress, opts Options) (Progress, bool) {
	budget := opts.PageHeight
	spacing := opts.ParagraphSpacing()

	if start.Line > 0 && !paragraphEmpty(ch, start.Paragraph) {
		lines := paragraphLines(ch, start.Paragraph, opts)
		stop, used, full := consumeBackward(lines, start.Line, budget, opts.LineAdvance)
		budget -= used
		if !full {
			return Progress{start.Paragraph, stop}, false
		}
		if budget <= 0 {
			return Progress{start.Paragraph, 0}, false
		}
		budget -= spacing
	}

	for p := start.Paragraph - 1; p >= 0; p-- {
		if paragraphEmpty(ch, p) {
			continue
		}
		lines := paragraphLines(ch, p, opts)
		stop, used, full := consumeBackward(lines, len(lines), budget, opts.LineAdvance)
		if !full {
			return Progress{p, stop}, false
		}
		budget -= used
		if budget <= 0 {
			return Progress{p, 0}, false
		}
		if p > 0 {
			budget -= spacing
		}
	}
	return Progress{0, 0}, true
}

// chapterEnd is the Progress PrevPage re-runs from when it falls off the
// start of a chapter into the one before it.
func chapterEnd(ch *body.Chapter) Progress {
	return Progress{len(ch.Paragraphs), 0}
}
