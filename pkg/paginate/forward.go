package paginate

import "github.com/leafreader/core/pkg/body"

// forward walks ch forward from start, filling opts.PageHeight. It
// returns the placed lines and the end Progress: either the first
// (paragraph, line) that did not fit, or (len(ch.Paragraphs), 0) if the
// whole remainder of the chapter fit on the page.
func forward(ch *body.Chapter, start Progress, opts Options) Page {
	var placed []PlacedLine
	y := 0

	paragraph := start.Paragraph
	for paragraph < len(ch.Paragraphs) {
		onStartParagraph := paragraph == start.Paragraph
		if !(onStartParagraph && start.Line > 0) && len(placed) > 0 {
			y += opts.ParagraphSpacing()
		}

		if paragraphEmpty(ch, paragraph) {
			paragraph++
			continue
		}

		lines := paragraphLines(ch, paragraph, opts)
		startLine := 0
		if onStartParagraph {
			startLine = start.Line
		}

		for li := startLine; li < len(lines); li++ {
			if y+opts.LineAdvance > opts.PageHeight {
				return Page{Start: start, End: Progress{paragraph, li}, Lines: placed}
			}
			placed = append(placed, PlacedLine{Y: y, Line: lines[li]})
			y += opts.LineAdvance
		}
		paragraph++
	}
	return Page{Start: start, End: Progress{paragraph, 0}, Lines: placed}
}

// AtChapterEnd reports whether end names the position just past the
// chapter's last paragraph, the signal NextPage uses to roll over to the
// next chapter at (0, 0).
func AtChapterEnd(ch *body.Chapter, end Progress) bool {
	return end.Paragraph >= len(ch.Paragraphs)
}
