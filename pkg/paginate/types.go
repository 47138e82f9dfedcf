// Package paginate implements the paginator: walking forward and
// backward from a Progress cursor to fill a page-height budget over a
// Chapter's paragraphs.
package paginate

import (
	"github.com/leafreader/core/pkg/body"
	"github.com/leafreader/core/pkg/css"
	"github.com/leafreader/core/pkg/layout"
)

// Progress names the top of a page: a paragraph index and a line index
// within that paragraph's laid-out lines.
type Progress struct {
	Paragraph int
	Line      int
}

// Less reports whether p sorts strictly before q in (paragraph, line)
// lexicographic order, the order Progress must be monotone under
// NextPage.
func (p Progress) Less(q Progress) bool {
	if p.Paragraph != q.Paragraph {
		return p.Paragraph < q.Paragraph
	}
	return p.Line < q.Line
}

// Page is a placed page: its start/end Progress cursors and the Lines a
// renderer should draw, each tagged with the paragraph-relative spacing
// already applied (a PlacedLine's Y is the top of that line within the
// page).
type Page struct {
	Start Progress
	End   Progress
	Lines []PlacedLine
}

// PlacedLine is one Line of a page, with its top-of-line Y offset within
// the page already computed (paragraph spacing included).
type PlacedLine struct {
	Y    int
	Line layout.Line
}

// Options bundles what the paginator needs beyond the Chapter and current
// cursor: the layout options and default alignment, the page
// height budget, and the font's line-height advance.
type Options struct {
	Layout           layout.Options
	DefaultAlign     css.Alignment
	PageHeight       int
	LineAdvance      int // y_advance: the font's line height in pixels
}

// ParagraphSpacing is half a line advance.
func (o Options) ParagraphSpacing() int { return o.LineAdvance / 2 }

func paragraphLines(ch *body.Chapter, idx int, opts Options) []layout.Line {
	p := ch.Paragraphs[idx]
	align := p.Alignment
	if align == css.AlignUnset {
		align = opts.DefaultAlign
	}
	indent := 0
	if p.HasIndent {
		indent = p.IndentPx
	}
	return layout.Layout(p.Runs, opts.Layout, align, indent)
}

func paragraphEmpty(ch *body.Chapter, idx int) bool {
	for _, r := range ch.Paragraphs[idx].Runs {
		if len(r.Text) > 0 {
			return false
		}
	}
	return true
}
