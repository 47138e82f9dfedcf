package paginate

import "github.com/leafreader/core/pkg/body"

// ChapterSource supplies chapters by spine index, letting the Paginator
// roll a page across a chapter boundary without the caller juggling
// Chapter extraction itself.
type ChapterSource interface {
	Chapter(index int) (*body.Chapter, error)
	ChapterCount() int
}

// Paginator is a reader-owned cursor over a ChapterSource: it tracks the
// current chapter index and top-of-page Progress, and produces Pages by
// walking forward or backward from that cursor.
type Paginator struct {
	src  ChapterSource
	opts Options

	chapterIdx int
	cur        Progress
}

// New builds a Paginator starting at the top of the given chapter.
func New(src ChapterSource, opts Options, startChapter int) *Paginator {
	return &Paginator{src: src, opts: opts, chapterIdx: startChapter}
}

// ChapterIndex reports the chapter the current cursor lives in.
func (p *Paginator) ChapterIndex() int { return p.chapterIdx }

// Cursor reports the current top-of-page Progress.
func (p *Paginator) Cursor() Progress { return p.cur }

// AtDocumentEnd reports whether the cursor has reached the end of the
// last chapter: a further NextPage would produce an empty page.
func (p *Paginator) AtDocumentEnd() bool {
	return p.chapterIdx >= p.src.ChapterCount()-1 && p.cur.Paragraph >= p.chapterLen(p.chapterIdx)
}

func (p *Paginator) chapterLen(idx int) int {
	ch, err := p.src.Chapter(idx)
	if err != nil {
		return 0
	}
	return len(ch.Paragraphs)
}

// NextPage fills a page forward from the current cursor. Progress is
// monotone: the new cursor equals the produced page's end. ChapterIndex
// always names the chapter the just-returned page's content came from;
// the roll into the next chapter is deferred until a later call actually
// needs content from it, so a chapter that ends exactly at a page
// boundary never produces a trailing empty page.
func (p *Paginator) NextPage() (Page, error) {
	for {
		ch, err := p.src.Chapter(p.chapterIdx)
		if err != nil {
			return Page{}, err
		}
		page := forward(ch, p.cur, p.opts)

		if len(page.Lines) == 0 && AtChapterEnd(ch, page.End) && p.chapterIdx+1 < p.src.ChapterCount() {
			p.chapterIdx++
			p.cur = Progress{0, 0}
			continue
		}
		p.cur = page.End
		return page, nil
	}
}

// PrevPage computes a new start by laying out preceding content
// backward from the current cursor, crossing into the previous chapter
// if the current one runs out before the page budget is spent. It is
// not the exact inverse of NextPage: backward layout measures lines
// from a paragraph's end rather than its start, so a forward/backward
// round trip can land the cursor a few pixels off where NextPage would
// have placed it for the same content.
func (p *Paginator) PrevPage() (Page, error) {
	chapterIdx := p.chapterIdx
	cur := p.cur

	for {
		ch, err := p.src.Chapter(chapterIdx)
		if err != nil {
			return Page{}, err
		}
		newStart, exhausted := backward(ch, cur, p.opts)
		if !exhausted {
			p.chapterIdx = chapterIdx
			p.cur = newStart
			return forward(ch, newStart, p.opts), nil
		}
		if chapterIdx == 0 {
			p.chapterIdx = 0
			p.cur = Progress{0, 0}
			return forward(ch, p.cur, p.opts), nil
		}
		chapterIdx--
		prevCh, err := p.src.Chapter(chapterIdx)
		if err != nil {
			return Page{}, err
		}
		cur = chapterEnd(prevCh)
	}
}
