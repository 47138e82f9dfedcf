package render

import (
	"github.com/leafreader/core/pkg/paginate"
	"github.com/leafreader/core/pkg/report"
)

// Renderer composites a paginate.Page onto a DisplayBuffers' planes in
// three passes: black/white, then the MSB gray plane, then the LSB
// gray plane.
type Renderer struct {
	Buffers *DisplayBuffers
	Fonts   FontSet
	Report  *report.Report

	dirty bool
}

// New builds a Renderer over the given buffers and font set.
func New(buffers *DisplayBuffers, fonts FontSet, rep *report.Report) *Renderer {
	return &Renderer{Buffers: buffers, Fonts: fonts, Report: rep}
}

// RenderPage runs the three compositing passes: B/W into the active
// framebuffer, then MSB and LSB into the two auxiliary planes, each
// against a freshly filled active buffer reused as scratch space. The
// B/W result becomes the new active framebuffer content. Dirty reports
// whether this differs, bit for bit, from the inactive framebuffer (the
// previously presented frame once the caller has swapped buffers) —
// the signal an outer display driver uses to pick Fast vs Full refresh.
func (rr *Renderer) RenderPage(page paginate.Page) {
	buffers := rr.Buffers
	scratch := buffers.Active()

	scratch.Fill(true)
	rr.drawPass(page, scratch, ModeBW)
	bwResult := scratch.Clone()

	scratch.Fill(false)
	rr.drawPass(page, scratch, ModeMSB)
	buffers.msb = scratch.Clone()

	scratch.Fill(false)
	rr.drawPass(page, scratch, ModeLSB)
	buffers.lsb = scratch.Clone()

	rr.dirty = !bwResult.Equal(buffers.Inactive())
	buffers.screens[buffers.active] = bwResult
}

// Dirty reports whether the most recent RenderPage produced a B/W
// framebuffer different from the inactive framebuffer.
func (rr *Renderer) Dirty() bool { return rr.dirty }

// ascentFor is the approximation this renderer uses for a line's
// baseline offset from its top: the regular-style font's AdvanceY. A
// per-style ascent would need a richer font contract than FontDefinition
// exposes.
func (rr *Renderer) ascentFor() int {
	if rr.Fonts.Regular != nil {
		return rr.Fonts.Regular.AdvanceY
	}
	return 0
}

func (rr *Renderer) drawPass(page paginate.Page, target *Plane, mode Mode) {
	ascent := rr.ascentFor()
	for _, pl := range page.Lines {
		baseline := pl.Y + ascent
		for _, t := range pl.Line.Texts {
			font := rr.Fonts.forStyle(t.Style)
			DrawString(rr.Buffers, target, font, mode, t.Text, t.X, baseline, rr.Report)
		}
	}
}
