package render

import "github.com/leafreader/core/pkg/report"

// DrawGlyph blits one glyph of font onto target (a framebuffer or MSB/LSB
// auxiliary plane, already rotation-mapped via buffers) in the given
// mode, at baseline origin (x, y). The drawing origin within target is
// (x + xmin, y - height - ymin). Every pixel write goes
// through buffers.mapCoord so out-of-bounds offsets (negative, or beyond
// the rotated extent) are skipped silently rather than wrapping or
// panicking. It returns the glyph's advance width so the caller can
// position the next glyph; a missing glyph logs a warning and returns 0.
func DrawGlyph(buffers *DisplayBuffers, target *Plane, font *FontDefinition, mode Mode, cp rune, x, y int, rep *report.Report) int {
	g, ok := font.Lookup(cp)
	if !ok {
		if rep != nil {
			rep.AddWithLocation(report.Warning, "GLYPH-MISSING", "no glyph for codepoint", string(cp))
		}
		return 0
	}

	bits := font.plane(mode)
	originX := x + g.XMin
	originY := y - g.Height - g.YMin

	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			if !glyphBit(bits, g, r, c) {
				continue
			}
			px, py := buffers.mapCoord(originX+c, originY+r)
			switch mode {
			case ModeBW:
				target.Clear(px, py)
			case ModeMSB, ModeLSB:
				target.Set(px, py)
			}
		}
	}
	return g.AdvanceX
}

// DrawString blits word's glyphs left to right starting at (x, y),
// advancing by each glyph's AdvanceX, and returns the total advance.
func DrawString(buffers *DisplayBuffers, target *Plane, font *FontDefinition, mode Mode, word string, x, y int, rep *report.Report) int {
	cursor := x
	for _, r := range word {
		cursor += DrawGlyph(buffers, target, font, mode, r, cursor, y, rep)
	}
	return cursor - x
}
