package render

// DisplayBuffers holds the two full-screen framebuffers the e-ink
// controller double-buffers between, plus the MSB/LSB auxiliary planes
// it combines with the active buffer to produce four gray levels.
// Process-wide, and mutated only by the Renderer.
type DisplayBuffers struct {
	LogicalWidth  int
	LogicalHeight int
	Rotation      Rotation

	active  int
	screens [2]*Plane
	msb     *Plane
	lsb     *Plane
}

// NewDisplayBuffers allocates framebuffers sized for a logicalWidth x
// logicalHeight page canvas under the given rotation; the physical plane
// dimensions are swapped for the two quarter-turn rotations.
func NewDisplayBuffers(logicalWidth, logicalHeight int, rotation Rotation) *DisplayBuffers {
	pw, ph := physicalDims(logicalWidth, logicalHeight, rotation)
	return &DisplayBuffers{
		LogicalWidth:  logicalWidth,
		LogicalHeight: logicalHeight,
		Rotation:      rotation,
		screens:       [2]*Plane{NewPlane(pw, ph), NewPlane(pw, ph)},
		msb:           NewPlane(pw, ph),
		lsb:           NewPlane(pw, ph),
	}
}

func physicalDims(w, h int, r Rotation) (int, int) {
	if r == Rotate90 || r == Rotate270 {
		return h, w
	}
	return w, h
}

// mapCoord resolves a logical page-canvas coordinate to its physical
// framebuffer address under the current rotation. Out-of-range logical
// coordinates (including negative glyph offsets) map to out-of-range
// physical ones and are clipped by Plane's bounds check, never wrapped.
func (d *DisplayBuffers) mapCoord(x, y int) (int, int) {
	switch d.Rotation {
	case Rotate90:
		return d.LogicalHeight - 1 - y, x
	case Rotate180:
		return d.LogicalWidth - 1 - x, d.LogicalHeight - 1 - y
	case Rotate270:
		return y, d.LogicalWidth - 1 - x
	default:
		return x, y
	}
}

// Active returns the currently active framebuffer plane.
func (d *DisplayBuffers) Active() *Plane { return d.screens[d.active] }

// Inactive returns the other framebuffer, used for differential diffing
// after a render pass.
func (d *DisplayBuffers) Inactive() *Plane { return d.screens[1-d.active] }

// Swap flips which of the two framebuffers is active.
func (d *DisplayBuffers) Swap() { d.active = 1 - d.active }

// MSB and LSB return the auxiliary grayscale planes.
func (d *DisplayBuffers) MSB() *Plane { return d.msb }
func (d *DisplayBuffers) LSB() *Plane { return d.lsb }
