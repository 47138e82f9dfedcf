package fsabi

import "github.com/leafreader/core/pkg/render"

// RefreshMode selects the display's update strategy: Full clears and
// redraws the whole panel (slow, ghost-free); Fast only updates changed
// pixels (quick, may leave faint ghosting).
type RefreshMode int

const (
	Full RefreshMode = iota
	Fast
)

// GrayscaleMode selects how many distinct gray levels a grayscale
// refresh targets.
type GrayscaleMode int

const (
	Standard GrayscaleMode = iota
	FastGrayscale
)

// Display is the hardware contract of spec.md §6: the set of operations
// R drives to push composited planes to the physical panel. The core
// never talks to a panel directly; it calls these methods on whatever
// the outer application supplies.
type Display interface {
	Display(buffers *render.DisplayBuffers, mode RefreshMode) error
	CopyToMSB(plane *render.Plane) error
	CopyToLSB(plane *render.Plane) error
	CopyGrayscaleBuffers(lsb, msb *render.Plane) error
	DisplayDifferentialGrayscale(hold bool) error
	DisplayAbsoluteGrayscale(mode GrayscaleMode) error
}

// RecordingDisplay is an in-memory Display that records every call
// instead of driving hardware, for tests that capture a page's planes.
type RecordingDisplay struct {
	Calls []string

	LastBuffers *render.DisplayBuffers
	LastMode    RefreshMode
	MSB, LSB    *render.Plane
}

// NewRecordingDisplay returns an empty recorder.
func NewRecordingDisplay() *RecordingDisplay { return &RecordingDisplay{} }

func (d *RecordingDisplay) Display(buffers *render.DisplayBuffers, mode RefreshMode) error {
	d.Calls = append(d.Calls, "Display")
	d.LastBuffers = buffers
	d.LastMode = mode
	return nil
}

func (d *RecordingDisplay) CopyToMSB(plane *render.Plane) error {
	d.Calls = append(d.Calls, "CopyToMSB")
	d.MSB = plane
	return nil
}

func (d *RecordingDisplay) CopyToLSB(plane *render.Plane) error {
	d.Calls = append(d.Calls, "CopyToLSB")
	d.LSB = plane
	return nil
}

func (d *RecordingDisplay) CopyGrayscaleBuffers(lsb, msb *render.Plane) error {
	d.Calls = append(d.Calls, "CopyGrayscaleBuffers")
	d.LSB, d.MSB = lsb, msb
	return nil
}

func (d *RecordingDisplay) DisplayDifferentialGrayscale(hold bool) error {
	d.Calls = append(d.Calls, "DisplayDifferentialGrayscale")
	return nil
}

func (d *RecordingDisplay) DisplayAbsoluteGrayscale(mode GrayscaleMode) error {
	d.Calls = append(d.Calls, "DisplayAbsoluteGrayscale")
	return nil
}
