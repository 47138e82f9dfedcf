package epub

import "errors"

var (
	// ErrContainerMissing is returned when META-INF/container.xml is
	// absent from the archive.
	ErrContainerMissing = errors.New("epub: META-INF/container.xml not found")

	// ErrOPFMissing is returned when the rootfile named by container.xml
	// cannot be found in the archive.
	ErrOPFMissing = errors.New("epub: content.opf not found")

	// ErrNoRootfile is returned when container.xml has no <rootfile>
	// element at all.
	ErrNoRootfile = errors.New("epub: container.xml has no rootfile")

	// ErrSpineIndex is returned by Chapter for an out-of-range index.
	ErrSpineIndex = errors.New("epub: spine index out of range")
)
