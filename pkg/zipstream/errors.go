package zipstream

import "errors"

var (
	// ErrInvalidSignature is returned when a fixed-offset magic number
	// (EOCD, central directory entry, local file header) does not match.
	ErrInvalidSignature = errors.New("zipstream: invalid signature")

	// ErrInvalidData covers truncation, a missing central directory, or
	// any other structurally malformed archive.
	ErrInvalidData = errors.New("zipstream: invalid data")

	// ErrUnsupportedCompression is returned for any compression method
	// other than 0 (stored) or 8 (deflate).
	ErrUnsupportedCompression = errors.New("zipstream: unsupported compression method")

	// ErrDecompression wraps a failure from the underlying inflate state.
	ErrDecompression = errors.New("zipstream: decompression error")
)
