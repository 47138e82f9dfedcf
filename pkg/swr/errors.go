package swr

import "errors"

// ErrEof is returned when a primitive cannot satisfy its request because
// the underlying ByteSource is exhausted: Ensure wants more bytes than the
// window plus remaining source can supply, or a needle search never finds
// its terminator before the source runs dry.
var ErrEof = errors.New("swr: eof")
