package xmlstream

import "errors"

// ErrEof signals that a needed terminator (a closing tag, "?>", "-->",
// "]]>", or the top-level ">" of a start/end tag) never appeared before
// the source ran out, or before the terminator fit in the window's fixed
// capacity. At true end of document this is not surfaced: NextEvent
// reports EndOfFile instead.
var ErrEof = errors.New("xmlstream: eof")
