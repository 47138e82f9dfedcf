// Package xmlstream implements the pull-model XML event reader (C-XML): a
// typed event stream built on the sliding-window reader, with zero-copy
// views into the window for every event payload. No document tree is ever
// materialized; the caller drives NextEvent and reacts to each event as it
// arrives.
package xmlstream

import (
	"bytes"
	"fmt"

	"github.com/leafreader/core/pkg/swr"
)

// Reader pulls Events from a Window. It is single-use and forward-only,
// matching the Window it wraps.
type Reader struct {
	w   *swr.Window
	eof bool

	pendingSelfClose bool
	selfCloseName    []byte // owned scratch copy, not a window alias
}

// New wraps an already-constructed Window.
func New(w *swr.Window) *Reader {
	return &Reader{w: w}
}

// Open builds a Window of the given capacity over src and wraps it.
func Open(src swr.ByteSource, windowSize int) (*Reader, error) {
	w, err := swr.New(src, make([]byte, windowSize))
	if err != nil {
		return nil, err
	}
	return New(w), nil
}

var (
	cdataStart   = []byte("<![CDATA[")
	cdataEnd     = []byte("]]>")
	commentStart = []byte("<!--")
	commentEnd   = []byte("-->")
	piEnd        = []byte("?>")
	dtdEnd       = []byte(">")
)

// NextEvent returns the next event in the stream. After a successful call
// the reader's position has advanced past the returned event. EndOfFile is
// returned exactly once at exhaustion and is idempotent thereafter.
func (r *Reader) NextEvent() (Event, error) {
	if r.eof {
		return Event{Kind: KindEndOfFile}, nil
	}
	if r.pendingSelfClose {
		r.pendingSelfClose = false
		return Event{Kind: KindEndElement, Name: r.selfCloseName}, nil
	}

	if err := r.w.Ensure(1); err != nil {
		r.eof = true
		return Event{Kind: KindEndOfFile}, nil
	}

	if r.w.Buffer()[0] != '<' {
		return r.readText()
	}

	// Best-effort lookahead for the fixed prefixes below; near EOF fewer
	// bytes may be available, which is fine since HasPrefix just fails.
	_ = r.w.Ensure(9)
	b := r.w.Buffer()

	switch {
	case bytes.HasPrefix(b, cdataStart):
		return r.readDelimited(KindCDATA, cdataStart, cdataEnd)
	case bytes.HasPrefix(b, commentStart):
		return r.readDelimited(KindComment, commentStart, commentEnd)
	case bytes.HasPrefix(b, []byte("<?")):
		return r.readPI()
	case bytes.HasPrefix(b, []byte("</")):
		return r.readEndElement()
	case bytes.HasPrefix(b, []byte("<!")):
		return r.readDelimited(KindDtd, []byte("<!"), dtdEnd)
	default:
		return r.readStartElement()
	}
}

func (r *Reader) readText() (Event, error) {
	idx, err := r.w.TryFindStart([]byte("<"))
	if err != nil {
		remaining := r.w.Buffer()
		if len(remaining) == 0 {
			r.eof = true
			return Event{Kind: KindEndOfFile}, nil
		}
		r.w.Consume(len(remaining))
		return Event{Kind: KindText, Text: remaining}, nil
	}
	text := r.w.Buffer()[:idx]
	r.w.Consume(idx)
	return Event{Kind: KindText, Text: text}, nil
}

func (r *Reader) readDelimited(kind Kind, start, end []byte) (Event, error) {
	si, ei, err := r.w.TryFind(start, end)
	if err != nil {
		return Event{}, fmt.Errorf("xmlstream: %s: %w", kind, ErrEof)
	}
	body := r.w.Buffer()[si+len(start) : ei-len(end)]
	r.w.Consume(ei)
	return Event{Kind: kind, Text: body}, nil
}

func (r *Reader) readPI() (Event, error) {
	si, ei, err := r.w.TryFind([]byte("<?"), piEnd)
	if err != nil {
		return Event{}, fmt.Errorf("xmlstream: PI: %w", ErrEof)
	}
	body := r.w.Buffer()[si+2 : ei-len(piEnd)]
	r.w.Consume(ei)

	nameEnd := 0
	for nameEnd < len(body) && !isXMLSpace(body[nameEnd]) {
		nameEnd++
	}
	name := body[:nameEnd]
	rest := bytes.TrimLeft(body[nameEnd:], " \t\r\n")

	kind := KindPI
	if bytes.EqualFold(name, []byte("xml")) {
		kind = KindDeclaration
	}
	return Event{Kind: kind, Name: name, Text: rest, AttrBlock: rest}, nil
}

func (r *Reader) readEndElement() (Event, error) {
	idx, err := r.findTagEnd()
	if err != nil {
		return Event{}, fmt.Errorf("xmlstream: end element: %w", ErrEof)
	}
	buf := r.w.Buffer()
	name := bytes.TrimSpace(buf[2:idx])
	r.w.Consume(idx + 1)
	return Event{Kind: KindEndElement, Name: name}, nil
}

func (r *Reader) readStartElement() (Event, error) {
	idx, err := r.findTagEnd()
	if err != nil {
		return Event{}, fmt.Errorf("xmlstream: start element: %w", ErrEof)
	}
	buf := r.w.Buffer()

	selfClosing := idx >= 1 && buf[idx-1] == '/'
	attrEnd := idx
	if selfClosing {
		attrEnd = idx - 1
	}

	nameStart := 1
	nameEnd := nameStart
	for nameEnd < attrEnd && !isXMLSpace(buf[nameEnd]) && buf[nameEnd] != '/' {
		nameEnd++
	}
	name := append([]byte(nil), buf[nameStart:nameEnd]...)
	attrBlock := bytes.TrimSpace(buf[nameEnd:attrEnd])

	ev := Event{Kind: KindStartElement, Name: name, AttrBlock: attrBlock, SelfClosing: selfClosing}

	r.w.Consume(idx + 1)

	if selfClosing {
		r.pendingSelfClose = true
		r.selfCloseName = name
	}
	return ev, nil
}

// findTagEnd locates the index (relative to the current Buffer(), which
// starts with '<') of the matching top-level '>' for a start or end tag,
// skipping over '>' characters inside quoted attribute values. It grows
// the ensured window up to its fixed capacity; a tag that does not fit is
// reported as ErrEof, matching the design's "events have bounded length"
// assumption.
func (r *Reader) findTagEnd() (int, error) {
	const step = 64
	n := step
	for {
		ensureErr := r.w.Ensure(n)
		buf := r.w.Buffer()
		if idx, ok := scanTagEnd(buf); ok {
			return idx, nil
		}
		if ensureErr != nil || len(buf) >= r.w.Cap() {
			return 0, swr.ErrEof
		}
		n = len(buf) + step
	}
}

func scanTagEnd(buf []byte) (int, bool) {
	var inQuote byte
	for i := 1; i < len(buf); i++ {
		c := buf[i]
		if inQuote != 0 {
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inQuote = c
		case '>':
			return i, true
		}
	}
	return 0, false
}
