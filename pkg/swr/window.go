// Package swr implements the sliding-window reader (C-SWR): a fixed-
// capacity byte buffer over an arbitrarily large ByteSource, giving every
// reader built on top of it (ZIP directory scan, XML event pull) zero-copy
// access to the bytes currently in view without ever materializing the
// whole stream in memory.
package swr

import (
	"bytes"
	"io"
)

// Window holds valid data in buf[pos:end]; bytes outside that range are
// meaningless. remaining is the count of source bytes not yet read into
// buf.
type Window struct {
	src       ByteSource
	buf       []byte
	pos       int
	end       int
	remaining int64
}

// New constructs a Window over src using buf as backing storage (caller-
// supplied or heap-allocated; either way its capacity is the window's
// fixed size) and performs the initial fill.
func New(src ByteSource, buf []byte) (*Window, error) {
	total, err := src.Size()
	if err != nil {
		return nil, err
	}
	w := &Window{src: src, buf: buf, remaining: total}
	if _, err := w.fillTail(); err != nil && err != io.EOF {
		return nil, err
	}
	return w, nil
}

// fillTail reads as much as fits into buf[end:cap(buf)], advancing end and
// decrementing remaining by what was actually read.
func (w *Window) fillTail() (int, error) {
	space := w.buf[w.end:cap(w.buf)]
	if len(space) == 0 || w.remaining <= 0 {
		return 0, nil
	}
	n, err := io.ReadFull(w.src, space[:min64(int64(len(space)), w.remaining)])
	w.end += n
	w.remaining -= int64(n)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Buffer returns the currently valid slice buf[pos:end]. The slice is only
// valid until the next call that mutates the Window (Advance, Ensure,
// TryFind, TryFindStart, Consume past a refill boundary).
func (w *Window) Buffer() []byte { return w.buf[w.pos:w.end] }

// Len returns the number of valid unread bytes currently in the window.
func (w *Window) Len() int { return w.end - w.pos }

// Cap returns the window's fixed capacity: the largest number of bytes any
// single borrowed event view can span.
func (w *Window) Cap() int { return cap(w.buf) }

// Remaining returns the number of bytes not yet consumed, in the window
// and in the source together.
func (w *Window) Remaining() int64 { return int64(w.Len()) + w.remaining }

// Consume advances pos by n without touching the source. n must not exceed
// Len(). Used once a caller has fully parsed a borrowed slice and wants to
// move past it.
func (w *Window) Consume(n int) {
	w.pos += n
	if w.pos > w.end {
		w.pos = w.end
	}
}

// Advance compacts the window by copying buf[offset:end] down to
// buf[0:end-offset], resets pos to 0, and refills the tail from the
// source. offset is an absolute index into the current buffer (typically
// w.pos, to discard already-consumed bytes, or pos+k to discard up to and
// including a matched needle). Returns ErrEof if the source is exhausted
// and no bytes were carried forward by the compaction.
func (w *Window) Advance(offset int) error {
	if offset < 0 {
		offset = 0
	}
	if offset > w.end {
		offset = w.end
	}
	moved := w.end - offset
	copy(w.buf[:moved], w.buf[offset:w.end])
	w.pos = 0
	w.end = moved

	n, err := w.fillTail()
	if moved == 0 && n == 0 {
		if err != nil && err != io.EOF {
			return err
		}
		return ErrEof
	}
	return nil
}

// Ensure guarantees at least n valid unread bytes exist after pos,
// advancing (compacting + refilling) once if necessary. Returns ErrEof if
// available+remaining source bytes can never satisfy n.
func (w *Window) Ensure(n int) error {
	if w.Len() >= n {
		return nil
	}
	if w.Remaining() < int64(n) {
		return ErrEof
	}
	if err := w.Advance(w.pos); err != nil {
		return err
	}
	if w.Len() < n {
		return ErrEof
	}
	return nil
}

// TryFind locates both start and end needles within the window, in order.
// If only start is found, the window advances so start sits at position 0
// and the end search retries from there. If neither is found, the window
// discards everything except a needle-sized tail (in case start straddles
// the refill boundary) and the whole search retries. Returns byte offsets
// (relative to the *post-advance* Buffer()) of the start of start and the
// end (one past) of end. Fails with ErrEof if the terminators never
// appear before the source is exhausted.
func (w *Window) TryFind(start, end []byte) (startIdx, endIdx int, err error) {
	const maxAttempts = 64
	for attempt := 0; attempt < maxAttempts; attempt++ {
		buf := w.Buffer()
		si := bytes.Index(buf, start)
		if si < 0 {
			if adverr := w.Advance(w.keepTailOffset(len(start))); adverr != nil {
				return 0, 0, ErrEof
			}
			continue
		}
		tail := buf[si+len(start):]
		ei := bytes.Index(tail, end)
		if ei >= 0 {
			return si, si + len(start) + ei + len(end), nil
		}
		// start found, end not: pull start to position 0 and retry the
		// end search from a freshly refilled window.
		if adverr := w.Advance(w.pos + si); adverr != nil {
			return 0, 0, ErrEof
		}
	}
	return 0, 0, ErrEof
}

// keepTailOffset returns the Advance offset to use when a needle of the
// given length was not found anywhere in the current buffer: it discards
// everything except the trailing needleLen-1 bytes, since those bytes
// could be an unmatched prefix of the needle straddling the refill
// boundary. Never returns an offset before pos.
func (w *Window) keepTailOffset(needleLen int) int {
	keep := needleLen - 1
	if keep < 0 {
		keep = 0
	}
	offset := w.end - keep
	if offset < w.pos {
		offset = w.pos
	}
	return offset
}

// TryFindStart is TryFind specialized to a single needle: it locates
// needle, discarding everything but a needle-sized tail and retrying if
// not found in the current view.
func (w *Window) TryFindStart(needle []byte) (int, error) {
	const maxAttempts = 64
	for attempt := 0; attempt < maxAttempts; attempt++ {
		buf := w.Buffer()
		if idx := bytes.Index(buf, needle); idx >= 0 {
			return idx, nil
		}
		if err := w.Advance(w.keepTailOffset(len(needle))); err != nil {
			return 0, ErrEof
		}
	}
	return 0, ErrEof
}
