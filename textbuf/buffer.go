// Package textbuf implements a mutable text buffer addressed by rune
// offsets, together with anchors: positions taken at some point in the
// buffer's life that can be resolved to a current offset after the buffer
// has been mutated elsewhere. Anchors are what allows edit operations to be
// computed once against a pristine buffer and replayed correctly after
// other edits have already landed.
package textbuf

import (
	"github.com/pkg/errors"
)

// Bias determines which side of a boundary an anchor sticks to when an
// insertion lands exactly at the anchor's offset.
type Bias int

const (
	// BiasLeft anchors stay put when text is inserted at their offset.
	BiasLeft Bias = iota
	// BiasRight anchors shift past text inserted at their offset.
	BiasRight
)

// A mutation is an insertion or a deletion, recorded with the offset it
// had in the buffer coordinates current at the time it was applied.
// Exactly one of ins and del is non-zero.
type mutation struct {
	off int
	ins int
	del int
}

// Buffer is a rune-addressed text buffer that remembers every mutation
// applied to it, so that anchors created at any point can be resolved
// later. A Buffer is not safe for concurrent use.
type Buffer struct {
	runes []rune
	log   []mutation
}

func New(text string) *Buffer {
	return &Buffer{runes: []rune(text)}
}

// Len returns the buffer length in runes.
func (b *Buffer) Len() int {
	return len(b.runes)
}

func (b *Buffer) String() string {
	return string(b.runes)
}

// InsertAt inserts text at the given rune offset. The offset must be
// within [0, Len()]; anything else means the caller's bookkeeping is
// broken, and the method panics.
func (b *Buffer) InsertAt(off int, text string) {
	if off < 0 || off > len(b.runes) {
		panic(errors.Errorf("textbuf: insert offset %d out of range [0,%d]", off, len(b.runes)))
	}
	if text == "" {
		return
	}
	runes := []rune(text)
	b.runes = append(b.runes[:off], append(append([]rune(nil), runes...), b.runes[off:]...)...)
	b.log = append(b.log, mutation{off: off, ins: len(runes)})
}

// DeleteAt removes n runes starting at the given rune offset. The span
// must lie within the buffer; anything else panics.
func (b *Buffer) DeleteAt(off, n int) {
	if off < 0 || n < 0 || off+n > len(b.runes) {
		panic(errors.Errorf("textbuf: delete span [%d,%d) out of range [0,%d]", off, off+n, len(b.runes)))
	}
	if n == 0 {
		return
	}
	b.runes = append(b.runes[:off], b.runes[off+n:]...)
	b.log = append(b.log, mutation{off: off, del: n})
}

// An Anchor marks a position in a buffer at the moment of its creation.
// It can be resolved to a current offset after the buffer has been
// mutated, by transforming the recorded offset through the mutations
// applied since.
type Anchor struct {
	buf   *Buffer
	off   int
	bias  Bias
	epoch int
}

// Anchor creates an anchor at the given rune offset, which must be within
// [0, Len()].
func (b *Buffer) Anchor(off int, bias Bias) *Anchor {
	if off < 0 || off > len(b.runes) {
		panic(errors.Errorf("textbuf: anchor offset %d out of range [0,%d]", off, len(b.runes)))
	}
	return &Anchor{buf: b, off: off, bias: bias, epoch: len(b.log)}
}

// Resolve maps the anchor to an offset in the buffer's current contents.
// It returns false if the anchored position fell strictly inside a span
// that has since been deleted; the returned offset is then a best effort,
// the point the deleted span collapsed to. Resolving against a buffer the
// anchor was not created on is a programming error and panics.
func (a *Anchor) Resolve(b *Buffer) (int, bool) {
	if a.buf != b {
		panic(errors.New("textbuf: anchor resolved against a buffer it does not belong to"))
	}
	off, ok := a.off, true
	for _, m := range b.log[a.epoch:] {
		if m.ins > 0 {
			if off > m.off || (off == m.off && a.bias == BiasRight) {
				off += m.ins
			}
			continue
		}
		switch end := m.off + m.del; {
		case off >= end:
			off -= m.del
		case off > m.off:
			// The anchored position itself was deleted.
			off = m.off
			ok = false
		}
	}
	return off, ok
}
