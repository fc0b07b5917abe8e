package merge

import (
	"unicode/utf8"

	"github.com/nicolagi/trimerge/diff"
	"github.com/nicolagi/trimerge/textbuf"
)

// A span is a half-open range of runes in base-text coordinates.
type span struct {
	start  int
	length int
}

func (s span) end() int { return s.start + s.length }

// Half-open interval overlap.
func (s span) overlaps(t span) bool {
	lo := s.start
	if t.start > lo {
		lo = t.start
	}
	hi := s.end()
	if t.end() < hi {
		hi = t.end()
	}
	return lo < hi
}

// An insertOp inserts text at an anchored position. A non-empty replaced
// span means the insert is the second half of a replacement: the base
// span it replaces was deleted by the same side's diff.
type insertOp struct {
	at       *textbuf.Anchor
	text     string
	replaced span
}

// A deleteOp removes the text between two anchored positions.
type deleteOp struct {
	start *textbuf.Anchor
	end   *textbuf.Anchor
}

type operation interface {
	anchoredOp()
}

func (insertOp) anchoredOp() {}
func (deleteOp) anchoredOp() {}

// buildOps converts a diff script into operations anchored to buf, which
// must still hold the pristine base text the script was computed against.
// Because anchors track later mutations, the operations can be replayed
// after the other side's edits have already reshaped the buffer.
func buildOps(buf *textbuf.Buffer, script diff.Script) []operation {
	var ops []operation
	pos := 0 // offset into the original base text, in runes
	for i := 0; i < len(script); i++ {
		e := script[i]
		n := utf8.RuneCountInString(e.Text)
		switch e.Op {
		case diff.OpEqual:
			pos += n
		case diff.OpDelete:
			if i+1 < len(script) && script[i+1].Op == diff.OpInsert {
				// A replacement. The anchor sticks to the right edge of
				// the deleted span, so the insertion point stays stable
				// while earlier edits land.
				ops = append(ops, insertOp{
					at:       buf.Anchor(pos+n, textbuf.BiasRight),
					text:     script[i+1].Text,
					replaced: span{start: pos, length: n},
				})
				pos += n
				i++
				continue
			}
			ops = append(ops, deleteOp{
				start: buf.Anchor(pos, textbuf.BiasLeft),
				end:   buf.Anchor(pos+n, textbuf.BiasLeft),
			})
			pos += n
		case diff.OpInsert:
			ops = append(ops, insertOp{
				at:       buf.Anchor(pos, textbuf.BiasLeft),
				text:     e.Text,
				replaced: span{start: pos},
			})
		}
	}
	return ops
}
