// Package merge reconciles two divergent descendants of a common ancestor
// text into a single merged text, working from the three snapshots alone
// (no edit history). Non-conflicting edits from both sides are kept; where
// both sides replaced the same base span, theirs wins.
package merge

import (
	"unicode/utf8"

	"github.com/nicolagi/trimerge/diff"
	"github.com/nicolagi/trimerge/textbuf"
	log "github.com/sirupsen/logrus"
)

// ThreeWay merges ours and theirs, both derived from base. It is a pure
// function: deterministic, no state kept across calls, safe to call
// concurrently with different inputs.
//
// Theirs' edits are applied to a buffer seeded with the base text; ours'
// edits, anchored to the pristine base beforehand, are then replayed
// against the mutated buffer. A local replacement whose base span overlaps
// a span theirs changed is dropped (theirs wins); local pure insertions
// and standalone local deletions always replay, though a deletion whose
// span theirs already consumed resolves to a no-op.
func ThreeWay(base, ours, theirs string) string {
	if ours == theirs {
		return ours
	}
	theirScript := diff.Strings(base, theirs)
	ourScript := diff.Strings(base, ours)

	buf := textbuf.New(base)
	// Anchors must be taken against the pristine base, before theirs'
	// edits mutate the buffer.
	ourOps := buildOps(buf, ourScript)

	apply(buf, theirScript)
	replay(buf, ourOps, deletedSpans(theirScript))
	return buf.String()
}

// apply walks a script against the buffer it was computed from, with a
// running offset into the live buffer. Valid only for the first direct
// application, while nothing else shifts the buffer underneath it.
func apply(buf *textbuf.Buffer, script diff.Script) {
	off := 0
	for _, e := range script {
		switch e.Op {
		case diff.OpEqual:
			off += utf8.RuneCountInString(e.Text)
		case diff.OpDelete:
			buf.DeleteAt(off, utf8.RuneCountInString(e.Text))
		case diff.OpInsert:
			buf.InsertAt(off, e.Text)
			off += utf8.RuneCountInString(e.Text)
		}
	}
}

// deletedSpans lists the base-coordinate spans a script deletes. They are
// the spans that side changed, for conflict checks during replay.
func deletedSpans(script diff.Script) []span {
	var spans []span
	pos := 0
	for _, e := range script {
		n := utf8.RuneCountInString(e.Text)
		switch e.Op {
		case diff.OpEqual:
			pos += n
		case diff.OpDelete:
			spans = append(spans, span{start: pos, length: n})
			pos += n
		}
	}
	return spans
}

func replay(buf *textbuf.Buffer, ops []operation, theirSpans []span) {
	for _, untyped := range ops {
		switch op := untyped.(type) {
		case insertOp:
			if op.replaced.length > 0 && overlapsAny(op.replaced, theirSpans) {
				log.Debugf("merge: dropping local replacement of base span [%d,%d), span changed on both sides", op.replaced.start, op.replaced.end())
				continue
			}
			off, _ := op.at.Resolve(buf)
			if off < 0 {
				off = 0
			} else if off > buf.Len() {
				off = buf.Len()
			}
			// For a replacement, remove what remains of the replaced
			// text, which sits immediately before the anchored offset.
			n := op.replaced.length
			if n > off {
				n = off
			}
			buf.DeleteAt(off-n, n)
			buf.InsertAt(off-n, op.text)
		case deleteOp:
			start, startOK := op.start.Resolve(buf)
			end, endOK := op.end.Resolve(buf)
			if !startOK || !endOK {
				log.Debugf("merge: dropping local deletion, span no longer in buffer")
				continue
			}
			if end < start {
				start, end = end, start
			}
			if start < 0 {
				start = 0
			}
			if end > buf.Len() {
				end = buf.Len()
			}
			if end > start {
				buf.DeleteAt(start, end-start)
			}
		}
	}
}

func overlapsAny(s span, spans []span) bool {
	for _, t := range spans {
		if s.overlaps(t) {
			return true
		}
	}
	return false
}
