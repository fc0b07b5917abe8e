package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of an edit: keep a run of text, delete it, or insert it.
type Op int

const (
	OpEqual Op = iota
	OpDelete
	OpInsert
)

func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	}
	return "unknown"
}

// An Edit is a contiguous run of text together with the operation that
// produces it.
type Edit struct {
	Op   Op
	Text string
}

// A Script is an ordered sequence of edits. Replaying the equal and delete
// runs reconstructs the first string, the equal and insert runs the second.
// Scripts produced by this package are coalesced: no empty runs, and no
// two consecutive edits with the same operation.
type Script []Edit

// Nested refinement of replaced lines stops at this depth; beyond it a
// plain character diff is used.
const maxRefineDepth = 8

// Strings computes an edit script turning a into b.
func Strings(a, b string) Script {
	return diffStrings(a, b, 0)
}

func diffStrings(a, b string, depth int) Script {
	if a == b {
		if a == "" {
			return nil
		}
		return Script{{Op: OpEqual, Text: a}}
	}
	if a == "" {
		return Script{{Op: OpInsert, Text: b}}
	}
	if b == "" {
		return Script{{Op: OpDelete, Text: a}}
	}
	if depth > maxRefineDepth {
		return charDiff(a, b)
	}
	if !multiline(a) && !multiline(b) {
		return charDiff(a, b)
	}
	return coalesce(refine(lineDiff(a, b), depth))
}

// multiline reports whether s spans more than one logical line, that is,
// whether it still contains a newline once trailing newlines are stripped.
func multiline(s string) bool {
	return strings.Contains(strings.TrimRight(s, "\n"), "\n")
}

func charDiff(a, b string) Script {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return coalesce(fromMatchPatch(diffs))
}

// lineDiff tokenizes both strings into lines, diffs the token sequences
// and expands the result back to text. Every run is then a whole number of
// lines (except possibly an unterminated last line).
func lineDiff(a, b string) Script {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(ca, cb, false)
	return fromMatchPatch(dmp.DiffCharsToLines(diffs, lines))
}

// refine re-diffs each adjacent delete+insert pair one level deeper. A
// pair of similar lines collapses into localized edits; a pair the nested
// diff cannot improve on is kept coarse, preserving whole-line structure
// for genuinely different lines.
func refine(script Script, depth int) Script {
	out := make(Script, 0, len(script))
	for i := 0; i < len(script); i++ {
		e := script[i]
		if e.Op == OpDelete && i+1 < len(script) && script[i+1].Op == OpInsert {
			next := script[i+1]
			nested := diffStrings(e.Text, next.Text, depth+1)
			if unrefined(nested, e.Text, next.Text) {
				out = append(out, e, next)
			} else {
				out = append(out, nested...)
			}
			i++
			continue
		}
		out = append(out, e)
	}
	return out
}

// unrefined reports whether a nested diff is exactly the coarse
// delete+insert pair it was computed from.
func unrefined(nested Script, deleted, inserted string) bool {
	if len(nested) != 2 {
		return false
	}
	return nested[0].Op == OpDelete && nested[0].Text == deleted &&
		nested[1].Op == OpInsert && nested[1].Text == inserted
}

func coalesce(script Script) Script {
	var out Script
	for _, e := range script {
		if e.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Op == e.Op {
			out[n-1].Text += e.Text
			continue
		}
		out = append(out, e)
	}
	return out
}

func fromMatchPatch(diffs []diffmatchpatch.Diff) Script {
	var script Script
	for _, d := range diffs {
		var op Op
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		default:
			op = OpEqual
		}
		script = append(script, Edit{Op: op, Text: d.Text})
	}
	return script
}
