package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nicolagi/trimerge/diff"
	"github.com/nicolagi/trimerge/textbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOpsReplacement(t *testing.T) {
	buf := textbuf.New("abcdef")
	script := diff.Script{
		{Op: diff.OpEqual, Text: "ab"},
		{Op: diff.OpDelete, Text: "cd"},
		{Op: diff.OpInsert, Text: "CD"},
		{Op: diff.OpEqual, Text: "ef"},
	}
	ops := buildOps(buf, script)
	require.Len(t, ops, 1)
	op, ok := ops[0].(insertOp)
	require.True(t, ok)
	assert.Equal(t, "CD", op.text)
	assert.Equal(t, span{start: 2, length: 2}, op.replaced)
	// Against the unmutated base the anchor is the right edge of the
	// deleted span.
	off, resolved := op.at.Resolve(buf)
	require.True(t, resolved)
	assert.Equal(t, 4, off)
}

func TestBuildOpsStandaloneDelete(t *testing.T) {
	buf := textbuf.New("abcdef")
	script := diff.Script{
		{Op: diff.OpEqual, Text: "ab"},
		{Op: diff.OpDelete, Text: "cde"},
		{Op: diff.OpEqual, Text: "f"},
	}
	ops := buildOps(buf, script)
	require.Len(t, ops, 1)
	op, ok := ops[0].(deleteOp)
	require.True(t, ok)
	start, resolved := op.start.Resolve(buf)
	require.True(t, resolved)
	end, resolved := op.end.Resolve(buf)
	require.True(t, resolved)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)
}

func TestBuildOpsPureInsert(t *testing.T) {
	buf := textbuf.New("abcd")
	script := diff.Script{
		{Op: diff.OpEqual, Text: "ab"},
		{Op: diff.OpInsert, Text: "xy"},
		{Op: diff.OpEqual, Text: "cd"},
	}
	ops := buildOps(buf, script)
	require.Len(t, ops, 1)
	op, ok := ops[0].(insertOp)
	require.True(t, ok)
	assert.Equal(t, "xy", op.text)
	assert.Equal(t, span{start: 2, length: 0}, op.replaced)
	off, resolved := op.at.Resolve(buf)
	require.True(t, resolved)
	assert.Equal(t, 2, off)
}

func TestBuildOpsCountsRunes(t *testing.T) {
	buf := textbuf.New("héllo")
	script := diff.Script{
		{Op: diff.OpEqual, Text: "hé"},
		{Op: diff.OpDelete, Text: "l"},
		{Op: diff.OpInsert, Text: "L"},
		{Op: diff.OpEqual, Text: "lo"},
	}
	ops := buildOps(buf, script)
	require.Len(t, ops, 1)
	op, ok := ops[0].(insertOp)
	require.True(t, ok)
	assert.Equal(t, span{start: 2, length: 1}, op.replaced)
}

func TestApplyReconstructsVariant(t *testing.T) {
	buf := textbuf.New("abcdef")
	apply(buf, diff.Script{
		{Op: diff.OpEqual, Text: "ab"},
		{Op: diff.OpDelete, Text: "cd"},
		{Op: diff.OpInsert, Text: "CD"},
		{Op: diff.OpEqual, Text: "ef"},
	})
	assert.Equal(t, "abCDef", buf.String())
}

func TestDeletedSpans(t *testing.T) {
	script := diff.Script{
		{Op: diff.OpEqual, Text: "ab"},
		{Op: diff.OpDelete, Text: "cd"},
		{Op: diff.OpInsert, Text: "CD"},
		{Op: diff.OpEqual, Text: "ef"},
		{Op: diff.OpDelete, Text: "gh"},
	}
	got := deletedSpans(script)
	want := []span{{start: 2, length: 2}, {start: 6, length: 2}}
	if d := cmp.Diff(want, got, cmp.AllowUnexported(span{})); d != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", d)
	}
}

func TestSpanOverlap(t *testing.T) {
	assert.True(t, span{start: 0, length: 3}.overlaps(span{start: 2, length: 3}))
	assert.True(t, span{start: 2, length: 3}.overlaps(span{start: 0, length: 3}))
	assert.False(t, span{start: 0, length: 2}.overlaps(span{start: 2, length: 2}))
	assert.False(t, span{start: 0, length: 0}.overlaps(span{start: 0, length: 2}))
}
