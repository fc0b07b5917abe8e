package diff_test

import (
	"testing"

	"github.com/nicolagi/trimerge/diff"
	"github.com/stretchr/testify/assert"
)

func TestUnifiedEqualTextsNoOutput(t *testing.T) {
	out, err := diff.Unified("a\nb\n", "a\nb\n", 3)
	assert.Equal(t, "", out)
	assert.Nil(t, err)
}

func TestUnifiedSingleHunk(t *testing.T) {
	out, err := diff.Unified("a\nb\nc\n", "a\nx\nc\n", 1)
	assert.Nil(t, err)
	assert.Equal(t, "@@ -1,3 +1,3 @@\n a\n-b\n+x\n c\n", out)
}

func TestUnifiedSplitsDistantChangesIntoHunks(t *testing.T) {
	left := "a\nb\nc\nd\ne\nf\ng\n"
	right := "a\nB\nc\nd\ne\nF\ng\n"
	out, err := diff.Unified(left, right, 1)
	assert.Nil(t, err)
	want := "@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n" +
		"@@ -5,3 +5,3 @@\n e\n-f\n+F\n g\n"
	assert.Equal(t, want, out)
}

func TestUnifiedRecognizesBinaryInput(t *testing.T) {
	out, err := diff.Unified("a\x00b\n", "c\x00d\n", 3)
	assert.Nil(t, err)
	assert.Equal(t, "Binary files differ\n", out)
}
