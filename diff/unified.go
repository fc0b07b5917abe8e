package diff

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

const bytesForBinaryFileCheck = 1 << 16

// Unified wraps UnifiedTo to return a string instead of writing it to a
// writer.
func Unified(a, b string, contextLines int) (string, error) {
	var buf bytes.Buffer
	if err := UnifiedTo(&buf, a, b, contextLines); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// UnifiedTo writes a unified diff of the two texts to the passed writer,
// with the given number of context lines around each hunk. The line diff
// comes from this package's own engine, at line granularity, so the hunks
// reflect exactly the structure the merge engine sees.
func UnifiedTo(w io.Writer, a, b string, contextLines int) error {
	if a == b {
		return nil
	}
	lines := markedLines(coalesce(lineDiff(a, b)))
	if len(lines) == 0 {
		return nil
	}
	if isLikelyBinary(lines) {
		_, err := fmt.Fprintln(w, "Binary files differ")
		return err
	}
	return unified(w, lines, contextLines)
}

// markedLines renders a line-granularity script as individual lines
// prefixed with ' ', '-' or '+'.
func markedLines(script Script) []string {
	var out []string
	for _, e := range script {
		prefix := " "
		switch e.Op {
		case OpDelete:
			prefix = "-"
		case OpInsert:
			prefix = "+"
		}
		for _, line := range splitLines(e.Text) {
			out = append(out, prefix+line)
		}
	}
	return out
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func unified(w io.Writer, lines []string, contextLines int) error {
	// While processing lines we're either in a hunk or in a common
	// segment. In a common segment, the most recent lines are kept so
	// they can be backfilled into the next hunk as leading context.
	var h *hunk
	common := &lastN{n: contextLines}

	var leftOffset, rightOffset int
	for _, line := range lines {
		if line[0] == ' ' && h == nil {
			common.push(line)
		} else {
			if h == nil {
				h = newHunk(leftOffset, rightOffset, common.take(), contextLines)
			}
			h.add(line)
			if h.closed() {
				for _, trimmed := range h.trim() {
					common.push(trimmed)
				}
				if err := h.printTo(w); err != nil {
					return err
				}
				h = nil
			}
		}
		switch line[0] {
		case '-':
			leftOffset++
		case ' ':
			leftOffset++
			rightOffset++
		case '+':
			rightOffset++
		}
	}
	if h != nil {
		h.trim()
		return h.printTo(w)
	}
	return nil
}

// See https://www.gnu.org/software/diffutils/manual/html_node/Hunks.html.
type hunk struct {
	// Location of the hunk: left/right offset and count, rendered for
	// example as "@@ -15,3 +17,5 @@".
	lo, lc int
	ro, rc int

	lines []string

	// Number of common lines since the last difference. For a diff with 3
	// context lines, the hunk is definitely closed after 7 common lines
	// (4 of which then need to be trimmed off again).
	sinceLastDiff int

	context int
}

func newHunk(lo, ro int, backfill []string, contextLines int) *hunk {
	n := len(backfill)
	return &hunk{
		lo:      lo - n,
		ro:      ro - n,
		lc:      n,
		rc:      n,
		lines:   backfill,
		context: contextLines,
	}
}

func (h *hunk) add(line string) {
	h.lines = append(h.lines, line)
	switch line[0] {
	case '-':
		h.sinceLastDiff = 0
		h.lc++
	case '+':
		h.sinceLastDiff = 0
		h.rc++
	default:
		h.sinceLastDiff++
		h.lc++
		h.rc++
	}
}

func (h *hunk) closed() bool {
	return h.sinceLastDiff >= 2*h.context+1
}

// trim drops trailing common lines in excess of the wanted context and
// returns them, so the caller can treat them as inter-hunk context again.
func (h *hunk) trim() []string {
	if h.sinceLastDiff <= h.context {
		return nil
	}
	n := h.sinceLastDiff - h.context
	trimmed := h.lines[len(h.lines)-n:]
	h.lines = h.lines[:len(h.lines)-n]
	h.lc -= n
	h.rc -= n
	return trimmed
}

func (h *hunk) printTo(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "@@ -%s +%s @@\n", location(h.lo, h.lc), location(h.ro, h.rc)); err != nil {
		return err
	}
	for _, line := range h.lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func location(offset, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", offset+1)
	}
	return fmt.Sprintf("%d,%d", offset+1, count)
}

// lastN keeps the most recent n lines pushed into it.
type lastN struct {
	lines []string
	n     int
}

func (l *lastN) push(line string) {
	if l.n == 0 {
		return
	}
	l.lines = append(l.lines, line)
	if len(l.lines) > l.n {
		l.lines = l.lines[len(l.lines)-l.n:]
	}
}

func (l *lastN) take() []string {
	lines := l.lines
	l.lines = nil
	return lines
}

// Look at a few thousand bytes and see if any of them is null.
func isLikelyBinary(lines []string) bool {
	count := 0
	for _, line := range lines {
		if strings.Contains(line, "\x00") {
			return true
		}
		count += len(line)
		if count >= bytesForBinaryFileCheck {
			break
		}
	}
	return false
}
