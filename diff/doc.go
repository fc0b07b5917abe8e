// Package diff computes structured edit scripts between two strings,
// preferring line granularity and refining replaced lines down to
// character granularity, so that large structural edits stay stable while
// word-level edits inside a changed line remain localized. The output
// format is a flat script of equal/delete/insert runs.
//
// The code in this package builds on the Myers diff implementation of the
// diffmatchpatch package (https://github.com/sergi/go-diff), using its
// semantic cleanup and its line tokenization helpers. A limitation
// inherited from that algorithm is that it's not smart about reordered
// lines.
package diff
