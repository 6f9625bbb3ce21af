// Package lineindex resolves byte offsets in a document to 1-based
// line numbers.
//
// Grounded on original_source's generic_detector::LinesEnds /
// LinesEnds::from_str / get_line.
package lineindex

import "sort"

// Index maps byte offsets into a document to 1-based line numbers. It
// is built once per document and never mutated afterward.
type Index struct {
	// ends[i] is the cumulative byte count through line i+1 (i.e. the
	// offset one past the line's terminating '\n', or the document's
	// length for the final line if it has no trailing newline). ends
	// is strictly ascending.
	//
	// This counts bytes, not runes: every offset LineOf is queried
	// with is itself a byte offset produced by the Aho-Corasick
	// automaton or go-re2, so the index must stay in the same unit as
	// its callers rather than the original's rune count.
	ends []int
}

// New builds a line index over buf in O(n). Lines are newline-
// terminated; a final unterminated line still gets an entry.
func New(buf []byte) *Index {
	idx := &Index{}
	count := 0
	for _, b := range buf {
		count++
		if b == '\n' {
			idx.ends = append(idx.ends, count)
		}
	}
	if len(buf) > 0 && buf[len(buf)-1] != '\n' {
		idx.ends = append(idx.ends, count)
	}
	return idx
}

// LineOf returns the 1-based line number containing offset, and true,
// or (0, false) if offset is past the end of the document. LineOf is
// monotone non-decreasing in offset (spec invariant 5).
func (idx *Index) LineOf(offset int) (int, bool) {
	i := sort.Search(len(idx.ends), func(i int) bool {
		return idx.ends[i] > offset
	})
	if i >= len(idx.ends) {
		return 0, false
	}
	return i + 1, true
}
