package lineindex

import "testing"

func TestLineOf(t *testing.T) {
	buf := []byte("one\ntwo\nthree")
	idx := New(buf)

	tests := []struct {
		offset   int
		wantLine int
		wantOK   bool
	}{
		{0, 1, true},   // 'o'
		{3, 1, true},   // '\n' ends line 1
		{4, 2, true},   // 't' of "two"
		{8, 3, true},   // 't' of "three"
		{12, 3, true},  // last char
		{13, 0, false}, // past end
		{100, 0, false},
	}
	for _, tc := range tests {
		line, ok := idx.LineOf(tc.offset)
		if line != tc.wantLine || ok != tc.wantOK {
			t.Errorf("LineOf(%d) = (%d, %v), want (%d, %v)", tc.offset, line, ok, tc.wantLine, tc.wantOK)
		}
	}
}

func TestLineOfMonotone(t *testing.T) {
	buf := []byte("aaa\nbb\nc\n\nddd")
	idx := New(buf)

	prev := 0
	for o := 0; o < len(buf); o++ {
		line, ok := idx.LineOf(o)
		if !ok {
			continue
		}
		if line < prev {
			t.Fatalf("LineOf not monotone at offset %d: got %d after %d", o, line, prev)
		}
		prev = line
	}
}

func TestEmptyDocument(t *testing.T) {
	idx := New(nil)
	if _, ok := idx.LineOf(0); ok {
		t.Error("expected no line for empty document")
	}
}

// TestLineOfMultiByteCountsBytes pins down that the index is built and
// queried in byte offsets, not rune counts. Every caller (ahocorasick
// Match positions, go-re2 FindIndex) hands LineOf a byte offset, so a
// multi-byte line must not shift where later lines are reported to
// start relative to a rune-counting index.
func TestLineOfMultiByteCountsBytes(t *testing.T) {
	line1 := "héllo\n" // "héllo\n": é is 2 bytes, so this line is 7 bytes, 6 runes
	line2 := "world\n"
	buf := []byte(line1 + line2)

	if len(line1) != 7 {
		t.Fatalf("test fixture assumption broken: len(line1) = %d, want 7", len(line1))
	}

	idx := New(buf)

	// The byte offset of line1's own trailing '\n' must still resolve
	// to line 1, not line 2 — a rune-counting index would place the
	// boundary one position earlier, since 'é' consumes 2 bytes but 1
	// rune.
	if line, ok := idx.LineOf(len(line1) - 1); !ok || line != 1 {
		t.Errorf("LineOf(%d) = (%d, %v), want (1, true)", len(line1)-1, line, ok)
	}

	// The first byte of line2 ("w") must resolve to line 2, at its
	// true byte offset (7), not the rune offset (6) a chars().count()
	// implementation would use.
	if line, ok := idx.LineOf(len(line1)); !ok || line != 2 {
		t.Errorf("LineOf(%d) = (%d, %v), want (2, true)", len(line1), line, ok)
	}
	if line, ok := idx.LineOf(len(line1) - 2); !ok || line != 1 {
		t.Errorf("LineOf(%d) = (%d, %v), want (1, true)", len(line1)-2, line, ok)
	}
}
