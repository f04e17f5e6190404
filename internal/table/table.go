// Package table implements the indexed mapping table described in
// spec.md §4.3: segments grouped by generated line, kept in non-decreasing
// generated-column order within each line. Append binary-searches its line
// for the insertion point, so it costs O(log n) per segment rather than
// O(1); nearest-neighbor search is O(log n).
package table

import "sort"

// Absent is the sentinel used for source, originalLine, originalColumn and
// name fields that are not present on a segment.
const Absent = -1

// Segment is the id-form mapping record: source and name are interned ids
// (or Absent), everything else is 0-based internally per spec.md §6.
type Segment struct {
	GeneratedLine   int
	GeneratedColumn int
	Source          int
	OriginalLine    int
	OriginalColumn  int
	Name            int
}

// HasSource reports whether the segment references a source position.
func (s Segment) HasSource() bool { return s.Source != Absent }

// HasName reports whether the segment carries a symbol name.
func (s Segment) HasName() bool { return s.Name != Absent }

// Table is the line-indexed segment store. The zero value is an empty table.
type Table struct {
	lines       map[int][]Segment
	sortedLines []int // ascending, the keys of lines with len > 0
}

// New returns an empty table.
func New() *Table {
	return &Table{lines: make(map[int][]Segment)}
}

// Len returns the total number of segments across all lines.
func (t *Table) Len() int {
	n := 0
	for _, segs := range t.lines {
		n += len(segs)
	}
	return n
}

// MaxLine returns the highest generated line with at least one segment, and
// false if the table is empty.
func (t *Table) MaxLine() (int, bool) {
	if len(t.sortedLines) == 0 {
		return 0, false
	}
	return t.sortedLines[len(t.sortedLines)-1], true
}

// LineCount returns the number of distinct non-empty lines.
func (t *Table) LineCount() int {
	return len(t.sortedLines)
}

// Line returns the segments recorded for the given generated line, in
// generated-column order. The returned slice must not be mutated.
func (t *Table) Line(line int) []Segment {
	return t.lines[line]
}

// Lines returns the set of non-empty generated lines in ascending order.
// The returned slice must not be mutated.
func (t *Table) Lines() []int {
	return t.sortedLines
}

// Append places seg at the correct position within its generated line,
// preserving non-decreasing column order via stable insertion (spec.md
// §4.3: out-of-order donor segments are accepted, not rejected). Among
// equal-column segments the most recently appended one sorts last, which is
// what gives findClosest its "last write wins" tie-break.
func (t *Table) Append(seg Segment) {
	if t.lines == nil {
		t.lines = make(map[int][]Segment)
	}
	segs, existed := t.lines[seg.GeneratedLine]
	if !existed {
		t.insertLineIndex(seg.GeneratedLine)
	}

	// First index whose column is strictly greater than seg's: insertion
	// point that places seg after any existing equal-column segments.
	at := sort.Search(len(segs), func(i int) bool {
		return segs[i].GeneratedColumn > seg.GeneratedColumn
	})

	segs = append(segs, Segment{})
	copy(segs[at+1:], segs[at:])
	segs[at] = seg
	t.lines[seg.GeneratedLine] = segs
}

func (t *Table) insertLineIndex(line int) {
	at := sort.SearchInts(t.sortedLines, line)
	t.sortedLines = append(t.sortedLines, 0)
	copy(t.sortedLines[at+1:], t.sortedLines[at:])
	t.sortedLines[at] = line
}

// AppendBatch appends every segment in segs, applying the generated-side
// offset rules of spec.md §4.3: lineOffset shifts every segment's generated
// line; columnOffset only applies to segments whose original (pre-shift)
// generated line was 0, matching how concatenated generated texts align at
// the donor's first line.
func (t *Table) AppendBatch(segs []Segment, lineOffset, columnOffset int) {
	for _, seg := range segs {
		colOffset := 0
		if seg.GeneratedLine == 0 {
			colOffset = columnOffset
		}
		seg.GeneratedLine += lineOffset
		seg.GeneratedColumn += colOffset
		t.Append(seg)
	}
}

// FindClosest implements spec.md §4.3's nearest-neighbor search: locate the
// largest non-empty generated line L* <= gLine, then within it the greatest
// segment whose column <= gCol (if L* == gLine) or its last segment
// (otherwise). If the exact line has no segment at or before gCol, search
// falls back to the previous non-empty line so the result still obeys the
// monotonicity property of spec.md §8 invariant 9.
func (t *Table) FindClosest(gLine, gCol int) (Segment, bool) {
	idx := sort.SearchInts(t.sortedLines, gLine+1) - 1
	for idx >= 0 {
		line := t.sortedLines[idx]
		segs := t.lines[line]

		if line == gLine {
			at := sort.Search(len(segs), func(i int) bool {
				return segs[i].GeneratedColumn > gCol
			})
			if at > 0 {
				return segs[at-1], true
			}
			idx--
			continue
		}

		return segs[len(segs)-1], true
	}
	return Segment{}, false
}
