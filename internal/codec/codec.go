// Package codec implements the VLQ <-> segment-table conversion described
// in spec.md §4.1: the decoder turns a Source Map v3 "mappings" string into
// a stream of table.Segment values, and the encoder is its deterministic
// inverse.
package codec

import (
	"fmt"

	"github.com/MadAppGang/sourcemap/internal/sourcemaperr"
	"github.com/MadAppGang/sourcemap/internal/table"
	"github.com/MadAppGang/sourcemap/internal/vlq"
)

// DecodeOptions carries the bias to add to donor source/name ids. Generated
// line/column offsets are intentionally not handled here: Decode returns
// segments in the donor's own 0-based coordinate space, and the caller
// applies lineOffset/columnOffset via table.Table.AppendBatch, which also
// owns the "offset applies to the donor's line 0 only" rule of spec.md §4.3.
type DecodeOptions struct {
	SourceBias int
	NameBias   int
}

// Decode parses a Source Map v3 mappings string into segments in document
// order. It fails on an invalid base64 digit, an unterminated continuation,
// a segment field count outside {1,4,5}, or a negative absolute value after
// delta application.
func Decode(mappings string, opts DecodeOptions) ([]table.Segment, error) {
	if mappings == "" {
		return nil, nil
	}

	var segments []table.Segment

	line := 0
	genCol := 0
	source, origLine, origCol, name := 0, 0, 0, 0

	pos := 0
	fields := make([]int, 0, 5)

	for pos < len(mappings) {
		switch mappings[pos] {
		case ';':
			line++
			genCol = 0
			pos++
			continue
		case ',':
			pos++
			continue
		}

		fields = fields[:0]
		segStart := pos
		for pos < len(mappings) && mappings[pos] != ',' && mappings[pos] != ';' {
			v, next, err := vlq.Decode(mappings, pos)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", sourcemaperr.ErrMalformedMappings, err)
			}
			fields = append(fields, v)
			pos = next
		}

		switch len(fields) {
		case 1:
			genCol += fields[0]
			if genCol < 0 {
				return nil, fmt.Errorf("%w: negative generatedColumn at byte %d", sourcemaperr.ErrMalformedMappings, segStart)
			}
			segments = append(segments, table.Segment{
				GeneratedLine:   line,
				GeneratedColumn: genCol,
				Source:          table.Absent,
				OriginalLine:    table.Absent,
				OriginalColumn:  table.Absent,
				Name:            table.Absent,
			})
		case 4, 5:
			genCol += fields[0]
			source += fields[1]
			origLine += fields[2]
			origCol += fields[3]
			if genCol < 0 || source < 0 || origLine < 0 || origCol < 0 {
				return nil, fmt.Errorf("%w: negative absolute value at byte %d", sourcemaperr.ErrMalformedMappings, segStart)
			}

			seg := table.Segment{
				GeneratedLine:   line,
				GeneratedColumn: genCol,
				Source:          source + opts.SourceBias,
				OriginalLine:    origLine,
				OriginalColumn:  origCol,
				Name:            table.Absent,
			}

			if len(fields) == 5 {
				name += fields[4]
				if name < 0 {
					return nil, fmt.Errorf("%w: negative name index at byte %d", sourcemaperr.ErrMalformedMappings, segStart)
				}
				seg.Name = name + opts.NameBias
			}

			segments = append(segments, seg)
		default:
			return nil, fmt.Errorf("%w: segment with %d fields at byte %d (want 1, 4 or 5)", sourcemaperr.ErrMalformedMappings, len(fields), segStart)
		}
	}

	return segments, nil
}

// Encode re-emits tab's segments as a Source Map v3 mappings string. Same
// table, same output: the deltas are computed purely from tab's own
// contents, never from external state.
func Encode(tab *table.Table) string {
	maxLine, ok := tab.MaxLine()
	if !ok {
		return ""
	}

	var buf []byte
	prevSource, prevOrigLine, prevOrigCol, prevName := 0, 0, 0, 0

	for line := 0; line <= maxLine; line++ {
		if line > 0 {
			buf = append(buf, ';')
		}

		prevGenCol := 0
		for i, seg := range tab.Line(line) {
			if i > 0 {
				buf = append(buf, ',')
			}

			buf = vlq.Append(buf, seg.GeneratedColumn-prevGenCol)
			prevGenCol = seg.GeneratedColumn

			if !seg.HasSource() {
				continue
			}

			buf = vlq.Append(buf, seg.Source-prevSource)
			prevSource = seg.Source
			buf = vlq.Append(buf, seg.OriginalLine-prevOrigLine)
			prevOrigLine = seg.OriginalLine
			buf = vlq.Append(buf, seg.OriginalColumn-prevOrigCol)
			prevOrigCol = seg.OriginalColumn

			if seg.HasName() {
				buf = vlq.Append(buf, seg.Name-prevName)
				prevName = seg.Name
			}
		}
	}

	return string(buf)
}
