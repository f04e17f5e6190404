// Package snapshot implements the binary snapshot codec of spec.md §4.5: a
// self-describing, versioned buffer holding the full state of an engine
// (sources, contents, names, segments) for cross-process caching, without
// re-running the VLQ codec on load.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/MadAppGang/sourcemap/internal/sourcemaperr"
	"github.com/MadAppGang/sourcemap/internal/table"
)

var magic = [4]byte{'S', 'M', 'A', 'P'}

// Version1 is the only schema version this codec currently writes or reads.
const Version1 uint16 = 1

// State is the plain-data view of an engine that the snapshot codec
// serializes. It mirrors spec.md §3's data model exactly.
type State struct {
	Sources  []string
	Contents []string // parallel to Sources; "" where no content was set
	Names    []string
	Segments []table.Segment
}

// Encode serializes state into a versioned, checksummed binary blob.
func Encode(state State) []byte {
	var payload bytes.Buffer

	writeStrings(&payload, state.Sources)
	writeStrings(&payload, padTo(state.Contents, len(state.Sources)))
	writeStrings(&payload, state.Names)

	writeUint32(&payload, uint32(len(state.Segments)))
	for _, seg := range state.Segments {
		writeInt32(&payload, int32(seg.GeneratedLine))
		writeInt32(&payload, int32(seg.GeneratedColumn))
		writeInt32(&payload, int32(seg.Source))
		writeInt32(&payload, int32(seg.OriginalLine))
		writeInt32(&payload, int32(seg.OriginalColumn))
		writeInt32(&payload, int32(seg.Name))
	}

	checksum := xxhash.Sum64(payload.Bytes())

	var out bytes.Buffer
	out.Write(magic[:])
	writeUint16(&out, Version1)
	writeUint64(&out, checksum)
	out.Write(payload.Bytes())
	return out.Bytes()
}

// Decode validates and parses a blob produced by Encode. It rejects unknown
// schema versions, truncated input, and checksum mismatches with
// ErrIncompatibleSnapshot.
func Decode(blob []byte) (State, error) {
	r := &reader{data: blob}

	var gotMagic [4]byte
	if !r.readBytes(gotMagic[:]) {
		return State{}, fmt.Errorf("%w: truncated header", sourcemaperr.ErrIncompatibleSnapshot)
	}
	if gotMagic != magic {
		return State{}, fmt.Errorf("%w: bad magic %q", sourcemaperr.ErrIncompatibleSnapshot, gotMagic)
	}

	version, ok := r.readUint16()
	if !ok {
		return State{}, fmt.Errorf("%w: truncated header", sourcemaperr.ErrIncompatibleSnapshot)
	}
	if version != Version1 {
		return State{}, fmt.Errorf("%w: unsupported schema version %d", sourcemaperr.ErrIncompatibleSnapshot, version)
	}

	wantChecksum, ok := r.readUint64()
	if !ok {
		return State{}, fmt.Errorf("%w: truncated header", sourcemaperr.ErrIncompatibleSnapshot)
	}

	payload := r.data[r.pos:]
	if xxhash.Sum64(payload) != wantChecksum {
		return State{}, fmt.Errorf("%w: checksum mismatch", sourcemaperr.ErrIncompatibleSnapshot)
	}

	sources, ok := r.readStrings()
	if !ok {
		return State{}, fmt.Errorf("%w: truncated sources", sourcemaperr.ErrIncompatibleSnapshot)
	}
	contents, ok := r.readStrings()
	if !ok {
		return State{}, fmt.Errorf("%w: truncated contents", sourcemaperr.ErrIncompatibleSnapshot)
	}
	names, ok := r.readStrings()
	if !ok {
		return State{}, fmt.Errorf("%w: truncated names", sourcemaperr.ErrIncompatibleSnapshot)
	}

	segCount, ok := r.readUint32()
	if !ok {
		return State{}, fmt.Errorf("%w: truncated segment count", sourcemaperr.ErrIncompatibleSnapshot)
	}

	segments := make([]table.Segment, 0, minCap(segCount, 1<<16))
	for i := uint32(0); i < segCount; i++ {
		gl, ok1 := r.readInt32()
		gc, ok2 := r.readInt32()
		src, ok3 := r.readInt32()
		ol, ok4 := r.readInt32()
		oc, ok5 := r.readInt32()
		nm, ok6 := r.readInt32()
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
			return State{}, fmt.Errorf("%w: truncated segment %d", sourcemaperr.ErrIncompatibleSnapshot, i)
		}
		segments = append(segments, table.Segment{
			GeneratedLine:   int(gl),
			GeneratedColumn: int(gc),
			Source:          int(src),
			OriginalLine:    int(ol),
			OriginalColumn:  int(oc),
			Name:            int(nm),
		})
	}

	return State{Sources: sources, Contents: contents, Names: names, Segments: segments}, nil
}

func minCap(n uint32, limit uint32) int {
	if n > limit {
		return int(limit)
	}
	return int(n)
}

func padTo(values []string, n int) []string {
	if len(values) >= n {
		return values
	}
	padded := make([]string, n)
	copy(padded, values)
	return padded
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeInt32(buf *bytes.Buffer, v int32) {
	writeUint32(buf, uint32(v))
}

func writeStrings(buf *bytes.Buffer, values []string) {
	writeUint32(buf, uint32(len(values)))
	for _, s := range values {
		writeUint32(buf, uint32(len(s)))
		buf.WriteString(s)
	}
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) readBytes(dst []byte) bool {
	if r.pos+len(dst) > len(r.data) {
		return false
	}
	copy(dst, r.data[r.pos:])
	r.pos += len(dst)
	return true
}

func (r *reader) readUint16() (uint16, bool) {
	var b [2]byte
	if !r.readBytes(b[:]) {
		return 0, false
	}
	return binary.BigEndian.Uint16(b[:]), true
}

func (r *reader) readUint32() (uint32, bool) {
	var b [4]byte
	if !r.readBytes(b[:]) {
		return 0, false
	}
	return binary.BigEndian.Uint32(b[:]), true
}

func (r *reader) readUint64() (uint64, bool) {
	var b [8]byte
	if !r.readBytes(b[:]) {
		return 0, false
	}
	return binary.BigEndian.Uint64(b[:]), true
}

func (r *reader) readInt32() (int32, bool) {
	v, ok := r.readUint32()
	return int32(v), ok
}

func (r *reader) readStrings() ([]string, bool) {
	count, ok := r.readUint32()
	if !ok {
		return nil, false
	}
	out := make([]string, 0, minCap(count, 1<<16))
	for i := uint32(0); i < count; i++ {
		length, ok := r.readUint32()
		if !ok {
			return nil, false
		}
		if r.pos+int(length) > len(r.data) {
			return nil, false
		}
		out = append(out, string(r.data[r.pos:r.pos+int(length)]))
		r.pos += int(length)
	}
	return out, true
}
