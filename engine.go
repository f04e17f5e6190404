package sourcemap

import (
	"fmt"

	"github.com/MadAppGang/sourcemap/internal/codec"
	"github.com/MadAppGang/sourcemap/internal/intern"
	"github.com/MadAppGang/sourcemap/internal/snapshot"
	"github.com/MadAppGang/sourcemap/internal/table"
)

// rawCache holds the lazy, unparsed representation described in spec.md
// §4.4: a cached VLQ string that short-circuits re-emission until some
// other operation forces materialization into the table.
type rawCache struct {
	mappings    string
	sourcesBias int
	namesBias   int
}

// Engine is the in-memory mapping store and the single implementation of
// spec.md §4.7's façade. It owns its mapping table and interning tables
// exclusively; the zero value is not usable, use Create.
type Engine struct {
	sources   *intern.Table
	names     *intern.Table
	contents  intern.Contents
	tab       *table.Table
	raw       *rawCache
	destroyed bool
}

// Create returns an empty engine.
func Create() *Engine {
	return &Engine{
		sources: intern.New(),
		names:   intern.New(),
		tab:     table.New(),
	}
}

func (e *Engine) checkAlive() error {
	if e.destroyed {
		return fmt.Errorf("%w", ErrUseAfterDestroy)
	}
	return nil
}

// materialize flushes a pending raw-mappings cache into the table, per
// spec.md §4.4. It is a no-op when no raw cache is held.
func (e *Engine) materialize() error {
	if e.raw == nil {
		return nil
	}
	cached := e.raw
	segs, err := codec.Decode(cached.mappings, codec.DecodeOptions{
		SourceBias: cached.sourcesBias,
		NameBias:   cached.namesBias,
	})
	if err != nil {
		return err
	}
	e.raw = nil
	e.tab.AppendBatch(segs, 0, 0)
	return nil
}

// AddVLQMappings decodes a Source Map v3 mappings string and appends it,
// interning sources/names/contents first so their biases are known before
// decoding. See spec.md §6.
func (e *Engine) AddVLQMappings(mappings string, sources, sourcesContent, names []string, lineOffset, columnOffset int) error {
	if err := e.checkAlive(); err != nil {
		return err
	}

	sourcesBias := e.sources.Len()
	namesBias := e.names.Len()

	for i, s := range sources {
		id := e.sources.Intern(s)
		content := ""
		if i < len(sourcesContent) {
			content = sourcesContent[i]
		}
		e.contents.Set(id, content)
	}
	for _, n := range names {
		e.names.Intern(n)
	}

	// The raw-cache fast path of spec.md §4.4: only available for the very
	// first ingest into an untouched engine with zero offsets. The string is
	// still decoded once so malformed input is reported here; the decoded
	// segments are discarded and the table is filled later by materialize().
	eligible := e.raw == nil && e.tab.Len() == 0 && sourcesBias == 0 && namesBias == 0 &&
		lineOffset == 0 && columnOffset == 0
	if eligible {
		if _, err := codec.Decode(mappings, codec.DecodeOptions{}); err != nil {
			return err
		}
		e.raw = &rawCache{mappings: mappings, sourcesBias: 0, namesBias: 0}
		return nil
	}

	if err := e.materialize(); err != nil {
		return err
	}

	segs, err := codec.Decode(mappings, codec.DecodeOptions{SourceBias: sourcesBias, NameBias: namesBias})
	if err != nil {
		return err
	}
	e.tab.AppendBatch(segs, lineOffset, columnOffset)
	return nil
}

// AddIndexedMapping appends a single caller-supplied segment. See
// AddIndexedMappings for the batch form and the offset semantics.
func (e *Engine) AddIndexedMapping(m IndexedMapping, lineOffset, columnOffset int) error {
	return e.AddIndexedMappings([]IndexedMapping{m}, lineOffset, columnOffset)
}

// AddIndexedMappings appends a batch of caller-supplied segments,
// converting 1-based generated/original lines to the table's 0-based
// internal form and applying spec.md §4.3's offset rule (columnOffset only
// applies to a segment whose own generatedLine, before lineOffset, is 0).
func (e *Engine) AddIndexedMappings(ms []IndexedMapping, lineOffset, columnOffset int) error {
	if err := e.checkAlive(); err != nil {
		return err
	}
	if err := e.materialize(); err != nil {
		return err
	}

	segs := make([]table.Segment, len(ms))
	for i, m := range ms {
		seg := table.Segment{
			GeneratedLine:   m.GeneratedLine - 1,
			GeneratedColumn: m.GeneratedColumn,
			Source:          table.Absent,
			OriginalLine:    table.Absent,
			OriginalColumn:  table.Absent,
			Name:            table.Absent,
		}
		if m.Source != "" {
			seg.Source = e.sources.Intern(m.Source)
			seg.OriginalLine = m.OriginalLine - 1
			seg.OriginalColumn = m.OriginalColumn
			if m.Name != "" {
				seg.Name = e.names.Intern(m.Name)
			}
		}
		segs[i] = seg
	}

	e.tab.AppendBatch(segs, lineOffset, columnOffset)
	return nil
}

// AddBufferMappings reads a donor snapshot blob and appends its segments,
// biasing source/name ids by this engine's current intern-table sizes and
// appending the donor's sources/names/contents. See spec.md §4.5.
func (e *Engine) AddBufferMappings(blob []byte, lineOffset, columnOffset int) error {
	if err := e.checkAlive(); err != nil {
		return err
	}

	state, err := snapshot.Decode(blob)
	if err != nil {
		return err
	}

	if err := e.materialize(); err != nil {
		return err
	}

	sourcesBias := e.sources.Len()
	namesBias := e.names.Len()

	for i, s := range state.Sources {
		id := e.sources.Intern(s)
		content := ""
		if i < len(state.Contents) {
			content = state.Contents[i]
		}
		e.contents.Set(id, content)
	}
	for _, n := range state.Names {
		e.names.Intern(n)
	}

	segs := make([]table.Segment, len(state.Segments))
	for i, seg := range state.Segments {
		if seg.Source != table.Absent {
			seg.Source += sourcesBias
			if seg.Name != table.Absent {
				seg.Name += namesBias
			}
		}
		segs[i] = seg
	}

	e.tab.AppendBatch(segs, lineOffset, columnOffset)
	return nil
}

// AddSource interns a source path, returning its existing id if already
// present.
func (e *Engine) AddSource(path string) (int, error) {
	if err := e.checkAlive(); err != nil {
		return 0, err
	}
	return e.sources.Intern(path), nil
}

// AddSources interns a batch of source paths in order, mirroring S3's
// dedup contract.
func (e *Engine) AddSources(paths []string) ([]int, error) {
	if err := e.checkAlive(); err != nil {
		return nil, err
	}
	ids := make([]int, len(paths))
	for i, p := range paths {
		ids[i] = e.sources.Intern(p)
	}
	return ids, nil
}

// AddName interns a symbol name, returning its existing id if already
// present.
func (e *Engine) AddName(name string) (int, error) {
	if err := e.checkAlive(); err != nil {
		return 0, err
	}
	return e.names.Intern(name), nil
}

// AddNames interns a batch of symbol names in order.
func (e *Engine) AddNames(names []string) ([]int, error) {
	if err := e.checkAlive(); err != nil {
		return nil, err
	}
	ids := make([]int, len(names))
	for i, n := range names {
		ids[i] = e.names.Intern(n)
	}
	return ids, nil
}

// SetSourceContent records content for a source path, interning the path
// first if it is not yet known. It is idempotent: calling it twice
// overwrites.
func (e *Engine) SetSourceContent(path, content string) error {
	if err := e.checkAlive(); err != nil {
		return err
	}
	id := e.sources.Intern(path)
	e.contents.Set(id, content)
	return nil
}

// GetSource returns the source path at id.
func (e *Engine) GetSource(id int) (string, error) {
	if err := e.checkAlive(); err != nil {
		return "", err
	}
	s, ok := e.sources.At(id)
	if !ok {
		return "", fmt.Errorf("%w: source id %d", ErrOutOfBounds, id)
	}
	return s, nil
}

// GetName returns the symbol name at id.
func (e *Engine) GetName(id int) (string, error) {
	if err := e.checkAlive(); err != nil {
		return "", err
	}
	n, ok := e.names.At(id)
	if !ok {
		return "", fmt.Errorf("%w: name id %d", ErrOutOfBounds, id)
	}
	return n, nil
}

// GetSourceContent returns the content recorded for path, or "" if the
// path is unknown or has no recorded content.
func (e *Engine) GetSourceContent(path string) (string, error) {
	if err := e.checkAlive(); err != nil {
		return "", err
	}
	id, ok := e.sources.Lookup(path)
	if !ok {
		return "", nil
	}
	return e.contents.At(id), nil
}

// FindClosestMapping implements the nearest-neighbor search of spec.md
// §4.3 at the public, 1-based-line boundary.
func (e *Engine) FindClosestMapping(line, column int) (Mapping, bool, error) {
	if err := e.checkAlive(); err != nil {
		return Mapping{}, false, err
	}
	seg, ok := e.tab.FindClosest(line-1, column)
	if !ok {
		return Mapping{}, false, nil
	}
	return e.resolve(seg), true, nil
}

func (e *Engine) resolve(seg table.Segment) Mapping {
	m := Mapping{
		GeneratedLine:   seg.GeneratedLine + 1,
		GeneratedColumn: seg.GeneratedColumn,
		OriginalLine:    -1,
		OriginalColumn:  -1,
	}
	if seg.HasSource() {
		if s, ok := e.sources.At(seg.Source); ok {
			m.Source = s
		}
		m.OriginalLine = seg.OriginalLine + 1
		m.OriginalColumn = seg.OriginalColumn
		if seg.HasName() {
			if n, ok := e.names.At(seg.Name); ok {
				m.Name = n
			}
		}
	}
	return m
}

// allSegments returns every segment in the table in ascending document
// order (line then column).
func (e *Engine) allSegments() []table.Segment {
	var out []table.Segment
	for _, line := range e.tab.Lines() {
		out = append(out, e.tab.Line(line)...)
	}
	return out
}

// ToVLQ re-emits the mapping table (or the untouched raw cache, when
// present) in Source Map v3 form.
func (e *Engine) ToVLQ() (VLQResult, error) {
	if err := e.checkAlive(); err != nil {
		return VLQResult{}, err
	}

	mappings := ""
	if e.raw != nil {
		mappings = e.raw.mappings
	} else {
		mappings = codec.Encode(e.tab)
	}

	e.contents.EnsureLen(e.sources.Len())

	return VLQResult{
		Mappings:       mappings,
		Sources:        append([]string(nil), e.sources.Values()...),
		SourcesContent: append([]string(nil), e.contents.Values()...),
		Names:          append([]string(nil), e.names.Values()...),
	}, nil
}

// ToBuffer serializes the full engine state into a binary snapshot blob.
func (e *Engine) ToBuffer() ([]byte, error) {
	if err := e.checkAlive(); err != nil {
		return nil, err
	}
	if err := e.materialize(); err != nil {
		return nil, err
	}

	e.contents.EnsureLen(e.sources.Len())

	state := snapshot.State{
		Sources:  append([]string(nil), e.sources.Values()...),
		Contents: append([]string(nil), e.contents.Values()...),
		Names:    append([]string(nil), e.names.Values()...),
		Segments: e.allSegments(),
	}
	return snapshot.Encode(state), nil
}

// FromBuffer builds a new engine from a blob produced by ToBuffer.
func FromBuffer(blob []byte) (*Engine, error) {
	state, err := snapshot.Decode(blob)
	if err != nil {
		return nil, err
	}

	e := Create()
	for i, s := range state.Sources {
		id := e.sources.Intern(s)
		content := ""
		if i < len(state.Contents) {
			content = state.Contents[i]
		}
		e.contents.Set(id, content)
	}
	for _, n := range state.Names {
		e.names.Intern(n)
	}
	for _, seg := range state.Segments {
		e.tab.Append(seg)
	}
	return e, nil
}

// Extends re-anchors this engine's original side through donor's
// generated→original relation, per spec.md §4.6. The donor is left
// unmodified and is not retained after the call returns.
func (e *Engine) Extends(donor *Engine) error {
	if err := e.checkAlive(); err != nil {
		return err
	}
	if err := donor.checkAlive(); err != nil {
		return err
	}
	if err := e.materialize(); err != nil {
		return err
	}
	if err := donor.materialize(); err != nil {
		return err
	}

	rebuilt := table.New()
	for _, seg := range e.allSegments() {
		if seg.HasSource() {
			if donorSeg, ok := donor.tab.FindClosest(seg.OriginalLine, seg.OriginalColumn); ok && donorSeg.HasSource() {
				donorPath, _ := donor.sources.At(donorSeg.Source)
				newSourceID := e.sources.Intern(donorPath)
				e.contents.Set(newSourceID, donor.contents.At(donorSeg.Source))

				seg.Source = newSourceID
				seg.OriginalLine = donorSeg.OriginalLine
				seg.OriginalColumn = donorSeg.OriginalColumn
				if donorSeg.HasName() {
					donorName, _ := donor.names.At(donorSeg.Name)
					seg.Name = e.names.Intern(donorName)
				}
			}
		}
		rebuilt.Append(seg)
	}

	e.tab = rebuilt
	return nil
}

// ExtendsBuffer is Extends for a donor supplied as a snapshot blob rather
// than a live engine.
func (e *Engine) ExtendsBuffer(blob []byte) error {
	donor, err := FromBuffer(blob)
	if err != nil {
		return err
	}
	return e.Extends(donor)
}

// Destroy releases the engine's resources. Every subsequent operation fails
// with ErrUseAfterDestroy. Destroy is idempotent.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.sources = nil
	e.names = nil
	e.contents = intern.Contents{}
	e.tab = nil
	e.raw = nil
}
