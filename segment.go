package sourcemap

// Mapping is the string-form, 1-based-line segment handed back across the
// public boundary: the resolved counterpart of the id-form table.Segment
// used internally. Source and Name are "" when absent.
type Mapping struct {
	GeneratedLine   int
	GeneratedColumn int
	Source          string
	OriginalLine    int
	OriginalColumn  int
	Name            string
}

// HasSource reports whether the mapping resolves to an original position.
func (m Mapping) HasSource() bool { return m.Source != "" }

// HasName reports whether the mapping carries a symbol name.
func (m Mapping) HasName() bool { return m.Name != "" }

// IndexedMapping is the input shape for AddIndexedMapping(s): a single
// segment supplied directly by the caller instead of decoded from VLQ text.
// GeneratedLine and, when Source is set, OriginalLine are 1-based; columns
// are 0-based. Source == "" means the segment has no original position;
// Name == "" means it carries no symbol name.
type IndexedMapping struct {
	GeneratedLine   int
	GeneratedColumn int
	Source          string
	OriginalLine    int
	OriginalColumn  int
	Name            string
}

// VLQResult is the return value of ToVLQ: the re-emitted mappings string
// alongside the interned sources/names tables it references.
type VLQResult struct {
	Mappings       string
	Sources        []string
	SourcesContent []string
	Names          []string
}
