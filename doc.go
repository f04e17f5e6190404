// Package sourcemap implements a Source Map v3 engine: an in-memory
// mapping store plus the codecs that move data in and out of it.
//
// The public surface mirrors spec.md §6: VLQ ingest and re-emission,
// indexed (segment-level) mutation, a binary snapshot codec for
// cross-process caching, nearest-neighbor lookup, and composition via
// Extends. Lines in every public call are 1-based and columns are 0-based,
// matching the predominant prior-art library; everything below the public
// surface is 0-based throughout, including the VLQ wire format itself.
//
// An Engine is not safe for concurrent use. Distinct Engine values are
// fully independent.
package sourcemap
