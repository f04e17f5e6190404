// Package sourcemaperr defines the error sentinels shared by every internal
// package that needs to raise one of the kinds from spec.md §7. They are
// re-exported by the root sourcemap package so callers can use errors.Is
// without reaching into internal/.
package sourcemaperr

import "errors"

var (
	// ErrMalformedMappings is returned when a "mappings" VLQ string is
	// syntactically invalid or violates the delta-arithmetic rules.
	ErrMalformedMappings = errors.New("sourcemap: malformed mappings")

	// ErrIncompatibleSnapshot is returned when a binary snapshot blob has an
	// unknown schema version, a bad checksum, or is truncated.
	ErrIncompatibleSnapshot = errors.New("sourcemap: incompatible snapshot")

	// ErrUseAfterDestroy is returned by any engine operation invoked after
	// Destroy.
	ErrUseAfterDestroy = errors.New("sourcemap: use after destroy")

	// ErrOutOfBounds is returned by id-form accessors given an index outside
	// the valid range.
	ErrOutOfBounds = errors.New("sourcemap: index out of bounds")
)
