package sourcemap

import "github.com/MadAppGang/sourcemap/internal/sourcemaperr"

// Error kinds from spec.md §7. Use errors.Is to test for these; every
// returned error wraps one of them via fmt.Errorf("%w", ...).
var (
	ErrMalformedMappings    = sourcemaperr.ErrMalformedMappings
	ErrIncompatibleSnapshot = sourcemaperr.ErrIncompatibleSnapshot
	ErrUseAfterDestroy      = sourcemaperr.ErrUseAfterDestroy
	ErrOutOfBounds          = sourcemaperr.ErrOutOfBounds
)
