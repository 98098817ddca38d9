package patterncore

import "errors"

// Error kinds shared across the pattern store. Disk tiers never let these
// escape as panics or unconverted errors: StorePattern/LoadPattern/etc.
// collapse every failure into a false/nil boundary return, per the tier
// contract; the underlying cause is discarded, not logged.
var (
	// ErrNotFound marks a normal cache/tier miss.
	ErrNotFound = errors.New("patterncore: not found")

	// ErrDimensionMismatch is returned by FeatureVector math when operand
	// dimensions differ. Callers on the activation path swallow it and
	// fall back to base activation.
	ErrDimensionMismatch = errors.New("patterncore: dimension mismatch")

	// ErrIoError wraps any underlying disk failure at a tier boundary.
	ErrIoError = errors.New("patterncore: io error")

	// ErrCorruption marks a deserialize failure caused by malformed or
	// truncated data.
	ErrCorruption = errors.New("patterncore: corrupted record")

	// ErrInvalidConfig is returned by configuration validation and fails
	// construction outright; disk tier constructors can also fail with
	// ErrIoError when their directories cannot be created.
	ErrInvalidConfig = errors.New("patterncore: invalid config")

	// ErrCapacityExhausted is not a true error condition: it documents the
	// LRU cache's eviction trigger for callers that want to observe it.
	ErrCapacityExhausted = errors.New("patterncore: capacity exhausted")
)
