package manifest

import "errors"

// Sentinel errors for manifest parsing and merging.
var (
	// ErrParse is returned when a manifest line cannot be parsed. The
	// wrapped error carries the file name and line number.
	ErrParse = errors.New("manifest: parse error")

	// ErrConflictingSource is returned when two requirements name the same
	// package from different version-control sources.
	ErrConflictingSource = errors.New("manifest: conflicting sources")

	// ErrConflictingVersion is returned when version constraints for the
	// same package cannot be reconciled, including any version constraint
	// on a version-control source.
	ErrConflictingVersion = errors.New("manifest: conflicting versions")
)
