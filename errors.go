package venvcache

import (
	"errors"

	"github.com/meigma/venvcache/manifest"
)

// Sentinel errors for cache operations.
var (
	// ErrBuildFailed is returned when an external build, patch, or install
	// step fails. The affected entry is left in or forced into the bad
	// state; cleanup follows the keep-broken policy.
	ErrBuildFailed = errors.New("venvcache: build failed")

	// ErrUnsafeRemoval is returned when a destructive operation targets a
	// path whose base name is not a well-formed cache key. Nothing is
	// removed.
	ErrUnsafeRemoval = errors.New("venvcache: unsafe removal")
)

// Errors re-exported from manifest.
var (
	// ErrParse is returned when a manifest line cannot be parsed.
	ErrParse = manifest.ErrParse

	// ErrConflictingSource is returned when two requirements name the same
	// package from different version-control sources.
	ErrConflictingSource = manifest.ErrConflictingSource

	// ErrConflictingVersion is returned when version constraints for the
	// same package cannot be reconciled.
	ErrConflictingVersion = manifest.ErrConflictingVersion
)
