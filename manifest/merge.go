package manifest

import (
	"fmt"

	"github.com/meigma/venvcache/internal/natsort"
)

// Merge combines two requirements for the same package into their logical
// intersection.
//
// Params are unioned. A version-control URL takes precedence over a plain
// index reference; two version-control URLs must be textually identical or
// the merge fails with [ErrConflictingSource]. A version-control source
// cannot carry a version constraint, so any operator on either side fails
// the merge with [ErrConflictingVersion] once the resolved URL is a
// version-control locator. Otherwise the higher version in natural order
// wins; an exact pin that loses to a higher requirement fails with
// [ErrConflictingVersion] rather than silently widening.
func Merge(a, b *Requirement) (*Requirement, error) {
	if a.Name != b.Name {
		return nil, fmt.Errorf("manifest: cannot merge %q with %q", a.Name, b.Name)
	}

	c := &Requirement{Name: a.Name}
	for p := range a.Params {
		c.AddParam(p)
	}
	for p := range b.Params {
		c.AddParam(p)
	}

	switch {
	case a.VCS() && b.VCS():
		if a.URL != b.URL {
			return nil, fmt.Errorf("%w: %s from both %s and %s",
				ErrConflictingSource, a.Name, a.URL, b.URL)
		}
		c.URL = a.URL
	case b.VCS():
		c.URL = b.URL
	default:
		c.URL = a.URL
	}

	if c.VCS() && (a.Op != "" || b.Op != "") {
		return nil, fmt.Errorf("%w: version constraint on version-control source %s",
			ErrConflictingVersion, c.URL)
	}

	switch {
	case a.Op == "":
		c.Op, c.Version = b.Op, b.Version
	case b.Op == "":
		c.Op, c.Version = a.Op, a.Version
	default:
		c.Version = b.Version
		if natsort.Compare(a.Version, b.Version) > 0 {
			c.Version = a.Version
		}
		if a.Op == OpExact && a.Version != c.Version {
			return nil, fmt.Errorf("%w: %s pinned to %s but %s is required",
				ErrConflictingVersion, a.Name, a.Version, c.Version)
		}
		if b.Op == OpExact && b.Version != c.Version {
			return nil, fmt.Errorf("%w: %s pinned to %s but %s is required",
				ErrConflictingVersion, b.Name, b.Version, c.Version)
		}
		c.Op = OpAtLeast
		if a.Op == OpExact || b.Op == OpExact {
			c.Op = OpExact
		}
	}

	return c, nil
}
