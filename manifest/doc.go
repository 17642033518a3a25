// Package manifest parses pip-style requirement manifests into a canonical,
// deduplicated collection of requirements.
//
// A manifest lists one requirement or directive per line: plain index
// packages with optional version constraints, direct HTTP(S) URLs,
// version-control locators carrying a #egg= fragment, -e editable markers,
// and -r includes of further manifest files. Repeated mentions of the same
// package are reconciled with [Merge]; irreconcilable mentions fail parsing
// rather than silently widening or narrowing a constraint.
//
// The canonical collection preserves first-seen order, so its serialized
// form (and anything derived from it, such as cache keys) is stable for a
// given sequence of manifests.
package manifest
