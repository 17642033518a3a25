// Package venvcache maintains a content-addressed cache of prebuilt Python
// virtual environments, keyed by the canonical form of one or more
// pip-style requirement manifests.
//
// This package provides the cache itself through [Cache]. Manifest parsing
// and requirement merging live in the manifest subpackage; the real
// virtualenv/pip toolchain lives in the virtualenv subpackage.
//
// A cache entry is a directory named by the SHA-256 digest of the canonical
// manifest. Inside it:
//   - a sentinel file marks the environment good; it is written only after
//     installation succeeds
//   - requirements.txt records the manifest actually installed
//
// # Quick Start
//
// Parse manifests and fetch (or build) the matching environment:
//
//	reqs, err := manifest.NewParser().ParseFiles("requirements.txt")
//	if err != nil {
//	    return err
//	}
//	builder, err := virtualenv.NewBuilder()
//	if err != nil {
//	    return err
//	}
//	installer, err := virtualenv.NewInstaller()
//	if err != nil {
//	    return err
//	}
//	cache, err := venvcache.New("/var/cache/venvs", builder, installer)
//	if err != nil {
//	    return err
//	}
//	env, err := cache.Get(ctx, reqs)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(env.Path())
//
// # Failure Handling
//
// A failed build never leaves a half-usable entry behind. By default the
// broken directory is destroyed immediately; with [WithKeepBroken] it stays
// on disk in the bad state for inspection and is destroyed on the next
// rebuild of that key. Destructive operations only ever touch directories
// whose base name is a well-formed key; anything else fails with
// [ErrUnsafeRemoval].
//
// # Concurrency
//
// Concurrent Gets for the same key within one process share a single build.
// The cache takes no cross-process locks, so separate processes building
// the same key race; callers needing that guarantee must supply their own
// mutual exclusion, such as a lock file keyed by the entry path.
package venvcache
