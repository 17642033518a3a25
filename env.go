package venvcache

import (
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/venvcache/manifest"
)

// Fixed file names inside an entry directory.
const (
	// SentinelName is the file whose presence marks an environment good.
	SentinelName = ".venvcache-ok"

	// ManifestName is the generated manifest recorded inside the
	// environment and consumed by the installer.
	ManifestName = "requirements.txt"
)

// Env is one cached environment: the on-disk artifact for one cache key.
//
// An Env is a view of the directory's current state. It exposes exactly two
// readable states for an existing directory: good (sentinel present) and
// bad (sentinel absent).
type Env struct {
	key  digest.Digest
	path string
}

func newEnv(root string, key digest.Digest) *Env {
	return &Env{key: key, path: filepath.Join(root, key.Encoded())}
}

// Key returns the cache key the environment is named by.
func (e *Env) Key() digest.Digest {
	return e.key
}

// Path returns the environment's root directory.
func (e *Env) Path() string {
	return e.path
}

// ActivateScript returns the path of the environment's activation script.
func (e *Env) ActivateScript() string {
	return filepath.Join(e.path, "bin", "activate")
}

// ManifestPath returns the path of the recorded manifest.
func (e *Env) ManifestPath() string {
	return filepath.Join(e.path, ManifestName)
}

// Exists reports whether the environment directory is present on disk.
func (e *Env) Exists() bool {
	_, err := os.Stat(e.path)
	return err == nil
}

// Good reports whether the environment completed installation.
func (e *Env) Good() bool {
	_, err := os.Stat(filepath.Join(e.path, SentinelName))
	return err == nil
}

// Bad reports whether the environment exists but never completed
// installation. Bad environments are destroyed and rebuilt on the next Get
// for their key.
func (e *Env) Bad() bool {
	return e.Exists() && !e.Good()
}

// markGood persists the integrity marker. The marker is an empty file;
// its presence is the state.
func (e *Env) markGood() error {
	return os.WriteFile(filepath.Join(e.path, SentinelName), nil, 0o644)
}

// writeManifest records the canonical collection as the environment's
// requirements.txt, written via a temp file and rename so the installer
// never sees a partial manifest.
func (e *Env) writeManifest(reqs *manifest.Collection) error {
	tmp, err := os.CreateTemp(e.path, ManifestName+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := reqs.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, e.ManifestPath()); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
