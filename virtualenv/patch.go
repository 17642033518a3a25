package virtualenv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/meigma/venvcache"
)

// fragmentLine is the statement older pip releases run at import time.
// It mutates the process-wide urlparse tables and breaks #egg= fragment
// parsing for every other caller (Debian bug #677801).
const fragmentLine = "urlparse.uses_fragment.extend(self.schemes)"

// vcsModulePatterns locates pip's vcs package across the layouts
// virtualenv produces, including the Debian local/ split and egg
// installs.
var vcsModulePatterns = []string{
	"lib/python*/site-packages/pip/vcs/__init__.py",
	"lib/python*/site-packages/pip-*.egg/pip/vcs/__init__.py",
	"local/lib/python*/site-packages/pip/vcs/__init__.py",
	"local/lib/python*/site-packages/pip-*.egg/pip/vcs/__init__.py",
}

// PipPatch removes the urlparse registration from pip's vcs module in a
// freshly built environment. Stale compiled bytecode next to the module
// is deleted so the patched source takes effect.
type PipPatch struct{}

// Patch edits pip's vcs module under the environment at path. It fails
// when no vcs module can be found.
func (p *PipPatch) Patch(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var modules []string
	for _, pattern := range vcsModulePatterns {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return fmt.Errorf("virtualenv: glob %s: %w", pattern, err)
		}
		modules = append(modules, matches...)
	}

	if len(modules) == 0 {
		return fmt.Errorf("virtualenv: pip vcs module not found under %s", path)
	}

	for _, module := range modules {
		if err := dropFragmentLine(module); err != nil {
			return err
		}
		if err := os.Remove(module + "c"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("virtualenv: remove stale bytecode: %w", err)
		}
	}

	return nil
}

// dropFragmentLine rewrites the module without the urlparse
// registration. The write goes through a temp file and rename so a
// crash cannot leave a truncated module behind.
func dropFragmentLine(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("virtualenv: read pip vcs module: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.Contains(line, fragmentLine) {
			continue
		}
		kept = append(kept, line)
	}

	patched := strings.Join(kept, "\n")
	if patched == string(data) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("virtualenv: stat pip vcs module: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("virtualenv: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(patched); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("virtualenv: write patched module: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("virtualenv: close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("virtualenv: chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("virtualenv: replace pip vcs module: %w", err)
	}

	return nil
}

var _ venvcache.Patcher = (*PipPatch)(nil)
