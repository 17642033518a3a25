package venvcache

import "context"

// Builder constructs an isolated environment at a target path. The
// virtualenv subpackage provides the real implementation.
type Builder interface {
	// Create builds a working environment rooted at path. The directory
	// exists, and is empty, when Create is called. A non-nil error marks
	// the entry bad.
	Create(ctx context.Context, path string) error
}

// Installer installs a generated manifest into a built environment.
type Installer interface {
	// Install installs the manifest file at manifestPath into the
	// environment rooted at path, running inside that environment.
	Install(ctx context.Context, path, manifestPath string) error
}

// Patcher applies a one-off fix to a freshly built environment, between
// environment creation and installation. Configure one with [WithPatcher].
type Patcher interface {
	Patch(ctx context.Context, path string) error
}
