package venvcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/singleflight"

	"github.com/meigma/venvcache/manifest"
)

// DefaultDirPerm is the permission used for created cache directories.
const DefaultDirPerm = 0o755

// Cache is a content-addressed store of built environments rooted at one
// directory. Entries are directories named by their cache key; Get returns
// an existing good entry unchanged and destructively rebuilds anything
// else.
type Cache struct {
	root       string
	builder    Builder
	installer  Installer
	patcher    Patcher
	keepBroken bool
	logger     *slog.Logger

	// group collapses concurrent in-process Gets for the same key into a
	// single build.
	group singleflight.Group
}

// New creates a cache rooted at root, creating the directory if missing.
// The builder constructs environments and the installer installs the
// generated manifest into them.
func New(root string, builder Builder, installer Installer, opts ...Option) (*Cache, error) {
	if root == "" {
		return nil, errors.New("venvcache: cache root is empty")
	}
	if builder == nil {
		return nil, errors.New("venvcache: builder is required")
	}
	if installer == nil {
		return nil, errors.New("venvcache: installer is required")
	}

	c := &Cache{
		root:      root,
		builder:   builder,
		installer: installer,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(root, DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("venvcache: create cache root: %w", err)
	}
	return c, nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// Get returns the environment for the canonical collection, building it if
// no good environment exists. A bad or partial entry for the key is
// destroyed and rebuilt; a good entry is returned without mutation.
func (c *Cache) Get(ctx context.Context, reqs *manifest.Collection) (*Env, error) {
	key := Key(reqs)
	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		return c.get(ctx, key, reqs)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Env), nil
}

func (c *Cache) get(ctx context.Context, key digest.Digest, reqs *manifest.Collection) (*Env, error) {
	env := newEnv(c.root, key)

	if env.Good() {
		c.logger.Debug("environment cache hit",
			slog.String("key", key.Encoded()),
			slog.String("path", env.Path()))
		return env, nil
	}

	if env.Exists() {
		c.logger.Info("destroying bad environment",
			slog.String("path", env.Path()))
		if err := c.destroy(env.Path()); err != nil {
			return nil, err
		}
	}

	if err := c.build(ctx, env, reqs); err != nil {
		if c.keepBroken {
			c.logger.Warn("keeping broken environment for inspection",
				slog.String("path", env.Path()),
				slog.Any("error", err))
			return nil, err
		}
		if derr := c.destroy(env.Path()); derr != nil {
			return nil, errors.Join(err, derr)
		}
		return nil, err
	}

	return env, nil
}

// build walks one entry through its lifecycle: create the directory, run
// the builder, apply the optional patch, record the manifest, run the
// installer, and only then persist the good marker.
func (c *Cache) build(ctx context.Context, env *Env, reqs *manifest.Collection) error {
	c.logger.Info("building environment",
		slog.String("key", env.Key().Encoded()),
		slog.Int("requirements", reqs.Len()))

	if err := os.MkdirAll(env.Path(), DefaultDirPerm); err != nil {
		return fmt.Errorf("venvcache: create environment directory: %w", err)
	}
	if err := c.builder.Create(ctx, env.Path()); err != nil {
		return fmt.Errorf("%w: create environment: %w", ErrBuildFailed, err)
	}
	if c.patcher != nil {
		if err := c.patcher.Patch(ctx, env.Path()); err != nil {
			return fmt.Errorf("%w: patch environment: %w", ErrBuildFailed, err)
		}
	}
	if err := env.writeManifest(reqs); err != nil {
		return fmt.Errorf("venvcache: write manifest: %w", err)
	}
	if err := c.installer.Install(ctx, env.Path(), env.ManifestPath()); err != nil {
		return fmt.Errorf("%w: install requirements: %w", ErrBuildFailed, err)
	}
	if err := env.markGood(); err != nil {
		return fmt.Errorf("venvcache: persist good marker: %w", err)
	}

	c.logger.Info("environment ready", slog.String("path", env.Path()))
	return nil
}

// destroy removes an entry directory. The directory's base name must be a
// well-formed cache key; anything else fails with ErrUnsafeRemoval before
// any filesystem mutation.
func (c *Cache) destroy(path string) error {
	if base := filepath.Base(path); !validKeyName(base) {
		return fmt.Errorf("%w: %s is not named by a cache key", ErrUnsafeRemoval, path)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("venvcache: remove %s: %w", path, err)
	}
	return nil
}
