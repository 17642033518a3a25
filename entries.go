package venvcache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"
)

// DefaultPruneWorkers bounds how many entries Prune removes in parallel.
const DefaultPruneWorkers = 4

// Entries returns the cache's entries in lexical key order. Directory
// entries whose names are not well-formed keys are ignored.
func (c *Cache) Entries() ([]*Env, error) {
	dirents, err := os.ReadDir(c.root)
	if err != nil {
		return nil, fmt.Errorf("venvcache: read cache root: %w", err)
	}

	var envs []*Env
	for _, d := range dirents {
		if !d.IsDir() || !validKeyName(d.Name()) {
			continue
		}
		envs = append(envs, newEnv(c.root, digest.NewDigestFromEncoded(digest.Canonical, d.Name())))
	}
	return envs, nil
}

// Prune destroys every bad entry in the cache and returns how many were
// removed. Removals run in parallel, bounded by DefaultPruneWorkers; the
// first failure cancels the remaining work.
func (c *Cache) Prune(ctx context.Context) (int, error) {
	envs, err := c.Entries()
	if err != nil {
		return 0, err
	}

	var pruned atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultPruneWorkers)

	for _, env := range envs {
		if !env.Bad() {
			continue
		}
		env := env
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c.logger.Info("pruning bad environment", slog.String("path", env.Path()))
			if err := c.destroy(env.Path()); err != nil {
				return err
			}
			pruned.Add(1)
			return nil
		})
	}

	err = g.Wait()
	return int(pruned.Load()), err
}

// Remove destroys the entry named by the encoded key, whatever its state.
// The argument must be a well-formed encoded key or Remove fails with
// ErrUnsafeRemoval.
func (c *Cache) Remove(encodedKey string) error {
	if !validKeyName(encodedKey) {
		return fmt.Errorf("%w: %q is not a cache key", ErrUnsafeRemoval, encodedKey)
	}
	path := filepath.Join(c.root, encodedKey)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("venvcache: entry %s: %w", encodedKey, err)
	}
	c.logger.Info("removing environment", slog.String("path", path))
	return c.destroy(path)
}
