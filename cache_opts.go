package venvcache

import "log/slog"

// Option configures a Cache.
type Option func(*Cache) error

// WithLogger sets the logger for cache operations. Logs are discarded by
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) error {
		c.logger = logger
		return nil
	}
}

// WithPatcher adds an optional patch step, run after environment creation
// and before installation.
func WithPatcher(p Patcher) Option {
	return func(c *Cache) error {
		c.patcher = p
		return nil
	}
}

// WithKeepBroken leaves failed builds on disk in the bad state for
// inspection instead of destroying them immediately. A kept entry is
// destroyed on the next rebuild of its key.
func WithKeepBroken() Option {
	return func(c *Cache) error {
		c.keepBroken = true
		return nil
	}
}
