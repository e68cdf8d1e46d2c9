package container

import (
	"time"

	"github.com/klauspost/compress/flate"
)

type readConfig struct {
	limits      Limits
	strictMedia bool
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithStrictMedia makes an unreadable media entry fail Decode instead of
// being dropped with a warning.
func WithStrictMedia(v bool) ReadOption {
	return func(c *readConfig) { c.strictMedia = v }
}

type writeConfig struct {
	level   int
	modTime time.Time
}

type WriteOption func(*writeConfig)

// WithCompressionLevel sets the deflate level for rewritten entries.
// Copied entries keep their original compression.
func WithCompressionLevel(level int) WriteOption {
	return func(c *writeConfig) { c.level = level }
}

// WithModTime sets the modification time stamped on entries that did not
// exist in the decoded package. The zero time leaves it unset.
func WithModTime(t time.Time) WriteOption {
	return func(c *writeConfig) { c.modTime = t }
}

func defaultWriteConfig() writeConfig {
	return writeConfig{level: flate.DefaultCompression}
}
