package lang

import (
	"github.com/ardnew/defconf/log"
)

// DefaultMaxDepth is the default maximum nesting depth of list and dict
// literals, counting constants at the depth they are referenced.
const DefaultMaxDepth = 100

// optionsKey holds the options that affect parse results. It is hashed into
// the cache key, so it must only contain comparable, gob-encodable fields.
type optionsKey struct {
	maxDepth int
}

// config holds everything an [Option] can set.
type config struct {
	opts   optionsKey
	logger log.Logger // outside optionsKey, doesn't affect cache
}

// Option configures a parse call.
type Option func(*config)

// WithMaxDepth sets the maximum nesting depth. Values below 1 select
// [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		c.opts.maxDepth = depth
	}
}

// WithLogger sets the logger used to trace parsing.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger.With(log.Component("lang"))
	}
}

func applyDefaults(c *config) {
	c.opts.maxDepth = DefaultMaxDepth
}

func applyOptions(c *config, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
}

func makeConfig(opts ...Option) config {
	var c config

	applyDefaults(&c)
	applyOptions(&c, opts...)

	return c
}
