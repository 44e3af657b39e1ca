package reader

import "log/slog"

// Option configures Load and Open.
type Option func(*config)

type config struct {
	maxSize       int64
	objectStreams bool
	logger        *slog.Logger
}

// WithMaxSize rejects input larger than n bytes with ErrTooLarge.
// Zero or a negative n means no limit, which is the default.
func WithMaxSize(n int64) Option {
	return func(c *config) {
		c.maxSize = n
	}
}

// WithObjectStreams controls whether objects packed in /Type /ObjStm
// streams are added to the object table. An embedded object never replaces
// a top-level object with the same number. Off by default.
func WithObjectStreams(enabled bool) Option {
	return func(c *config) {
		c.objectStreams = enabled
	}
}

// WithLogger sets the logger for this load, overriding logging.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
