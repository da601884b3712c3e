package reactive

import (
	"log/slog"

	"github.com/AnatoleLucet/reactive/internal"
)

// Option configures a Runtime created with New.
type Option func(*internal.Options)

// WithConfig applies a loaded Config. Options given after it take precedence.
func WithConfig(cfg *Config) Option {
	return func(o *internal.Options) {
		o.Async = cfg.Async
		o.MaxUpdateCount = cfg.MaxUpdateCount
		o.Logger = cfg.Logger()
	}
}

// WithAsync sets whether flushes are deferred to the end of the execution
// window (the default) or run as soon as a watcher is notified.
func WithAsync(async bool) Option {
	return func(o *internal.Options) { o.Async = async }
}

// WithMaxUpdateCount sets how many times a watcher may be re-queued within a
// single flush before it is reported as a circular update.
func WithMaxUpdateCount(n int) Option {
	return func(o *internal.Options) { o.MaxUpdateCount = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *internal.Options) { o.Logger = logger }
}

// WithErrorHandler replaces the default error sink, which logs at Error.
func WithErrorHandler(fn func(error)) Option {
	return func(o *internal.Options) { o.OnError = fn }
}

// WithWarningHandler replaces the default warning sink, which logs at Warn.
func WithWarningHandler(fn func(error)) Option {
	return func(o *internal.Options) { o.OnWarning = fn }
}

// WithHooks adds hooks observing the update cycle. It can be given several
// times.
func WithHooks(hooks ...Hooks) Option {
	return func(o *internal.Options) {
		hs := hooks
		if o.Hooks != nil {
			hs = append([]Hooks{o.Hooks}, hooks...)
		}

		if len(hs) == 1 {
			o.Hooks = hs[0]
			return
		}

		o.Hooks = MultiHooks(hs)
	}
}

// WithEqual replaces the predicate deciding whether a write changed a value.
func WithEqual(fn func(a, b any) bool) Option {
	return func(o *internal.Options) { o.Equal = fn }
}
