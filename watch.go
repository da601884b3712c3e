package reactive

import "github.com/AnatoleLucet/reactive/internal"

type WatchOption func(*internal.WatchOptions)

// WithDeep also triggers the callback on mutations nested in the value.
func WithDeep() WatchOption {
	return func(o *internal.WatchOptions) { o.Deep = true }
}

// WithSync calls the callback as soon as the value changes instead of at
// the next flush.
func WithSync() WatchOption {
	return func(o *internal.WatchOptions) { o.Sync = true }
}

// WithImmediate calls the callback once right away.
func WithImmediate() WatchOption {
	return func(o *internal.WatchOptions) { o.Immediate = true }
}

// WithBefore runs fn right before the watcher is re-evaluated by a flush.
func WithBefore(fn func()) WatchOption {
	return func(o *internal.WatchOptions) { o.Before = fn }
}

func watchOptions(opts []WatchOption) internal.WatchOptions {
	var o internal.WatchOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Watch calls cb each time the value returned by source changes.
func Watch[T any](source func() T, cb func(value, old T), opts ...WatchOption) *Watcher {
	return WatchIn(internal.GetRuntime(), source, cb, opts...)
}

func WatchIn[T any](rt *Runtime, source func() T, cb func(value, old T), opts ...WatchOption) *Watcher {
	return rt.NewWatch(
		func() (any, error) {
			return source(), nil
		},
		func(value, old any) error {
			cb(as[T](value), as[T](old))
			return nil
		},
		watchOptions(opts),
	)
}

// WatchPath calls cb each time the value at the dotted path under root
// changes, e.g. "user.tags.0".
func WatchPath(root *Object, path string, cb func(value, old any), opts ...WatchOption) (*Watcher, error) {
	return WatchPathIn(internal.GetRuntime(), root, path, cb, opts...)
}

func WatchPathIn(rt *Runtime, root *Object, path string, cb func(value, old any), opts ...WatchOption) (*Watcher, error) {
	return rt.WatchPath(root, path, func(value, old any) error {
		cb(value, old)
		return nil
	}, watchOptions(opts))
}
