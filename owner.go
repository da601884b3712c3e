package reactive

import "github.com/AnatoleLucet/reactive/internal"

type Owner struct {
	owner *internal.Owner
}

// NewOwner creates a new reactive owner.
// An owner manages the lifecycle of the watchers created within its context.
func NewOwner() *Owner {
	return NewOwnerIn(internal.GetRuntime())
}

func NewOwnerIn(rt *Runtime) *Owner {
	return &Owner{rt.NewOwner()}
}

// Run a function within the context of this owner.
// Each watcher and owner created within the function belongs to this owner,
// and is disposed when Dispose is called on it.
func (o *Owner) Run(fn func() error) error {
	var err error
	if rerr := o.owner.Run(func() { err = fn() }); rerr != nil {
		return rerr
	}

	return err
}

// Dispose this owner and all its children.
func (o *Owner) Dispose() { o.owner.Dispose() }

func (o *Owner) Disposed() bool { return o.owner.Disposed() }

// Add a cleanup function to be called once when the owner is disposed.
func (o *Owner) OnCleanup(fn func()) { o.owner.OnCleanup(fn) }

// Add a function to be called when a panic occurs within Run.
// If no error listener is registered, the panic propagates as usual.
func (o *Owner) OnError(fn func(error)) { o.owner.OnError(fn) }

// Watchers returns the live watchers owned directly by this owner.
func (o *Owner) Watchers() []*Watcher { return o.owner.Watchers() }
