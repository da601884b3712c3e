//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

var runtimes sync.Map

// GetRuntime returns the calling goroutine's default runtime, creating it
// with DefaultOptions on first use.
func GetRuntime() *Runtime {
	gid := getGID()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := NewRuntime(DefaultOptions())
	runtimes.Store(gid, r)
	return r
}

// ReleaseRuntime forgets the calling goroutine's default runtime.
func ReleaseRuntime() {
	runtimes.Delete(getGID())
}

func getGID() int64 {
	return goid.Get()
}
