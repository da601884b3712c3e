//go:build wasm

package internal

import "sync"

var once sync.Once
var globalRuntime *Runtime

// GetRuntime returns the single runtime shared by the program.
func GetRuntime() *Runtime {
	once.Do(func() {
		globalRuntime = NewRuntime(DefaultOptions())
	})

	return globalRuntime
}

// ReleaseRuntime is a no-op: wasm programs run on a single thread.
func ReleaseRuntime() {}
