package testkit

import (
	"sync"
	"testing"
)

var (
	global sync.Mutex
	seams  sync.Map // variable address -> *sync.Mutex
)

func seamLock(key any) *sync.Mutex {
	mu, _ := seams.LoadOrStore(key, new(sync.Mutex))
	return mu.(*sync.Mutex)
}

// Swap replaces *target until t finishes
// tests swapping the same variable run one at a time; swap a variable at most
// once per test
func Swap[T any](t testing.TB, target *T, replacement T) {
	t.Helper()
	mu := seamLock(target)
	mu.Lock()
	orig := *target
	*target = replacement
	t.Cleanup(func() {
		*target = orig
		mu.Unlock()
	})
}

// Serial holds a process wide lock for the rest of t, for tests that read
// package state other tests swap
func Serial(t testing.TB) {
	t.Helper()
	global.Lock()
	t.Cleanup(global.Unlock)
}
