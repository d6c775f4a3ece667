// Package gopool runs batch decoding tasks on a shared ants goroutine pool.
package gopool

import (
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

var (
	defaultPool, _   = ants.NewPool(ants.DefaultAntsPoolSize, ants.WithExpiryDuration(10*time.Second))
	minNumberPerTask = 5
)

// Submit submits a task to the default pool.
func Submit(task func()) error {
	return defaultPool.Submit(task)
}

// Running returns the number of the currently running goroutines.
func Running() int {
	return defaultPool.Running()
}

// Free returns the number of idle workers of the default pool.
func Free() int {
	return defaultPool.Free()
}

// Threads returns how many workers a batch of tasks is worth: one per
// minNumberPerTask tasks, at least one and at most one per CPU.
func Threads(tasks int) int {
	threads := tasks / minNumberPerTask
	if threads > runtime.NumCPU() {
		threads = runtime.NumCPU()
	} else if threads == 0 {
		threads = 1
	}
	return threads
}

// Each runs fn(i) for every i in [0, n) on the default pool and waits for
// all of them. Tasks that the pool rejects run on the calling goroutine.
func Each(n int, fn func(i int)) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		index := i
		if err := Submit(func() {
			defer wg.Done()
			fn(index)
		}); err != nil {
			fn(index)
			wg.Done()
		}
	}
	wg.Wait()
}
