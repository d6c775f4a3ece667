package gopool

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEach(t *testing.T) {
	var sum atomic.Int64
	seen := make([]bool, 100)
	Each(len(seen), func(i int) {
		seen[i] = true
		sum.Add(int64(i))
	})
	require.Equal(t, int64(4950), sum.Load())
	for i, ok := range seen {
		require.True(t, ok, "task %d did not run", i)
	}
}

func TestThreads(t *testing.T) {
	require.Equal(t, 1, Threads(0))
	require.Equal(t, 1, Threads(minNumberPerTask))
	require.LessOrEqual(t, Threads(1000), runtime.NumCPU())
}
