// Package parallel provides parallel execution helpers.
package parallel

import (
	"runtime"
	"sync"
)

// NumWorkers returns the default number of workers for parallel operations.
func NumWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// Resolve maps a configured worker count to an effective one, where n <= 0
// means one worker per available CPU.
func Resolve(n int) int {
	if n <= 0 {
		return NumWorkers()
	}
	return n
}

// ParallelMap evaluates fn for every index in [start, end) on up to n
// goroutines, each owning one contiguous span. The result slot for index i
// is i-start, so the output does not depend on n.
func ParallelMap[T any](start, end, n int, fn func(i int) T) []T {
	if end <= start {
		return nil
	}
	results := make([]T, end-start)
	span := (len(results) + max(n, 1) - 1) / max(n, 1)

	var wg sync.WaitGroup
	for lo := 0; lo < len(results); lo += span {
		part := results[lo:min(lo+span, len(results))]
		first := start + lo
		wg.Go(func() {
			for k := range part {
				part[k] = fn(first + k)
			}
		})
	}
	wg.Wait()
	return results
}
