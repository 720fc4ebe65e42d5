package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits [0, items) into contiguous ranges, one per worker, and
// runs fn on each range concurrently. workers <= 0 means runtime.NumCPU().
func Parallelize(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items
	}

	// ceiling division
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine when
// items <= threshold, and Parallelize with all CPUs otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, 0, fn)
}
