package codex

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxWorkers caps the default worker count.
	MaxWorkers = 8
)

// ResolveWorkers determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	return min(max(runtime.GOMAXPROCS(0), MinWorkers), MaxWorkers)
}

// runJobs calls fn for every index in [0, n) on at most workers goroutines
// and returns the results indexed like the jobs. Once ctx is done, the
// remaining jobs are skipped and carry ctx.Err().
func runJobs[T any](ctx context.Context, workers, n int, fn func(i int) (T, error)) ([]T, []error) {
	results := make([]T, n)
	errs := make([]error, n)
	if n == 0 {
		return results, errs
	}

	concurrency := min(workers, n)
	var wg sync.WaitGroup
	jobs := make(chan int, n)

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					errs[idx] = ctx.Err()
					continue
				}
				results[idx], errs[idx] = fn(idx)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results, errs
}
