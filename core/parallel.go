package core

import (
	"context"
	"runtime"
	"sync"
)

// runParallel distributes n independent work items over a bounded worker
// pool. The loops it serves (one outage per item, one temperature per
// item) are embarrassingly parallel: fn only writes to its own slot, so
// no coordination beyond the job channel is needed. Dispatch stops early
// when ctx is cancelled; items already picked up run to completion, and
// the ctx error is returned so callers can report partial results.
func runParallel(ctx context.Context, n, workers int, fn func(i int)) error {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}

	var err error
dispatch:
	for i := 0; i < n; i++ {
		// Checked first so an already-cancelled context dispatches
		// nothing, regardless of worker readiness.
		if ctx.Err() != nil {
			err = ctx.Err()
			break dispatch
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	return err
}
