package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/YuminosukeSato/classwise/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Parallelize splits items into contiguous ranges, one per CPU core, and
// runs fn on each range concurrently.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
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

// ParallelizeWithThreshold runs fn sequentially over [0, items) when items
// does not exceed threshold, and through Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// ForEach calls fn for every index in [0, n) with at most workers calls in
// flight. The first error cancels the context passed to the remaining calls
// and is returned; a panic inside fn is returned as *errors.PanicError.
// A cancelled ctx is reported even when no call ran.
//
// Results must be written by index: completion order is not defined.
func ForEach(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return errors.WithStack(err)
			}
			if err := safeCall(ctx, i, fn); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			return safeCall(gctx, i, fn)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// items skipped after cancellation have no result
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func safeCall(ctx context.Context, i int, fn func(ctx context.Context, i int) error) error {
	return errors.SafeExecute(fmt.Sprintf("item %d", i), func() error {
		return fn(ctx, i)
	})
}
