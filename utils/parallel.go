package utils

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// ItemFunc does the work for item i of a ForEachIsolated call.
type ItemFunc func(ctx context.Context, i int) error

// ForEachIsolated runs f for every index in [0, n) on at most workers goroutines
// (ParallelFactor when workers <= 0). The outcome of every item is stored at its index
// in the returned slice; an error or panic in one item never stops the others.
// Cancelling ctx stops scheduling: items that never started get ctx.Err() as their
// outcome and the context error is also returned.
func ForEachIsolated(ctx context.Context, n, workers int, f ItemFunc) ([]error, error) {
	if workers <= 0 {
		workers = ParallelFactor
	}
	outcomes := make([]error, n)

	var group errgroup.Group
	group.SetLimit(workers)
	scheduled := 0
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		idx := i
		group.Go(func() error {
			outcomes[idx] = runCaptured(ctx, f, idx)
			return nil
		})
		scheduled++
	}
	//nolint:errcheck
	group.Wait()

	if scheduled < n {
		for i := scheduled; i < n; i++ {
			outcomes[i] = ctx.Err()
		}
		return outcomes, ctx.Err()
	}
	return outcomes, nil
}

func runCaptured(ctx context.Context, f ItemFunc, i int) (err error) {
	defer func() {
		if thePanic := recover(); thePanic != nil {
			err = errors.Errorf("got panic processing item %d: %v", i, thePanic)
		}
	}()
	return f(ctx, i)
}
