package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers returns the default pool size: the usable hardware parallelism.
func Workers() int {
	return runtime.GOMAXPROCS(0)
}

// ForEach runs fn for every index in [0, n) on a fixed pool of workers.
//
// The range is split into contiguous chunks, one per worker. Each worker
// calls newScratch exactly once and hands that value to every fn call it
// makes, so scratch memory is owned by a single goroutine for its whole
// lifetime. The first error cancels the remaining chunks and is returned.
func ForEach[S any](
	ctx context.Context,
	n, workers int,
	newScratch func() S,
	fn func(ctx context.Context, scratch S, i int) error,
) error {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = Workers()
	}
	if workers > n {
		workers = n
	}

	g, ctx := errgroup.WithContext(ctx)
	chunkSize := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		g.Go(func() error {
			scratch := newScratch()
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(ctx, scratch, i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}
