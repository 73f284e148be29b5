package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultBlockRows is used when Options.BlockRows is not set
const DefaultBlockRows = 32

// Options controls how rows are split across workers
type Options struct {
	Workers   int // 0 means runtime.NumCPU()
	BlockRows int // 0 means DefaultBlockRows
}

// Rows calls fn for contiguous row blocks [start, end) covering [0, rows).
// At most Workers blocks run at once. ctx is checked before each block is
// started, so a cancelled context stops the run between blocks and Rows
// returns ctx.Err().
func Rows(ctx context.Context, rows int, opts Options, fn func(start, end int)) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	blockRows := opts.BlockRows
	if blockRows <= 0 {
		blockRows = DefaultBlockRows
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	for start := 0; start < rows; start += blockRows {
		end := min(start+blockRows, rows)

		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}

		g.Go(func() error {
			defer sem.Release(1)

			if err := gctx.Err(); err != nil {
				return err
			}
			fn(start, end)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// Acquire may have failed before any goroutine saw the cancellation
	return ctx.Err()
}
