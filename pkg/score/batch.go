package score

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Batch scores profiles concurrently. Results are returned in input order.
// A concurrency of zero or less uses GOMAXPROCS.
func Batch(ctx context.Context, profiles []Profile, concurrency int) ([]Result, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, p := range profiles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Compute(p)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// the loop may stop early without any goroutine observing the cancellation
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
