// Package worker runs batch analyses with bounded concurrency and
// per-host pacing.
package worker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool bounds how many tasks run at once
type Pool struct {
	workers int
}

// NewPool creates a pool of the given size (at least one)
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the pool size
func (p *Pool) Workers() int {
	return p.workers
}

// Run calls fn for every index in [0, n) with at most Workers calls in
// flight and returns when all have finished. Indexes not yet started when
// ctx is cancelled are skipped and Run returns ctx.Err().
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	g := new(errgroup.Group)
	g.SetLimit(p.workers)

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			fn(ctx, i)
			return nil
		})
	}

	_ = g.Wait()
	return ctx.Err()
}
