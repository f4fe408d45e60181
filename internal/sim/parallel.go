package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/san-kum/motionsim/internal/dynamo"
)

// Job builds a fresh simulator for one member of a batch. Tickers are not
// safe for concurrent use, so every job owns its own.
type Job func() (*Simulator, Config, error)

// Batch runs independent jobs concurrently, at most workers at a time.
type Batch struct {
	workers int
}

func NewBatch(workers int) *Batch {
	if workers < 1 {
		workers = 1
	}
	return &Batch{workers: workers}
}

// Run returns results in job order. The first error cancels the rest, and
// jobs that have not started by then are never built.
func (b *Batch) Run(ctx context.Context, jobs []Job) ([]*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))
	sem := make(chan struct{}, b.workers)

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, job Job) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[idx] = fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
				return
			}
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				errs[idx] = fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
				return
			}

			sim, cfg, err := job()
			if err != nil {
				errs[idx] = err
				cancel()
				return
			}
			results[idx], errs[idx] = sim.Run(ctx, cfg)
			if errs[idx] != nil {
				cancel()
			}
		}(i, job)
	}
	wg.Wait()

	var canceled error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, dynamo.ErrContextCanceled):
			if canceled == nil {
				canceled = err
			}
		default:
			return nil, err
		}
	}
	if canceled != nil {
		return nil, canceled
	}
	return results, nil
}
