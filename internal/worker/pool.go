// Package worker runs independent per-file jobs concurrently. The core
// analysis types stay single-threaded; this pool only parallelizes across
// files at the orchestration layer.
package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Result pairs one input with its output or error.
type Result[T any, R any] struct {
	Input  T
	Output R
	Err    error
}

// Func processes a single input.
type Func[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool fans inputs out over a fixed number of goroutines, preserving
// input order in the results.
type Pool[T any, R any] struct {
	workers int
	fn      Func[T, R]
}

// NewPool creates a pool; fewer than one worker means one.
func NewPool[T any, R any](workers int, fn Func[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{workers: workers, fn: fn}
}

// Run processes all inputs and returns one result per input, in input
// order. Cancelling the context stops the remaining work; already
// finished results are kept.
func (p *Pool[T, R]) Run(ctx context.Context, inputs []T) []Result[T, R] {
	results := make([]Result[T, R], len(inputs))
	indexes := make(chan int, len(inputs))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-indexes:
					if !ok {
						return
					}
					out, err := p.fn(ctx, inputs[idx])
					results[idx] = Result[T, R]{Input: inputs[idx], Output: out, Err: err}
					if err != nil {
						log.Debug().Err(err).Int("index", idx).Msg("Pool job failed")
					}
				}
			}
		}()
	}

	for i := range inputs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}
