// Package workerpool runs independent per-item work over a bounded set of
// concurrent slots, isolating each item's failure from its siblings.
package workerpool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"factreel/internal/logging"
)

// DefaultMaxParallel keeps the pool narrow; the per-item work is compute-heavy
// on the transcriber side, not I/O-bound.
const DefaultMaxParallel = 2

// Result captures one item's outcome.
type Result struct {
	Item string
	Err  error
}

// RunAll executes fn for every item with at most maxParallel in flight. It
// returns only after every item has completed; one item's error or panic never
// cancels or affects the others. Results are returned in submission order.
func RunAll(ctx context.Context, logger *slog.Logger, items []string, fn func(context.Context, string) error, maxParallel int) []Result {
	if logger == nil {
		logger = logging.NewNop()
	}
	if maxParallel < 1 {
		maxParallel = DefaultMaxParallel
	}

	results := make([]Result, len(items))
	slots := make(chan struct{}, maxParallel)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, item string) {
			defer wg.Done()
			slots <- struct{}{}
			defer func() { <-slots }()

			results[i] = Result{Item: item, Err: runOne(ctx, item, fn)}
			if results[i].Err != nil {
				logger.Error("item failed",
					logging.String("item", item),
					logging.Error(results[i].Err),
				)
			}
		}(i, item)
	}

	wg.Wait()
	return results
}

func runOne(ctx context.Context, item string, fn func(context.Context, string) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing %s: %v", item, r)
		}
	}()
	return fn(ctx, item)
}
