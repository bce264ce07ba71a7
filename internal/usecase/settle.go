package usecase

import "github.com/sourcegraph/conc/pool"

// settled is the outcome of one unit in a fan-out: either a value or
// that unit's error, never a propagated panic of the whole batch.
type settled[T any] struct {
	Value T
	Err   error
}

// joinAllSettled runs fn for indices [0,n) with at most maxGoroutines
// in flight and waits for every unit, returning each outcome in order.
// One failing unit never cancels its siblings.
func joinAllSettled[T any](n, maxGoroutines int, fn func(i int) (T, error)) []settled[T] {
	out := make([]settled[T], n)
	if n == 0 {
		return out
	}
	if maxGoroutines < 1 {
		maxGoroutines = 1
	}

	p := pool.New().WithMaxGoroutines(maxGoroutines)
	for i := range out {
		i := i
		p.Go(func() {
			value, err := fn(i)
			out[i] = settled[T]{Value: value, Err: err}
		})
	}
	p.Wait()
	return out
}
