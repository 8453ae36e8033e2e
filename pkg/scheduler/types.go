package scheduler

import (
	"context"
)

// Work is a unit of work run by the scheduler. It must honour ctx.
type Work[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

// Future delivers exactly one Result on C.
type Future[T any] struct {
	input  chan Result[T]
	cancel context.CancelFunc
}

func newFuture[T any](input chan Result[T], cancel context.CancelFunc) *Future[T] {
	return &Future[T]{
		input:  input,
		cancel: cancel,
	}
}

func (f *Future[T]) C() <-chan Result[T] {
	return f.input
}

// Stop cancels the context handed to the work.
func (f *Future[T]) Stop() {
	f.cancel()
}

// Await blocks until the work finishes or ctx is done. When ctx ends first
// the work is stopped and ctx's error is returned.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	defer f.cancel()

	select {
	case r := <-f.input:
		return r.Data, r.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
