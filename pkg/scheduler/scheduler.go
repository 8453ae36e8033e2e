package scheduler

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type queue[T any] []T

func (wq *queue[T]) Len() int { return len(*wq) }

func (wq *queue[T]) Pop() T {
	old := *wq
	x := old[0]
	*wq = old[1:]
	return x
}

func (wq *queue[T]) Push(t T) {
	*wq = append(*wq, t)
}

// request is a submitted work item with its result delivery bound in.
type request struct {
	ctx context.Context
	run func(ctx context.Context)
}

type Scheduler struct {
	idle       int
	pending    *queue[request]
	work       chan request
	workerDone chan struct{}
	close      chan struct{}
	stopped    chan struct{}
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

// NewScheduler starts a scheduler running at most nbWorkers work items at
// a time. nbWorkers below 1 is treated as 1.
func NewScheduler(nbWorkers int) *Scheduler {
	if nbWorkers < 1 {
		nbWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		idle:       nbWorkers,
		pending:    &queue[request]{},
		work:       make(chan request),
		workerDone: make(chan struct{}, nbWorkers),
		close:      make(chan struct{}),
		stopped:    make(chan struct{}),
		mainCtx:    ctx,
		mainCancel: cancel,
	}
	go s.run()
	return s
}

// Submit queues w and returns its future. The work's context is derived
// from both ctx and the scheduler: it ends when either is done, when the
// future is stopped or when the scheduler closes.
func Submit[T any](ctx context.Context, s *Scheduler, w Work[T]) *Future[T] {
	c := make(chan Result[T], 1)
	workCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.mainCtx, cancel)

	r := request{
		ctx: workCtx,
		run: func(ctx context.Context) {
			defer stop()
			defer func() {
				if rec := recover(); rec != nil {
					zap.S().Named("scheduler").Errorw("work panicked", "panic", rec)
					c <- Result[T]{Err: fmt.Errorf("worker panicked: %v", rec)}
				}
			}()

			v, err := w(ctx)
			c <- Result[T]{Data: v, Err: err}
		},
	}

	select {
	case <-s.mainCtx.Done():
		// closing: fail the future instead of queueing
		stop()
		c <- Result[T]{Err: context.Canceled}
	case s.work <- r:
	}

	return newFuture(c, cancel)
}

// AddWork submits untyped work.
func (s *Scheduler) AddWork(w Work[any]) *Future[any] {
	return Submit(context.Background(), s, w)
}

// Close cancels queued and running work and waits for running work to
// return. It is safe to call more than once.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.mainCancel()
		close(s.close)
		<-s.stopped
	})
}

func (s *Scheduler) run() {
	defer close(s.stopped)
	for {
		select {
		case r := <-s.work:
			s.pending.Push(r)
			s.dispatch()
		case <-s.workerDone:
			s.idle++
			s.dispatch()
		case <-s.close:
			// queued work never started; its context is already cancelled
			for s.pending.Len() > 0 {
				r := s.pending.Pop()
				r.run(r.ctx)
			}
			s.wg.Wait()
			return
		}
	}
}

// dispatch drains the pending queue as much as possible
// based on idle workers
func (s *Scheduler) dispatch() {
	for s.idle > 0 && s.pending.Len() > 0 {
		r := s.pending.Pop()
		s.idle--
		s.wg.Add(1)
		go func() {
			defer func() {
				s.wg.Done()
				s.workerDone <- struct{}{}
			}()
			r.run(r.ctx)
		}()
	}
}
