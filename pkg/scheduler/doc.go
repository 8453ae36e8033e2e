// Package scheduler implements a fixed-size worker pool returning futures.
//
// Work is submitted with Submit (typed) or AddWork (untyped). Each
// submission returns a Future that delivers exactly one Result on C(), or
// can be waited on with Await. At most N work items run at once; the rest
// wait in a FIFO queue.
//
//	future := scheduler.Submit(ctx, s, func(ctx context.Context) ([]models.Product, error) {
//	    return st.Products().GetAll(ctx)
//	})
//	products, err := future.Await(ctx)
//
// # Cancellation
//
// The context handed to the work ends when the submitting context ends,
// when Future.Stop is called, when Await's context ends, or when the
// scheduler closes. Work must return promptly once its context is done.
//
// # Panics
//
// A panicking work function is recovered; its future receives an error
// and the worker slot is reused.
//
// # Close
//
// Close cancels all work, delivers context.Canceled to queued work that
// never started, and waits for running work to return. Submissions after
// Close receive context.Canceled immediately.
package scheduler
