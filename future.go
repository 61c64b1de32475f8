// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskpool

import (
	"context"
	"fmt"
	"sync"
)

// Future is a single-assignment value sink: a returning callable submitted
// via [Process] or [ProcessWorkerFunc] resolves it exactly once, either
// with the callable's return value or with an error (a recovered panic, or
// [ErrBrokenPromise]/[ErrQueueFull] if the callable never ran).
type Future[R any] struct {
	ready chan struct{}
	once  sync.Once
	value R
	err   error
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{ready: make(chan struct{})}
}

// resolve satisfies the sink. Only the first call has any effect: a
// Future is satisfiable exactly once.
func (f *Future[R]) resolve(value R, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.ready)
	})
}

// Get blocks until the Future is resolved or ctx is done, whichever comes
// first. A done ctx does not cancel the underlying task — it only bounds
// how long the caller is willing to wait for it.
func (f *Future[R]) Get(ctx context.Context) (R, error) {
	select {
	case <-f.ready:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// TryGet returns the Future's value without blocking. The second return
// value is false if the Future has not yet been resolved.
func (f *Future[R]) TryGet() (R, bool) {
	select {
	case <-f.ready:
		return f.value, true
	default:
		var zero R
		return zero, false
	}
}

// Process submits a callable returning R to p and returns a [Future] that
// resolves with its result. Process is a package-level function, not a
// Pool method, because Go methods cannot carry their own type parameters.
//
// If the callable panics, the recovered value is delivered through the
// Future's error. If p cannot admit the task (its chosen worker's queue is
// full, or p has already been closed), the Future resolves immediately with
// [ErrQueueFull]. If the pool is closed after admitting the task but before
// the task runs, the Future resolves with [ErrBrokenPromise].
func Process[R any](p *Pool, f func() R) *Future[R] {
	return processTask(p, func(int) R { return f() })
}

// ProcessWorkerFunc is like [Process], but the callable receives the id of
// the worker that executes it.
func ProcessWorkerFunc[R any](p *Pool, f func(workerID int) R) *Future[R] {
	return processTask(p, f)
}

func processTask[R any](p *Pool, f func(workerID int) R) *Future[R] {
	fut := newFuture[R]()

	task := Task{
		fn: func(workerID int) {
			value, err := callAndRecover(workerID, f)
			fut.resolve(value, err)
		},
		discard: func() {
			var zero R
			fut.resolve(zero, ErrBrokenPromise)
		},
	}

	if !p.submit(task) {
		var zero R
		fut.resolve(zero, ErrQueueFull)
	}

	return fut
}

// callAndRecover runs f, converting a panic into an error instead of
// letting it escape into the worker's dispatch loop.
func callAndRecover[R any](workerID int, f func(workerID int) R) (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("taskpool: task panicked: %v", r)
		}
	}()
	value = f(workerID)
	return value, nil
}
