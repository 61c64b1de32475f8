// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskpool

// Task is a fixed-size, by-value callable container. A Task holds at most
// one callable and is meant to live inline inside a [RingQueue] slot: no
// wrapper is heap-allocated beyond the closure the caller already created.
//
// The zero-value Task is empty; invoking it fails with [ErrEmptyCallable].
type Task struct {
	fn      func(workerID int)
	discard func()
}

// NewTask wraps a worker-id-aware callable into a Task.
func NewTask(fn func(workerID int)) Task {
	return Task{fn: fn}
}

// NewTaskFunc wraps a nullary callable into a Task, ignoring the worker id
// the Worker loop supplies at invocation time.
func NewTaskFunc(fn func()) Task {
	return Task{fn: func(int) { fn() }}
}

// Empty reports whether the Task holds no callable.
func (t Task) Empty() bool {
	return t.fn == nil
}

// Invoke runs the Task's callable with the given worker id. Any panic
// raised by the callable is recovered and discarded: a task's failure must
// never be allowed to kill the worker goroutine that runs it. Returns
// [ErrEmptyCallable] if the Task is empty.
func (t Task) Invoke(workerID int) error {
	if t.fn == nil {
		return ErrEmptyCallable
	}
	invokeContained(func() { t.fn(workerID) })
	return nil
}

// Discard runs the Task's discard hook, if any, instead of its real
// callable. A Worker calls Discard on Tasks still resident in its queue at
// shutdown: the callable never runs, but whatever the Task registered to
// run on a drop (typically resolving a [Future] with [ErrBrokenPromise])
// still does.
func (t Task) Discard() {
	if t.discard != nil {
		invokeContained(t.discard)
	}
}

// invokeContained runs f, recovering and discarding any panic. Shared by
// Task.Invoke/Discard and by the Worker's OnStart/OnStop hook calls: every
// piece of caller-supplied code the dispatch loop touches is isolated the
// same way.
func invokeContained(f func()) {
	defer func() {
		_ = recover()
	}()
	f()
}
