// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskpool

import "errors"

// ErrQueueFull indicates a submission could not be admitted because the
// chosen worker's queue was full. The pool does not retry on another
// worker: the caller should back off, drop the task, or submit again.
// [Process] also reports it for a submission made after [Pool.Close].
var ErrQueueFull = errors.New("taskpool: queue full")

// ErrEmptyCallable indicates an attempt to invoke a Task that holds no
// callable. This only happens when a caller constructs or invokes a Task
// through the low-level API directly; Pool never invokes an empty Task.
var ErrEmptyCallable = errors.New("taskpool: empty callable")

// ErrBrokenPromise indicates a Future's sink was discarded (its Task was
// dropped by a queue teardown) before it was ever satisfied.
var ErrBrokenPromise = errors.New("taskpool: broken promise")
