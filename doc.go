// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package taskpool is a fixed-size worker pool for short, non-blocking
// tasks submitted from arbitrary goroutines.
//
// A single logical queue is sharded into one bounded lock-free ring queue
// per worker. A producer's submission goes to exactly one worker, chosen
// round-robin; an idle worker tries its own queue first, then steals from
// one designated sibling, then sleeps briefly before retrying. There is no
// unbounded queueing, no priority scheduling, no fairness guarantee across
// workers, no per-task cancellation, and no dynamic resizing after
// construction: tasks that block indefinitely starve their worker by
// design.
//
// # Quick Start
//
//	pool, err := taskpool.New(taskpool.Workers(4), taskpool.QueueSize(1024))
//	if err != nil {
//	    // worker start failed
//	}
//	defer pool.Close()
//
//	if !pool.Post(func() { fmt.Println("hello") }) {
//	    // chosen worker's queue was full
//	}
//
//	future := taskpool.Process(pool, func() int { return 42 })
//	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
//	defer cancel()
//	value, err := future.Get(ctx)
//
// # Callable Shapes
//
// Both nullary and worker-id-aware callables are accepted:
//
//	pool.Post(func() { ... })
//	pool.PostWorkerFunc(func(workerID int) { ... })
//	taskpool.Process(pool, func() R { ... })
//	taskpool.ProcessWorkerFunc(pool, func(workerID int) R { ... })
//
// Process and ProcessWorkerFunc are package-level functions rather than
// Pool methods because Go methods cannot carry their own type parameters.
//
// # Errors
//
// [Pool.Post] and [Pool.PostWorkerFunc] return false, not an error, when
// the chosen worker's queue is full — this is a control-flow signal, not a
// failure, matching how this codebase's lower-level [RingQueue] reports
// full/empty via a bool. [Process] and [ProcessWorkerFunc] surface the
// same condition through the returned [Future] as [ErrQueueFull]. A task
// dropped by pool teardown before it ran resolves its future with
// [ErrBrokenPromise]. [ErrEmptyCallable] only appears if a caller invokes
// a zero-value [Task] directly.
//
// # Shutdown
//
// [Pool.Close] signals every worker to stop, then joins them in order.
// Tasks still resident in a worker's queue at that point are discarded —
// their destructor-equivalent (a [Future]'s discard hook, if any) runs,
// but the task itself is never invoked. This can add up to one idle-sleep
// interval of shutdown latency, and is by design: see the package's
// design notes on why the queue is not drained into execution at
// shutdown.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives
// with explicit memory ordering, [code.hybscloud.com/spin] for CPU pause
// instructions during the ring queue's bounded CAS retries, and
// [github.com/zoobzio/clockz] for an injectable clock behind each
// worker's idle back-off sleep, so tests can assert on scheduling without
// tolerating real wall-clock delays.
package taskpool
