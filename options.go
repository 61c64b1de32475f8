// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskpool

import (
	"runtime"
	"time"

	"github.com/zoobzio/clockz"
)

// defaultQueueSize is the per-worker queue capacity used when QueueSize is
// not supplied.
const defaultQueueSize = 256

// defaultIdleSleep is the back-off duration a Worker sleeps when both a
// local pop and a steal attempt miss.
const defaultIdleSleep = time.Millisecond

// Options configures Pool construction.
type Options struct {
	workers   int
	queueSize int
	onStart   func(workerID int)
	onStop    func(workerID int)
	idleSleep time.Duration
	clock     clockz.Clock
}

// Option configures a Pool at construction time.
type Option func(*Options)

// Workers sets the number of workers (N). Defaults to
// runtime.GOMAXPROCS(0), minimum 1. Fixed for the Pool's lifetime.
func Workers(n int) Option {
	return func(o *Options) { o.workers = n }
}

// QueueSize sets the capacity of each worker's queue. Rounds up to the
// next power of 2 at construction. Defaults to 256.
func QueueSize(n int) Option {
	return func(o *Options) { o.queueSize = n }
}

// OnStart registers a hook invoked once on each worker goroutine before it
// begins popping tasks. Panics raised by the hook are recovered and
// discarded.
func OnStart(f func(workerID int)) Option {
	return func(o *Options) { o.onStart = f }
}

// OnStop registers a hook invoked once on each worker goroutine after its
// dispatch loop exits. Panics raised by the hook are recovered and
// discarded.
func OnStop(f func(workerID int)) Option {
	return func(o *Options) { o.onStop = f }
}

// IdleSleep sets the back-off duration a worker sleeps when both a local
// pop and a steal attempt miss. Defaults to 1ms. A small fixed sleep is
// used instead of a condition variable to keep the submission path
// branch-free; this knob trades idle CPU usage against shutdown and
// wake-up tail latency.
func IdleSleep(d time.Duration) Option {
	return func(o *Options) { o.idleSleep = d }
}

// Clock sets the clock used for the idle back-off sleep. Defaults to
// [clockz.RealClock]. Tests substitute a fake clock (e.g.
// clockz.NewFakeClock()) to assert on worker scheduling deterministically
// without tolerating real wall-clock delays.
func Clock(c clockz.Clock) Option {
	return func(o *Options) { o.clock = c }
}

// resolve applies opts over a set of defaults and normalizes the result.
func resolve(opts []Option) Options {
	o := Options{
		workers:   runtime.GOMAXPROCS(0),
		queueSize: defaultQueueSize,
		idleSleep: defaultIdleSleep,
		clock:     clockz.RealClock,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	if o.queueSize < 2 {
		o.queueSize = 2
	}
	if o.idleSleep <= 0 {
		o.idleSleep = defaultIdleSleep
	}
	if o.clock == nil {
		o.clock = clockz.RealClock
	}
	return o
}
