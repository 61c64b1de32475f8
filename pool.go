// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskpool

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// Pool is a fixed-size worker pool. Once constructed, its worker count is
// fixed; submissions are accepted from the moment [New] returns until
// [Pool.Close] is called.
//
// The zero-value Pool is not usable; construct one with [New].
type Pool struct {
	workers    []*worker
	next       atomix.Uint64 // round-robin submission counter
	closed     sync.Once
	closedFlag atomix.Bool // true once Close has run, checked by submit
}

// New constructs a Pool and starts all of its workers. Each worker's steal
// donor is workers[(id+1) mod N].
func New(opts ...Option) (*Pool, error) {
	o := resolve(opts)

	p := &Pool{
		workers: make([]*worker, o.workers),
	}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &ThreadStartError{Cause: r}
			}
		}()
		for i := range p.workers {
			p.workers[i] = newWorker(i, o.queueSize, o.idleSleep, o.clock, o.onStart, o.onStop)
		}
		for i, w := range p.workers {
			donor := p.workers[(i+1)%len(p.workers)]
			w.start(donor)
		}
		return nil
	}()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// ThreadStartError wraps a failure spawning a worker goroutine during
// [New]. Go cannot fail to create a goroutine the way the reference
// system's OS threads can; this exists so a panic escaping worker setup
// inside New is reported as a constructor error rather than crashing the
// process. OnStart hooks run later, on the worker goroutines, where their
// panics are recovered and discarded, so they never produce this error.
type ThreadStartError struct {
	Cause any
}

func (e *ThreadStartError) Error() string {
	return "taskpool: worker start failed"
}

// Post submits a nullary callable to the pool. The target worker is
// chosen by round-robin over submissions; Post attempts to admit the
// callable onto exactly that worker's queue and does not retry elsewhere.
// Returns false if the chosen queue was full or the pool has been closed.
func (p *Pool) Post(f func()) bool {
	return p.submit(NewTaskFunc(f))
}

// PostWorkerFunc is like [Pool.Post], but the callable receives the id of
// the worker that executes it.
func (p *Pool) PostWorkerFunc(f func(workerID int)) bool {
	return p.submit(NewTask(f))
}

func (p *Pool) submit(t Task) bool {
	if p.closedFlag.LoadRelaxed() {
		return false
	}
	n := uint64(len(p.workers))
	idx := p.next.AddAcqRel(1) - 1
	return p.workers[idx%n].post(t)
}

// Close stops and joins every worker. Tasks still queued at the time a
// worker observes the stop signal are discarded, never invoked; Close is
// idempotent. Once Close has run, submit rejects all further submissions
// rather than racing to post onto a queue no goroutine will ever drain
// again.
func (p *Pool) Close() error {
	p.closed.Do(func() {
		p.closedFlag.StoreRelaxed(true)
		for _, w := range p.workers {
			w.signalStop()
		}
		for _, w := range p.workers {
			w.join()
		}
	})
	return nil
}
