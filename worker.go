// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskpool

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"github.com/zoobzio/clockz"
)

// worker owns one queue and one goroutine. Its dispatch loop pops locally
// first, then attempts to steal one element from its donor, then sleeps
// briefly before retrying.
//
// A worker is started at most once and stopped at most once; start and
// stop are called only by the owning Pool, in a fixed order, so misuse is
// not detected: a second start spawns a second dispatch loop, and a second
// signalStop or join has no further effect.
type worker struct {
	id      int
	queue   *RingQueue[Task]
	running atomix.Bool
	donor   *worker
	done    sync.WaitGroup

	onStart   func(workerID int)
	onStop    func(workerID int)
	idleSleep time.Duration
	clock     clockz.Clock
}

func newWorker(id int, queueSize int, idleSleep time.Duration, clock clockz.Clock, onStart, onStop func(int)) *worker {
	w := &worker{
		id:        id,
		queue:     NewRingQueue[Task](queueSize),
		onStart:   onStart,
		onStop:    onStop,
		idleSleep: idleSleep,
		clock:     clock,
	}
	w.running.StoreRelaxed(true)
	return w
}

// post pushes a Task onto the worker's own queue. Returns false if the
// queue is full.
func (w *worker) post(t Task) bool {
	return w.queue.Push(t)
}

// steal pops one Task from the worker's queue on behalf of a sibling
// worker that found its own queue empty.
func (w *worker) steal() (Task, bool) {
	return w.queue.Pop()
}

// start sets the steal donor and spawns the dispatch goroutine.
func (w *worker) start(donor *worker) {
	w.donor = donor
	w.done.Add(1)
	go w.loop()
}

// signalStop asks the dispatch loop to exit without waiting for it.
func (w *worker) signalStop() {
	w.running.StoreRelaxed(false)
}

// join blocks until the dispatch loop has exited. Any tasks still
// resident in the worker's queue at that point are discarded, not
// invoked.
func (w *worker) join() {
	w.done.Wait()
}

func (w *worker) loop() {
	defer w.done.Done()

	if w.onStart != nil {
		invokeContained(func() { w.onStart(w.id) })
	}

	for w.running.LoadRelaxed() {
		if task, ok := w.queue.Pop(); ok {
			_ = task.Invoke(w.id)
			continue
		}
		if task, ok := w.donor.steal(); ok {
			_ = task.Invoke(w.id)
			continue
		}
		<-w.clock.After(w.idleSleep)
	}

	for {
		task, ok := w.queue.Pop()
		if !ok {
			break
		}
		task.Discard()
	}

	if w.onStop != nil {
		invokeContained(func() { w.onStop(w.id) })
	}
}
