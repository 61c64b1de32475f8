// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

// TestWorkerPopsLocalBeforeStealing posts a task directly onto a worker's
// own queue, with a donor whose queue holds a different task, and checks
// the local one runs first.
func TestWorkerPopsLocalBeforeStealing(t *testing.T) {
	clock := clockz.NewFakeClock()
	w := newWorker(0, 4, time.Millisecond, clock, nil, nil)
	donor := newWorker(1, 4, time.Millisecond, clock, nil, nil)

	var order []string
	local := NewTask(func(int) { order = append(order, "local") })
	stolen := NewTask(func(int) { order = append(order, "stolen") })

	donor.post(stolen)
	w.post(local)

	w.start(donor)
	defer func() {
		w.signalStop()
		w.join()
		donor.signalStop()
		donor.join()
	}()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(order) >= 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if len(order) == 0 || order[0] != "local" {
		t.Fatalf("expected local task to run first, got %v", order)
	}
}

// TestWorkerStealsFromDonorWhenLocalEmpty leaves a worker's own queue
// empty so it must steal from its donor to make progress.
func TestWorkerStealsFromDonorWhenLocalEmpty(t *testing.T) {
	clock := clockz.NewFakeClock()
	w := newWorker(0, 4, time.Millisecond, clock, nil, nil)
	donor := newWorker(1, 4, time.Millisecond, clock, nil, nil)

	var ran atomic.Bool
	donor.post(NewTask(func(int) { ran.Store(true) }))

	w.start(donor)
	defer func() {
		w.signalStop()
		w.join()
		donor.signalStop()
		donor.join()
	}()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if ran.Load() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("donor's task was never stolen and run")
}

// TestWorkerSelfStealIsSafeNoop covers the threads=1 boundary: a worker
// whose donor is itself does not deadlock when both pop attempts miss.
func TestWorkerSelfStealIsSafeNoop(t *testing.T) {
	clock := clockz.NewFakeClock()
	w := newWorker(0, 4, time.Millisecond, clock, nil, nil)
	w.start(w)

	var ran atomic.Bool
	w.post(NewTask(func(int) { ran.Store(true) }))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if ran.Load() {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !ran.Load() {
		t.Fatal("self-donor worker never ran its own posted task")
	}

	w.signalStop()
	w.join()
}

// TestWorkerDiscardsQueuedTasksOnStop checks that a task still resident in
// a worker's queue when it stops is discarded, not invoked, and that its
// discard hook still runs.
func TestWorkerDiscardsQueuedTasksOnStop(t *testing.T) {
	clock := clockz.NewFakeClock()
	w := newWorker(0, 4, time.Millisecond, clock, nil, nil)

	var invoked atomic.Bool
	var discarded atomic.Bool
	w.post(Task{
		fn:      func(int) { invoked.Store(true) },
		discard: func() { discarded.Store(true) },
	})

	// Stop before starting the loop so the task is guaranteed to still be
	// queued when the drain runs.
	w.signalStop()
	w.start(w)
	w.join()

	if invoked.Load() {
		t.Fatal("discarded task's callable ran")
	}
	if !discarded.Load() {
		t.Fatal("discarded task's discard hook did not run")
	}
}

// TestWorkerOnStartOnStopCalledOnce verifies the lifecycle hooks each run
// exactly once per worker.
func TestWorkerOnStartOnStopCalledOnce(t *testing.T) {
	clock := clockz.NewFakeClock()
	var starts, stops atomic.Int32
	w := newWorker(0, 4, time.Millisecond, clock,
		func(int) { starts.Add(1) },
		func(int) { stops.Add(1) },
	)
	w.start(w)
	w.signalStop()
	w.join()

	if got := starts.Load(); got != 1 {
		t.Fatalf("onStart calls: got %d, want 1", got)
	}
	if got := stops.Load(); got != 1 {
		t.Fatalf("onStop calls: got %d, want 1", got)
	}
}

// TestWorkerIdleBackoffUsesInjectedClock checks that an idle worker parks
// on the injected clock's After rather than a real timer, by advancing a
// fake clock and observing that a task posted during the sleep then runs.
func TestWorkerIdleBackoffUsesInjectedClock(t *testing.T) {
	clock := clockz.NewFakeClock()
	w := newWorker(0, 4, time.Hour, clock, nil, nil)
	w.start(w)
	defer func() {
		w.signalStop()
		w.join()
	}()

	var ran atomic.Bool
	// Let the loop reach its idle sleep at least once before posting.
	time.Sleep(10 * time.Millisecond)
	clock.BlockUntilReady()

	w.post(NewTask(func(int) { ran.Store(true) }))
	clock.Advance(time.Hour)
	clock.BlockUntilReady()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if ran.Load() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("task posted during idle backoff never ran after clock advance")
}
