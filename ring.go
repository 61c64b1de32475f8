// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskpool

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// RingQueue is a CAS-based bounded multi-producer multi-consumer queue.
//
// It is the classic Vyukov sequence-per-slot design: each slot carries its
// own sequence counter, which a producer (on Push) or consumer (on Pop)
// compares against the cursor it is trying to advance. A mismatch means
// either the slot isn't ready yet (retry) or the queue is full/empty
// (return false immediately, never block).
//
// Memory: n slots for capacity n, each holding one T plus a sequence
// counter. Pushing or popping never allocates; T is stored by value.
type RingQueue[T any] struct {
	_        pad
	tail     atomix.Uint64 // producer cursor (enqueuePos)
	_        pad
	head     atomix.Uint64 // consumer cursor (dequeuePos)
	_        pad
	buffer   []ringSlot[T]
	mask     uint64
	capacity uint64
}

type ringSlot[T any] struct {
	seq   atomix.Uint64
	value T
	_     padShort // spacing between slots; the slot is 64 bytes only when T is zero-size
}

// NewRingQueue creates a bounded MPMC queue. Capacity rounds up to the
// next power of 2 and must be at least 2.
func NewRingQueue[T any](capacity int) *RingQueue[T] {
	if capacity < 2 {
		panic("taskpool: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &RingQueue[T]{
		buffer:   make([]ringSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}

	return q
}

// Push adds an element to the queue. Returns false if the queue is full;
// never blocks.
func (q *RingQueue[T]) Push(elem T) bool {
	sw := spin.Wait{}
	pos := q.tail.LoadRelaxed()
	for {
		slot := &q.buffer[pos&q.mask]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(pos)

		switch {
		case diff == 0:
			if q.tail.CompareAndSwapRelaxed(pos, pos+1) {
				slot.value = elem
				slot.seq.StoreRelease(pos + 1)
				return true
			}
		case diff < 0:
			return false
		default:
			pos = q.tail.LoadRelaxed()
			continue
		}
		sw.Once()
		pos = q.tail.LoadRelaxed()
	}
}

// Pop removes and returns an element from the queue. Returns false if the
// queue is empty; never blocks.
func (q *RingQueue[T]) Pop() (T, bool) {
	sw := spin.Wait{}
	pos := q.head.LoadRelaxed()
	for {
		slot := &q.buffer[pos&q.mask]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(pos+1)

		switch {
		case diff == 0:
			if q.head.CompareAndSwapRelaxed(pos, pos+1) {
				elem := slot.value
				var zero T
				slot.value = zero
				slot.seq.StoreRelease(pos + q.capacity)
				return elem, true
			}
		case diff < 0:
			var zero T
			return zero, false
		default:
			pos = q.head.LoadRelaxed()
			continue
		}
		sw.Once()
		pos = q.head.LoadRelaxed()
	}
}

// Cap returns the queue's capacity (the power-of-2 the requested capacity
// was rounded up to).
func (q *RingQueue[T]) Cap() int {
	return int(q.capacity)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill a cache line after an 8-byte field.
type padShort [64 - 8]byte
