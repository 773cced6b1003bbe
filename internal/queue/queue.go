// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package queue implements the unbounded, multi-producer/single-consumer
// lock-free FIFO that backs the mpsc package.
//
// The queue is a singly-linked list of nodes. The tail side is shared
// (reference-counted) among every producer handle and the single
// consumer handle; the head side is owned exclusively by the consumer.
// Producers install new nodes with a CAS loop on the tail cursor;
// the consumer advances the head cursor with a plain load — no locks,
// no retries on the consumer side.
//
// Node links are real *node[T] pointers kept alive by the Go garbage
// collector, not encoded as uintptr. code.hybscloud.com/atomix exports
// atomic wrappers for fixed-width integers (Uint64, Int64, Uintptr, ...)
// but no generic atomic pointer, and round-tripping a linked node
// through atomix.Uintptr would let the collector reclaim a still-live
// node out from under a concurrent reader. sync/atomic.Pointer[T] is
// used here for that one reason; every other piece of shared state in
// this module (refcounts, bounded admission counters) still goes
// through atomix.
package queue

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// node carries one enqueued item plus the next-ref cell it was
// published with.
type node[T any] struct {
	item T
	next *nodeRef[T]
}

// nodeRef is the next-ref cell from spec: a linking slot between two
// adjacent nodes. It starts empty and becomes non-nil exactly once,
// when the producer that won this slot publishes its node into it.
type nodeRef[T any] struct {
	n atomic.Pointer[node[T]]
}

// sharedTail is jointly owned by every producer handle and the single
// consumer handle. ptr is nil exactly when the consumer has
// disconnected. refs counts live holders: it starts at 2 (the initial
// Tail plus the Head's own clone) and is bumped by Tail.Clone, dropped
// by Tail.Close. The consumer is disconnected-from-producers when
// refs == 1 (only the Head's own share remains).
type sharedTail[T any] struct {
	ptr  atomic.Pointer[nodeRef[T]]
	refs atomix.Int64
}

// Head is the exclusive consumer-side cursor into the FIFO.
type Head[T any] struct {
	cur    *nodeRef[T]
	shared *sharedTail[T]
	closed bool
}

// Tail is a producer-side handle onto the shared tail cursor. It is
// cheap to Clone and must be Closed (or simply dropped, letting the
// finalizer installed by callers run) when a producer is done with it.
type Tail[T any] struct {
	shared *sharedTail[T]
	closed bool
}

// New allocates a fresh FIFO and returns its consumer and initial
// producer handle.
func New[T any]() (*Head[T], *Tail[T]) {
	initial := &nodeRef[T]{}
	shared := &sharedTail[T]{}
	shared.ptr.Store(initial)
	shared.refs.StoreRelaxed(2)
	return &Head[T]{cur: initial, shared: shared}, &Tail[T]{shared: shared}
}

// Enqueue appends item to the queue. It returns (item, false) if the
// consumer has disconnected (the caller gets the item back, unconsumed)
// or (zero, true) on success.
func (t *Tail[T]) Enqueue(item T) (T, bool) {
	next := &nodeRef[T]{}
	slot, ok := t.claimSlot(next)
	if !ok {
		return item, false
	}
	slot.n.Store(&node[T]{item: item, next: next})
	var zero T
	return zero, true
}

// claimSlot CAS-installs next as the new tail and returns the
// next-ref cell the caller won (where it must store its node), or
// ok=false if the consumer has disconnected.
func (t *Tail[T]) claimSlot(next *nodeRef[T]) (*nodeRef[T], bool) {
	sw := spin.Wait{}
	for {
		cur := t.shared.ptr.Load()
		if cur == nil {
			return nil, false
		}
		if t.shared.ptr.CompareAndSwap(cur, next) {
			return cur, true
		}
		sw.Once()
	}
}

// Disconnected reports whether the consumer has torn down the queue.
func (t *Tail[T]) Disconnected() bool {
	return t.shared.ptr.Load() == nil
}

// Clone returns a new producer handle sharing this queue's tail cursor.
func (t *Tail[T]) Clone() *Tail[T] {
	t.shared.refs.AddAcqRel(1)
	return &Tail[T]{shared: t.shared}
}

// Close releases this producer handle's share of the queue. It is
// idempotent; callers may also rely on a finalizer to call it.
func (t *Tail[T]) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.shared.refs.AddAcqRel(-1)
}

// Dequeue removes and returns the oldest item. ok is false when the
// queue is observably empty at this instant — a producer may still be
// between winning its slot and publishing its node.
func (h *Head[T]) Dequeue() (T, bool) {
	n := h.cur.n.Load()
	if n == nil {
		var zero T
		return zero, false
	}
	h.cur = n.next
	return n.item, true
}

// ProducersAlive reports whether at least one producer handle is
// still live, i.e. the tail cursor's share count exceeds the Head's
// own permanent share.
func (h *Head[T]) ProducersAlive() bool {
	return h.shared.refs.LoadAcquire() > 1
}

// Close tears down the consumer side: it disconnects producers (any
// subsequent Enqueue observes disconnection and hands the item back),
// then drains whatever was already published before the disconnect so
// the queue never leaks unreceived items. Close is idempotent.
func (h *Head[T]) Close() {
	if h.closed {
		return
	}
	h.closed = true
	tail := h.shared.ptr.Swap(nil)
	sw := spin.Wait{}
	for h.cur != tail {
		if _, ok := h.Dequeue(); !ok {
			// A producer already won this slot and is between claimSlot
			// and storing its node; spin until the store lands. This can
			// only happen transiently, for enqueues that won their slot
			// before the swap above.
			sw.Once()
		}
	}
}
