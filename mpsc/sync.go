// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpsc

import (
	"runtime"

	"code.hybscloud.com/atomix"
)

// NewSync creates a new bounded channel with the given admission
// bound. Unlike the unbounded channel, producers use TrySend, which
// fails with a Full TrySendError once bound items have been admitted
// and not yet received.
//
// The bound is an admission limit, not a strict queue-length
// invariant: between a producer reserving a slot and that slot's item
// becoming visible to the consumer, the internal counter can briefly
// over-count. This is intentional — see TrySend.
func NewSync[T any](bound int) (*SyncSender[T], *Receiver[T]) {
	tx, rx := New[T]()
	runtime.SetFinalizer(tx, nil) // SyncSender.Close owns teardown now

	s := &SyncSender[T]{inner: tx, queueLen: rx.queueLen, capacity: int64(bound)}
	runtime.SetFinalizer(s, func(s *SyncSender[T]) { s.Close() })
	return s, rx
}

// SyncSender is the bounded producer handle returned by NewSync.
type SyncSender[T any] struct {
	inner    *Sender[T]
	queueLen *atomix.Int64
	capacity int64
}

// TrySend attempts to admit item, never blocking.
//
// Admission is resolved with a reserve-then-commit fetch-add: the
// sender whose fetch-add observes a prior queueLen of at most
// capacity-1 (so it increments queueLen to at most capacity) wins a slot;
// any others roll back their reservation and report Full. A sender
// that wins a slot but then discovers the receiver is gone rolls back
// too and reports Disconnected instead.
func (s *SyncSender[T]) TrySend(item T) error {
	priorLen := s.queueLen.AddAcqRel(1) - 1
	if priorLen >= s.capacity {
		s.queueLen.AddAcqRel(-1)
		return &TrySendError[T]{Item: item, Full: true}
	}

	if err := s.inner.Send(item); err != nil {
		s.queueLen.AddAcqRel(-1)
		// inner.Send only ever fails with *SendError[T].
		se := err.(*SendError[T])
		return &TrySendError[T]{Item: se.Item, Full: false}
	}
	return nil
}

// Clone returns a new SyncSender sharing this channel's admission
// counter and bound.
func (s *SyncSender[T]) Clone() *SyncSender[T] {
	clone := &SyncSender[T]{inner: s.inner.Clone(), queueLen: s.queueLen, capacity: s.capacity}
	runtime.SetFinalizer(clone, func(c *SyncSender[T]) { c.Close() })
	return clone
}

// Close releases this SyncSender's share of the channel. Close is
// idempotent.
func (s *SyncSender[T]) Close() {
	s.inner.Close()
}
