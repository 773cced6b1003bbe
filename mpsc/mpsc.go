// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mpsc provides a non-blocking, unbounded multi-producer /
// single-consumer FIFO channel, plus a bounded SyncSender variant.
//
// Sender is cheap to Clone and safe to share across producer
// goroutines; Receiver is exclusive to one consumer goroutine. Every
// operation is non-blocking: Send either succeeds, or fails with
// SendError once the Receiver is gone; TryRecv either returns an item,
// reports ErrEmpty (producers may still be alive), or reports
// ErrDisconnected (every Sender has been closed).
//
// # Example
//
//	tx, rx := mpsc.New[int]()
//
//	for id := range 100 { // producers
//	    tx := tx.Clone()
//	    go func() {
//	        defer tx.Close()
//	        for i := range 1000 {
//	            tx.Send(id*1000 + i)
//	        }
//	    }()
//	}
//	tx.Close() // drop the original handle once every clone exists
//
//	backoff := iox.Backoff{}
//	for received := 0; received < 100000; {
//	    _, err := rx.TryRecv()
//	    if err == nil {
//	        received++
//	        backoff.Reset()
//	        continue
//	    }
//	    if mpsc.IsDisconnected(err) {
//	        break
//	    }
//	    backoff.Wait()
//	}
package mpsc

import (
	"runtime"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/nbchan/internal/queue"
)

// New creates a new unbounded, asynchronous channel.
func New[T any]() (*Sender[T], *Receiver[T]) {
	head, tail := queue.New[T]()
	queueLen := &atomix.Int64{}

	tx := &Sender[T]{tail: tail}
	rx := &Receiver[T]{head: head, queueLen: queueLen}
	runtime.SetFinalizer(tx, func(s *Sender[T]) { s.Close() })
	runtime.SetFinalizer(rx, func(r *Receiver[T]) { r.Close() })
	return tx, rx
}

// Sender is a producer handle. It is safe for concurrent use by
// multiple goroutines holding the same clone, and cheap to Clone for
// additional producers.
type Sender[T any] struct {
	tail *queue.Tail[T]
	done bool
}

// Send enqueues item. It never blocks. Returns SendError if the
// Receiver has been closed; the item is handed back unconsumed.
func (s *Sender[T]) Send(item T) error {
	if back, ok := s.tail.Enqueue(item); !ok {
		return &SendError[T]{Item: back}
	}
	return nil
}

// Clone returns a new Sender forwarding to the same queue.
func (s *Sender[T]) Clone() *Sender[T] {
	clone := &Sender[T]{tail: s.tail.Clone()}
	runtime.SetFinalizer(clone, func(c *Sender[T]) { c.Close() })
	return clone
}

// Close releases this Sender's share of the channel. Once every
// Sender clone has been closed, the Receiver's next TryRecv observes
// ErrDisconnected once the queue has drained. Close is idempotent.
func (s *Sender[T]) Close() {
	if s.done {
		return
	}
	s.done = true
	runtime.SetFinalizer(s, nil)
	s.tail.Close()
}

// Receiver is the single-consumer handle.
type Receiver[T any] struct {
	head     *queue.Head[T]
	queueLen *atomix.Int64
	done     bool
}

// TryRecv removes and returns the oldest pending item without
// blocking.
func (r *Receiver[T]) TryRecv() (T, error) {
	var zero T
	if item, ok := r.head.Dequeue(); ok {
		r.queueLen.AddAcqRel(-1)
		return item, nil
	}
	if r.head.ProducersAlive() {
		return zero, ErrEmpty
	}
	// The last producer may have published its node after the Dequeue
	// above and then closed; look once more before reporting disconnect.
	if item, ok := r.head.Dequeue(); ok {
		r.queueLen.AddAcqRel(-1)
		return item, nil
	}
	return zero, ErrDisconnected
}

// Close releases the consumer's side of the channel: all subsequent
// Sender.Send calls from any remaining clone observe disconnection,
// and any items already enqueued but never received are discarded.
// Close is idempotent.
func (r *Receiver[T]) Close() {
	if r.done {
		return
	}
	r.done = true
	runtime.SetFinalizer(r, nil)
	r.head.Close()
}
