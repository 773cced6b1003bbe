// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package oneshot provides a single-use, non-blocking handshake
// channel: at most one value travels from one Sender to one Receiver.
//
// Both ends are move-only in spirit (Go has no move semantics, so this
// is enforced at runtime rather than compile time): Send consumes the
// Sender, and a Receiver that has already yielded a value or observed
// Disconnected stays Disconnected forever. Every operation is
// wait-free — a single atomic swap on a shared pointer-sized cell, no
// retry loop, no parking.
//
// # Example
//
//	tx, rx := oneshot.New[int]()
//
//	go func() { tx.Send(10) }()
//
//	for {
//	    v, err := rx.TryRecv()
//	    if err == nil {
//	        fmt.Println(v)
//	        break
//	    }
//	    if oneshot.IsDisconnected(err) {
//	        break
//	    }
//	}
//
// Either handle may instead simply be left for the garbage collector:
// a finalizer runs the same teardown that Close does, so a goroutine
// that exits holding an unsent Sender (or an unreceived Receiver)
// still lets its peer observe disconnection once the collector runs.
// Relying on the finalizer delays teardown until the next GC cycle,
// so call Close explicitly wherever the lifetime is known.
package oneshot

import (
	"errors"
	"runtime"
	"sync/atomic"
	"unsafe"
)

// ErrEmpty means no value is available on this receiver yet, but the
// sender may still produce one.
var ErrEmpty = errors.New("oneshot: empty")

// ErrDisconnected means no value is, or ever will be, available: the
// peer has gone (sent-and-consumed, or dropped without sending).
var ErrDisconnected = errors.New("oneshot: disconnected")

// SendError is returned by Send when the receiver has already been
// dropped. Item is the value that could not be delivered, handed back
// to the caller so it can be routed elsewhere.
type SendError[T any] struct {
	Item T
}

func (e *SendError[T]) Error() string {
	return "oneshot: send on a channel whose receiver has been dropped"
}

// IsEmpty reports whether err is ErrEmpty.
func IsEmpty(err error) bool { return errors.Is(err, ErrEmpty) }

// IsDisconnected reports whether err is ErrDisconnected.
func IsDisconnected(err error) bool { return errors.Is(err, ErrDisconnected) }

// droppedSentinel's address is the Dropped marker stored in a cell's
// slot. It is never dereferenced as the cell's element type — only
// compared for pointer identity — so its true type is irrelevant; a
// process-lifetime static address is all the protocol needs, and it
// can never equal a freshly heap-allocated payload pointer.
var droppedSentinel byte

func dropped[T any]() *T {
	return (*T)(unsafe.Pointer(&droppedSentinel))
}

// cell is the single atomic pointer shared by exactly one Sender and
// one Receiver. Its value is nil (Empty), dropped[T]() (Dropped), or a
// pointer to a heap-owned payload (Full).
type cell[T any] struct {
	slot atomic.Pointer[T]
}

// New creates a new oneshot channel and returns its sender/receiver
// halves.
func New[T any]() (*Sender[T], *Receiver[T]) {
	c := &cell[T]{}
	tx := &Sender[T]{c: c}
	rx := &Receiver[T]{c: c}
	runtime.SetFinalizer(tx, func(s *Sender[T]) { s.Close() })
	runtime.SetFinalizer(rx, func(r *Receiver[T]) { r.Close() })
	return tx, rx
}

// Sender is the sending half of a oneshot channel.
type Sender[T any] struct {
	c    *cell[T]
	done bool
}

// Send attempts to deliver item to the receiver. It never blocks.
// Calling Send more than once on the same Sender is a programming
// error (Rust enforces this by consuming the Sender at compile time;
// Go cannot, so it panics instead).
func (s *Sender[T]) Send(item T) error {
	if s.done {
		panic("oneshot: Send called on an already-consumed Sender")
	}
	s.done = true
	runtime.SetFinalizer(s, nil)

	old := s.c.slot.Swap(&item)
	if old == nil {
		// Empty -> Full: delivered. The receiver now owns the cell.
		return nil
	}
	// Only Dropped is reachable here: Full is impossible because Send
	// consumes the Sender, so no second Send can observe a live payload.
	return &SendError[T]{Item: item}
}

// Close releases this Sender's interest in the channel without
// sending, equivalent to dropping it. A Receiver blocked in a TryRecv
// loop will subsequently observe ErrDisconnected. Close is idempotent
// and safe to call after a successful Send (it becomes a no-op).
func (s *Sender[T]) Close() {
	if s.done {
		return
	}
	s.done = true
	runtime.SetFinalizer(s, nil)
	s.c.slot.Swap(dropped[T]())
}

// Receiver is the receiving half of a oneshot channel.
type Receiver[T any] struct {
	c    *cell[T]
	done bool
}

// TryRecv attempts to take the sent value without blocking.
func (r *Receiver[T]) TryRecv() (T, error) {
	var zero T
	if r.done {
		return zero, ErrDisconnected
	}

	p := r.c.slot.Load()
	switch {
	case p == nil:
		return zero, ErrEmpty
	case p == dropped[T]():
		r.done = true
		runtime.SetFinalizer(r, nil)
		return zero, ErrDisconnected
	default:
		r.done = true
		runtime.SetFinalizer(r, nil)
		return *p, nil
	}
}

// Close releases this Receiver's interest in the channel, equivalent
// to dropping it. A Sender that has not yet sent will subsequently
// fail with SendError when it tries to. Any payload that was sent but
// never received is discarded. Close is idempotent.
func (r *Receiver[T]) Close() {
	if r.done {
		return
	}
	r.done = true
	runtime.SetFinalizer(r, nil)
	r.c.slot.Swap(dropped[T]())
}
