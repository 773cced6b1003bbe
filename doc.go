// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package nbchan is the module root for non-blocking in-process
// message channels.
//
// Two channel flavors live in their own sub-packages:
//
//   - [code.hybscloud.com/nbchan/oneshot]: a single-use handshake
//     carrying at most one value from one sender to one receiver.
//   - [code.hybscloud.com/nbchan/mpsc]: an unbounded (or bounded)
//     FIFO channel from many concurrent producers to one consumer.
//
// Both packages share the same non-negotiable properties:
//
//  1. Every operation is non-blocking. Send either succeeds, fails
//     because the peer is gone, or (bounded MPSC only) fails because
//     the queue is full. Receive either returns a value, reports
//     Empty, or reports Disconnected. There is no blocking recv, no
//     select, and no timeout machinery — poll TryRecv at your own
//     cadence.
//  2. Disconnection is detected deterministically. Closing (or simply
//     letting the garbage collector finalize) one end causes the
//     other end's subsequent operations to observe disconnection.
//
// The lock-free singly-linked FIFO queue used by mpsc lives in
// internal/queue and is not part of the public API; the three-state
// atomic cell used by oneshot lives in the oneshot package itself.
//
// # Dependencies
//
// internal/queue and mpsc use [code.hybscloud.com/atomix] for shared
// counters with explicit memory ordering (the tail cursor, node links
// and oneshot cell use sync/atomic.Pointer), and
// [code.hybscloud.com/spin] backs the FIFO's tail-cursor CAS retry
// loop — the only retry loop in this module; oneshot's single atomic
// cell is wait-free and needs none. [code.hybscloud.com/iox.Backoff]
// is the recommended way for callers to pace a TryRecv poll loop (see
// the mpsc package doc comment); it is imported only by mpsc's stress
// test, not by the library packages, which never block or retry on
// the caller's behalf.
package nbchan
