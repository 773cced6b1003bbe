// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpsc

import "errors"

// ErrEmpty means no item is currently available, but at least one
// Sender is still alive and may produce one.
var ErrEmpty = errors.New("mpsc: empty")

// ErrDisconnected means no item is available and none can ever arrive:
// every Sender handle for this channel has been closed.
var ErrDisconnected = errors.New("mpsc: disconnected")

// SendError is returned by Sender.Send when the Receiver has already
// been closed. Item is the value that could not be delivered.
type SendError[T any] struct {
	Item T
}

func (e *SendError[T]) Error() string {
	return "mpsc: send on a channel whose receiver has been dropped"
}

func (e *SendError[T]) peerGone() bool { return true }

// TrySendError is returned by SyncSender.TrySend. Full reports whether
// the channel was at capacity (true) or the receiver was gone (false);
// either way Item is the value that could not be admitted.
type TrySendError[T any] struct {
	Item T
	Full bool
}

func (e *TrySendError[T]) Error() string {
	if e.Full {
		return "mpsc: channel is at capacity"
	}
	return "mpsc: send on a channel whose receiver has been dropped"
}

// fullFlag and peerGoneFlag let IsFull/IsDisconnected classify
// SendError/TrySendError without knowing their type parameter: neither
// method has T in its signature, so every instantiation of either
// generic error type satisfies the corresponding interface.
type fullFlag interface{ isFull() bool }
type peerGoneFlag interface{ peerGone() bool }

func (e *TrySendError[T]) isFull() bool   { return e.Full }
func (e *TrySendError[T]) peerGone() bool { return !e.Full }

// IsEmpty reports whether err is ErrEmpty.
func IsEmpty(err error) bool { return errors.Is(err, ErrEmpty) }

// IsDisconnected reports whether err signals that the peer is
// permanently gone: ErrDisconnected, a SendError, or a TrySendError
// caused by a dropped receiver rather than a full queue.
func IsDisconnected(err error) bool {
	if errors.Is(err, ErrDisconnected) {
		return true
	}
	var g peerGoneFlag
	return errors.As(err, &g) && g.peerGone()
}

// IsFull reports whether err is a TrySendError caused by the bounded
// channel being at capacity.
func IsFull(err error) bool {
	var f fullFlag
	return errors.As(err, &f) && f.isFull()
}
